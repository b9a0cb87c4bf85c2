package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gokons.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaultsAndOverrides(t *testing.T) {
	path := writeConfig(t, `
card_path = "/media/perkons"
log_path = "/tmp/gokons.log"

[[source_banks]]
id = "05"
first_kit = 0
last_kit = 15
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/media/perkons", cfg.CardPath)
	assert.Equal(t, "/tmp/gokons.log", cfg.LogPath)
	// Untouched keys keep defaults.
	assert.Equal(t, "BANKS", cfg.BanksDir)
	assert.Equal(t, "KITS", cfg.KitsDir)
	// Overridden source banks replace the factory pair.
	require.Len(t, cfg.SourceBanks, 1)
	assert.Equal(t, "05", cfg.SourceBanks[0].ID)
	assert.True(t, cfg.IsSourceBank("05"))
	assert.False(t, cfg.IsSourceBank("01"))
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "bad toml", content: `card_path = [`},
		{name: "empty card path", content: `card_path = ""`},
		{name: "bad source bank id", content: "[[source_banks]]\nid = \"xx\"\nfirst_kit = 0\nlast_kit = 1\n"},
		{name: "inverted kit range", content: "[[source_banks]]\nid = \"05\"\nfirst_kit = 10\nlast_kit = 2\n"},
		{name: "kit range past 63", content: "[[source_banks]]\nid = \"05\"\nfirst_kit = 0\nlast_kit = 64\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, Validate(cfg))
	assert.True(t, cfg.IsSourceBank("01"))
	assert.True(t, cfg.IsSourceBank("02"))
	assert.False(t, cfg.IsSourceBank("10"))
}

func TestNormalizeBankID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "single digit", input: "3", want: "03"},
		{name: "two digits", input: "10", want: "10"},
		{name: "zero", input: "0", want: "00"},
		{name: "max", input: "63", want: "63"},
		{name: "padded input", input: " 07 ", want: "07"},
		{name: "too large", input: "64", wantErr: true},
		{name: "negative", input: "-1", wantErr: true},
		{name: "not a number", input: "banks", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeBankID(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseKitSpec(t *testing.T) {
	tests := []struct {
		name     string
		spec     string
		wantBank string
		wantKit  int
		wantErr  bool
	}{
		{name: "factory kit", spec: "01:05", wantBank: "01", wantKit: 5},
		{name: "sampler bank kit", spec: "2:45", wantBank: "02", wantKit: 45},
		{name: "missing colon", spec: "0105", wantErr: true},
		{name: "extra colon", spec: "01:05:2", wantErr: true},
		{name: "kit out of range", spec: "01:64", wantErr: true},
		{name: "bank out of range", spec: "77:05", wantErr: true},
		{name: "non-numeric kit", spec: "01:abc", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bank, kitNum, err := ParseKitSpec(tt.spec)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBank, bank)
			assert.Equal(t, tt.wantKit, kitNum)
		})
	}
}
