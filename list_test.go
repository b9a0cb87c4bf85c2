package gokons

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatKitRanges(t *testing.T) {
	tests := []struct {
		name string
		kits []int
		want string
	}{
		{name: "empty", kits: nil, want: ""},
		{name: "single kit", kits: []int{5}, want: "5"},
		{name: "one run", kits: []int{0, 1, 2, 3}, want: "0..3"},
		{name: "runs and single", kits: []int{0, 1, 2, 5, 6, 10}, want: "0..2, 5..6, 10"},
		{name: "no runs", kits: []int{0, 2, 4, 6}, want: "0, 2, 4, 6"},
		{name: "pair", kits: []int{7, 8}, want: "7..8"},
		{name: "full bank", kits: seq(0, 63), want: "0..63"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatKitRanges(tt.kits))
		})
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		name string
		n    int64
		want string
	}{
		{name: "zero", n: 0, want: "0 B"},
		{name: "bytes", n: 660, want: "660 B"},
		{name: "one kilobyte", n: 1024, want: "1.0 KB"},
		{name: "kilobytes", n: 1536, want: "1.5 KB"},
		{name: "megabytes", n: 2 << 20, want: "2.0 MB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatSize(tt.n))
		})
	}
}

func seq(first, last int) []int {
	out := make([]int, 0, last-first+1)
	for i := first; i <= last; i++ {
		out = append(out, i)
	}
	return out
}

func TestBanks(t *testing.T) {
	card := testCard(t)

	_, err := card.Randomize(RandomizeOptions{OutputBank: "10", Count: 3, Seed: 1})
	require.NoError(t, err)

	// An empty bank directory must not be listed.
	require.NoError(t, os.MkdirAll(card.BankDir("30"), 0755))

	banks, err := card.Banks()
	require.NoError(t, err)
	require.Len(t, banks, 3)

	assert.Equal(t, "01", banks[0].ID)
	assert.True(t, banks[0].Source)
	assert.Equal(t, []int{0, 1, 2, 3}, banks[0].Kits)
	// Four 165-byte sub-format 1 kits.
	assert.Equal(t, int64(4*165), banks[0].Bytes)

	assert.Equal(t, "02", banks[1].ID)
	assert.True(t, banks[1].Source)

	assert.Equal(t, "10", banks[2].ID)
	assert.False(t, banks[2].Source)
	assert.Equal(t, "0..2", FormatKitRanges(banks[2].Kits))
}
