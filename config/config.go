// Package config holds the card configuration for gokons. Every
// collaborator receives an explicit Config; there is no ambient default
// card path in the libraries.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// SourceBank names one read-only bank voices are drawn from, with the
// kit numbers it is expected to hold.
type SourceBank struct {
	ID       string `toml:"id"`
	FirstKit int    `toml:"first_kit"`
	LastKit  int    `toml:"last_kit"`
}

// Config describes one Perkons SD card.
type Config struct {
	CardPath    string       `toml:"card_path"`
	BanksDir    string       `toml:"banks_dir"`
	KitsDir     string       `toml:"kits_dir"`
	SourceBanks []SourceBank `toml:"source_banks"`
	LogPath     string       `toml:"log_path"`
}

// Default returns the stock card layout: banks 01 (kits 00-31) and 02
// (kits 32-63) are the factory source banks.
func Default() Config {
	return Config{
		CardPath: "/Volumes/Untitled",
		BanksDir: "BANKS",
		KitsDir:  "KITS",
		SourceBanks: []SourceBank{
			{ID: "01", FirstKit: 0, LastKit: 31},
			{ID: "02", FirstKit: 32, LastKit: 63},
		},
	}
}

// Load reads a TOML config file on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if meta.IsDefined("source_banks") && len(cfg.SourceBanks) == 0 {
		return Config{}, fmt.Errorf("config %s: source_banks must not be empty", path)
	}

	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks a config for internal consistency.
func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.CardPath) == "" {
		return fmt.Errorf("card_path is required")
	}
	if strings.TrimSpace(cfg.BanksDir) == "" {
		return fmt.Errorf("banks_dir is required")
	}
	if strings.TrimSpace(cfg.KitsDir) == "" {
		return fmt.Errorf("kits_dir is required")
	}
	for i, sb := range cfg.SourceBanks {
		if _, err := NormalizeBankID(sb.ID); err != nil {
			return fmt.Errorf("source_banks[%d]: %w", i, err)
		}
		if sb.FirstKit < 0 || sb.LastKit > 63 || sb.FirstKit > sb.LastKit {
			return fmt.Errorf("source_banks[%d]: kit range %d-%d invalid", i, sb.FirstKit, sb.LastKit)
		}
	}
	return nil
}

// IsSourceBank reports whether the normalized bank ID is one of the
// configured read-only source banks.
func (c Config) IsSourceBank(bankID string) bool {
	for _, sb := range c.SourceBanks {
		if sb.ID == bankID {
			return true
		}
	}
	return false
}

// NormalizeBankID converts user bank input ("3", "03") to the two-digit
// on-card directory name, enforcing the 0-63 range.
func NormalizeBankID(input string) (string, error) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return "", fmt.Errorf("bank must be a number between 0-63, got %q", input)
	}
	if n < 0 || n > 63 {
		return "", fmt.Errorf("bank number must be between 0 and 63, got %d", n)
	}
	return fmt.Sprintf("%02d", n), nil
}

// ParseKitSpec parses a "BANK:KIT" reference like "01:05" into a
// normalized bank ID and kit number.
func ParseKitSpec(spec string) (string, int, error) {
	parts := strings.Split(spec, ":")
	if len(parts) != 2 {
		return "", 0, fmt.Errorf("kit spec must be in format BANK:KIT, got %q", spec)
	}

	bankID, err := NormalizeBankID(parts[0])
	if err != nil {
		return "", 0, err
	}

	kit, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || kit < 0 || kit > 63 {
		return "", 0, fmt.Errorf("kit number must be 00-63, got %q", parts[1])
	}

	return bankID, kit, nil
}
