// Package gokons manages Perkons HD-01 kit banks on an SD card: loading
// and saving .KIT files, scanning banks, and generating new kits by
// mixing voices from the factory source banks.
package gokons

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/arvld/gokons/config"
	"github.com/arvld/gokons/kit"
	"github.com/arvld/gokons/logger"
	"github.com/google/uuid"
)

var (
	ErrCardNotMounted = errors.New("card not mounted")
	ErrBankNotFound   = errors.New("bank not found")
	ErrBankNotEmpty   = errors.New("bank already contains kits")
	ErrSourceBank     = errors.New("source banks are read-only")
	ErrKitNotFound    = errors.New("kit file not found")
	ErrCanceled       = errors.New("canceled")
)

// Card is one mounted Perkons SD card. All paths derive from the
// explicit config; nothing reads ambient global state.
type Card struct {
	cfg config.Config
	log logger.Logger
}

func NewCard(cfg config.Config, log logger.Logger) *Card {
	if log == nil {
		log = logger.Nop()
	}
	return &Card{cfg: cfg, log: log}
}

func (c *Card) Config() config.Config {
	return c.cfg
}

// Mounted reports whether the card path exists and is a directory.
func (c *Card) Mounted() bool {
	info, err := os.Stat(c.cfg.CardPath)
	return err == nil && info.IsDir()
}

func (c *Card) BanksDir() string {
	return filepath.Join(c.cfg.CardPath, c.cfg.BanksDir)
}

func (c *Card) BankDir(bankID string) string {
	return filepath.Join(c.BanksDir(), bankID)
}

func (c *Card) KitsDir(bankID string) string {
	return filepath.Join(c.BankDir(bankID), c.cfg.KitsDir)
}

// KitFilename formats a kit number as its on-card file name.
func KitFilename(kitNum int) string {
	return fmt.Sprintf("%02d.KIT", kitNum)
}

func (c *Card) KitPath(bankID string, kitNum int) string {
	return filepath.Join(c.KitsDir(bankID), KitFilename(kitNum))
}

// LoadKit reads and decodes one kit file. Filesystem errors pass
// through wrapped; decode errors come from the kit package.
func (c *Card) LoadKit(bankID string, kitNum int) (*kit.Kit, error) {
	path := c.KitPath(bankID, kitNum)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s:%02d", ErrKitNotFound, bankID, kitNum)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	k, err := kit.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	for _, warn := range k.Warnings() {
		c.log.WithStr("kit", fmt.Sprintf("%s:%02d", bankID, kitNum)).Warn(warn.Error())
	}

	return k, nil
}

// SaveKit encodes a kit and writes it whole. The write lands in a
// uniquely named temp file first and is renamed into place, so a
// crashed save never leaves a truncated .KIT behind.
func (c *Card) SaveKit(bankID string, kitNum int, k *kit.Kit) error {
	if err := os.MkdirAll(c.KitsDir(bankID), 0755); err != nil {
		return fmt.Errorf("create kits dir: %w", err)
	}

	path := c.KitPath(bankID, kitNum)
	tmp := fmt.Sprintf("%s.tmp-%s", path, uuid.NewString()[:8])

	if err := os.WriteFile(tmp, k.Encode(), 0644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", tmp, err)
	}

	c.log.WithStr("path", path).WithInt("bytes", k.Size()).Info("kit saved")
	return nil
}

// kitFile is one kit file as it actually sits on the card. The name is
// kept alongside the parsed number because on-card names are not always
// zero-padded ("9.KIT" and "09.KIT" both mean kit 9).
type kitFile struct {
	num  int
	name string
	size int64
}

// kitFiles returns every kit file in a bank in directory order,
// including duplicates that differ only in spelling. Files whose stem
// is not a number in 0-63, or whose extension is not .KIT in any case,
// are skipped.
func (c *Card) kitFiles(bankID string) ([]kitFile, error) {
	entries, err := os.ReadDir(c.KitsDir(bankID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read bank %s: %w", bankID, err)
	}

	var files []kitFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := filepath.Ext(name)
		if !strings.EqualFold(ext, ".KIT") {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSuffix(name, ext))
		if err != nil || n < 0 || n > 63 {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", name, err)
		}
		files = append(files, kitFile{num: n, name: name, size: info.Size()})
	}
	return files, nil
}

// KitNumbers returns the sorted, deduplicated kit numbers present in a
// bank.
func (c *Card) KitNumbers(bankID string) ([]int, error) {
	files, err := c.kitFiles(bankID)
	if err != nil {
		return nil, err
	}

	seen := make(map[int]bool)
	var numbers []int
	for _, f := range files {
		if seen[f.num] {
			continue
		}
		seen[f.num] = true
		numbers = append(numbers, f.num)
	}

	sort.Ints(numbers)
	return numbers, nil
}

func (c *Card) KitCount(bankID string) int {
	numbers, err := c.KitNumbers(bankID)
	if err != nil {
		return 0
	}
	return len(numbers)
}

func (c *Card) BankExists(bankID string) bool {
	info, err := os.Stat(c.BankDir(bankID))
	return err == nil && info.IsDir()
}

// BankEmpty reports whether a bank holds no kit files. A missing bank
// counts as empty.
func (c *Card) BankEmpty(bankID string) bool {
	return c.KitCount(bankID) == 0
}

// ensureWritable guards destructive writes: the card must be mounted,
// source banks are off limits, and a bank with existing kits is only
// touched when force is set.
func (c *Card) ensureWritable(bankID string, force bool) error {
	if !c.Mounted() {
		return fmt.Errorf("%w at %s", ErrCardNotMounted, c.cfg.CardPath)
	}
	if c.cfg.IsSourceBank(bankID) {
		return fmt.Errorf("%w: bank %s", ErrSourceBank, bankID)
	}
	if !force && !c.BankEmpty(bankID) {
		return fmt.Errorf("%w: bank %s has %d kits (use force to overwrite)", ErrBankNotEmpty, bankID, c.KitCount(bankID))
	}
	return nil
}

// ValidateSourceBanks checks that every configured source bank exists
// and holds at least one kit.
func (c *Card) ValidateSourceBanks() error {
	if !c.Mounted() {
		return fmt.Errorf("%w at %s", ErrCardNotMounted, c.cfg.CardPath)
	}
	if _, err := os.Stat(c.BanksDir()); err != nil {
		return fmt.Errorf("banks directory not found at %s: %w", c.BanksDir(), err)
	}

	var missing, empty []string
	for _, sb := range c.cfg.SourceBanks {
		if !c.BankExists(sb.ID) {
			missing = append(missing, sb.ID)
			continue
		}
		if c.BankEmpty(sb.ID) {
			empty = append(empty, sb.ID)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("source banks not found: %s", strings.Join(missing, ", "))
	}
	if len(empty) > 0 {
		return fmt.Errorf("source banks are empty: %s", strings.Join(empty, ", "))
	}
	return nil
}

// LoadSourceKits loads every kit from the configured source banks, in
// config order then kit-number order. Kits that fail to decode are
// logged and skipped; the pool order is what makes seeded generation
// reproducible, so it must not depend on anything but the directory
// contents.
func (c *Card) LoadSourceKits() ([]*kit.Kit, error) {
	if err := c.ValidateSourceBanks(); err != nil {
		return nil, err
	}

	var kits []*kit.Kit
	for _, sb := range c.cfg.SourceBanks {
		for kitNum := sb.FirstKit; kitNum <= sb.LastKit; kitNum++ {
			k, err := c.LoadKit(sb.ID, kitNum)
			if err != nil {
				if errors.Is(err, ErrKitNotFound) {
					continue
				}
				c.log.WithStr("bank", sb.ID).WithInt("kit", kitNum).Warn(err.Error())
				continue
			}
			kits = append(kits, k)
		}
	}

	if len(kits) == 0 {
		return nil, fmt.Errorf("no loadable kits in source banks")
	}
	return kits, nil
}

func (c *Card) sourceBankIDs() []string {
	ids := make([]string, 0, len(c.cfg.SourceBanks))
	for _, sb := range c.cfg.SourceBanks {
		ids = append(ids, sb.ID)
	}
	return ids
}

// writeBankInfo drops an info.md note next to a generated bank's KITS
// directory recording how its contents were produced, so a card full of
// generated banks can be audited later.
func (c *Card) writeBankInfo(bankID, content string) error {
	path := filepath.Join(c.BankDir(bankID), "info.md")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
