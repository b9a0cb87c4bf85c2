package gokons

import (
	"fmt"
	"os"
	"path/filepath"
)

// ConfirmFunc asks the user to approve a destructive action. The CLI
// wires an interactive prompt; tests wire a stub.
type ConfirmFunc func(prompt string) bool

// DeleteResult reports what a delete or clean removed.
type DeleteResult struct {
	BankID  string
	Cleaned bool // source bank: stray kits removed, configured range kept
	Removed int
}

// DeleteBank removes a bank after confirmation. Regular banks are
// deleted whole. Source banks are never deleted; with force they are
// cleaned instead: kit files outside the bank's configured range are
// removed and the source kits stay.
func (c *Card) DeleteBank(bankID string, confirm ConfirmFunc, force bool) (DeleteResult, error) {
	if !c.Mounted() {
		return DeleteResult{}, fmt.Errorf("%w at %s", ErrCardNotMounted, c.cfg.CardPath)
	}
	if !c.BankExists(bankID) {
		return DeleteResult{}, fmt.Errorf("%w: %s", ErrBankNotFound, bankID)
	}

	if c.cfg.IsSourceBank(bankID) {
		if !force {
			return DeleteResult{}, fmt.Errorf("%w: bank %s (use force to clean stray kits)", ErrSourceBank, bankID)
		}
		return c.cleanSourceBank(bankID, confirm)
	}

	count := c.KitCount(bankID)
	prompt := fmt.Sprintf("Delete bank %s (%d kits)? This cannot be undone.", bankID, count)
	if confirm == nil || !confirm(prompt) {
		return DeleteResult{}, fmt.Errorf("delete bank %s: %w", bankID, ErrCanceled)
	}

	if err := os.RemoveAll(c.BankDir(bankID)); err != nil {
		return DeleteResult{}, fmt.Errorf("delete bank %s: %w", bankID, err)
	}

	c.log.WithStr("bank", bankID).WithInt("kits", count).Info("bank deleted")
	return DeleteResult{BankID: bankID, Removed: count}, nil
}

func (c *Card) cleanSourceBank(bankID string, confirm ConfirmFunc) (DeleteResult, error) {
	var first, last int
	for _, sb := range c.cfg.SourceBanks {
		if sb.ID == bankID {
			first, last = sb.FirstKit, sb.LastKit
		}
	}

	files, err := c.kitFiles(bankID)
	if err != nil {
		return DeleteResult{}, err
	}

	// Removal goes by the file names actually on the card, not by
	// rebuilt zero-padded paths, so strays like "9.KIT" are caught too.
	var stray []kitFile
	for _, f := range files {
		if f.num < first || f.num > last {
			stray = append(stray, f)
		}
	}
	if len(stray) == 0 {
		return DeleteResult{BankID: bankID, Cleaned: true}, nil
	}

	prompt := fmt.Sprintf("Clean source bank %s: remove %d kits outside %02d-%02d, keep the rest?",
		bankID, len(stray), first, last)
	if confirm == nil || !confirm(prompt) {
		return DeleteResult{}, fmt.Errorf("clean bank %s: %w", bankID, ErrCanceled)
	}

	removed := 0
	for _, f := range stray {
		if err := os.Remove(filepath.Join(c.KitsDir(bankID), f.name)); err != nil {
			return DeleteResult{BankID: bankID, Cleaned: true, Removed: removed},
				fmt.Errorf("clean bank %s: %w", bankID, err)
		}
		removed++
	}

	c.log.WithStr("bank", bankID).WithInt("kits", removed).Info("source bank cleaned")
	return DeleteResult{BankID: bankID, Cleaned: true, Removed: removed}, nil
}
