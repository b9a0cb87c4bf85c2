package gokons

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// BankInfo summarizes one non-empty bank for listings.
type BankInfo struct {
	ID     string
	Kits   []int
	Bytes  int64
	Source bool
}

// Banks scans the card and returns every bank that holds at least one
// kit, sorted by bank ID.
func (c *Card) Banks() ([]BankInfo, error) {
	if !c.Mounted() {
		return nil, fmt.Errorf("%w at %s", ErrCardNotMounted, c.cfg.CardPath)
	}

	entries, err := os.ReadDir(c.BanksDir())
	if err != nil {
		return nil, fmt.Errorf("read banks directory: %w", err)
	}

	var banks []BankInfo
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		bankID := entry.Name()
		files, err := c.kitFiles(bankID)
		if err != nil || len(files) == 0 {
			continue
		}

		var bytes int64
		seen := make(map[int]bool)
		var kits []int
		for _, f := range files {
			bytes += f.size
			if seen[f.num] {
				continue
			}
			seen[f.num] = true
			kits = append(kits, f.num)
		}
		sort.Ints(kits)

		banks = append(banks, BankInfo{
			ID:     bankID,
			Kits:   kits,
			Bytes:  bytes,
			Source: c.cfg.IsSourceBank(bankID),
		})
	}

	sort.Slice(banks, func(i, j int) bool { return banks[i].ID < banks[j].ID })
	return banks, nil
}

// FormatSize renders a byte count the way the bank listing shows it.
func FormatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}

// FormatKitRanges renders sorted kit numbers compactly, collapsing
// contiguous runs: [0 1 2 5 6 10] becomes "0..2, 5..6, 10".
func FormatKitRanges(kitNumbers []int) string {
	if len(kitNumbers) == 0 {
		return ""
	}

	var ranges []string
	start, end := kitNumbers[0], kitNumbers[0]

	flush := func() {
		if start == end {
			ranges = append(ranges, fmt.Sprintf("%d", start))
		} else {
			ranges = append(ranges, fmt.Sprintf("%d..%d", start, end))
		}
	}

	for _, n := range kitNumbers[1:] {
		if n == end+1 {
			end = n
			continue
		}
		flush()
		start, end = n, n
	}
	flush()

	return strings.Join(ranges, ", ")
}
