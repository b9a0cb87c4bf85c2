package gokons

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/arvld/gokons/kit"
)

// VaryOptions controls variation generation for one source kit.
type VaryOptions struct {
	SourceBank string
	SourceKit  int
	OutputBank string
	Count      int
	Mutations  int
	Seed       int64
	Force      bool
}

// VaryKit builds one variation of source: a copy with exactly mutations
// distinct slots replaced by the same-slot voice of a uniformly chosen
// pool kit, so voice positions are preserved. The mutated slot indices
// are returned sorted. Draw order is fixed (one Perm, then one pool
// draw per mutated slot in permutation order) to keep seeded runs
// reproducible.
func VaryKit(source *kit.Kit, pool []*kit.Kit, mutations int, rng *rand.Rand) (*kit.Kit, []int, error) {
	if mutations < 1 || mutations > 4 {
		return nil, nil, fmt.Errorf("mutations must be between 1 and 4, got %d", mutations)
	}
	if len(pool) == 0 {
		return nil, nil, fmt.Errorf("empty kit pool")
	}

	variation, err := kit.NewWithHeader(source.Header())
	if err != nil {
		return nil, nil, err
	}
	for slot := 0; slot < 4; slot++ {
		v, err := source.Voice(slot)
		if err != nil {
			return nil, nil, err
		}
		if err := variation.SetVoice(slot, v); err != nil {
			return nil, nil, err
		}
	}

	mutated := rng.Perm(4)[:mutations]
	for _, slot := range mutated {
		donor := pool[rng.Intn(len(pool))]
		v, err := donor.Voice(slot)
		if err != nil {
			return nil, nil, err
		}
		if err := variation.SetVoice(slot, v); err != nil {
			return nil, nil, err
		}
	}

	sort.Ints(mutated)
	return variation, mutated, nil
}

// Vary generates opts.Count variations of one source kit and writes
// them to the output bank as 00.KIT..NN.KIT. Returns the kit numbers
// written.
func (c *Card) Vary(opts VaryOptions) ([]int, error) {
	if opts.Count < 1 || opts.Count > 64 {
		return nil, fmt.Errorf("count must be between 1 and 64, got %d", opts.Count)
	}
	if opts.Mutations < 1 || opts.Mutations > 4 {
		return nil, fmt.Errorf("mutations must be between 1 and 4, got %d", opts.Mutations)
	}
	if err := c.ensureWritable(opts.OutputBank, opts.Force); err != nil {
		return nil, err
	}

	source, err := c.LoadKit(opts.SourceBank, opts.SourceKit)
	if err != nil {
		return nil, err
	}
	pool, err := c.LoadSourceKits()
	if err != nil {
		return nil, err
	}

	c.log.WithStr("source", fmt.Sprintf("%s:%02d", opts.SourceBank, opts.SourceKit)).
		WithStr("bank", opts.OutputBank).
		WithInt("count", opts.Count).
		WithInt("mutations", opts.Mutations).
		WithAny("seed", opts.Seed).
		Info("generating variations")

	rng := rand.New(rand.NewSource(opts.Seed))
	written := make([]int, 0, opts.Count)
	for kitNum := 0; kitNum < opts.Count; kitNum++ {
		variation, mutated, err := VaryKit(source, pool, opts.Mutations, rng)
		if err != nil {
			return written, fmt.Errorf("generate variation %02d: %w", kitNum, err)
		}
		if err := c.SaveKit(opts.OutputBank, kitNum, variation); err != nil {
			return written, err
		}
		c.log.WithInt("kit", kitNum).WithAny("mutated_slots", mutated).Debug("variation written")
		written = append(written, kitNum)
	}

	info := fmt.Sprintf("# Bank %s\n\nGenerated by gokons vary on %s.\n\n- source kit: %s:%02d\n- kits: %d (%s)\n- mutations: %d\n- seed: %d\n",
		opts.OutputBank, time.Now().Format("2006-01-02 15:04:05"),
		opts.SourceBank, opts.SourceKit,
		len(written), FormatKitRanges(written), opts.Mutations, opts.Seed)
	if err := c.writeBankInfo(opts.OutputBank, info); err != nil {
		return written, err
	}

	return written, nil
}
