package gokons

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/arvld/gokons/kit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectTemplateHeader(t *testing.T) {
	card := testCard(t)
	pool, err := card.LoadSourceKits()
	require.NoError(t, err)

	t.Run("prefers sampler-format header from pool", func(t *testing.T) {
		header, err := SelectTemplateHeader(pool)
		require.NoError(t, err)
		// First sub-format 2 kit in the pool is bank 02 kit 4.
		assert.Equal(t, pool[4].Header(), header)
	})

	t.Run("synthesizes when pool has no sampler kits", func(t *testing.T) {
		header, err := SelectTemplateHeader(pool[:4])
		require.NoError(t, err)
		want, err := kit.SynthesizeHeader(kit.DefaultHeaderSize, kit.SubFormat2)
		require.NoError(t, err)
		assert.Equal(t, want, header)
	})
}

func TestRandomKitDrawsPerSlot(t *testing.T) {
	card := testCard(t)
	pool, err := card.LoadSourceKits()
	require.NoError(t, err)
	header, err := SelectTemplateHeader(pool)
	require.NoError(t, err)

	k, err := RandomKit(pool, rand.New(rand.NewSource(42)), header)
	require.NoError(t, err)

	assert.Equal(t, header, k.Header())
	for slot := 0; slot < 4; slot++ {
		v, err := k.Voice(slot)
		require.NoError(t, err)
		level, err := v.Param(kit.Level)
		require.NoError(t, err)
		// Voice position is preserved: slot s always came from some
		// pool kit's slot s.
		assert.Equal(t, byte(100+slot), level)
	}
}

func TestRandomKitEmptyPool(t *testing.T) {
	_, err := RandomKit(nil, rand.New(rand.NewSource(1)), nil)
	assert.Error(t, err)
}

func TestRandomizeDeterminism(t *testing.T) {
	card := testCard(t)

	written, err := card.Randomize(RandomizeOptions{OutputBank: "10", Count: 8, Seed: 12345})
	require.NoError(t, err)
	assert.Equal(t, seq(0, 7), written)

	_, err = card.Randomize(RandomizeOptions{OutputBank: "11", Count: 8, Seed: 12345})
	require.NoError(t, err)

	for kitNum := 0; kitNum < 8; kitNum++ {
		a, err := os.ReadFile(card.KitPath("10", kitNum))
		require.NoError(t, err)
		b, err := os.ReadFile(card.KitPath("11", kitNum))
		require.NoError(t, err)
		assert.Equal(t, a, b, "kit %02d must be byte-identical across runs", kitNum)
	}

	// A different seed diverges somewhere in the bank.
	_, err = card.Randomize(RandomizeOptions{OutputBank: "12", Count: 8, Seed: 54321})
	require.NoError(t, err)

	same := true
	for kitNum := 0; kitNum < 8; kitNum++ {
		a, _ := os.ReadFile(card.KitPath("10", kitNum))
		b, _ := os.ReadFile(card.KitPath("12", kitNum))
		if !assert.ObjectsAreEqual(a, b) {
			same = false
		}
	}
	assert.False(t, same)
}

func TestRandomizeGeneratedKitsDecode(t *testing.T) {
	card := testCard(t)

	_, err := card.Randomize(RandomizeOptions{OutputBank: "20", Count: 4, Seed: 7})
	require.NoError(t, err)

	for kitNum := 0; kitNum < 4; kitNum++ {
		k, err := card.LoadKit("20", kitNum)
		require.NoError(t, err)
		// Output uses the sampler-format template header, and voice 4
		// is upgraded or kept accordingly.
		assert.Empty(t, k.Warnings())
		v4, err := k.Voice(3)
		require.NoError(t, err)
		assert.NotEqual(t, kit.Standard, v4.Kind())
	}
}

func TestRandomizeWritesBankInfo(t *testing.T) {
	card := testCard(t)

	_, err := card.Randomize(RandomizeOptions{OutputBank: "25", Count: 3, Seed: 99})
	require.NoError(t, err)

	info, err := os.ReadFile(filepath.Join(card.BankDir("25"), "info.md"))
	require.NoError(t, err)

	content := string(info)
	assert.Contains(t, content, "randomize")
	assert.Contains(t, content, "kits: 3 (0..2)")
	assert.Contains(t, content, "seed: 99")
	assert.Contains(t, content, "source banks: 01, 02")

	// The note lives next to KITS/, not inside it, so kit scanning
	// ignores it.
	numbers, err := card.KitNumbers("25")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, numbers)
}

func TestRandomizeGuards(t *testing.T) {
	card := testCard(t)

	tests := []struct {
		name    string
		opts    RandomizeOptions
		wantErr error
	}{
		{name: "source bank output", opts: RandomizeOptions{OutputBank: "01", Count: 4, Seed: 1}, wantErr: ErrSourceBank},
		{name: "count zero", opts: RandomizeOptions{OutputBank: "10", Count: 0, Seed: 1}},
		{name: "count too large", opts: RandomizeOptions{OutputBank: "10", Count: 65, Seed: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := card.Randomize(tt.opts)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}

	t.Run("non-empty output bank needs force", func(t *testing.T) {
		_, err := card.Randomize(RandomizeOptions{OutputBank: "10", Count: 2, Seed: 1})
		require.NoError(t, err)

		_, err = card.Randomize(RandomizeOptions{OutputBank: "10", Count: 2, Seed: 1})
		assert.ErrorIs(t, err, ErrBankNotEmpty)

		_, err = card.Randomize(RandomizeOptions{OutputBank: "10", Count: 2, Seed: 1, Force: true})
		assert.NoError(t, err)
	})
}
