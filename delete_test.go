package gokons

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func acceptAll(string) bool { return true }
func denyAll(string) bool   { return false }

func TestDeleteBank(t *testing.T) {
	card := testCard(t)
	_, err := card.Randomize(RandomizeOptions{OutputBank: "10", Count: 4, Seed: 1})
	require.NoError(t, err)

	t.Run("denied confirmation cancels", func(t *testing.T) {
		_, err := card.DeleteBank("10", denyAll, false)
		assert.ErrorIs(t, err, ErrCanceled)
		assert.True(t, card.BankExists("10"))
	})

	t.Run("nil confirm cancels", func(t *testing.T) {
		_, err := card.DeleteBank("10", nil, false)
		assert.ErrorIs(t, err, ErrCanceled)
	})

	t.Run("confirmed delete removes whole bank", func(t *testing.T) {
		var prompt string
		result, err := card.DeleteBank("10", func(p string) bool {
			prompt = p
			return true
		}, false)
		require.NoError(t, err)

		assert.Equal(t, 4, result.Removed)
		assert.False(t, result.Cleaned)
		assert.Contains(t, prompt, "bank 10")
		assert.Contains(t, prompt, "4 kits")
		assert.False(t, card.BankExists("10"))
	})

	t.Run("missing bank", func(t *testing.T) {
		_, err := card.DeleteBank("40", acceptAll, false)
		assert.ErrorIs(t, err, ErrBankNotFound)
	})
}

func TestDeleteSourceBank(t *testing.T) {
	card := testCard(t)

	t.Run("refused without force", func(t *testing.T) {
		_, err := card.DeleteBank("01", acceptAll, false)
		assert.ErrorIs(t, err, ErrSourceBank)
		assert.True(t, card.BankExists("01"))
	})

	t.Run("force cleans stray kits only", func(t *testing.T) {
		// Bank 01 is configured for kits 0-3; kit 9 is a stray.
		writeTestKit(t, card, "01", 9, 1)
		require.Equal(t, 5, card.KitCount("01"))

		result, err := card.DeleteBank("01", acceptAll, true)
		require.NoError(t, err)

		assert.True(t, result.Cleaned)
		assert.Equal(t, 1, result.Removed)
		numbers, err := card.KitNumbers("01")
		require.NoError(t, err)
		assert.Equal(t, []int{0, 1, 2, 3}, numbers)
	})

	t.Run("clean with nothing stray needs no confirmation", func(t *testing.T) {
		result, err := card.DeleteBank("01", denyAll, true)
		require.NoError(t, err)
		assert.True(t, result.Cleaned)
		assert.Equal(t, 0, result.Removed)
	})

	t.Run("cleans strays whose names are not zero-padded", func(t *testing.T) {
		stray := filepath.Join(card.KitsDir("01"), "9.KIT")
		require.NoError(t, os.WriteFile(stray, []byte{0}, 0644))
		require.Equal(t, 5, card.KitCount("01"))

		result, err := card.DeleteBank("01", acceptAll, true)
		require.NoError(t, err)

		assert.True(t, result.Cleaned)
		assert.Equal(t, 1, result.Removed)
		_, err = os.Stat(stray)
		assert.True(t, os.IsNotExist(err))
		numbers, err := card.KitNumbers("01")
		require.NoError(t, err)
		assert.Equal(t, []int{0, 1, 2, 3}, numbers)
	})
}

func TestDeleteBankUnmounted(t *testing.T) {
	card := testCard(t)
	require.NoError(t, os.RemoveAll(card.Config().CardPath))

	_, err := card.DeleteBank("10", acceptAll, false)
	assert.ErrorIs(t, err, ErrCardNotMounted)
}
