package gokons

import (
	"testing"

	"github.com/arvld/gokons/kit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspect(t *testing.T) {
	card := testCard(t)

	report, err := card.Inspect("02", 6)
	require.NoError(t, err)

	assert.Equal(t, "02", report.BankID)
	assert.Equal(t, 6, report.KitNum)
	assert.Equal(t, kit.SubFormat2, report.SubFormat)
	assert.Equal(t, kit.DefaultHeaderSize, report.HeaderSize)
	assert.Equal(t, kit.DefaultHeaderSize+110, report.TotalSize)
	assert.Empty(t, report.Warnings)

	for slot, vr := range report.Voices {
		assert.Equal(t, slot, vr.Index)
		assert.Equal(t, byte(6), vr.Params[kit.Tune])
		assert.Equal(t, byte(100+slot), vr.Params[kit.Level])
	}
	assert.Equal(t, kit.Sampler, report.Voices[3].Kind)
	assert.Contains(t, report.Voices[0].Describe(), "tune=6")
}

func TestInspectMissingKit(t *testing.T) {
	card := testCard(t)

	_, err := card.Inspect("01", 40)
	assert.ErrorIs(t, err, ErrKitNotFound)
}
