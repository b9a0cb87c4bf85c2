package gokons

import (
	"fmt"
	"strings"

	"github.com/arvld/gokons/kit"
)

// VoiceReport is the decoded view of one voice for display.
type VoiceReport struct {
	Index  int
	Kind   kit.Kind
	Size   int
	Params map[kit.Field]byte
}

// KitReport is the decoded view of one kit for display.
type KitReport struct {
	BankID     string
	KitNum     int
	SubFormat  int
	HeaderSize int
	TotalSize  int
	Voices     [4]VoiceReport
	Warnings   []string
}

// Inspect loads one kit and flattens it into a display report, reading
// every scalar field through the layout table.
func (c *Card) Inspect(bankID string, kitNum int) (*KitReport, error) {
	k, err := c.LoadKit(bankID, kitNum)
	if err != nil {
		return nil, err
	}

	report := &KitReport{
		BankID:     bankID,
		KitNum:     kitNum,
		SubFormat:  k.SubFormat(),
		HeaderSize: len(k.Header()),
		TotalSize:  k.Size(),
	}

	for i := 0; i < 4; i++ {
		v, err := k.Voice(i)
		if err != nil {
			return nil, err
		}
		params := make(map[kit.Field]byte, len(kit.Fields))
		for _, f := range kit.Fields {
			value, err := v.Param(f)
			if err != nil {
				return nil, err
			}
			params[f] = value
		}
		report.Voices[i] = VoiceReport{
			Index:  i,
			Kind:   v.Kind(),
			Size:   v.Size(),
			Params: params,
		}
	}

	for _, w := range k.Warnings() {
		report.Warnings = append(report.Warnings, w.Error())
	}

	return report, nil
}

// Describe renders one voice's parameters on a single line.
func (vr VoiceReport) Describe() string {
	parts := make([]string, 0, len(kit.Fields))
	for _, f := range kit.Fields {
		parts = append(parts, fmt.Sprintf("%s=%d", f, vr.Params[f]))
	}
	return strings.Join(parts, " ")
}
