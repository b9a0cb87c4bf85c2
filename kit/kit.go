package kit

import (
	"bytes"
	"fmt"
)

// Header layout, decoded from the 64 factory kits. Bytes 7+ are opaque
// and preserved verbatim.
const (
	headerMinSize = 7

	headerByteFileSize   = 0 // file size - 2
	headerByteHeaderSize = 5 // header size - 2

	// DefaultHeaderSize is the most common header length on factory cards.
	DefaultHeaderSize = 57
)

var headerConstants = map[int]byte{
	1: 0x01,
	2: 0x08,
	3: 0x01,
	4: 0x12,
	6: 0x0D,
}

// Sub-formats of the on-card kit file. Sub-format 1 carries a 30-byte
// voice 4; sub-format 2 carries a 32-byte voice 4 with a sampler section.
const (
	SubFormat1 = 1
	SubFormat2 = 2
)

// Kit is one complete device preset: a variable-length header plus four
// voices. A Kit owns independent copies of all its buffers.
type Kit struct {
	header []byte
	voices [4]*Voice
}

// findMarkers scans data left to right and returns every position where
// the marker sequence occurs. Every offset is checked, so matches may
// overlap; the header length can only be recovered this way because it
// is not stored portably anywhere in the file.
func findMarkers(data []byte) []int {
	var positions []int
	for i := 0; i+len(Marker) <= len(data); i++ {
		if bytes.Equal(data[i:i+len(Marker)], Marker[:]) {
			positions = append(positions, i)
		}
	}
	return positions
}

// Decode parses a .KIT file buffer. Voice boundaries are discovered by
// locating the four marker occurrences: each voice starts 4 bytes before
// its marker, spans to the next voice start (end of buffer for voice 4),
// and the header is everything before voice 1. A buffer with any other
// marker count fails with ErrMalformedKit; no partial Kit is returned.
func Decode(data []byte) (*Kit, error) {
	positions := findMarkers(data)
	if len(positions) != 4 {
		return nil, fmt.Errorf("%w, found %d", ErrMalformedKit, len(positions))
	}

	starts := make([]int, 4)
	for i, pos := range positions {
		starts[i] = pos - 4
	}
	if starts[0] < 0 {
		return nil, fmt.Errorf("%w: first voice starts before buffer", ErrMalformedKit)
	}

	k := &Kit{header: bytes.Clone(data[:starts[0]])}
	for i := 0; i < 4; i++ {
		end := len(data)
		if i < 3 {
			end = starts[i+1]
		}
		v, err := NewVoice(data[starts[i]:end])
		if err != nil {
			return nil, fmt.Errorf("voice %d: %w", i+1, err)
		}
		k.voices[i] = v
	}

	return k, nil
}

// SynthesizeHeader builds a valid header for a new kit of the given
// sub-format. Known fixed bytes are written; bytes 7+ stay zero.
func SynthesizeHeader(headerSize, subFormat int) ([]byte, error) {
	if headerSize < headerMinSize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidHeaderSize, headerSize)
	}
	voiceDataSize, err := voiceDataSize(subFormat)
	if err != nil {
		return nil, err
	}
	// The size field is a single byte holding file size - 2.
	if headerSize+voiceDataSize-2 > 0xFF {
		return nil, fmt.Errorf("%w: %d-byte file does not fit the size field",
			ErrInvalidHeaderSize, headerSize+voiceDataSize)
	}

	header := make([]byte, headerSize)
	header[headerByteFileSize] = byte(headerSize + voiceDataSize - 2)
	header[headerByteHeaderSize] = byte(headerSize - 2)
	for i, b := range headerConstants {
		header[i] = b
	}
	return header, nil
}

func voiceDataSize(subFormat int) (int, error) {
	switch subFormat {
	case SubFormat1:
		return 3*StandardSize + ExtendedSize, nil
	case SubFormat2:
		return 3*StandardSize + SamplerSize, nil
	default:
		return 0, fmt.Errorf("%w: got %d", ErrInvalidSubFormat, subFormat)
	}
}

// New builds an empty kit of the given sub-format: a synthesized
// 57-byte header plus four zero-filled voices with markers pre-set.
func New(subFormat int) (*Kit, error) {
	header, err := SynthesizeHeader(DefaultHeaderSize, subFormat)
	if err != nil {
		return nil, err
	}

	voice4 := Extended
	if subFormat == SubFormat2 {
		voice4 = Sampler
	}

	return &Kit{
		header: header,
		voices: [4]*Voice{
			NewEmptyVoice(Standard),
			NewEmptyVoice(Standard),
			NewEmptyVoice(Standard),
			NewEmptyVoice(voice4),
		},
	}, nil
}

// NewWithHeader builds an empty sub-format 1 kit carrying a copy of the
// supplied header. The header is opaque here: it is not validated, so a
// template header lifted from an existing kit passes through verbatim.
func NewWithHeader(header []byte) (*Kit, error) {
	if len(header) < headerMinSize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidHeaderSize, len(header))
	}

	k, err := New(SubFormat1)
	if err != nil {
		return nil, err
	}
	k.header = bytes.Clone(header)
	return k, nil
}

// Encode serializes the kit back to its on-card byte form: header bytes
// followed by each voice in order. Untouched bytes round-trip exactly.
func (k *Kit) Encode() []byte {
	buf := bytes.NewBuffer(make([]byte, 0, k.Size()))
	buf.Write(k.header)
	for _, v := range k.voices {
		buf.Write(v.data)
	}
	return buf.Bytes()
}

// Size returns the encoded length in bytes.
func (k *Kit) Size() int {
	n := len(k.header)
	for _, v := range k.voices {
		n += v.Size()
	}
	return n
}

// Header returns a copy of the header bytes.
func (k *Kit) Header() []byte {
	return bytes.Clone(k.header)
}

// SetHeader replaces the header bytes.
func (k *Kit) SetHeader(header []byte) error {
	if len(header) < headerMinSize {
		return fmt.Errorf("%w: got %d", ErrInvalidHeaderSize, len(header))
	}
	k.header = bytes.Clone(header)
	return nil
}

// SubFormat reports the kit's sub-format, inferred from voice 4.
func (k *Kit) SubFormat() int {
	if k.voices[3].Kind() == Sampler {
		return SubFormat2
	}
	return SubFormat1
}

// Voice returns a copy of the voice at index 0-3.
func (k *Kit) Voice(index int) (*Voice, error) {
	if index < 0 || index > 3 {
		return nil, fmt.Errorf("%w: got %d", ErrIndexOutOfRange, index)
	}
	return k.voices[index].Clone(), nil
}

// defaultExtraParams is appended when a 26-byte voice lands in slot 3.
// The device firmware rejects all-zero extra params there, so the
// documented non-zero default is used instead.
var defaultExtraParams = [4]byte{1, 0, 1, 0}

// SetVoice places a copy of the voice at index 0-3, converting between
// kinds as needed so voices move freely between sub-formats:
//
//   - Slots 0-2 hold Standard voices. A longer voice is truncated to its
//     first 26 bytes, discarding the extra and sampler sections.
//   - Slot 3 accepts Extended and Sampler voices as-is. A Standard voice
//     is upgraded by appending the default extra params, plus two zero
//     sampler bytes when the kit's current slot-3 voice is Sampler kind.
//
// The kit is left unmodified on failure.
func (k *Kit) SetVoice(index int, v *Voice) error {
	if index < 0 || index > 3 {
		return fmt.Errorf("%w: got %d", ErrIndexOutOfRange, index)
	}

	converted, err := k.convertForSlot(index, v)
	if err != nil {
		return err
	}

	k.voices[index] = converted
	return nil
}

func (k *Kit) convertForSlot(index int, v *Voice) (*Voice, error) {
	if index < 3 {
		switch v.Kind() {
		case Standard:
			return v.Clone(), nil
		case Extended, Sampler:
			return NewVoice(v.data[:StandardSize])
		}
		return nil, fmt.Errorf("%w: voice %d must be %d bytes", ErrIncompatibleVoiceKind, index+1, StandardSize)
	}

	switch v.Kind() {
	case Extended, Sampler:
		return v.Clone(), nil
	case Standard:
		data := make([]byte, 0, SamplerSize)
		data = append(data, v.data...)
		data = append(data, defaultExtraParams[:]...)
		if k.voices[3].Kind() == Sampler {
			data = append(data, 0, 0)
		}
		return NewVoice(data)
	}
	return nil, fmt.Errorf("%w: voice 4 must be %d, %d, or %d bytes",
		ErrIncompatibleVoiceKind, StandardSize, ExtendedSize, SamplerSize)
}

// Warnings collects the non-fatal anomalies of all four voices.
func (k *Kit) Warnings() []error {
	var warns []error
	for i, v := range k.voices {
		for _, w := range v.Warnings() {
			warns = append(warns, fmt.Errorf("voice %d: %w", i+1, w))
		}
	}
	return warns
}
