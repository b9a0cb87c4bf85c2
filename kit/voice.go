// Package kit implements the Perkons HD-01 .KIT binary format: a
// variable-length header followed by four voices, each delimited by the
// marker sequence [26, 24, 10, 22] at voice bytes 4-7.
package kit

import (
	"bytes"
	"fmt"
)

// Marker is the 4-byte sentinel found at bytes 4-7 of every voice.
var Marker = [4]byte{26, 24, 10, 22}

// Voice byte lengths for each kind.
const (
	StandardSize = 26
	ExtendedSize = 30
	SamplerSize  = 32
)

// Kind classifies a voice by its byte length. It is always derived from
// len(data) and never stored, so it cannot drift from the actual buffer.
type Kind int

const (
	Standard Kind = iota // 26 bytes, voices 1-3
	Extended             // 30 bytes, voice 4 without sampler
	Sampler              // 32 bytes, voice 4 with sampler section
)

func (k Kind) String() string {
	switch k {
	case Standard:
		return "standard"
	case Extended:
		return "extended"
	case Sampler:
		return "sampler"
	default:
		return "unknown"
	}
}

// Field identifies one scalar voice parameter.
type Field string

const (
	Algo   Field = "algo"
	Mode   Field = "mode"
	Vcf    Field = "vcf"
	Tune   Field = "tune"
	Param1 Field = "param1"
	Param2 Field = "param2"
	FXSend Field = "fx_send"
	Decay  Field = "decay"
	Cutoff Field = "cutoff"
	Drive  Field = "drive"
	Level  Field = "level"
)

// fieldSpec maps a field to its byte offset and value domain. Toggle
// fields accept 0-2 (switch positions); potentiometers accept the full
// byte range. Each potentiometer has a paired "quantized" byte at
// offset-1 whose relationship to the raw value is undocumented; it is
// carried verbatim and never touched by the setters.
type fieldSpec struct {
	offset int
	max    byte
}

var fieldLayout = map[Field]fieldSpec{
	Algo:   {offset: 0, max: 2},
	Mode:   {offset: 2, max: 2},
	Vcf:    {offset: 24, max: 2},
	Tune:   {offset: 9, max: 255},
	Param1: {offset: 11, max: 255},
	Param2: {offset: 13, max: 255},
	FXSend: {offset: 15, max: 255},
	Decay:  {offset: 17, max: 255},
	Cutoff: {offset: 19, max: 255},
	Drive:  {offset: 21, max: 255},
	Level:  {offset: 23, max: 255},
}

// Fields lists every scalar field in display order.
var Fields = []Field{Algo, Mode, Vcf, Tune, Param1, Param2, FXSend, Decay, Cutoff, Drive, Level}

// Voice is one percussion-voice parameter block. It owns its buffer;
// constructing a Voice copies the input and reading sections returns
// copies, so voices never alias across kits.
type Voice struct {
	data []byte
}

// NewVoice builds a voice from raw bytes. The buffer must be 26, 30, or
// 32 bytes long. A marker mismatch at bytes 4-7 does not fail
// construction (device files occasionally carry corrupted markers that
// still need to round-trip); it is reported through Warnings.
func NewVoice(data []byte) (*Voice, error) {
	switch len(data) {
	case StandardSize, ExtendedSize, SamplerSize:
	default:
		return nil, fmt.Errorf("%w: got %d", ErrInvalidVoiceLength, len(data))
	}

	v := &Voice{data: bytes.Clone(data)}
	return v, nil
}

// NewEmptyVoice builds a zero-filled voice of the given kind with the
// marker bytes pre-set.
func NewEmptyVoice(kind Kind) *Voice {
	size := StandardSize
	switch kind {
	case Extended:
		size = ExtendedSize
	case Sampler:
		size = SamplerSize
	}

	data := make([]byte, size)
	copy(data[4:8], Marker[:])
	return &Voice{data: data}
}

// Kind reports the voice kind, derived from the buffer length.
func (v *Voice) Kind() Kind {
	switch len(v.data) {
	case ExtendedSize:
		return Extended
	case SamplerSize:
		return Sampler
	default:
		return Standard
	}
}

// Size returns the encoded length in bytes.
func (v *Voice) Size() int {
	return len(v.data)
}

// Bytes returns a copy of the raw voice buffer.
func (v *Voice) Bytes() []byte {
	return bytes.Clone(v.data)
}

// Clone returns an independent copy of the voice.
func (v *Voice) Clone() *Voice {
	return &Voice{data: bytes.Clone(v.data)}
}

// MarkerValid reports whether bytes 4-7 equal the expected marker.
func (v *Voice) MarkerValid() bool {
	return bytes.Equal(v.data[4:8], Marker[:])
}

// Warnings reports non-fatal anomalies in the voice buffer. A corrupted
// marker is the only known case.
func (v *Voice) Warnings() []error {
	if v.MarkerValid() {
		return nil
	}
	return []error{fmt.Errorf("%w: expected %v, got %v", ErrMarkerMismatch, Marker[:], v.data[4:8])}
}

// Param reads a scalar field.
func (v *Voice) Param(f Field) (byte, error) {
	spec, ok := fieldLayout[f]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownField, f)
	}
	return v.data[spec.offset], nil
}

// SetParam writes a scalar field, enforcing its value domain. Toggles
// accept 0-2; potentiometers accept 0-255. The voice is left unmodified
// on failure.
func (v *Voice) SetParam(f Field, value int) error {
	spec, ok := fieldLayout[f]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, f)
	}
	if value < 0 || value > int(spec.max) {
		return fmt.Errorf("%w: %s must be 0-%d, got %d", ErrValueOutOfRange, f, spec.max, value)
	}

	v.data[spec.offset] = byte(value)
	return nil
}

// PreMarkerParams returns the 4 bytes before the marker.
func (v *Voice) PreMarkerParams() []byte {
	return bytes.Clone(v.data[0:4])
}

// SetPreMarkerParams replaces the 4 bytes before the marker.
func (v *Voice) SetPreMarkerParams(p []byte) error {
	if len(p) != 4 {
		return fmt.Errorf("%w: pre-marker params must be 4 bytes, got %d", ErrSectionLengthMismatch, len(p))
	}
	copy(v.data[0:4], p)
	return nil
}

// Parameters returns the 18-byte main parameter block (bytes 8-25).
func (v *Voice) Parameters() []byte {
	return bytes.Clone(v.data[8:26])
}

// SetParameters replaces the 18-byte main parameter block.
func (v *Voice) SetParameters(p []byte) error {
	if len(p) != 18 {
		return fmt.Errorf("%w: parameters must be 18 bytes, got %d", ErrSectionLengthMismatch, len(p))
	}
	copy(v.data[8:26], p)
	return nil
}

// ExtraParams returns bytes 26-29, present on Extended and Sampler
// voices only.
func (v *Voice) ExtraParams() ([]byte, error) {
	if v.Kind() == Standard {
		return nil, fmt.Errorf("%w: %s voice has no extra params", ErrSectionUnavailable, v.Kind())
	}
	return bytes.Clone(v.data[26:30]), nil
}

// SetExtraParams replaces bytes 26-29 on Extended and Sampler voices.
func (v *Voice) SetExtraParams(p []byte) error {
	if v.Kind() == Standard {
		return fmt.Errorf("%w: %s voice has no extra params", ErrSectionUnavailable, v.Kind())
	}
	if len(p) != 4 {
		return fmt.Errorf("%w: extra params must be 4 bytes, got %d", ErrSectionLengthMismatch, len(p))
	}
	copy(v.data[26:30], p)
	return nil
}

// SamplerParams returns bytes 30-31, present on Sampler voices only.
func (v *Voice) SamplerParams() ([]byte, error) {
	if v.Kind() != Sampler {
		return nil, fmt.Errorf("%w: %s voice has no sampler params", ErrSectionUnavailable, v.Kind())
	}
	return bytes.Clone(v.data[30:32]), nil
}

// SetSamplerParams replaces bytes 30-31 on Sampler voices.
func (v *Voice) SetSamplerParams(p []byte) error {
	if v.Kind() != Sampler {
		return fmt.Errorf("%w: %s voice has no sampler params", ErrSectionUnavailable, v.Kind())
	}
	if len(p) != 2 {
		return fmt.Errorf("%w: sampler params must be 2 bytes, got %d", ErrSectionLengthMismatch, len(p))
	}
	copy(v.data[30:32], p)
	return nil
}
