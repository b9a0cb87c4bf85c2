package kit

import "errors"

var (
	ErrInvalidVoiceLength    = errors.New("voice data must be 26, 30, or 32 bytes")
	ErrMarkerMismatch        = errors.New("voice marker mismatch")
	ErrMalformedKit          = errors.New("malformed kit: expected 4 voice markers")
	ErrValueOutOfRange       = errors.New("value out of range")
	ErrSectionUnavailable    = errors.New("section not available for this voice kind")
	ErrSectionLengthMismatch = errors.New("section replacement has wrong length")
	ErrIndexOutOfRange       = errors.New("voice index must be 0-3")
	ErrIncompatibleVoiceKind = errors.New("incompatible voice kind for slot")
	ErrInvalidHeaderSize     = errors.New("header size must be at least 7 bytes")
	ErrInvalidSubFormat      = errors.New("sub-format must be 1 or 2")
	ErrUnknownField          = errors.New("unknown voice field")
)
