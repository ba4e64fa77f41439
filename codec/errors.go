package codec

import (
	"errors"
	"fmt"

	"github.com/aseform/asefile/binaryio"
)

// Kind categorizes a codec Error, mirroring the failure taxonomy of
// the source format's error handling design.
type Kind int

const (
	KindUnsupportedFormat Kind = iota
	KindInvalidFileMagic
	KindBadFrameMagic
	KindUnknownColorDepth
	KindUnexpectedEOF
	KindInvalidData
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindUnsupportedFormat:
		return "unsupported format"
	case KindInvalidFileMagic:
		return "invalid file magic"
	case KindBadFrameMagic:
		return "bad frame magic"
	case KindUnknownColorDepth:
		return "unknown color depth"
	case KindUnexpectedEOF:
		return "unexpected eof"
	case KindInvalidData:
		return "invalid data"
	case KindIO:
		return "io error"
	default:
		return "unknown"
	}
}

// Error is the codec package's error type. Sentinel values below carry
// only a Kind and match any Error of the same Kind via Is, so callers
// can write errors.Is(err, codec.ErrInvalidFileMagic).
type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Detail != "" && e.Err != nil:
		return fmt.Sprintf("codec: %s: %s: %v", e.Kind, e.Detail, e.Err)
	case e.Detail != "":
		return fmt.Sprintf("codec: %s: %s", e.Kind, e.Detail)
	case e.Err != nil:
		return fmt.Sprintf("codec: %s: %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("codec: %s", e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports Kind equality against another *Error, so the package's
// sentinel values work with errors.Is regardless of Detail/Err.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func newError(kind Kind, detail string, err error) *Error {
	return &Error{Kind: kind, Detail: detail, Err: err}
}

// Sentinel errors for the taxonomy in spec §7.
var (
	ErrUnsupportedFormat = &Error{Kind: KindUnsupportedFormat}
	ErrInvalidFileMagic  = &Error{Kind: KindInvalidFileMagic}
	ErrBadFrameMagic     = &Error{Kind: KindBadFrameMagic}
	ErrUnknownColorDepth = &Error{Kind: KindUnknownColorDepth}
	ErrUnexpectedEOF     = &Error{Kind: KindUnexpectedEOF}
	ErrInvalidData       = &Error{Kind: KindInvalidData}
	ErrIO                = &Error{Kind: KindIO}
)

// wrapBinaryErr classifies an error surfaced by package binaryio (or
// the underlying io.ReadSeeker) into the codec taxonomy.
func wrapBinaryErr(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, binaryio.ErrUnexpectedEOF):
		return newError(KindUnexpectedEOF, "", err)
	case errors.Is(err, binaryio.ErrInvalidData):
		return newError(KindInvalidData, "", err)
	default:
		return newError(KindIO, "", err)
	}
}
