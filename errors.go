package xzstream

import (
	"errors"
	"fmt"
	"strings"

	"github.com/discochess/xzstream/internal/liblzma"
)

// Error kinds. Every error returned by a Reader for a codec, container or
// unsupported-operation failure is an *Error that matches exactly one of
// these with errors.Is.
var (
	// ErrResourceExhaustion indicates a native allocation failure or a
	// decoder memory limit being hit.
	ErrResourceExhaustion = errors.New("xzstream: resource exhaustion")

	// ErrUnsupportedConfiguration indicates decoder options the codec
	// rejects, or invalid reader options.
	ErrUnsupportedConfiguration = errors.New("xzstream: unsupported configuration")

	// ErrMalformedContainer indicates an unrecognized container, or a stream
	// footer or index that cannot be decoded.
	ErrMalformedContainer = errors.New("xzstream: malformed container")

	// ErrCorruptData indicates corrupt compressed data or input that ends
	// before the container does.
	ErrCorruptData = errors.New("xzstream: corrupt or truncated data")

	// ErrUnsupportedOperation is returned by Seek, Write, Flush, Position
	// and SetPosition, and by Length on a source that cannot seek.
	ErrUnsupportedOperation = errors.New("xzstream: unsupported operation")

	// ErrUnknownCodecFault indicates a codec status this package does not
	// expect. The raw status is kept in Error.Code.
	ErrUnknownCodecFault = errors.New("xzstream: unknown codec fault")
)

// Sentinel errors for lifecycle conditions.
var (
	// ErrClosed indicates the reader or client has been closed.
	ErrClosed = errors.New("xzstream: closed")

	// ErrNoSource indicates a client was created without a source.
	ErrNoSource = errors.New("xzstream: no source provided")
)

// Error describes a failed operation.
type Error struct {
	// Op is the operation that failed: "open", "read", "length", "seek",
	// "write", "flush", "position" or "set position".
	Op string

	// Kind is one of the Err* kinds above.
	Kind error

	// Status is the codec status name, empty when the codec was not involved.
	Status string

	// Code is the raw codec status; meaningful only when Status is set.
	Code int

	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	msg := "xzstream: " + e.Op + ": " + kindText(e.Kind)
	if e.Status != "" {
		msg += " (" + e.Status + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func kindText(kind error) string {
	if kind == nil {
		return "error"
	}
	return strings.TrimPrefix(kind.Error(), "xzstream: ")
}

// unsupported builds the error returned by the operations a Reader refuses.
func unsupported(op string) error {
	return &Error{Op: op, Kind: ErrUnsupportedOperation}
}

// codecError classifies a liblzma status observed while decoding.
func codecError(op string, status liblzma.Status) *Error {
	var kind error
	switch status {
	case liblzma.StatusMemError, liblzma.StatusMemlimitError:
		kind = ErrResourceExhaustion
	case liblzma.StatusOptionsError:
		kind = ErrUnsupportedConfiguration
	case liblzma.StatusFormatError:
		kind = ErrMalformedContainer
	case liblzma.StatusDataError, liblzma.StatusBufError:
		kind = ErrCorruptData
	default:
		kind = ErrUnknownCodecFault
	}
	return &Error{Op: op, Kind: kind, Status: status.String(), Code: int(status)}
}

// probeError classifies a failure while decoding a footer or index. Anything
// other than memory exhaustion means the container is malformed.
func probeError(err error) *Error {
	var se *liblzma.StatusError
	if errors.As(err, &se) {
		kind := ErrMalformedContainer
		if se.Status == liblzma.StatusMemError || se.Status == liblzma.StatusMemlimitError {
			kind = ErrResourceExhaustion
		}
		return &Error{Op: "length", Kind: kind, Status: se.Status.String(), Code: int(se.Status), Err: err}
	}
	return &Error{Op: "length", Kind: ErrMalformedContainer, Err: err}
}

// openError classifies a failure to create the decoder.
func openError(err error) *Error {
	var se *liblzma.StatusError
	if errors.As(err, &se) {
		e := codecError("open", se.Status)
		e.Err = err
		return e
	}
	return &Error{Op: "open", Kind: ErrUnknownCodecFault, Err: err}
}

func invalidOption(format string, args ...any) *Error {
	return &Error{Op: "open", Kind: ErrUnsupportedConfiguration, Err: fmt.Errorf(format, args...)}
}
