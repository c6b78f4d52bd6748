// Package liblzma binds the subset of liblzma needed to decode xz containers:
// the step-based stream decoder and the stream footer and index decoders.
//
// Numeric values of Status, Action, Check and DecoderFlags mirror lzma.h.
package liblzma

import "fmt"

// Status is a liblzma return code (lzma_ret).
type Status int

const (
	StatusOK               Status = 0
	StatusStreamEnd        Status = 1
	StatusNoCheck          Status = 2
	StatusUnsupportedCheck Status = 3
	StatusGetCheck         Status = 4
	StatusMemError         Status = 5
	StatusMemlimitError    Status = 6
	StatusFormatError      Status = 7
	StatusOptionsError     Status = 8
	StatusDataError        Status = 9
	StatusBufError         Status = 10
	StatusProgError        Status = 11
)

var statusNames = map[Status]string{
	StatusOK:               "LZMA_OK",
	StatusStreamEnd:        "LZMA_STREAM_END",
	StatusNoCheck:          "LZMA_NO_CHECK",
	StatusUnsupportedCheck: "LZMA_UNSUPPORTED_CHECK",
	StatusGetCheck:         "LZMA_GET_CHECK",
	StatusMemError:         "LZMA_MEM_ERROR",
	StatusMemlimitError:    "LZMA_MEMLIMIT_ERROR",
	StatusFormatError:      "LZMA_FORMAT_ERROR",
	StatusOptionsError:     "LZMA_OPTIONS_ERROR",
	StatusDataError:        "LZMA_DATA_ERROR",
	StatusBufError:         "LZMA_BUF_ERROR",
	StatusProgError:        "LZMA_PROG_ERROR",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("LZMA_RET(%d)", int(s))
}

// Action selects how lzma_code treats the current input.
type Action int

const (
	// ActionRun decodes normally; more input may follow.
	ActionRun Action = 0

	// ActionFinish tells the decoder no more input is coming.
	ActionFinish Action = 3
)

func (a Action) String() string {
	switch a {
	case ActionRun:
		return "run"
	case ActionFinish:
		return "finish"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// DecoderFlags are the lzma_stream_decoder flags.
type DecoderFlags uint32

const (
	// Concatenated decodes back-to-back xz streams (and stream padding)
	// as one logical stream.
	Concatenated DecoderFlags = 0x08
)

// Check identifies the integrity check of an xz stream.
type Check int

const (
	CheckNone   Check = 0
	CheckCRC32  Check = 1
	CheckCRC64  Check = 4
	CheckSHA256 Check = 10
)

func (c Check) String() string {
	switch c {
	case CheckNone:
		return "None"
	case CheckCRC32:
		return "CRC32"
	case CheckCRC64:
		return "CRC64"
	case CheckSHA256:
		return "SHA-256"
	default:
		return fmt.Sprintf("Check(%d)", int(c))
	}
}

// StatusError reports a failing liblzma call.
type StatusError struct {
	Func   string
	Status Status
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("liblzma: %s: %s", e.Func, e.Status)
}
