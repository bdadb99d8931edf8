package wire

import "fmt"

// ErrorKind discriminates the error taxonomy (see §7). ErrorKindParser is
// the byte-drop class that the transport loops resync past without
// forwarding; the other kinds are surfaced to a consumer.
type ErrorKind uint8

const (
	// ErrorKindParser marks a body that failed to match the grammar for
	// the version it claimed; the outer loop resyncs by dropping one byte.
	// This kind is returned by internal/protocol but filtered out before
	// reaching a consumer channel.
	ErrorKindParser ErrorKind = iota
	// ErrorKindCrc marks a structurally valid frame whose embedded CRC did
	// not match the freshly computed one.
	ErrorKindCrc
	// ErrorKindUnsupportedVersion marks a frame whose version byte exceeds
	// MaxSupportedProtocolVersion.
	ErrorKindUnsupportedVersion
	// ErrorKindIO marks a transport-level failure (open, read, write).
	ErrorKindIO
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindParser:
		return "parser_error"
	case ErrorKindCrc:
		return "crc_error"
	case ErrorKindUnsupportedVersion:
		return "unsupported_protocol_version"
	case ErrorKindIO:
		return "io_error"
	default:
		return fmt.Sprintf("error_kind(%d)", uint8(k))
	}
}

// MaxSupportedProtocolVersion is the highest telemetry_version this module
// understands.
const MaxSupportedProtocolVersion uint8 = 2

// ProtocolError is the single error type carrying every high-level error
// kind in the taxonomy. Only the fields relevant to Kind are populated:
// CrcExpected/CrcComputed for ErrorKindCrc, MaxSupported/Found for
// ErrorKindUnsupportedVersion. Consumed is how many bytes the framing layer
// advanced past to resync, per §7.
type ProtocolError struct {
	Kind        ErrorKind
	Consumed    int
	CrcExpected uint32
	CrcComputed uint32
	MaxSupported uint8
	Found        uint8
	Reason       string
	cause        error
}

func (e *ProtocolError) Error() string {
	switch e.Kind {
	case ErrorKindCrc:
		return fmt.Sprintf("wire: crc mismatch: expected %#08x, computed %#08x", e.CrcExpected, e.CrcComputed)
	case ErrorKindUnsupportedVersion:
		return fmt.Sprintf("wire: unsupported protocol version %d (maximum supported %d)", e.Found, e.MaxSupported)
	case ErrorKindIO:
		if e.cause != nil {
			return fmt.Sprintf("wire: io error: %s", e.cause)
		}
		return "wire: io error"
	default:
		if e.Reason != "" {
			return fmt.Sprintf("wire: parser error: %s", e.Reason)
		}
		return "wire: parser error"
	}
}

func (e *ProtocolError) Unwrap() error {
	return e.cause
}

// NewCrcError builds the ErrorKindCrc variant.
func NewCrcError(expected, computed uint32, consumed int) *ProtocolError {
	return &ProtocolError{Kind: ErrorKindCrc, CrcExpected: expected, CrcComputed: computed, Consumed: consumed}
}

// NewUnsupportedVersionError builds the ErrorKindUnsupportedVersion variant.
func NewUnsupportedVersionError(found uint8, consumed int) *ProtocolError {
	return &ProtocolError{Kind: ErrorKindUnsupportedVersion, MaxSupported: MaxSupportedProtocolVersion, Found: found, Consumed: consumed}
}

// NewParserError builds the ErrorKindParser variant, recoverable by the
// caller dropping one byte; reason is a short, non-localized description.
func NewParserError(reason string, consumed int) *ProtocolError {
	return &ProtocolError{Kind: ErrorKindParser, Reason: reason, Consumed: consumed}
}

// NewIOError wraps a transport-level failure.
func NewIOError(cause error) *ProtocolError {
	return &ProtocolError{Kind: ErrorKindIO, cause: cause}
}
