// Package wire provides the IMAP wire-level mechanics: the fragment
// model that lets a synchronizing literal pause mid-message, and the
// byte-slice scan primitives the grammar parsers in package imap are
// built from. Nothing in this package knows about IMAP message types;
// it only knows about bytes, delimiters, and literal framing.
package wire

// LiteralMode distinguishes a synchronizing literal, which requires the
// peer to send a continuation request before its bytes may follow, from
// a non-synchronizing literal (LITERAL+/LITERAL-), whose bytes may be
// written back-to-back with the rest of the command.
type LiteralMode int

const (
	LiteralSync LiteralMode = iota
	LiteralNonSync
)

// String returns "sync" or "non-sync".
func (m LiteralMode) String() string {
	if m == LiteralNonSync {
		return "non-sync"
	}
	return "sync"
}

// FragmentKind distinguishes the two shapes a Fragment can take.
type FragmentKind int

const (
	// FragmentLine is a complete CRLF-terminated line, including any
	// literal-length prefix that introduces a following FragmentLiteral.
	FragmentLine FragmentKind = iota
	// FragmentLiteral is the raw payload of a literal, with no framing
	// of its own.
	FragmentLiteral
)

// Fragment is one unit of an outbound IMAP message. A message encodes to
// an ordered sequence of fragments; a synchronizing literal's boundary
// is the gap between the Line fragment carrying its "{N}\r\n" prefix and
// the Literal fragment carrying its payload. The transport is
// responsible for waiting for a continuation request at that boundary
// when Mode is LiteralSync; for LiteralNonSync it may write straight
// through.
type Fragment struct {
	Kind   FragmentKind
	Data   []byte
	Mode   LiteralMode // meaningful only when Kind == FragmentLiteral
	Binary bool        // true for a literal introduced by "~{N}" (RFC 3516 / Literal8)
}

// Line builds a FragmentLine carrying data (expected to already end in CRLF).
func Line(data []byte) Fragment { return Fragment{Kind: FragmentLine, Data: data} }

// LiteralFragment builds a FragmentLiteral carrying a literal's payload.
func LiteralFragment(data []byte, mode LiteralMode) Fragment {
	return Fragment{Kind: FragmentLiteral, Data: data, Mode: mode}
}

// FragmentStream is an ordered, single-pass-consumable sequence of
// Fragments produced by encoding one message.
type FragmentStream struct {
	frags []Fragment
	pos   int
}

// NewFragmentStream wraps an already-built fragment slice.
func NewFragmentStream(frags []Fragment) *FragmentStream {
	return &FragmentStream{frags: frags}
}

// Next returns the next fragment and advances the stream, or ok=false
// once the stream is exhausted.
func (fs *FragmentStream) Next() (Fragment, bool) {
	if fs == nil || fs.pos >= len(fs.frags) {
		return Fragment{}, false
	}
	f := fs.frags[fs.pos]
	fs.pos++
	return f, true
}

// Remaining returns the fragments not yet consumed by Next, without
// advancing the stream.
func (fs *FragmentStream) Remaining() []Fragment {
	if fs == nil {
		return nil
	}
	return fs.frags[fs.pos:]
}

// Len returns the number of fragments not yet consumed.
func (fs *FragmentStream) Len() int {
	if fs == nil {
		return 0
	}
	return len(fs.frags) - fs.pos
}

// Collect concatenates the bytes of every remaining fragment, ignoring
// the synchronizing boundary. Useful for tests and for transports that
// don't need to pause on sync literals (e.g. because the whole message
// is already known to fit one write).
func (fs *FragmentStream) Collect() []byte {
	var buf []byte
	for _, f := range fs.Remaining() {
		buf = append(buf, f.Data...)
	}
	return buf
}
