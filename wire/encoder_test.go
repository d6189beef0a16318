package wire

import (
	"bytes"
	"testing"
)

func collect(fs *FragmentStream) []byte {
	var buf []byte
	for {
		f, ok := fs.Next()
		if !ok {
			return buf
		}
		buf = append(buf, f.Data...)
	}
}

func TestBuilderLine(t *testing.T) {
	b := NewBuilder()
	b.Tag("A1").SP().Atom("NOOP").CRLF()
	fs := b.Finish()
	if fs.Len() != 1 {
		t.Fatalf("want 1 fragment, got %d", fs.Len())
	}
	if got := collect(fs); !bytes.Equal(got, []byte("A1 NOOP\r\n")) {
		t.Errorf("got %q", got)
	}
}

func TestBuilderQuotedStringEscapes(t *testing.T) {
	b := NewBuilder()
	b.QuotedString(`say "hi" \now`)
	got := collect(b.Finish())
	want := `"say \"hi\" \\now"`
	if string(got) != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBuilderLiteralSplitsFragments(t *testing.T) {
	b := NewBuilder()
	b.Tag("A1").SP().Atom("LOGIN").SP()
	b.Literal([]byte("alice"), LiteralSync, false)
	b.SP()
	b.Literal([]byte("password"), LiteralNonSync, false)
	b.CRLF()
	fs := b.Finish()

	frags := fs.Remaining()
	if len(frags) != 5 {
		t.Fatalf("want 5 fragments, got %d", len(frags))
	}
	if frags[0].Kind != FragmentLine || !bytes.HasSuffix(frags[0].Data, []byte("{5}\r\n")) {
		t.Errorf("fragment 0: %+v", frags[0])
	}
	if frags[1].Kind != FragmentLiteral || frags[1].Mode != LiteralSync {
		t.Errorf("fragment 1: %+v", frags[1])
	}
	if frags[3].Kind != FragmentLiteral || frags[3].Mode != LiteralNonSync {
		t.Errorf("fragment 3: %+v", frags[3])
	}
	// The non-sync literal's own line carries the '+' marker.
	if !bytes.HasSuffix(frags[2].Data, []byte("{8+}\r\n")) {
		t.Errorf("fragment 2: %q", frags[2].Data)
	}

	want := "A1 LOGIN {5}\r\nalice {8+}\r\npassword\r\n"
	b2 := NewBuilder()
	b2.Tag("A1").SP().Atom("LOGIN").SP()
	b2.Literal([]byte("alice"), LiteralSync, false)
	b2.SP()
	b2.Literal([]byte("password"), LiteralNonSync, false)
	b2.CRLF()
	if got := collect(b2.Finish()); string(got) != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBuilderBinaryLiteral(t *testing.T) {
	b := NewBuilder()
	b.Literal([]byte{0x00, 0x01}, LiteralNonSync, true)
	got := collect(b.Finish())
	if !bytes.HasPrefix(got, []byte("~{2+}\r\n")) {
		t.Errorf("got %q", got)
	}
}

func TestBuilderStringPicksRepresentation(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"atom", "atom"},
		{"two words", `"two words"`},
		{"", `""`},
		{"per%cent", `"per%cent"`},
		{"line\r\nbreak", "{11}\r\nline\r\nbreak"},
	}
	for _, tt := range tests {
		b := NewBuilder()
		b.String(tt.in, LiteralSync)
		if got := collect(b.Finish()); string(got) != tt.want {
			t.Errorf("String(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuilderListAndNil(t *testing.T) {
	b := NewBuilder()
	b.List(3, func(i int) { b.Number(uint32(i + 1)) })
	b.SP().Nil()
	if got := collect(b.Finish()); string(got) != "(1 2 3) NIL" {
		t.Errorf("got %q", got)
	}
}

func TestFragmentStreamNext(t *testing.T) {
	fs := NewFragmentStream([]Fragment{Line([]byte("a")), Line([]byte("b"))})
	f, ok := fs.Next()
	if !ok || string(f.Data) != "a" {
		t.Fatalf("first: %v %q", ok, f.Data)
	}
	if fs.Len() != 1 {
		t.Errorf("len after one Next: %d", fs.Len())
	}
	fs.Next()
	if _, ok := fs.Next(); ok {
		t.Error("exhausted stream should report ok=false")
	}
}
