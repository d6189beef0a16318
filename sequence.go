package imap

import (
	"strconv"
	"strings"

	"github.com/meszmate/imap-codec/wire"
)

// SeqOrUid is either a positive 32-bit integer or the wildcard '*',
// meaning the largest sequence number or UID in use.
type SeqOrUid struct {
	star  bool
	value uint32 // 1..=2^32-1 when !star
}

// Star is the '*' wildcard SeqOrUid.
func Star() SeqOrUid { return SeqOrUid{star: true} }

// NewSeqOrUid validates n as a positive SeqOrUid.
func NewSeqOrUid(n uint32) (SeqOrUid, error) {
	if n == 0 {
		return SeqOrUid{}, errInvalid("SeqOrUid", "must be >= 1")
	}
	return SeqOrUid{value: n}, nil
}

// IsStar reports whether this is the '*' wildcard.
func (s SeqOrUid) IsStar() bool { return s.star }

// Value returns the numeric value; only meaningful when !IsStar().
func (s SeqOrUid) Value() uint32 { return s.value }

func (s SeqOrUid) String() string {
	if s.star {
		return "*"
	}
	return strconv.FormatUint(uint64(s.value), 10)
}

// Encode writes this SeqOrUid to b.
func (s SeqOrUid) Encode(b *wire.Builder) {
	if s.star {
		b.RawString("*")
		return
	}
	b.Number(s.value)
}

// ParseSeqOrUid consumes a SeqOrUid: '*' or an nz-number.
func ParseSeqOrUid(data []byte, cfg *wire.Config) ([]byte, SeqOrUid, error) {
	c, err := wire.PeekByte(data)
	if err != nil {
		return nil, SeqOrUid{}, err
	}
	if c == '*' {
		return data[1:], Star(), nil
	}
	rest, n, err := wire.ParseNZNumber(data, cfg)
	if err != nil {
		return nil, SeqOrUid{}, err
	}
	return rest, SeqOrUid{value: n}, nil
}

// Sequence is a single SeqOrUid or an (unordered) range of two.
type Sequence struct {
	single     *SeqOrUid
	rangeStart SeqOrUid
	rangeEnd   SeqOrUid
	isRange    bool
}

// NewSequenceSingle wraps a single SeqOrUid.
func NewSequenceSingle(v SeqOrUid) Sequence { return Sequence{single: &v} }

// NewSequenceRange wraps an (a, b) range; Range(a,b) and Range(b,a) are
// semantically equal even though encoding preserves
// the order the caller supplied.
func NewSequenceRange(a, b SeqOrUid) Sequence {
	return Sequence{rangeStart: a, rangeEnd: b, isRange: true}
}

// IsRange reports whether this Sequence is a range.
func (s Sequence) IsRange() bool { return s.isRange }

// Single returns the held SeqOrUid; only valid when !IsRange().
func (s Sequence) Single() SeqOrUid { return *s.single }

// Range returns the two endpoints in encoded order; only valid when IsRange().
func (s Sequence) Range() (SeqOrUid, SeqOrUid) { return s.rangeStart, s.rangeEnd }

// Equal implements the order-independence of range endpoints: Range(a,b) == Range(b,a).
func (s Sequence) Equal(o Sequence) bool {
	if s.isRange != o.isRange {
		return false
	}
	if !s.isRange {
		return s.single.String() == o.single.String()
	}
	normalize := func(sq Sequence) (string, string) {
		a, b := sq.rangeStart.String(), sq.rangeEnd.String()
		if a > b {
			a, b = b, a
		}
		return a, b
	}
	a1, b1 := normalize(s)
	a2, b2 := normalize(o)
	return a1 == a2 && b1 == b2
}

// Encode writes this Sequence to b.
func (s Sequence) Encode(b *wire.Builder) {
	if !s.isRange {
		s.single.Encode(b)
		return
	}
	s.rangeStart.Encode(b)
	b.RawString(":")
	s.rangeEnd.Encode(b)
}

// ParseSequence consumes a Sequence. A range is tried first: a bare number and a range share a prefix, so locking in a
// single-number parse before checking for ':' would be wrong.
func ParseSequence(data []byte, cfg *wire.Config) ([]byte, Sequence, error) {
	rest, first, err := ParseSeqOrUid(data, cfg)
	if err != nil {
		return nil, Sequence{}, err
	}
	if len(rest) == 0 {
		return nil, Sequence{}, wire.ErrIncomplete
	}
	if rest[0] != ':' {
		return rest, NewSequenceSingle(first), nil
	}
	rest2, second, err := ParseSeqOrUid(rest[1:], cfg)
	if err != nil {
		return nil, Sequence{}, err
	}
	return rest2, NewSequenceRange(first, second), nil
}

// SequenceSet is a non-empty, comma-separated list of Sequence values,
// e.g. "1:*,2,3".
type SequenceSet struct {
	seqs Vec1[Sequence]
}

// NewSequenceSet validates seqs as non-empty.
func NewSequenceSet(seqs []Sequence) (SequenceSet, error) {
	v, err := NewVec1(seqs)
	if err != nil {
		return SequenceSet{}, err
	}
	return SequenceSet{seqs: v}, nil
}

// Sequences returns the wrapped sequences in wire order.
func (s SequenceSet) Sequences() []Sequence { return s.seqs.Items() }

// Encode writes this SequenceSet to b, comma-joined.
func (s SequenceSet) Encode(b *wire.Builder) {
	for i, seq := range s.seqs.Items() {
		if i > 0 {
			b.RawString(",")
		}
		seq.Encode(b)
	}
}

// String renders the wire form, mostly for diagnostics/tests.
func (s SequenceSet) String() string {
	var parts []string
	for _, seq := range s.seqs.Items() {
		if seq.IsRange() {
			a, bnd := seq.Range()
			parts = append(parts, a.String()+":"+bnd.String())
		} else {
			parts = append(parts, seq.Single().String())
		}
	}
	return strings.Join(parts, ",")
}

// ParseSequenceSet consumes a SequenceSet: one or more Sequence values
// separated by ','.
func ParseSequenceSet(data []byte, cfg *wire.Config) ([]byte, SequenceSet, error) {
	var out []Sequence
	rest := data
	for {
		r, seq, err := ParseSequence(rest, cfg)
		if err != nil {
			return nil, SequenceSet{}, err
		}
		out = append(out, seq)
		rest = r
		if len(rest) == 0 {
			return nil, SequenceSet{}, wire.ErrIncomplete
		}
		if rest[0] != ',' {
			break
		}
		rest = rest[1:]
	}
	set, err := NewSequenceSet(out)
	if err != nil {
		return nil, SequenceSet{}, err
	}
	return rest, set, nil
}
