package imap

import "github.com/meszmate/imap-codec/wire"

// SortKeyKind canonicalizes RFC 5256/5957 SORT key names.
type SortKeyKind int

const (
	SortKeyArrival SortKeyKind = iota
	SortKeyCc
	SortKeyDate
	SortKeyFrom
	SortKeySize
	SortKeySubject
	SortKeyTo
	SortKeyDisplayFrom
	SortKeyDisplayTo
	SortKeyOther
)

var wellKnownSortKeys = map[string]SortKeyKind{
	"ARRIVAL": SortKeyArrival, "CC": SortKeyCc, "DATE": SortKeyDate,
	"FROM": SortKeyFrom, "SIZE": SortKeySize, "SUBJECT": SortKeySubject,
	"TO": SortKeyTo, "DISPLAYFROM": SortKeyDisplayFrom, "DISPLAYTO": SortKeyDisplayTo,
}

// SortKey is one SORT criterion's key.
type SortKey struct {
	kind SortKeyKind
	atom Atom
}

func NewSortKey(a Atom) SortKey {
	if kind, ok := wellKnownSortKeys[upperASCII(a.String())]; ok {
		return SortKey{kind: kind, atom: a}
	}
	return SortKey{kind: SortKeyOther, atom: a}
}

func (k SortKey) Kind() SortKeyKind { return k.kind }
func (k SortKey) Atom() Atom        { return k.atom }
func (k SortKey) Encode(b *wire.Builder) { b.Atom(k.atom.String()) }

// ParseSortKey consumes one SORT key atom.
func ParseSortKey(b []byte) ([]byte, SortKey, error) {
	rest, tok, err := wire.ParseAtom(b)
	if err != nil {
		return nil, SortKey{}, err
	}
	a, verr := NewAtom(string(tok))
	if verr != nil {
		return nil, SortKey{}, verr
	}
	return rest, NewSortKey(a), nil
}

// SortCriterion pairs a SortKey with an optional REVERSE modifier.
type SortCriterion struct {
	Key     SortKey
	Reverse bool
}

func (c SortCriterion) Encode(b *wire.Builder) {
	if c.Reverse {
		b.Atom("REVERSE").SP()
	}
	c.Key.Encode(b)
}

// ParseSortCriterion consumes one "[REVERSE] sort-key" entry.
func ParseSortCriterion(b []byte) ([]byte, SortCriterion, error) {
	if wire.HasPrefixFold(b, "REVERSE") {
		after := b[len("REVERSE"):]
		if len(after) == 0 {
			return nil, SortCriterion{}, wire.ErrIncomplete
		}
		if !wire.IsAtomChar(after[0]) {
			rest, err := wire.ParseSP(after)
			if err != nil {
				return nil, SortCriterion{}, err
			}
			rest, key, err := ParseSortKey(rest)
			if err != nil {
				return nil, SortCriterion{}, err
			}
			return rest, SortCriterion{Key: key, Reverse: true}, nil
		}
	}
	rest, key, err := ParseSortKey(b)
	if err != nil {
		return nil, SortCriterion{}, err
	}
	return rest, SortCriterion{Key: key}, nil
}

// ParseSortCriteria consumes the parenthesized list of sort criteria
// that follows SORT's command name.
func ParseSortCriteria(b []byte, cfg *wire.Config) ([]byte, []SortCriterion, error) {
	var crits []SortCriterion
	rest, err := wire.ParseList(b, cfg, func(b []byte) ([]byte, error) {
		r, c, err := ParseSortCriterion(b)
		if err != nil {
			return nil, err
		}
		crits = append(crits, c)
		return r, nil
	})
	if err != nil {
		return nil, nil, err
	}
	if len(crits) == 0 {
		return nil, nil, errNotEnough("sort-criteria", 1)
	}
	return rest, crits, nil
}

// SortData is the untagged SORT response's body: a sequence of matching
// sequence numbers or UIDs, server-sorted.
type SortData struct {
	Nums []uint32
}

func (d SortData) Encode(b *wire.Builder) {
	for i, n := range d.Nums {
		if i > 0 {
			b.SP()
		}
		b.Number(n)
	}
}

// ParseSortData consumes zero or more space-separated numbers.
func ParseSortData(b []byte, cfg *wire.Config) ([]byte, SortData, error) {
	var nums []uint32
	rest := b
	for {
		c, err := wire.PeekByte(rest)
		if err != nil || (c < '0' || c > '9') {
			break
		}
		var n uint32
		rest, n, err = wire.ParseNumber(rest, cfg)
		if err != nil {
			return nil, SortData{}, err
		}
		nums = append(nums, n)
		c2, err2 := wire.PeekByte(rest)
		if err2 != nil || c2 != ' ' {
			break
		}
		rest = rest[1:]
	}
	return rest, SortData{Nums: nums}, nil
}
