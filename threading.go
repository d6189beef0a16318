package imap

import "github.com/meszmate/imap-codec/wire"

// ThreadingAlgorithmKind canonicalizes RFC 5256 THREAD algorithm names.
type ThreadingAlgorithmKind int

const (
	ThreadingOrderedSubject ThreadingAlgorithmKind = iota
	ThreadingReferences
	ThreadingOther
)

// ThreadingAlgorithm is THREAD's algorithm argument.
type ThreadingAlgorithm struct {
	kind ThreadingAlgorithmKind
	atom Atom
}

func NewThreadingAlgorithm(a Atom) ThreadingAlgorithm {
	switch upperASCII(a.String()) {
	case "ORDEREDSUBJECT":
		return ThreadingAlgorithm{kind: ThreadingOrderedSubject, atom: a}
	case "REFERENCES":
		return ThreadingAlgorithm{kind: ThreadingReferences, atom: a}
	default:
		return ThreadingAlgorithm{kind: ThreadingOther, atom: a}
	}
}

func (t ThreadingAlgorithm) Kind() ThreadingAlgorithmKind { return t.kind }
func (t ThreadingAlgorithm) Atom() Atom                   { return t.atom }
func (t ThreadingAlgorithm) Encode(b *wire.Builder)       { b.Atom(t.atom.String()) }

// ParseThreadingAlgorithm consumes THREAD's single atom argument.
func ParseThreadingAlgorithm(b []byte) ([]byte, ThreadingAlgorithm, error) {
	rest, tok, err := wire.ParseAtom(b)
	if err != nil {
		return nil, ThreadingAlgorithm{}, err
	}
	a, verr := NewAtom(string(tok))
	if verr != nil {
		return nil, ThreadingAlgorithm{}, verr
	}
	return rest, NewThreadingAlgorithm(a), nil
}

// ThreadNode is one node of a THREAD response's parenthesized tree: a
// message number followed by zero or more child subtrees.
type ThreadNode struct {
	Num      uint32
	Children []ThreadNode
}

func (n ThreadNode) Encode(b *wire.Builder) {
	b.BeginList()
	n.encodeInner(b)
	b.EndList()
}

// encodeInner renders a thread per RFC 5256's thread-list production:
// a linear chain of members space-separated, then - when the chain
// branches - the sub-threads as adjacent parenthesized lists.
func (n ThreadNode) encodeInner(b *wire.Builder) {
	cur := n
	wrote := false
	for {
		if cur.Num != 0 {
			if wrote {
				b.SP()
			}
			b.Number(cur.Num)
			wrote = true
		}
		if len(cur.Children) != 1 {
			break
		}
		cur = cur.Children[0]
	}
	if len(cur.Children) >= 2 {
		if wrote {
			b.SP()
		}
		for _, c := range cur.Children {
			c.Encode(b)
		}
	}
}

// ParseThreadNode consumes one parenthesized thread-list (RFC 5256):
// "(" thread-members / thread-nested ")", where members form a linear
// chain and a trailing nested run (two or more adjacent lists) hangs
// off the last member. A members-less branching list parses to a node
// with Num zero.
func ParseThreadNode(b []byte, cfg *wire.Config) ([]byte, ThreadNode, error) {
	rest, err := wire.ParseByte(b, '(')
	if err != nil {
		return nil, ThreadNode{}, err
	}
	var members []uint32
	for {
		c, err := wire.PeekByte(rest)
		if err != nil {
			return nil, ThreadNode{}, err
		}
		if c < '0' || c > '9' {
			break
		}
		var n uint32
		rest, n, err = wire.ParseNZNumber(rest, cfg)
		if err != nil {
			return nil, ThreadNode{}, err
		}
		members = append(members, n)
		if len(rest) > 1 && rest[0] == ' ' && rest[1] >= '0' && rest[1] <= '9' {
			rest = rest[1:]
			continue
		}
		break
	}
	if len(rest) > 0 && rest[0] == ' ' {
		rest = rest[1:]
	}
	var nested []ThreadNode
	for {
		c, err := wire.PeekByte(rest)
		if err != nil {
			return nil, ThreadNode{}, err
		}
		if c != '(' {
			break
		}
		var child ThreadNode
		rest, child, err = ParseThreadNode(rest, cfg)
		if err != nil {
			return nil, ThreadNode{}, err
		}
		nested = append(nested, child)
	}
	rest, err = wire.ParseByte(rest, ')')
	if err != nil {
		return nil, ThreadNode{}, err
	}
	node := ThreadNode{Children: nested}
	for i := len(members) - 1; i >= 0; i-- {
		if i == len(members)-1 {
			node.Num = members[i]
			continue
		}
		node = ThreadNode{Num: members[i], Children: []ThreadNode{node}}
	}
	return rest, node, nil
}

// ThreadData is the untagged THREAD response's body: zero or more
// top-level thread trees.
type ThreadData struct {
	Threads []ThreadNode
}

func (d ThreadData) Encode(b *wire.Builder) {
	for _, t := range d.Threads {
		t.Encode(b)
	}
}

// ParseThreadData consumes zero or more consecutive parenthesized thread trees.
func ParseThreadData(b []byte, cfg *wire.Config) ([]byte, ThreadData, error) {
	var threads []ThreadNode
	rest := b
	for {
		c, err := wire.PeekByte(rest)
		if err != nil {
			if len(threads) > 0 {
				break
			}
			return nil, ThreadData{}, err
		}
		if c != '(' {
			break
		}
		var node ThreadNode
		rest, node, err = ParseThreadNode(rest, cfg)
		if err != nil {
			return nil, ThreadData{}, err
		}
		threads = append(threads, node)
	}
	return rest, ThreadData{Threads: threads}, nil
}
