package imap

import (
	"sort"

	"github.com/meszmate/imap-codec/wire"
)

// BodyStructure is a message's BODY/BODYSTRUCTURE fetch item: the MIME
// structure of a message, recursively describing multipart children.
type BodyStructure struct {
	// Multipart is true when this node describes a multipart/* body; in
	// that case only Subtype, Children, Params (as extension data) and
	// the extension fields below other than MD5 are meaningful. A
	// single-part body uses the single-part fields and all extension
	// fields.
	Multipart bool

	// --- single-part fields ---
	Type        string
	Subtype     string
	Params      map[string]string
	ID          NString
	Description NString
	Encoding    string
	Size        uint32

	// message/rfc822-specific
	Envelope      *Envelope
	BodyStructure *BodyStructure
	Lines         uint32
	HasLines      bool // true for text/* and message/rfc822, where Lines is present

	// --- multipart fields ---
	Children []BodyStructure

	// --- extension data (BODYSTRUCTURE only, never present in BODY) ---
	Extended    bool
	MD5         NString
	Disposition *Disposition
	Language    []string
	Location    NString
}

// Disposition is a body part's Content-Disposition extension data.
type Disposition struct {
	Type   string
	Params map[string]string
}

func (bs BodyStructure) Encode(b *wire.Builder) {
	b.BeginList()
	if bs.Multipart {
		for i, c := range bs.Children {
			if i > 0 {
				b.SP()
			}
			c.Encode(b)
		}
		b.SP()
		b.QuotedString(bs.Subtype)
		if bs.Extended {
			b.SP()
			encodeParams(b, bs.Params)
			b.SP()
			encodeDisposition(b, bs.Disposition)
			b.SP()
			encodeLanguage(b, bs.Language)
			b.SP()
			encodeNString(b, bs.Location)
		}
		b.EndList()
		return
	}
	b.QuotedString(bs.Type)
	b.SP()
	b.QuotedString(bs.Subtype)
	b.SP()
	encodeParams(b, bs.Params)
	b.SP()
	encodeNString(b, bs.ID)
	b.SP()
	encodeNString(b, bs.Description)
	b.SP()
	b.QuotedString(bs.Encoding)
	b.SP()
	b.Number(bs.Size)
	if upperASCII(bs.Type) == "MESSAGE" && upperASCII(bs.Subtype) == "RFC822" {
		b.SP()
		if bs.Envelope != nil {
			bs.Envelope.Encode(b)
		} else {
			b.Nil()
		}
		b.SP()
		if bs.BodyStructure != nil {
			bs.BodyStructure.Encode(b)
		} else {
			b.Nil()
		}
		b.SP()
		b.Number(bs.Lines)
	} else if bs.HasLines {
		b.SP()
		b.Number(bs.Lines)
	}
	if bs.Extended {
		b.SP()
		encodeNString(b, bs.MD5)
		b.SP()
		encodeDisposition(b, bs.Disposition)
		b.SP()
		encodeLanguage(b, bs.Language)
		b.SP()
		encodeNString(b, bs.Location)
	}
	b.EndList()
}

func encodeParams(b *wire.Builder, params map[string]string) {
	if params == nil {
		b.Nil()
		return
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	// Deterministic output: map iteration order would otherwise vary
	// between encodes of the same value.
	sort.Strings(keys)
	b.BeginList()
	for i, k := range keys {
		if i > 0 {
			b.SP()
		}
		b.QuotedString(k)
		b.SP()
		b.QuotedString(params[k])
	}
	b.EndList()
}

func encodeDisposition(b *wire.Builder, d *Disposition) {
	if d == nil {
		b.Nil()
		return
	}
	b.BeginList()
	b.QuotedString(d.Type)
	b.SP()
	encodeParams(b, d.Params)
	b.EndList()
}

func encodeLanguage(b *wire.Builder, lang []string) {
	if lang == nil {
		b.Nil()
		return
	}
	if len(lang) == 1 {
		b.QuotedString(lang[0])
		return
	}
	b.List(len(lang), func(i int) { b.QuotedString(lang[i]) })
}

// ParseBodyStructure consumes a parenthesized body (BODY) or body
// structure (BODYSTRUCTURE) production, dispatching on whether the
// first element is itself a parenthesized body (multipart) or a quoted
// media type (single-part).
func ParseBodyStructure(b []byte, cfg *wire.Config) ([]byte, BodyStructure, error) {
	rest, err := wire.ParseByte(b, '(')
	if err != nil {
		return nil, BodyStructure{}, err
	}
	c, err := wire.PeekByte(rest)
	if err != nil {
		return nil, BodyStructure{}, err
	}
	if c == '(' {
		return parseMultipartBody(rest, cfg)
	}
	return parseSinglePartBody(rest, cfg)
}

func parseMultipartBody(rest []byte, cfg *wire.Config) ([]byte, BodyStructure, error) {
	var children []BodyStructure
	for {
		c, err := wire.PeekByte(rest)
		if err != nil {
			return nil, BodyStructure{}, err
		}
		if c != '(' {
			break
		}
		var child BodyStructure
		rest, child, err = ParseBodyStructure(rest, cfg)
		if err != nil {
			return nil, BodyStructure{}, err
		}
		children = append(children, child)
	}
	rest, err := wire.ParseSP(rest)
	if err != nil {
		return nil, BodyStructure{}, err
	}
	rest, subtypeRaw, err := wire.ParseIString(rest, cfg)
	if err != nil {
		return nil, BodyStructure{}, err
	}
	bs := BodyStructure{Multipart: true, Subtype: string(subtypeRaw), Children: children}
	c, err := wire.PeekByte(rest)
	if err != nil {
		return nil, BodyStructure{}, err
	}
	if c == ')' {
		return rest[1:], bs, nil
	}
	rest, err = wire.ParseSP(rest)
	if err != nil {
		return nil, BodyStructure{}, err
	}
	bs.Extended = true
	rest, bs.Params, err = parseBodyFldParam(rest, nil)
	if err != nil {
		return nil, BodyStructure{}, err
	}
	rest, err = wire.ParseSP(rest)
	if err != nil {
		return nil, BodyStructure{}, err
	}
	rest, bs.Disposition, err = parseBodyFldDsp(rest)
	if err != nil {
		return nil, BodyStructure{}, err
	}
	rest, err = wire.ParseSP(rest)
	if err != nil {
		return nil, BodyStructure{}, err
	}
	rest, bs.Language, err = parseBodyFldLang(rest)
	if err != nil {
		return nil, BodyStructure{}, err
	}
	rest, err = wire.ParseSP(rest)
	if err != nil {
		return nil, BodyStructure{}, err
	}
	rest, bs.Location, err = parseNStringValue(rest, nil)
	if err != nil {
		return nil, BodyStructure{}, err
	}
	rest, err = wire.ParseByte(rest, ')')
	if err != nil {
		return nil, BodyStructure{}, err
	}
	return rest, bs, nil
}

func parseSinglePartBody(rest []byte, cfg *wire.Config) ([]byte, BodyStructure, error) {
	var bs BodyStructure
	typeRaw, err := parseIStringField(&rest, cfg)
	if err != nil {
		return nil, BodyStructure{}, err
	}
	bs.Type = string(typeRaw)
	subtypeRaw, err := parseIStringField(&rest, cfg)
	if err != nil {
		return nil, BodyStructure{}, err
	}
	bs.Subtype = string(subtypeRaw)
	params, err := parseParamField(&rest, cfg)
	if err != nil {
		return nil, BodyStructure{}, err
	}
	bs.Params = params
	id, err := parseNStringFieldRaw(&rest, cfg)
	if err != nil {
		return nil, BodyStructure{}, err
	}
	bs.ID = id
	desc, err := parseNStringFieldRaw(&rest, cfg)
	if err != nil {
		return nil, BodyStructure{}, err
	}
	bs.Description = desc
	encRaw, err := parseIStringField(&rest, cfg)
	if err != nil {
		return nil, BodyStructure{}, err
	}
	bs.Encoding = string(encRaw)
	rest, bs.Size, err = wire.ParseNumber(rest, cfg)
	if err != nil {
		return nil, BodyStructure{}, err
	}

	isMessageRFC822 := upperASCII(bs.Type) == "MESSAGE" && upperASCII(bs.Subtype) == "RFC822"
	isText := upperASCII(bs.Type) == "TEXT"

	if isMessageRFC822 {
		rest, err = wire.ParseSP(rest)
		if err != nil {
			return nil, BodyStructure{}, err
		}
		var env Envelope
		rest, env, err = ParseEnvelope(rest, cfg)
		if err != nil {
			return nil, BodyStructure{}, err
		}
		bs.Envelope = &env
		rest, err = wire.ParseSP(rest)
		if err != nil {
			return nil, BodyStructure{}, err
		}
		var child BodyStructure
		rest, child, err = ParseBodyStructure(rest, cfg)
		if err != nil {
			return nil, BodyStructure{}, err
		}
		bs.BodyStructure = &child
		rest, err = wire.ParseSP(rest)
		if err != nil {
			return nil, BodyStructure{}, err
		}
		rest, bs.Lines, err = wire.ParseNumber(rest, cfg)
		if err != nil {
			return nil, BodyStructure{}, err
		}
		bs.HasLines = true
	} else if isText {
		rest, err = wire.ParseSP(rest)
		if err != nil {
			return nil, BodyStructure{}, err
		}
		rest, bs.Lines, err = wire.ParseNumber(rest, cfg)
		if err != nil {
			return nil, BodyStructure{}, err
		}
		bs.HasLines = true
	}

	c, err := wire.PeekByte(rest)
	if err != nil {
		return nil, BodyStructure{}, err
	}
	if c == ')' {
		return rest[1:], bs, nil
	}
	bs.Extended = true
	rest, err = wire.ParseSP(rest)
	if err != nil {
		return nil, BodyStructure{}, err
	}
	rest, bs.MD5, err = parseNStringValue(rest, cfg)
	if err != nil {
		return nil, BodyStructure{}, err
	}
	rest, err = wire.ParseSP(rest)
	if err != nil {
		return nil, BodyStructure{}, err
	}
	rest, bs.Disposition, err = parseBodyFldDsp(rest)
	if err != nil {
		return nil, BodyStructure{}, err
	}
	rest, err = wire.ParseSP(rest)
	if err != nil {
		return nil, BodyStructure{}, err
	}
	rest, bs.Language, err = parseBodyFldLang(rest)
	if err != nil {
		return nil, BodyStructure{}, err
	}
	rest, err = wire.ParseSP(rest)
	if err != nil {
		return nil, BodyStructure{}, err
	}
	rest, bs.Location, err = parseNStringValue(rest, cfg)
	if err != nil {
		return nil, BodyStructure{}, err
	}
	rest, err = wire.ParseByte(rest, ')')
	if err != nil {
		return nil, BodyStructure{}, err
	}
	return rest, bs, nil
}

func parseIStringField(rest *[]byte, cfg *wire.Config) ([]byte, error) {
	r2, raw, err := wire.ParseIString(*rest, cfg)
	if err != nil {
		return nil, err
	}
	r3, err := wire.ParseSP(r2)
	if err != nil {
		return nil, err
	}
	*rest = r3
	return raw, nil
}

func parseNStringFieldRaw(rest *[]byte, cfg *wire.Config) (NString, error) {
	r2, raw, isNil, err := wire.ParseNString(*rest, cfg)
	if err != nil {
		return NString{}, err
	}
	r3, err := wire.ParseSP(r2)
	if err != nil {
		return NString{}, err
	}
	*rest = r3
	if isNil {
		return Nil(), nil
	}
	is, verr := bytesToIString(raw)
	if verr != nil {
		return NString{}, verr
	}
	return NewNString(is), nil
}

func parseNStringValue(b []byte, cfg *wire.Config) ([]byte, NString, error) {
	rest, raw, isNil, err := wire.ParseNString(b, cfg)
	if err != nil {
		return nil, NString{}, err
	}
	if isNil {
		return rest, Nil(), nil
	}
	is, verr := bytesToIString(raw)
	if verr != nil {
		return nil, NString{}, verr
	}
	return rest, NewNString(is), nil
}

func bytesToIString(raw []byte) (IString, error) {
	is, err := NewQuoted(string(raw))
	if err != nil {
		return NewLiteral(raw, wire.LiteralSync, false)
	}
	return is, nil
}

func parseParamField(rest *[]byte, cfg *wire.Config) (map[string]string, error) {
	r2, m, err := parseBodyFldParam(*rest, cfg)
	if err != nil {
		return nil, err
	}
	r3, err := wire.ParseSP(r2)
	if err != nil {
		return nil, err
	}
	*rest = r3
	return m, nil
}

func parseBodyFldParam(b []byte, cfg *wire.Config) ([]byte, map[string]string, error) {
	rest, isNil, err := peekNil(b)
	if err != nil {
		return nil, nil, err
	}
	if isNil {
		return rest, nil, nil
	}
	params := map[string]string{}
	rest, err = wire.ParseList(b, cfg, func(b []byte) ([]byte, error) {
		r, key, err := wire.ParseIString(b, cfg)
		if err != nil {
			return nil, err
		}
		r, err = wire.ParseSP(r)
		if err != nil {
			return nil, err
		}
		r, val, err := wire.ParseIString(r, cfg)
		if err != nil {
			return nil, err
		}
		params[string(key)] = string(val)
		return r, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return rest, params, nil
}

func parseBodyFldDsp(b []byte) ([]byte, *Disposition, error) {
	rest, isNil, err := peekNil(b)
	if err != nil {
		return nil, nil, err
	}
	if isNil {
		return rest, nil, nil
	}
	rest, err = wire.ParseByte(b, '(')
	if err != nil {
		return nil, nil, err
	}
	rest, typeRaw, err := wire.ParseIString(rest, nil)
	if err != nil {
		return nil, nil, err
	}
	rest, err = wire.ParseSP(rest)
	if err != nil {
		return nil, nil, err
	}
	rest, params, err := parseBodyFldParam(rest, nil)
	if err != nil {
		return nil, nil, err
	}
	rest, err = wire.ParseByte(rest, ')')
	if err != nil {
		return nil, nil, err
	}
	return rest, &Disposition{Type: string(typeRaw), Params: params}, nil
}

func parseBodyFldLang(b []byte) ([]byte, []string, error) {
	rest, isNil, err := peekNil(b)
	if err != nil {
		return nil, nil, err
	}
	if isNil {
		return rest, nil, nil
	}
	c, err := wire.PeekByte(b)
	if err != nil {
		return nil, nil, err
	}
	if c == '(' {
		var langs []string
		rest, err := wire.ParseList(b, nil, func(b []byte) ([]byte, error) {
			r, s, err := wire.ParseIString(b, nil)
			if err != nil {
				return nil, err
			}
			langs = append(langs, string(s))
			return r, nil
		})
		if err != nil {
			return nil, nil, err
		}
		return rest, langs, nil
	}
	rest, s, err := wire.ParseIString(b, nil)
	if err != nil {
		return nil, nil, err
	}
	return rest, []string{string(s)}, nil
}
