// Package utf7 implements the modified UTF-7 encoding of RFC 3501
// Section 5.1.3, the wire form of non-ASCII IMAP mailbox names.
//
// It differs from RFC 2152 UTF-7 in two ways: the shift character is
// '&' rather than '+' (a literal '&' is written "&-"), and the base64
// alphabet replaces '/' with ','. Padding is never emitted.
package utf7

import (
	"encoding/base64"
	"errors"
	"strings"
	"unicode/utf16"
)

var b64 = base64.NewEncoding(
	"ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+,",
).WithPadding(base64.NoPadding)

var (
	errDanglingShift = errors.New("utf7: unterminated '&' shift")
	errBadBase64     = errors.New("utf7: invalid base64 in shifted section")
	errOddUTF16      = errors.New("utf7: shifted section is not whole UTF-16 units")
	errBadSurrogate  = errors.New("utf7: broken surrogate pair")
)

// Encode converts a UTF-8 mailbox name to its modified UTF-7 wire form.
// Printable ASCII passes through, '&' becomes "&-", and everything else
// is emitted as base64-encoded UTF-16BE between '&' and '-'.
func Encode(name string) string {
	var out strings.Builder
	out.Grow(len(name))

	var units []uint16
	shiftOut := func() {
		if len(units) == 0 {
			return
		}
		raw := make([]byte, 0, len(units)*2)
		for _, u := range units {
			raw = append(raw, byte(u>>8), byte(u))
		}
		out.WriteByte('&')
		out.WriteString(b64.EncodeToString(raw))
		out.WriteByte('-')
		units = units[:0]
	}

	for _, r := range name {
		switch {
		case r == '&':
			shiftOut()
			out.WriteString("&-")
		case r >= 0x20 && r <= 0x7e:
			shiftOut()
			out.WriteByte(byte(r))
		default:
			units = utf16.AppendRune(units, r)
		}
	}
	shiftOut()
	return out.String()
}

// Decode converts a modified UTF-7 wire name back to UTF-8.
func Decode(wire string) (string, error) {
	var out strings.Builder
	out.Grow(len(wire))

	for i := 0; i < len(wire); {
		c := wire[i]
		if c != '&' {
			out.WriteByte(c)
			i++
			continue
		}
		end := strings.IndexByte(wire[i+1:], '-')
		if end < 0 {
			return "", errDanglingShift
		}
		section := wire[i+1 : i+1+end]
		i += end + 2
		if section == "" {
			out.WriteByte('&')
			continue
		}
		raw, err := b64.DecodeString(section)
		if err != nil {
			return "", errBadBase64
		}
		if len(raw)%2 != 0 {
			return "", errOddUTF16
		}
		units := make([]uint16, len(raw)/2)
		for j := range units {
			units[j] = uint16(raw[2*j])<<8 | uint16(raw[2*j+1])
		}
		for _, r := range utf16.Decode(units) {
			if r == 0xFFFD {
				return "", errBadSurrogate
			}
			out.WriteRune(r)
		}
	}
	return out.String(), nil
}
