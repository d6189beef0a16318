package wire

// ParseLiteral8 consumes a Literal8 (RFC 3516 BINARY extension): a
// literal whose payload may contain any byte, NUL included. The only
// wire-level difference from ParseIString is the '~' before the length
// prefix; whether a Literal8 is acceptable when BINARY was never
// advertised is the caller's call, not the scanner's.
func ParseLiteral8(b []byte, cfg *Config) ([]byte, []byte, error) {
	c, err := PeekByte(b)
	if err != nil {
		return nil, nil, err
	}
	if c != '~' {
		return nil, nil, errSyntax("expected '~{' (Literal8)", 0)
	}
	rest, info, err := ParseLiteralPrefix(b, cfg)
	if err != nil {
		return nil, nil, err
	}
	if len(rest) < int(info.Length) {
		return nil, nil, &LiteralRequest{Length: info.Length, Mode: info.Mode, Binary: true}
	}
	value := rest[:info.Length]
	return rest[info.Length:], value, nil
}

// FirstInvalidChar8 returns the index of the first NUL byte in data, or
// -1 if data is entirely CHAR8 (i.e. valid as a plain literal payload;
// only a Literal8 may carry NUL).
func FirstInvalidChar8(data []byte) int {
	for i, b := range data {
		if b == 0x00 {
			return i
		}
	}
	return -1
}
