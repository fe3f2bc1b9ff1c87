// Copyright © 2018 The ELPS authors

package parser

import (
	"errors"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	errBadEscape = errors.New("invalid escape sequence")
	errBadUTF8   = errors.New("string literal is not valid UTF-8")
)

// unquoteString decodes a double quoted string literal.
func unquoteString(lit string) (string, error) {
	if len(lit) < 2 || lit[0] != '"' || lit[len(lit)-1] != '"' {
		return "", errors.New("string literal is not quoted")
	}
	body := lit[1 : len(lit)-1]
	if !utf8.ValidString(body) {
		return "", errBadUTF8
	}
	if !strings.ContainsRune(body, '\\') {
		return body, nil
	}
	var buf strings.Builder
	for i := 0; i < len(body); {
		c := body[i]
		i++
		if c != '\\' {
			buf.WriteByte(c)
			continue
		}
		if i >= len(body) {
			return "", errBadEscape
		}
		c = body[i]
		i++
		switch c {
		case 'n':
			buf.WriteByte('\n')
		case 'r':
			buf.WriteByte('\r')
		case 't':
			buf.WriteByte('\t')
		case 'b':
			buf.WriteByte('\b')
		case 'f':
			buf.WriteByte('\f')
		case '\\', '/', '"':
			buf.WriteByte(c)
		case 'u':
			r, n, err := unicodeEscape(body[i:])
			if err != nil {
				return "", err
			}
			i += n
			buf.WriteRune(r)
		default:
			if !unicode.IsSpace(rune(c)) {
				return "", errBadEscape
			}
			// An escaped run of whitespace is dropped.
			for i < len(body) && unicode.IsSpace(rune(body[i])) {
				i++
			}
		}
	}
	return buf.String(), nil
}

// unicodeEscape decodes the text following \u, either {1-6 hex digits} or
// exactly 4 hex digits, and returns the rune and number of bytes consumed.
func unicodeEscape(s string) (rune, int, error) {
	var hex string
	var n int
	if strings.HasPrefix(s, "{") {
		end := strings.IndexByte(s, '}')
		if end < 2 || end > 7 {
			return 0, 0, errBadEscape
		}
		hex = s[1:end]
		n = end + 1
	} else {
		if len(s) < 4 {
			return 0, 0, errBadEscape
		}
		hex = s[:4]
		n = 4
	}
	x, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, errBadEscape
	}
	r := rune(x)
	if !utf8.ValidRune(r) {
		return 0, 0, errBadEscape
	}
	return r, n, nil
}
