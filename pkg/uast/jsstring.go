package uast

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// Sentinel errors for string literal decoding.
var (
	ErrNotStringLiteral = errors.New("not a string literal")
	ErrLoneSurrogate    = errors.New("lone surrogate has no UTF-8 encoding")
	errBadEscape        = errors.New("invalid escape sequence")
)

const (
	quoteDouble = '"'
	quoteSingle = '\''
	hexByteLen  = 2
	hexUnitLen  = 4
)

// Unquote decodes a JavaScript string literal, including its surrounding
// quotes, into its value.
func Unquote(raw string) (string, error) {
	if len(raw) < 2 {
		return "", fmt.Errorf("%w: %q", ErrNotStringLiteral, raw)
	}

	quote := raw[0]
	if (quote != quoteDouble && quote != quoteSingle) || raw[len(raw)-1] != quote {
		return "", fmt.Errorf("%w: %q", ErrNotStringLiteral, raw)
	}

	body := raw[1 : len(raw)-1]
	if !strings.ContainsRune(body, '\\') {
		return body, nil
	}

	var buf strings.Builder

	buf.Grow(len(body))

	for idx := 0; idx < len(body); {
		ch := body[idx]
		if ch != '\\' {
			buf.WriteByte(ch)
			idx++

			continue
		}

		consumed, err := decodeEscape(&buf, body[idx+1:])
		if err != nil {
			return "", err
		}

		idx += 1 + consumed
	}

	return buf.String(), nil
}

// decodeEscape writes the value of the escape sequence at the start of rest
// (the text after the backslash) and returns how many bytes it consumed.
func decodeEscape(buf *strings.Builder, rest string) (int, error) {
	if rest == "" {
		return 0, fmt.Errorf("%w: trailing backslash", errBadEscape)
	}

	switch rest[0] {
	case 'n':
		buf.WriteByte('\n')
	case 't':
		buf.WriteByte('\t')
	case 'r':
		buf.WriteByte('\r')
	case 'b':
		buf.WriteByte('\b')
	case 'f':
		buf.WriteByte('\f')
	case 'v':
		buf.WriteByte('\v')
	case '0':
		buf.WriteByte(0)
	case '\n':
		// line continuation
	case '\r':
		if len(rest) > 1 && rest[1] == '\n' {
			return 2, nil
		}
	case 'x':
		return decodeHexByte(buf, rest)
	case 'u':
		return decodeUnicode(buf, rest)
	default:
		r, size := utf8.DecodeRuneInString(rest)
		if r == '\u2028' || r == '\u2029' {
			return size, nil
		}

		buf.WriteRune(r)

		return size, nil
	}

	return 1, nil
}

func decodeHexByte(buf *strings.Builder, rest string) (int, error) {
	if len(rest) < 1+hexByteLen {
		return 0, fmt.Errorf("%w: \\%s", errBadEscape, rest)
	}

	value, err := strconv.ParseUint(rest[1:1+hexByteLen], 16, 8)
	if err != nil {
		return 0, fmt.Errorf("%w: \\%s", errBadEscape, rest[:1+hexByteLen])
	}

	buf.WriteRune(rune(value))

	return 1 + hexByteLen, nil
}

func decodeUnicode(buf *strings.Builder, rest string) (int, error) {
	if strings.HasPrefix(rest, "u{") {
		end := strings.IndexByte(rest, '}')
		if end < 0 {
			return 0, fmt.Errorf("%w: unterminated \\u{", errBadEscape)
		}

		value, err := strconv.ParseUint(rest[2:end], 16, 32)
		if err != nil || value > utf8.MaxRune {
			return 0, fmt.Errorf("%w: \\%s", errBadEscape, rest[:end+1])
		}

		if utf16.IsSurrogate(rune(value)) {
			return 0, fmt.Errorf("%w: \\%s", ErrLoneSurrogate, rest[:end+1])
		}

		buf.WriteRune(rune(value))

		return end + 1, nil
	}

	unit, err := parseUnit(rest)
	if err != nil {
		return 0, err
	}

	consumed := 1 + hexUnitLen

	// Combine surrogate pairs written as two consecutive \u escapes.
	if utf16.IsSurrogate(unit) && strings.HasPrefix(rest[consumed:], `\u`) {
		if low, lowErr := parseUnit(rest[consumed+1:]); lowErr == nil {
			if pair := utf16.DecodeRune(unit, low); pair != utf8.RuneError {
				buf.WriteRune(pair)

				return consumed + 1 + 1 + hexUnitLen, nil
			}
		}
	}

	if utf16.IsSurrogate(unit) {
		return 0, fmt.Errorf("%w: \\%s", ErrLoneSurrogate, rest[:consumed])
	}

	buf.WriteRune(unit)

	return consumed, nil
}

func parseUnit(rest string) (rune, error) {
	if len(rest) < 1+hexUnitLen {
		return 0, fmt.Errorf("%w: \\%s", errBadEscape, rest)
	}

	value, err := strconv.ParseUint(rest[1:1+hexUnitLen], 16, 16)
	if err != nil {
		return 0, fmt.Errorf("%w: \\%s", errBadEscape, rest[:1+hexUnitLen])
	}

	return rune(value), nil
}

// Quote encodes value as a JavaScript string literal delimited by quote,
// which must be a single or double quote. Other quote bytes fall back to
// double quotes.
func Quote(value string, quote byte) string {
	if quote != quoteSingle {
		quote = quoteDouble
	}

	var buf strings.Builder

	buf.Grow(len(value) + 2)
	buf.WriteByte(quote)

	for _, r := range value {
		switch r {
		case rune(quote):
			buf.WriteByte('\\')
			buf.WriteByte(quote)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		case '\u2028':
			buf.WriteString(`\u2028`)
		case '\u2029':
			buf.WriteString(`\u2029`)
		default:
			if r < ' ' || r == 0x7f {
				fmt.Fprintf(&buf, `\x%02x`, r)

				continue
			}

			buf.WriteRune(r)
		}
	}

	buf.WriteByte(quote)

	return buf.String()
}
