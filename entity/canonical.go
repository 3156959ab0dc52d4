package entity

import (
	"bytes"
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"unicode/utf8"

	"github.com/daogora-xyz/bip-keychain-core/model"
)

// CanonicalBytes serializes the entity payload into its canonical byte form:
// object keys sorted lexicographically at every depth, no insignificant
// whitespace, shortest round-trip number text, and minimal string escaping.
//
// Two semantically identical payloads always canonicalize to identical bytes,
// so incidental formatting in the source document never changes a key.
func (d *Document) CanonicalBytes() ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(d.Entity))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, model.WrapError(model.KindMalformedEntity, model.StageCanonicalize, "invalid entity payload", err)
	}
	// Reject trailing garbage after the payload value.
	if dec.More() {
		return nil, model.NewError(model.KindMalformedEntity, model.StageCanonicalize, "trailing data after entity payload")
	}

	var buf bytes.Buffer
	if err := writeCanonical(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeCanonical(buf *bytes.Buffer, v any) error {
	switch x := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		if x {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case json.Number:
		return writeCanonicalNumber(buf, string(x))
	case float64:
		// Payloads constructed in-process instead of decoded from JSON.
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return model.NewError(model.KindMalformedEntity, model.StageCanonicalize, "non-finite number in entity payload")
		}
		return writeCanonicalNumber(buf, strconv.FormatFloat(x, 'g', -1, 64))
	case string:
		writeCanonicalString(buf, x)
	case []any:
		buf.WriteByte('[')
		for i, item := range x {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonical(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeCanonicalString(buf, k)
			buf.WriteByte(':')
			if err := writeCanonical(buf, x[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return model.NewError(model.KindMalformedEntity, model.StageCanonicalize, "unsupported value type in entity payload")
	}
	return nil
}

// writeCanonicalNumber normalizes number text so that "1e3", "1000.0" and
// "1000" all canonicalize identically: integers in plain decimal, everything
// else in Go's shortest round-trip form.
func writeCanonicalNumber(buf *bytes.Buffer, text string) error {
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		buf.WriteString(strconv.FormatInt(i, 10))
		return nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return model.WrapError(model.KindMalformedEntity, model.StageCanonicalize, "invalid number in entity payload", err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return model.NewError(model.KindMalformedEntity, model.StageCanonicalize, "non-finite number in entity payload")
	}
	if f == 0 {
		// Collapse -0 so "-0", "-0.0" and "0" canonicalize identically.
		buf.WriteByte('0')
		return nil
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e21 {
		// Integral values in plain decimal, matching the int64 fast path.
		buf.WriteString(strconv.FormatFloat(f, 'f', -1, 64))
		return nil
	}
	buf.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
	return nil
}

const hexDigits = "0123456789abcdef"

// writeCanonicalString emits a JSON string with minimal escaping: quote,
// backslash, and control characters only. No HTML escaping; non-ASCII runes
// pass through as UTF-8.
func writeCanonicalString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if r < 0x20 {
				buf.WriteString(`\u00`)
				buf.WriteByte(hexDigits[byte(r)>>4])
				buf.WriteByte(hexDigits[byte(r)&0xf])
			} else if r == utf8.RuneError {
				// json.Decode already replaced invalid sequences; keep
				// the replacement rune so output stays valid UTF-8.
				buf.WriteRune(utf8.RuneError)
			} else {
				buf.WriteRune(r)
			}
		}
	}
	buf.WriteByte('"')
}
