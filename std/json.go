package std

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/rill-lang/rill/errs"
	"github.com/rill-lang/rill/values"
)

// jsonBuiltins implements json_encode/json_decode, grounded on go-mix's
// own std/json.go (which also wraps encoding/json) but built to this
// language's own value tree and to spec.md §9(b)'s resolved relaxed
// dialect: strict decode first, then a regex-normalized retry on
// failure, exactly as original_source/py's interpreter_3.py
// builtin_json_decode does.
func jsonBuiltins() []entry {
	return []entry{
		{"json_encode", builtinJSONEncode},
		{"json_decode", builtinJSONDecode},
	}
}

func builtinJSONEncode(_ Runtime, args []values.Value) (values.Value, error) {
	if err := arity("json_encode", args, 1); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := encodeJSON(&buf, args[0]); err != nil {
		return nil, err
	}
	return values.StringVal{Value: buf.String()}, nil
}

// encodeJSON writes v's JSON form to buf, preserving Dict insertion
// order (encoding/json would otherwise sort map keys alphabetically).
func encodeJSON(buf *bytes.Buffer, v values.Value) error {
	switch x := v.(type) {
	case values.Null:
		buf.WriteString("null")
	case values.Bool:
		if x.Value {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case values.Int:
		b, _ := json.Marshal(x.Value)
		buf.Write(b)
	case values.Float:
		b, _ := json.Marshal(x.Value)
		buf.Write(b)
	case values.StringVal:
		b, _ := json.Marshal(x.Value)
		buf.Write(b)
	case *values.Array:
		buf.WriteByte('[')
		for i, e := range x.Elements {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeJSON(buf, e); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case *values.Dict:
		buf.WriteByte('{')
		for i, k := range x.Keys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, _ := json.Marshal(k)
			buf.Write(kb)
			buf.WriteByte(':')
			val, _ := x.Get(k)
			if err := encodeJSON(buf, val); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return errs.New(errs.Type, "json_encode() cannot encode a %s", v.Type())
	}
	return nil
}

func builtinJSONDecode(_ Runtime, args []values.Value) (values.Value, error) {
	if err := arity("json_decode", args, 1); err != nil {
		return nil, err
	}
	s, err := asString("json_decode", args[0])
	if err != nil {
		return nil, err
	}
	if v, err := decodeJSON(s); err == nil {
		return v, nil
	}
	if v, err := decodeJSON(normalizeRelaxedJSON(s)); err == nil {
		return v, nil
	}
	return nil, errs.New(errs.IO, "Invalid JSON string")
}

var (
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
	singleQuotedRe  = regexp.MustCompile(`'([^'\\]*(?:\\.[^'\\]*)*)'`)
)

// normalizeRelaxedJSON implements spec.md §9(b)'s resolved fallback
// dialect: strip trailing commas, fold true/false/null case, and
// rewrite single-quoted strings to double-quoted ones. Applied only
// when a strict decode has already failed.
func normalizeRelaxedJSON(s string) string {
	s = trailingCommaRe.ReplaceAllString(s, "$1")
	s = foldKeywordCase(s)
	s = singleQuotedRe.ReplaceAllStringFunc(s, func(m string) string {
		inner := m[1 : len(m)-1]
		inner = strings.ReplaceAll(inner, `"`, `\"`)
		return `"` + inner + `"`
	})
	return s
}

var keywordRe = regexp.MustCompile(`(?i)\btrue\b|\bfalse\b|\bnull\b`)

func foldKeywordCase(s string) string {
	return keywordRe.ReplaceAllStringFunc(s, strings.ToLower)
}

// decodeJSON parses s via a Decoder in token mode so that object key
// order is preserved into the resulting Dict — encoding/json's
// map[string]interface{} unmarshaling would otherwise discard it.
func decodeJSON(s string) (values.Value, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errs.New(errs.IO, "trailing data after JSON value")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (values.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeToken(dec, tok)
}

func decodeToken(dec *json.Decoder, tok json.Token) (values.Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '[':
			var elems []values.Value
			for dec.More() {
				e, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				elems = append(elems, e)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return nil, err
			}
			return &values.Array{Elements: elems}, nil
		case '{':
			d := values.NewDict()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, errs.New(errs.Type, "JSON object keys must be strings")
				}
				val, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				d.Set(key, val)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return nil, err
			}
			return d, nil
		}
		return nil, errs.New(errs.IO, "unexpected JSON delimiter %v", t)
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return values.Int{Value: i}, nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, err
		}
		return values.Float{Value: f}, nil
	case string:
		return values.StringVal{Value: t}, nil
	case bool:
		return values.Bool{Value: t}, nil
	case nil:
		return values.Null{}, nil
	default:
		return nil, errs.New(errs.IO, "unsupported JSON token %v", tok)
	}
}
