package qa

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Record is one generated question/answer pair.
type Record struct {
	Question     string
	Answer       string
	QuestionType string
	// Page is the 1-based source page number. It is stamped by the batch
	// processor, never by the model gateway.
	Page int
	// Source identifies the artifact a record came from. It is empty until a
	// cross-file merge assigns it.
	Source string
	// Extra holds fields outside the canonical schema, e.g. columns carried
	// over from a merged file with a wider header.
	Extra map[string]string
}

// PriorityFields is the column/key order canonical fields keep in every
// artifact. Drift fields follow, in lexicographic order.
var PriorityFields = []string{"question", "answer", "question_type", "page", "source"}

// Field names the model is allowed to use for each canonical field. Gemini
// sometimes localizes the keys to the language of the source text, so the
// Turkish variants are accepted alongside the canonical English names.
var fieldAliases = map[string][]string{
	"question":      {"question", "soru"},
	"answer":        {"answer", "cevap"},
	"question_type": {"question_type", "soru_türü"},
}

// FromModelFields normalizes one raw response item onto the canonical field
// names. Missing or non-string fields default to the empty string.
func FromModelFields(m map[string]any) Record {
	pick := func(canonical string) string {
		for _, key := range fieldAliases[canonical] {
			if v, ok := m[key].(string); ok {
				return v
			}
		}
		return ""
	}
	return Record{
		Question:     pick("question"),
		Answer:       pick("answer"),
		QuestionType: pick("question_type"),
	}
}

// Get returns the record's value for a field name, canonical or extra.
// The bool reports whether the field is known to the record at all.
func (r Record) Get(field string) (string, bool) {
	switch field {
	case "question":
		return r.Question, true
	case "answer":
		return r.Answer, true
	case "question_type":
		return r.QuestionType, true
	case "page":
		return strconv.Itoa(r.Page), true
	case "source":
		return r.Source, r.Source != ""
	}
	v, ok := r.Extra[field]
	return v, ok
}

// Set assigns a field by name, routing unknown names into Extra.
func (r *Record) Set(field, value string) {
	switch field {
	case "question":
		r.Question = value
	case "answer":
		r.Answer = value
	case "question_type":
		r.QuestionType = value
	case "page":
		if n, err := strconv.Atoi(value); err == nil {
			r.Page = n
		}
	case "source":
		r.Source = value
	default:
		if r.Extra == nil {
			r.Extra = make(map[string]string)
		}
		r.Extra[field] = value
	}
}

// ExtraFields returns the record's non-canonical field names, sorted.
func (r Record) ExtraFields() []string {
	if len(r.Extra) == 0 {
		return nil
	}
	fields := make([]string, 0, len(r.Extra))
	for f := range r.Extra {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// OrderFields sorts a field-name set into artifact order: the priority
// fields that are present first, then everything else lexicographically.
func OrderFields(fields map[string]bool) []string {
	ordered := make([]string, 0, len(fields))
	seen := make(map[string]bool, len(fields))
	for _, f := range PriorityFields {
		if fields[f] {
			ordered = append(ordered, f)
			seen[f] = true
		}
	}
	rest := make([]string, 0, len(fields))
	for f := range fields {
		if !seen[f] {
			rest = append(rest, f)
		}
	}
	sort.Strings(rest)
	return append(ordered, rest...)
}

// MarshalJSON emits the record as an object with canonical keys in priority
// order, omitting source when unset, followed by extra keys in sorted order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	writeField := func(key string, value any) error {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		k, err := jsonString(key)
		if err != nil {
			return err
		}
		v, err := jsonValue(value)
		if err != nil {
			return err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
		return nil
	}

	if err := writeField("question", r.Question); err != nil {
		return nil, err
	}
	if err := writeField("answer", r.Answer); err != nil {
		return nil, err
	}
	if err := writeField("question_type", r.QuestionType); err != nil {
		return nil, err
	}
	if err := writeField("page", r.Page); err != nil {
		return nil, err
	}
	if r.Source != "" {
		if err := writeField("source", r.Source); err != nil {
			return nil, err
		}
	}
	for _, f := range r.ExtraFields() {
		if err := writeField(f, r.Extra[f]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts any object shape, mapping canonical keys onto the
// struct fields and keeping everything else in Extra. A numeric or string
// page value is tolerated; other shapes leave Page at zero.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = Record{}
	for key, val := range raw {
		switch key {
		case "page":
			var n int
			if err := json.Unmarshal(val, &n); err == nil {
				r.Page = n
				continue
			}
			var s string
			if err := json.Unmarshal(val, &s); err == nil {
				if n, err := strconv.Atoi(s); err == nil {
					r.Page = n
				}
			}
		case "question", "answer", "question_type", "source":
			var s string
			if err := json.Unmarshal(val, &s); err != nil {
				return fmt.Errorf("field %q: %w", key, err)
			}
			r.Set(key, s)
		default:
			var s string
			if err := json.Unmarshal(val, &s); err != nil {
				// Non-string drift value: keep its compact JSON form.
				s = string(bytes.TrimSpace(val))
			}
			r.Set(key, s)
		}
	}
	return nil
}

func jsonString(s string) ([]byte, error) {
	return jsonValue(s)
}

func jsonValue(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	// Keep non-ASCII text verbatim in artifacts.
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
