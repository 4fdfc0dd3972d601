// Package intake turns a loosely structured form submission into a
// domain.ClientProfile. Every accessor here is total: unexpected shapes
// yield absence, never an error or panic.
package intake

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// Answer is one question title with its answer values as display labels.
type Answer struct {
	Title  string
	Values []string
}

var (
	titleKeys = []string{"label", "title", "question"}
	valueKeys = []string{"value", "answer"}

	// typedValueKeys are the per-type value keys of answers that reference
	// their question through a field object.
	typedValueKeys = []string{"text", "email", "number", "boolean", "choice", "choices", "url", "date", "phone_number"}
)

// field is a question definition that answers elsewhere in the document
// refer to by id or ref.
type field struct {
	title string
	opts  []option
}

// Answers walks an untyped document and collects every question/answer
// pair it can recognize, in document order. Answers either carry their
// title inline or point at a question definition through field.id.
func Answers(doc any) []Answer {
	fields := make(map[string]field)
	indexFields(doc, fields)
	var out []Answer
	walk(doc, fields, &out)
	return out
}

// indexFields records every {id, title} object under its id and ref.
func indexFields(node any, fields map[string]field) {
	switch v := node.(type) {
	case map[string]any:
		if id, ok := firstString(v, []string{"id"}); ok {
			if title, ok := firstString(v, titleKeys); ok {
				f := field{title: strings.TrimSpace(title), opts: parseOptions(v["options"])}
				if f.opts == nil {
					f.opts = parseOptions(v["choices"])
				}
				fields[id] = f
				if ref, ok := firstString(v, []string{"ref"}); ok {
					if _, taken := fields[ref]; !taken {
						fields[ref] = f
					}
				}
			}
		}
		for _, k := range sortedKeys(v) {
			indexFields(v[k], fields)
		}
	case []any:
		for _, child := range v {
			indexFields(child, fields)
		}
	}
}

func walk(node any, fields map[string]field, out *[]Answer) {
	switch v := node.(type) {
	case map[string]any:
		a, ok := answerFromMap(v)
		if !ok {
			a, ok = joinedAnswer(v, fields)
		}
		if ok {
			if len(a.Values) > 0 {
				*out = append(*out, a)
			}
			return
		}
		for _, k := range sortedKeys(v) {
			walk(v[k], fields, out)
		}
	case []any:
		for _, child := range v {
			walk(child, fields, out)
		}
	}
}

// joinedAnswer recognizes {field: {id|ref}, <type key>: value} objects whose
// question title lives in a separate definition.
func joinedAnswer(m map[string]any, fields map[string]field) (Answer, bool) {
	ref, ok := m["field"].(map[string]any)
	if !ok {
		return Answer{}, false
	}
	var f field
	found := false
	for _, key := range []string{"id", "ref"} {
		if id, ok := firstString(ref, []string{key}); ok {
			if f, found = fields[id]; found {
				break
			}
		}
	}
	if !found {
		return Answer{}, false
	}
	raw, ok := typedValue(m)
	if !ok {
		return Answer{}, false
	}
	return Answer{Title: f.title, Values: values(raw, f.opts)}, true
}

// typedValue picks the answer value named by the object's type, or the
// first typed value key present.
func typedValue(m map[string]any) (any, bool) {
	keys := typedValueKeys
	if t, ok := firstString(m, []string{"type"}); ok {
		keys = append([]string{t}, typedValueKeys...)
	}
	raw, ok := firstPresent(m, keys)
	if !ok {
		return nil, false
	}
	switch v := raw.(type) {
	case map[string]any:
		// choices: {labels: [...], other: "..."}; choice: {label, other}
		if labels, ok := v["labels"]; ok {
			if other, ok := v["other"]; ok {
				return []any{labels, other}, true
			}
			return labels, true
		}
		if _, ok := v["label"]; !ok {
			if other, ok := v["other"]; ok {
				return other, true
			}
		}
	}
	return raw, true
}

// answerFromMap recognizes {label|title|question, value|answer} objects.
// An optional options list maps choice ids to display text.
func answerFromMap(m map[string]any) (Answer, bool) {
	title, ok := firstString(m, titleKeys)
	if !ok {
		return Answer{}, false
	}
	raw, ok := firstPresent(m, valueKeys)
	if !ok {
		return Answer{}, false
	}
	opts := parseOptions(m["options"])
	return Answer{Title: strings.TrimSpace(title), Values: values(raw, opts)}, true
}

type option struct {
	id   string
	text string
}

func parseOptions(v any) []option {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []option
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		id, _ := firstString(m, []string{"id", "key", "value"})
		text, _ := firstString(m, []string{"text", "label", "title"})
		if id == "" && text == "" {
			continue
		}
		out = append(out, option{id: id, text: text})
	}
	return out
}

// values flattens an answer value into trimmed, non-empty labels. Choice
// ids resolve to option text and multi-choice answers follow option order.
func values(raw any, opts []option) []string {
	var flat []string
	collect(raw, &flat)

	if len(opts) == 0 {
		return dedupe(flat)
	}

	chosen := make(map[string]bool, len(flat))
	for _, v := range flat {
		chosen[v] = true
	}
	var ordered []string
	matched := make(map[string]bool)
	for _, o := range opts {
		if chosen[o.id] || chosen[o.text] {
			label := o.text
			if label == "" {
				label = o.id
			}
			ordered = append(ordered, label)
			matched[o.id] = true
			matched[o.text] = true
		}
	}
	for _, v := range flat {
		if !matched[v] {
			ordered = append(ordered, v)
		}
	}
	return dedupe(ordered)
}

func collect(raw any, out *[]string) {
	switch v := raw.(type) {
	case string:
		if t := strings.TrimSpace(v); t != "" {
			*out = append(*out, t)
		}
	case float64:
		*out = append(*out, strconv.FormatFloat(v, 'f', -1, 64))
	case json.Number:
		*out = append(*out, v.String())
	case bool:
		if v {
			*out = append(*out, "Yes")
		} else {
			*out = append(*out, "No")
		}
	case []any:
		for _, item := range v {
			collect(item, out)
		}
	case map[string]any:
		if s, ok := firstString(v, []string{"text", "label", "name", "value"}); ok {
			collect(s, out)
		}
	}
}

func firstString(m map[string]any, keys []string) (string, bool) {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && strings.TrimSpace(s) != "" {
			return s, true
		}
	}
	return "", false
}

func firstPresent(m map[string]any, keys []string) (any, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			return v, true
		}
	}
	return nil, false
}

// stringLeaves returns every string in the document, in walk order.
func stringLeaves(node any) []string {
	var out []string
	var visit func(any)
	visit = func(n any) {
		switch v := n.(type) {
		case string:
			out = append(out, v)
		case map[string]any:
			for _, k := range sortedKeys(v) {
				visit(v[k])
			}
		case []any:
			for _, child := range v {
				visit(child)
			}
		}
	}
	visit(node)
	return out
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0:0]
	for _, v := range in {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
