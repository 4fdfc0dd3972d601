package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeObject decodes the JSON object in a model response into T. A
// response that is exactly one object is decoded directly. Otherwise markdown
// fences are dropped and the first object that parses is used, so a model
// that wraps its answer in prose still counts.
func DecodeObject[T any](raw string) (T, error) {
	var out T

	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "{") && json.Valid([]byte(text)) {
		if err := json.Unmarshal([]byte(text), &out); err != nil {
			return out, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
		}
		return out, nil
	}

	obj, err := firstObject(withoutFences(text))
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(obj, &out); err != nil {
		return out, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	return out, nil
}

func withoutFences(s string) string {
	var b strings.Builder
	for line := range strings.Lines(s) {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		b.WriteString(line)
	}
	return b.String()
}

// firstObject returns the first '{' offset in s at which a complete JSON
// object decodes.
func firstObject(s string) (json.RawMessage, error) {
	var lastErr error
	for i := 0; i < len(s); i++ {
		next := strings.IndexByte(s[i:], '{')
		if next < 0 {
			break
		}
		i += next
		var obj json.RawMessage
		if err := json.NewDecoder(strings.NewReader(s[i:])).Decode(&obj); err != nil {
			lastErr = err
			continue
		}
		return obj, nil
	}
	if lastErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOutput, lastErr)
	}
	return nil, fmt.Errorf("%w: no JSON object in response", ErrInvalidOutput)
}
