package worker

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hupe1980/debatemesh/core"
	"github.com/tidwall/gjson"
)

// ParseStructured locates the JSON object inside free-form model output and
// unmarshals it into out. Models frequently wrap JSON in prose or code
// fences, so the extraction scans for the outermost object rather than
// requiring the whole response to be JSON.
//
// All failure modes wrap core.ErrStructuredParse so callers can classify the
// error with errors.Is.
func ParseStructured(text string, out any) error {
	raw, err := extractObject(text)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("%w: %v", core.ErrStructuredParse, err)
	}
	return nil
}

// extractObject returns the outermost JSON object in text.
func extractObject(text string) (string, error) {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end <= start {
		return "", fmt.Errorf("%w: no JSON object in response", core.ErrStructuredParse)
	}
	raw := text[start : end+1]
	if !gjson.Valid(raw) {
		// Fences or trailing prose can leave an unbalanced slice; retry with
		// the first balanced object gjson can see.
		if v := gjson.Parse(raw); v.IsObject() && gjson.Valid(v.Raw) {
			return v.Raw, nil
		}
		return "", fmt.Errorf("%w: malformed JSON object in response", core.ErrStructuredParse)
	}
	return raw, nil
}
