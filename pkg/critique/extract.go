package critique

import (
	"encoding/json"
	"strings"
)

// ExtractJSONObject pulls the first top-level {...} block out of a
// response that may carry leading or trailing prose, using leftmost-{
// to rightmost-} matching. This is deliberately a best-effort decode
// with a documented fallback, not a schema guarantee; callers validate
// and clamp every field individually.
func ExtractJSONObject(response string) (string, bool) {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return response[start : end+1], true
}

// DecodeJSONObject extracts and unmarshals the brace window into v.
func DecodeJSONObject(response string, v interface{}) bool {
	window, ok := ExtractJSONObject(response)
	if !ok {
		return false
	}
	return json.Unmarshal([]byte(window), v) == nil
}
