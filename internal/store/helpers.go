package store

import "encoding/json"

// marshalWarnings converts []string to JSON text for storage.
func marshalWarnings(warnings []string) string {
	if len(warnings) == 0 {
		return "[]"
	}
	b, _ := json.Marshal(warnings)
	return string(b)
}

// unmarshalWarnings converts JSON text back to []string.
func unmarshalWarnings(s string) []string {
	if s == "" || s == "null" {
		return nil
	}
	var warnings []string
	_ = json.Unmarshal([]byte(s), &warnings)
	if len(warnings) == 0 {
		return nil
	}
	return warnings
}
