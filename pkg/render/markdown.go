// Package render converts arbitrary JSON values into a flat markdown-like
// text block of key/value lines, optimized for token efficiency when the
// output is read by a language model.
package render

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/nlorusso/jql-agent/pkg/ordered"
)

// Diagnostic strings returned instead of errors. The renderer sits on the
// model-facing path, where a readable message beats a failed call.
const (
	MsgInvalidJSON = "Error: Input string is not valid JSON."
	MsgNoRecords   = "Error: Could not find a list of records in the provided JSON."
)

// ToMarkdown renders data as a sequence of records, each a list of
// "**key:** value" lines terminated by a "---" separator line.
//
// data may be a JSON document (string or []byte), an *ordered.Map, a plain
// map, or a slice. String input is parsed with key order preserved; parse
// failures and inputs with no identifiable records yield diagnostic strings
// rather than errors.
func ToMarkdown(data interface{}) string {
	value := data
	switch d := data.(type) {
	case string:
		parsed, err := ordered.Parse([]byte(d))
		if err != nil {
			return MsgInvalidJSON
		}
		value = parsed
	case []byte:
		parsed, err := ordered.Parse(d)
		if err != nil {
			return MsgInvalidJSON
		}
		value = parsed
	}

	records := findRecords(value)
	if len(records) == 0 {
		return MsgNoRecords
	}

	var blocks []string
	for _, record := range records {
		lines := recordLines(record)
		if lines == nil {
			continue
		}
		blocks = append(blocks, strings.Join(lines, "\n"), "---")
	}

	return strings.Join(blocks, "\n\n")
}

// findRecords locates the list of records within value: a top-level list is
// taken as-is; for an object, the first value that is a non-empty list of
// objects wins; a non-empty object without such a list is itself the single
// record.
func findRecords(value interface{}) []interface{} {
	switch v := value.(type) {
	case []interface{}:
		return v

	case *ordered.Map:
		for _, key := range v.Keys() {
			entry, _ := v.Get(key)
			if list := recordList(entry); list != nil {
				return list
			}
		}
		// An empty object carries no record at all; treating it as one
		// would render an empty block with a dangling separator.
		if v.Len() == 0 {
			return nil
		}
		return []interface{}{v}

	case map[string]interface{}:
		for _, key := range sortedKeys(v) {
			if list := recordList(v[key]); list != nil {
				return list
			}
		}
		if len(v) == 0 {
			return nil
		}
		return []interface{}{v}

	default:
		return nil
	}
}

// recordList returns value as a record list when it is a non-empty list
// whose every element is an object, nil otherwise.
func recordList(value interface{}) []interface{} {
	list, ok := value.([]interface{})
	if !ok || len(list) == 0 {
		return nil
	}
	for _, item := range list {
		if !isRecord(item) {
			return nil
		}
	}
	return list
}

func isRecord(value interface{}) bool {
	switch value.(type) {
	case *ordered.Map, map[string]interface{}:
		return true
	default:
		return false
	}
}

// recordLines renders one record as "**key:** value" lines. Non-record
// entries yield nil and are skipped by the caller.
func recordLines(record interface{}) []string {
	switch r := record.(type) {
	case *ordered.Map:
		lines := make([]string, 0, r.Len())
		for _, key := range r.Keys() {
			value, _ := r.Get(key)
			lines = append(lines, fmt.Sprintf("**%s:** %s", key, formatValue(value)))
		}
		return lines

	case map[string]interface{}:
		lines := make([]string, 0, len(r))
		for _, key := range sortedKeys(r) {
			lines = append(lines, fmt.Sprintf("**%s:** %s", key, formatValue(r[key])))
		}
		return lines

	default:
		return nil
	}
}

// formatValue renders a single value: nil becomes "N/A", containers are
// serialized to compact JSON inside a code span, scalars use their direct
// string form.
func formatValue(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return "N/A"
	case []interface{}, map[string]interface{}, *ordered.Map:
		serialized, err := json.Marshal(v)
		if err != nil {
			return "N/A"
		}
		return fmt.Sprintf("`%s`", serialized)
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
