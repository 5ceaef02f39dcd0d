// Package optimize reshapes raw Jira search responses into a flat,
// token-efficient representation for language-model consumption.
package optimize

// NormalizeFieldValue simplifies a raw Jira field value. Reference objects
// (single-selects, radio buttons, user pickers) collapse to their
// human-readable label, lists are normalized element-wise, and primitives
// pass through unchanged.
//
// Label priority for reference objects: "value", then "name", then
// "displayName". Objects carrying none of these keys (e.g. sprint metadata)
// are returned as-is.
func NormalizeFieldValue(value interface{}) interface{} {
	switch v := value.(type) {
	case nil:
		return nil

	case []interface{}:
		normalized := make([]interface{}, len(v))
		for i, item := range v {
			normalized[i] = NormalizeFieldValue(item)
		}
		return normalized

	case map[string]interface{}:
		if label, ok := v["value"]; ok {
			return label
		}
		if label, ok := v["name"]; ok {
			return label
		}
		if label, ok := v["displayName"]; ok {
			return label
		}
		return v

	default:
		return v
	}
}
