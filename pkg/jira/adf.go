package jira

import "strings"

// ExtractText converts an Atlassian Document Format (ADF) node to plain text.
// ADF is Jira's rich text format returned by API v3 for descriptions, comment
// bodies, etc. The node's own "text" value and the recursively extracted text
// of its "content" children are joined with single spaces.
//
// Example ADF input:
//
//	{
//	  "type": "doc",
//	  "version": 1,
//	  "content": [
//	    {"type": "paragraph", "content": [{"type": "text", "text": "Hello"}]}
//	  ]
//	}
//
// Output: "Hello"
//
// A nil or non-object input yields an empty string; malformed nodes degrade
// to empty text rather than failing.
func ExtractText(node interface{}) string {
	adfMap, ok := node.(map[string]interface{})
	if !ok {
		return ""
	}

	var parts []string

	if text, ok := adfMap["text"].(string); ok && text != "" {
		parts = append(parts, text)
	}

	if content, ok := adfMap["content"].([]interface{}); ok {
		for _, child := range content {
			if extracted := ExtractText(child); extracted != "" {
				parts = append(parts, extracted)
			}
		}
	}

	return strings.Join(parts, " ")
}
