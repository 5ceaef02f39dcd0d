package optimize

import (
	"sort"
	"strings"

	"github.com/nlorusso/jql-agent/pkg/jira"
	"github.com/nlorusso/jql-agent/pkg/ordered"
)

// CustomFieldPrefix identifies dynamically-named extension fields on an issue.
const CustomFieldPrefix = "customfield_"

// FlattenIssue converts one raw issue record into a flat map of essential
// attributes. Missing or malformed substructures degrade to nil values or
// absent keys; flattening never fails.
func FlattenIssue(issue map[string]interface{}) *ordered.Map {
	fields := subMap(issue, "fields")

	project := subMap(fields, "project")
	status := subMap(fields, "status")
	creator := subMap(fields, "creator")
	reporter := subMap(fields, "reporter")
	assignee := subMap(fields, "assignee")

	labels := fields["labels"]
	if labels == nil {
		labels = []interface{}{}
	}

	out := ordered.NewMap()
	out.Set("id", issue["id"])
	out.Set("key", issue["key"])
	out.Set("summary", fields["summary"])
	out.Set("description", jira.ExtractText(fields["description"]))
	out.Set("issueType", subMap(fields, "issuetype")["name"])
	out.Set("projectKey", project["key"])
	out.Set("projectName", project["name"])
	out.Set("status", status["name"])
	out.Set("statusCategory", subMap(status, "statusCategory")["name"])
	out.Set("priority", subMap(fields, "priority")["name"])
	out.Set("labels", labels)
	out.Set("creatorDisplayName", creator["displayName"])
	out.Set("creatorEmailAddress", creator["emailAddress"])
	out.Set("reporterDisplayName", reporter["displayName"])
	out.Set("reporterEmailAddress", reporter["emailAddress"])
	out.Set("assigneeDisplayName", assignee["displayName"])
	out.Set("assigneeEmailAddress", assignee["emailAddress"])
	out.Set("created", fields["created"])
	out.Set("updated", fields["updated"])

	// Optional standard fields appear only when populated upstream.
	if truthy(fields["resolution"]) {
		out.Set("resolution", subMap(fields, "resolution")["name"])
	}
	if truthy(fields["resolutiondate"]) {
		out.Set("resolutionDate", fields["resolutiondate"])
	}
	if truthy(fields["duedate"]) {
		out.Set("dueDate", fields["duedate"])
	}

	for _, key := range customFieldKeys(fields) {
		out.Set(key, NormalizeFieldValue(fields[key]))
	}

	if links := flattenLinks(fields["issuelinks"]); len(links) > 0 {
		out.Set("issueLinks", links)
	}

	if comments := flattenComments(subMap(fields, "comment")["comments"]); len(comments) > 0 {
		out.Set("comments", comments)
	}

	return out
}

// customFieldKeys returns the extension-field keys holding non-nil values.
// The raw fields arrive as an unordered Go map, so keys are sorted to keep
// the output deterministic.
func customFieldKeys(fields map[string]interface{}) []string {
	var keys []string
	for key, value := range fields {
		if strings.HasPrefix(key, CustomFieldPrefix) && value != nil {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// flattenLinks simplifies raw issue links to their relation type, direction
// and the linked issue's key, summary and status. Links that reference no
// issue in either direction, or lack a type name or key, are skipped.
func flattenLinks(raw interface{}) []interface{} {
	links, ok := raw.([]interface{})
	if !ok {
		return nil
	}

	simplified := make([]interface{}, 0, len(links))
	for _, item := range links {
		link, ok := item.(map[string]interface{})
		if !ok {
			continue
		}

		direction := "outward"
		linked := subMap(link, "outwardIssue")
		if len(linked) == 0 {
			direction = "inward"
			linked = subMap(link, "inwardIssue")
		}
		if len(linked) == 0 {
			continue
		}

		linkType := subMap(link, "type")["name"]
		linkedKey := linked["key"]
		if !truthy(linkType) || !truthy(linkedKey) {
			continue
		}

		linkedFields := subMap(linked, "fields")

		entry := ordered.NewMap()
		entry.Set("type", linkType)
		entry.Set("direction", direction)
		entry.Set("linkedIssueKey", linkedKey)
		entry.Set("linkedIssueSummary", linkedFields["summary"])
		entry.Set("status", subMap(linkedFields, "status")["name"])
		simplified = append(simplified, entry)
	}
	return simplified
}

// flattenComments reduces raw comments to author, timestamp and plain-text
// body. Comments whose body extracts to empty text are dropped.
func flattenComments(raw interface{}) []interface{} {
	comments, ok := raw.([]interface{})
	if !ok {
		return nil
	}

	simplified := make([]interface{}, 0, len(comments))
	for _, item := range comments {
		comment, ok := item.(map[string]interface{})
		if !ok {
			continue
		}

		body := jira.ExtractText(comment["body"])
		if body == "" {
			continue
		}

		entry := ordered.NewMap()
		entry.Set("author", subMap(comment, "author")["displayName"])
		entry.Set("created", comment["created"])
		entry.Set("body", body)
		simplified = append(simplified, entry)
	}
	return simplified
}

// subMap returns the object stored under key, or an empty map when the key
// is absent or holds a non-object value. Indexing the result for a missing
// key then yields nil, which is exactly the degraded leaf value we want.
func subMap(m map[string]interface{}, key string) map[string]interface{} {
	if sub, ok := m[key].(map[string]interface{}); ok {
		return sub
	}
	return map[string]interface{}{}
}

// truthy mirrors loose JSON truthiness: nil, empty strings, zero numbers,
// false, and empty containers are all treated as absent.
func truthy(v interface{}) bool {
	switch value := v.(type) {
	case nil:
		return false
	case bool:
		return value
	case string:
		return value != ""
	case float64:
		return value != 0
	case map[string]interface{}:
		return len(value) > 0
	case []interface{}:
		return len(value) > 0
	default:
		return true
	}
}
