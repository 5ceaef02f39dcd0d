package optimize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nlorusso/jql-agent/pkg/ordered"
)

func fullIssue() map[string]interface{} {
	return map[string]interface{}{
		"id":  "10001",
		"key": "PROJ-1",
		"fields": map[string]interface{}{
			"summary": "Fix login",
			"description": map[string]interface{}{
				"type": "doc",
				"content": []interface{}{
					map[string]interface{}{
						"type": "paragraph",
						"content": []interface{}{
							map[string]interface{}{"type": "text", "text": "Broken on mobile"},
						},
					},
				},
			},
			"issuetype": map[string]interface{}{"name": "Bug"},
			"project":   map[string]interface{}{"key": "PROJ", "name": "Project"},
			"status": map[string]interface{}{
				"name":           "In Progress",
				"statusCategory": map[string]interface{}{"name": "In Progress"},
			},
			"priority": map[string]interface{}{"name": "High"},
			"labels":   []interface{}{"mobile", "auth"},
			"creator": map[string]interface{}{
				"displayName":  "Alice",
				"emailAddress": "alice@example.com",
			},
			"reporter": map[string]interface{}{
				"displayName":  "Bob",
				"emailAddress": "bob@example.com",
			},
			"assignee": map[string]interface{}{
				"displayName":  "Carol",
				"emailAddress": "carol@example.com",
			},
			"created": "2025-01-01T10:00:00.000+0000",
			"updated": "2025-01-02T10:00:00.000+0000",
		},
	}
}

func mustGet(t *testing.T, m *ordered.Map, key string) interface{} {
	t.Helper()
	v, ok := m.Get(key)
	require.True(t, ok, "missing key %q", key)
	return v
}

func TestFlattenIssue_FixedAttributes(t *testing.T) {
	flat := FlattenIssue(fullIssue())

	assert.Equal(t, "10001", mustGet(t, flat, "id"))
	assert.Equal(t, "PROJ-1", mustGet(t, flat, "key"))
	assert.Equal(t, "Fix login", mustGet(t, flat, "summary"))
	assert.Equal(t, "Broken on mobile", mustGet(t, flat, "description"))
	assert.Equal(t, "Bug", mustGet(t, flat, "issueType"))
	assert.Equal(t, "PROJ", mustGet(t, flat, "projectKey"))
	assert.Equal(t, "Project", mustGet(t, flat, "projectName"))
	assert.Equal(t, "In Progress", mustGet(t, flat, "status"))
	assert.Equal(t, "In Progress", mustGet(t, flat, "statusCategory"))
	assert.Equal(t, "High", mustGet(t, flat, "priority"))
	assert.Equal(t, []interface{}{"mobile", "auth"}, mustGet(t, flat, "labels"))
	assert.Equal(t, "Alice", mustGet(t, flat, "creatorDisplayName"))
	assert.Equal(t, "carol@example.com", mustGet(t, flat, "assigneeEmailAddress"))
}

func TestFlattenIssue_AttributeOrderIsStable(t *testing.T) {
	flat := FlattenIssue(fullIssue())

	expected := []string{
		"id", "key", "summary", "description", "issueType",
		"projectKey", "projectName", "status", "statusCategory", "priority",
		"labels", "creatorDisplayName", "creatorEmailAddress",
		"reporterDisplayName", "reporterEmailAddress",
		"assigneeDisplayName", "assigneeEmailAddress", "created", "updated",
	}
	assert.Equal(t, expected, flat.Keys())
}

func TestFlattenIssue_MissingFieldsDegradeToNil(t *testing.T) {
	flat := FlattenIssue(map[string]interface{}{"key": "PROJ-2"})

	assert.Equal(t, "PROJ-2", mustGet(t, flat, "key"))
	assert.Nil(t, mustGet(t, flat, "id"))
	assert.Nil(t, mustGet(t, flat, "summary"))
	assert.Equal(t, "", mustGet(t, flat, "description"))
	assert.Nil(t, mustGet(t, flat, "issueType"))
	assert.Nil(t, mustGet(t, flat, "statusCategory"))
	assert.Equal(t, []interface{}{}, mustGet(t, flat, "labels"))
}

func TestFlattenIssue_OptionalFieldsAbsentWhenMissing(t *testing.T) {
	flat := FlattenIssue(fullIssue())

	assert.False(t, flat.Has("resolution"))
	assert.False(t, flat.Has("resolutionDate"))
	assert.False(t, flat.Has("dueDate"))
	assert.False(t, flat.Has("issueLinks"))
	assert.False(t, flat.Has("comments"))
}

func TestFlattenIssue_OptionalFieldsPresentWhenPopulated(t *testing.T) {
	issue := fullIssue()
	fields := issue["fields"].(map[string]interface{})
	fields["resolution"] = map[string]interface{}{"name": "Done"}
	fields["resolutiondate"] = "2025-02-01T09:00:00.000+0000"
	fields["duedate"] = "2025-02-15"

	flat := FlattenIssue(issue)

	assert.Equal(t, "Done", mustGet(t, flat, "resolution"))
	assert.Equal(t, "2025-02-01T09:00:00.000+0000", mustGet(t, flat, "resolutionDate"))
	assert.Equal(t, "2025-02-15", mustGet(t, flat, "dueDate"))
}

func TestFlattenIssue_NullResolutionStaysAbsent(t *testing.T) {
	issue := fullIssue()
	fields := issue["fields"].(map[string]interface{})
	fields["resolution"] = nil
	fields["resolutiondate"] = ""

	flat := FlattenIssue(issue)

	assert.False(t, flat.Has("resolution"))
	assert.False(t, flat.Has("resolutionDate"))
}

func TestFlattenIssue_CustomFieldsNormalized(t *testing.T) {
	issue := fullIssue()
	fields := issue["fields"].(map[string]interface{})
	fields["customfield_10016"] = map[string]interface{}{"value": "5"}
	fields["customfield_10020"] = []interface{}{
		map[string]interface{}{"name": "Sprint 9"},
	}
	fields["customfield_10030"] = nil // dropped
	fields["custom_other"] = "not an extension field"

	flat := FlattenIssue(issue)

	assert.Equal(t, "5", mustGet(t, flat, "customfield_10016"))
	assert.Equal(t, []interface{}{"Sprint 9"}, mustGet(t, flat, "customfield_10020"))
	assert.False(t, flat.Has("customfield_10030"))
	assert.False(t, flat.Has("custom_other"))
}

func TestFlattenIssue_OutwardLink(t *testing.T) {
	issue := fullIssue()
	fields := issue["fields"].(map[string]interface{})
	fields["issuelinks"] = []interface{}{
		map[string]interface{}{
			"type": map[string]interface{}{"name": "Blocks"},
			"outwardIssue": map[string]interface{}{
				"key": "PROJ-9",
				"fields": map[string]interface{}{
					"summary": "Release gate",
					"status":  map[string]interface{}{"name": "Open"},
				},
			},
		},
	}

	flat := FlattenIssue(issue)

	links, ok := mustGet(t, flat, "issueLinks").([]interface{})
	require.True(t, ok)
	require.Len(t, links, 1)

	link := links[0].(*ordered.Map)
	assert.Equal(t, "Blocks", mustGet(t, link, "type"))
	assert.Equal(t, "outward", mustGet(t, link, "direction"))
	assert.Equal(t, "PROJ-9", mustGet(t, link, "linkedIssueKey"))
	assert.Equal(t, "Release gate", mustGet(t, link, "linkedIssueSummary"))
	assert.Equal(t, "Open", mustGet(t, link, "status"))
}

func TestFlattenIssue_InwardLink(t *testing.T) {
	issue := fullIssue()
	fields := issue["fields"].(map[string]interface{})
	fields["issuelinks"] = []interface{}{
		map[string]interface{}{
			"type": map[string]interface{}{"name": "Relates"},
			"inwardIssue": map[string]interface{}{
				"key":    "PROJ-3",
				"fields": map[string]interface{}{"summary": "Related work"},
			},
		},
	}

	flat := FlattenIssue(issue)

	links := mustGet(t, flat, "issueLinks").([]interface{})
	require.Len(t, links, 1)
	link := links[0].(*ordered.Map)
	assert.Equal(t, "inward", mustGet(t, link, "direction"))
	assert.Nil(t, mustGet(t, link, "status"))
}

func TestFlattenIssue_LinksWithoutIssueOrTypeSkipped(t *testing.T) {
	issue := fullIssue()
	fields := issue["fields"].(map[string]interface{})
	fields["issuelinks"] = []interface{}{
		map[string]interface{}{ // no linked issue at all
			"type": map[string]interface{}{"name": "Blocks"},
		},
		map[string]interface{}{ // linked issue without a key
			"type":         map[string]interface{}{"name": "Blocks"},
			"outwardIssue": map[string]interface{}{"fields": map[string]interface{}{}},
		},
		map[string]interface{}{ // no type name
			"outwardIssue": map[string]interface{}{"key": "PROJ-4"},
		},
	}

	flat := FlattenIssue(issue)
	assert.False(t, flat.Has("issueLinks"))
}

func TestFlattenIssue_CommentsWithEmptyBodiesDropped(t *testing.T) {
	issue := fullIssue()
	fields := issue["fields"].(map[string]interface{})
	fields["comment"] = map[string]interface{}{
		"comments": []interface{}{
			map[string]interface{}{
				"author":  map[string]interface{}{"displayName": "Alice"},
				"created": "2025-01-03T08:00:00.000+0000",
				"body": map[string]interface{}{
					"type": "doc",
					"content": []interface{}{
						map[string]interface{}{
							"type": "paragraph",
							"content": []interface{}{
								map[string]interface{}{"type": "text", "text": "Looks good"},
							},
						},
					},
				},
			},
			map[string]interface{}{
				"author":  map[string]interface{}{"displayName": "Bob"},
				"created": "2025-01-04T08:00:00.000+0000",
				"body":    map[string]interface{}{"type": "doc", "content": []interface{}{}},
			},
		},
	}

	flat := FlattenIssue(issue)

	comments := mustGet(t, flat, "comments").([]interface{})
	require.Len(t, comments, 1)

	comment := comments[0].(*ordered.Map)
	assert.Equal(t, "Alice", mustGet(t, comment, "author"))
	assert.Equal(t, "Looks good", mustGet(t, comment, "body"))
}

func TestFlattenIssue_AllCommentsEmptyOmitsKey(t *testing.T) {
	issue := fullIssue()
	fields := issue["fields"].(map[string]interface{})
	fields["comment"] = map[string]interface{}{
		"comments": []interface{}{
			map[string]interface{}{
				"author": map[string]interface{}{"displayName": "Bob"},
				"body":   nil,
			},
		},
	}

	flat := FlattenIssue(issue)
	assert.False(t, flat.Has("comments"))
}
