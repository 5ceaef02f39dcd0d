package optimize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nlorusso/jql-agent/pkg/ordered"
)

func TestOptimize_RejectsNonObjectInput(t *testing.T) {
	for _, input := range []interface{}{"not a dict", 42, nil, []interface{}{}} {
		_, err := Optimize(input)
		assert.ErrorIs(t, err, ErrInvalidInput, "input %v", input)
	}
}

func TestOptimize_EmptyEnvelope(t *testing.T) {
	result, err := Optimize(map[string]interface{}{})
	require.NoError(t, err)

	detailsVal, ok := result.Get("query_details")
	require.True(t, ok)
	details := detailsVal.(*ordered.Map)

	total, _ := details.Get("totalIssues")
	assert.Equal(t, 0, total)
	startAt, _ := details.Get("startAt")
	assert.Equal(t, 0, startAt)
	maxResults, _ := details.Get("maxResults")
	assert.Equal(t, 50, maxResults)

	issuesVal, ok := result.Get("issues")
	require.True(t, ok)
	assert.Equal(t, []interface{}{}, issuesVal)
}

func TestOptimize_MaxResultsMirrorsStartAt(t *testing.T) {
	// The pagination metadata intentionally reads maxResults from the
	// startAt key; this pins the wire behavior.
	result, err := Optimize(map[string]interface{}{
		"total":   120.0,
		"startAt": 10.0,
	})
	require.NoError(t, err)

	details, _ := result.Get("query_details")
	d := details.(*ordered.Map)

	total, _ := d.Get("totalIssues")
	assert.Equal(t, 120.0, total)
	startAt, _ := d.Get("startAt")
	assert.Equal(t, 10.0, startAt)
	maxResults, _ := d.Get("maxResults")
	assert.Equal(t, 10.0, maxResults)
}

func TestOptimize_PreservesIssueOrder(t *testing.T) {
	raw := map[string]interface{}{
		"total": 3.0,
		"issues": []interface{}{
			map[string]interface{}{"key": "A-1"},
			map[string]interface{}{"key": "A-2"},
			map[string]interface{}{"key": "A-3"},
		},
	}

	result, err := Optimize(raw)
	require.NoError(t, err)

	issuesVal, _ := result.Get("issues")
	issues := issuesVal.([]interface{})
	require.Len(t, issues, 3)

	for i, expected := range []string{"A-1", "A-2", "A-3"} {
		issue := issues[i].(*ordered.Map)
		key, _ := issue.Get("key")
		assert.Equal(t, expected, key)
	}
}

func TestOptimize_EnvelopeShape(t *testing.T) {
	result, err := Optimize(map[string]interface{}{})
	require.NoError(t, err)

	assert.Equal(t, []string{"query_details", "issues"}, result.Keys())
	details, _ := result.Get("query_details")
	assert.Equal(t, []string{"totalIssues", "startAt", "maxResults"}, details.(*ordered.Map).Keys())
}

func TestOptimize_SkipsNonObjectIssueEntries(t *testing.T) {
	raw := map[string]interface{}{
		"issues": []interface{}{
			"garbage",
			map[string]interface{}{"key": "A-1"},
		},
	}

	result, err := Optimize(raw)
	require.NoError(t, err)

	issuesVal, _ := result.Get("issues")
	assert.Len(t, issuesVal.([]interface{}), 1)
}
