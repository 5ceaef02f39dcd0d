// Package contextgen builds a JQL-authoring context document from live Jira
// metadata: projects, issue types, statuses, priorities, searchable fields
// and a small sample of recent issues per project. The document is fed to
// the agent as its system instruction.
package contextgen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/nlorusso/jql-agent/pkg/client"
	"github.com/nlorusso/jql-agent/pkg/jira"
	"github.com/nlorusso/jql-agent/pkg/models"
	"github.com/nlorusso/jql-agent/pkg/optimize"
	"github.com/nlorusso/jql-agent/pkg/ordered"
)

const (
	// maxProjectsToSample caps how many projects get sample issues, to keep
	// generation time bounded on large instances.
	maxProjectsToSample = 50
	// maxSamplesPerProject is the number of recent issues fetched per project.
	maxSamplesPerProject = 3
)

// Generator assembles the context document.
type Generator struct {
	meta       *jira.MetadataService
	search     *jira.SearchService
	log        *zap.Logger
	noProgress bool
}

// New creates a Generator. Pass noProgress to suppress the progress bar
// (e.g. when output is not a terminal).
func New(c *client.Client, log *zap.Logger, noProgress bool) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{
		meta:       jira.NewMetadataService(c),
		search:     jira.NewSearchService(c),
		log:        log,
		noProgress: noProgress,
	}
}

// Build fetches metadata and renders the context document. The project list
// is required; every other section is best effort and logged when it fails.
func (g *Generator) Build() (string, error) {
	projects, err := g.meta.Projects()
	if err != nil {
		return "", fmt.Errorf("failed to fetch projects: %w", err)
	}

	var b strings.Builder
	b.WriteString("# Jira instance context\n\n")
	b.WriteString("This document describes the Jira instance so that valid JQL queries can be constructed.\n\n")

	b.WriteString("## Projects\n\n")
	for _, p := range projects {
		fmt.Fprintf(&b, "- `%s`: %s\n", p.Key, p.Name)
	}
	b.WriteString("\n")

	if issueTypes, err := g.meta.IssueTypes(); err != nil {
		g.log.Warn("failed to fetch issue types", zap.Error(err))
	} else {
		b.WriteString("## Issue types\n\n")
		for _, name := range issueTypeNames(issueTypes) {
			fmt.Fprintf(&b, "- %s\n", name)
		}
		b.WriteString("\n")
	}

	if statuses, err := g.meta.Statuses(); err != nil {
		g.log.Warn("failed to fetch statuses", zap.Error(err))
	} else {
		b.WriteString("## Statuses\n\n")
		for _, s := range statuses {
			fmt.Fprintf(&b, "- %s (category: %s)\n", s.Name, s.StatusCategory.Name)
		}
		b.WriteString("\n")
	}

	if priorities, err := g.meta.Priorities(); err != nil {
		g.log.Warn("failed to fetch priorities", zap.Error(err))
	} else {
		b.WriteString("## Priorities\n\n")
		for _, p := range priorities {
			fmt.Fprintf(&b, "- %s\n", p.Name)
		}
		b.WriteString("\n")
	}

	if fields, err := g.meta.Fields(); err != nil {
		g.log.Warn("failed to fetch fields", zap.Error(err))
	} else {
		b.WriteString("## Searchable fields\n\n")
		for _, f := range fields {
			if !f.Searchable {
				continue
			}
			fmt.Fprintf(&b, "- `%s` (ID: `%s`)\n", f.Name, f.ID)
		}
		b.WriteString("\n")
	}

	g.writeSampleIssues(&b, projects)

	return b.String(), nil
}

// writeSampleIssues appends a few recent issues per project so the model
// sees real keys, summaries and statuses. Sampling reuses the same
// optimization pipeline the query tool runs.
func (g *Generator) writeSampleIssues(b *strings.Builder, projects []models.Project) {
	if len(projects) > maxProjectsToSample {
		projects = projects[:maxProjectsToSample]
	}

	var bar *progressbar.ProgressBar
	if !g.noProgress {
		bar = progressbar.NewOptions(len(projects),
			progressbar.OptionSetDescription("Sampling issues..."),
			progressbar.OptionSetWidth(15),
			progressbar.OptionShowCount(),
		)
	}

	b.WriteString("## Sample issues\n\n")

	for _, project := range projects {
		jql := fmt.Sprintf("project = \"%s\" ORDER BY created DESC", project.Key)
		raw, qerr := g.search.SearchRaw(jql, maxSamplesPerProject, 0)
		if qerr != nil {
			g.log.Warn("failed to sample project",
				zap.String("project", project.Key),
				zap.String("error", qerr.Message),
			)
			advance(bar)
			continue
		}

		optimized, err := optimize.Optimize(raw)
		if err != nil {
			advance(bar)
			continue
		}

		issues, _ := optimized.Get("issues")
		issueList, _ := issues.([]interface{})
		if len(issueList) == 0 {
			advance(bar)
			continue
		}

		fmt.Fprintf(b, "### %s\n\n", project.Key)
		for _, item := range issueList {
			issue, ok := item.(*ordered.Map)
			if !ok {
				continue
			}
			key, _ := issue.Get("key")
			summary, _ := issue.Get("summary")
			status, _ := issue.Get("status")
			fmt.Fprintf(b, "- %v: %v [%v]\n", key, summary, status)
		}
		b.WriteString("\n")

		advance(bar)
	}
}

func advance(bar *progressbar.ProgressBar) {
	if bar != nil {
		_ = bar.Add(1)
	}
}

// issueTypeNames returns the unique issue type names, sorted.
func issueTypeNames(issueTypes []models.IssueType) []string {
	seen := make(map[string]struct{}, len(issueTypes))
	var names []string
	for _, it := range issueTypes {
		if _, ok := seen[it.Name]; ok {
			continue
		}
		seen[it.Name] = struct{}{}
		names = append(names, it.Name)
	}
	sort.Strings(names)
	return names
}
