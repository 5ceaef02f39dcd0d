// Package agent wires a Gemini chat session to the JQL query tool: the model
// formulates JQL for a natural-language question, the tool executes it, and
// the model summarizes the rendered results.
package agent

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/nlorusso/jql-agent/pkg/config"
)

// maxToolRounds caps the function-calling loop so a confused model cannot
// spin forever.
const maxToolRounds = 6

// queryJiraDeclaration is the single function exposed to the model.
var queryJiraDeclaration = &genai.FunctionDeclaration{
	Name: "query_jira",
	Description: "Executes a raw JQL query against the Jira API and returns " +
		"the matching issues rendered as markdown. Supports pagination " +
		"through start_at.",
	Parameters: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"jql_query": {
				Type:        genai.TypeString,
				Description: "The complete and valid JQL query string to execute.",
			},
			"max_results": {
				Type:        genai.TypeInteger,
				Description: "The maximum number of issues to return per page.",
			},
			"start_at": {
				Type:        genai.TypeInteger,
				Description: "The index of the first issue to return (for pagination).",
			},
		},
		Required: []string{"jql_query"},
	},
}

// Agent answers natural-language questions about Jira.
type Agent struct {
	client *genai.Client
	model  string
	tool   *QueryTool
	system string
	log    *zap.Logger
}

// New creates an agent. system is the instruction text (typically the
// generated JQL context document); it may be empty.
func New(ctx context.Context, cfg *config.Config, tool *QueryTool, system string, log *zap.Logger) (*Agent, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("Gemini API key is not configured (set GEMINI_API_KEY)")
	}
	if log == nil {
		log = zap.NewNop()
	}

	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Agent{
		client: genaiClient,
		model:  cfg.Model,
		tool:   tool,
		system: system,
		log:    log,
	}, nil
}

// Ask runs one question through the model, executing any query_jira calls
// it issues, and returns the model's final answer text.
func (a *Agent) Ask(ctx context.Context, question string) (string, error) {
	chatConfig := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{
			{FunctionDeclarations: []*genai.FunctionDeclaration{queryJiraDeclaration}},
		},
	}
	if a.system != "" {
		chatConfig.SystemInstruction = genai.NewContentFromText(a.system, genai.RoleUser)
	}

	chat, err := a.client.Chats.Create(ctx, a.model, chatConfig, nil)
	if err != nil {
		return "", fmt.Errorf("failed to start chat session: %w", err)
	}

	resp, err := chat.SendMessage(ctx, genai.Part{Text: question})
	if err != nil {
		return "", fmt.Errorf("model request failed: %w", err)
	}

	for round := 0; round < maxToolRounds; round++ {
		calls := resp.FunctionCalls()
		if len(calls) == 0 {
			break
		}

		responses := make([]genai.Part, 0, len(calls))
		for _, call := range calls {
			responses = append(responses, genai.Part{
				FunctionResponse: &genai.FunctionResponse{
					Name:     call.Name,
					Response: a.dispatch(call),
				},
			})
		}

		resp, err = chat.SendMessage(ctx, responses...)
		if err != nil {
			return "", fmt.Errorf("model request failed: %w", err)
		}
	}

	return resp.Text(), nil
}

// dispatch routes a function call from the model to the query tool.
func (a *Agent) dispatch(call *genai.FunctionCall) map[string]interface{} {
	if call.Name != queryJiraDeclaration.Name {
		return map[string]interface{}{
			"error": fmt.Sprintf("unknown function: %s", call.Name),
		}
	}

	jql, _ := call.Args["jql_query"].(string)
	maxResults := intArg(call.Args, "max_results", 0)
	startAt := intArg(call.Args, "start_at", 0)

	a.log.Info("executing query_jira",
		zap.String("jql", jql),
		zap.Int("max_results", maxResults),
		zap.Int("start_at", startAt),
	)

	return a.tool.Run(jql, maxResults, startAt)
}

// intArg reads an integer argument from the loosely-typed call arguments.
func intArg(args map[string]interface{}, key string, fallback int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	default:
		return fallback
	}
}
