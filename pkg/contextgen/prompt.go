package contextgen

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/nlorusso/jql-agent/pkg/config"
)

// promptInstruction asks the model to turn the raw context document into a
// complete system prompt for the JQL agent.
const promptInstruction = `You are an expert prompt engineer. Below is a raw
context document describing a Jira instance (projects, issue types,
statuses, priorities, searchable fields and sample issues).

Write a complete system prompt for an assistant that answers questions about
this Jira instance. The assistant has exactly one tool, query_jira, which
executes a JQL query and returns the matching issues as markdown. The prompt
must:
- embed the relevant instance facts from the context document,
- instruct the assistant to always construct syntactically valid JQL,
- instruct the assistant to prefer narrow queries and paginate with start_at
  when more results are needed,
- instruct the assistant to answer from the returned results only.

Return only the prompt text, with no surrounding commentary.

--- CONTEXT DOCUMENT ---

`

// RefinePrompt sends the context document through Gemini and returns a full
// system prompt for the agent.
func RefinePrompt(ctx context.Context, cfg *config.Config, contextText string) (string, error) {
	if cfg.GeminiAPIKey == "" {
		return "", fmt.Errorf("Gemini API key is not configured (set GEMINI_API_KEY)")
	}

	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create Gemini client: %w", err)
	}

	resp, err := genaiClient.Models.GenerateContent(
		ctx,
		cfg.Model,
		genai.Text(promptInstruction+contextText),
		nil,
	)
	if err != nil {
		return "", fmt.Errorf("prompt generation failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("model returned an empty prompt")
	}
	return text, nil
}
