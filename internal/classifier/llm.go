package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/time/rate"

	"github.com/toolshelf/toolshelf/internal/catalog"
	"github.com/toolshelf/toolshelf/internal/provider"
)

// LLMClassifier implements Classifier by calling an LLM provider. Calls are
// rate-limited: classification is the only expensive path in the engine and
// a large catalog can request several divisions in one computation.
type LLMClassifier struct {
	provider provider.LLMProvider
	model    string
	limiter  *rate.Limiter
}

// NewLLMClassifier creates a Classifier backed by the given LLM provider.
// requestsPerMinute bounds the model call rate; pass 0 to disable limiting.
func NewLLMClassifier(p provider.LLMProvider, model string, requestsPerMinute int) *LLMClassifier {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if requestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), 1)
	}
	return &LLMClassifier{provider: p, model: model, limiter: limiter}
}

const divideSystemPrompt = "You organize tool catalogs. Given a numbered list of tools, " +
	"partition them into 2-6 coherent groups by purpose. Respond with ONLY a JSON array, " +
	"no prose and no code fences. Each element must have the shape " +
	`{"name": "snake_case_name", "summary": "one sentence", "tools": ["tool_a", "tool_b"]}. ` +
	"Every tool must appear in exactly one group; use only the tool names given."

const summarizeSystemPrompt = "You describe tool catalogs. Given a list of tools, respond " +
	"with a single plain-text sentence summarizing what the set does as a whole. " +
	"No lists, no markdown, at most 30 words."

// Divide asks the model to partition the toolset and parses its JSON reply.
func (c *LLMClassifier) Divide(ctx context.Context, actions []catalog.Action, previous []Group) ([]Group, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var sb strings.Builder
	for i, a := range actions {
		fmt.Fprintf(&sb, "%d. %s: %s\n", i+1, a.Name, firstLine(a.Description))
	}
	if len(previous) > 0 {
		sb.WriteString("\nA previous turn grouped these tools as follows; keep group names stable where the membership still fits:\n")
		for _, g := range previous {
			fmt.Fprintf(&sb, "- %s: %s\n", g.Name, strings.Join(g.Tools, ", "))
		}
	}

	text, err := c.complete(ctx, divideSystemPrompt, sb.String())
	if err != nil {
		return nil, fmt.Errorf("divide toolset: %w", err)
	}

	var groups []Group
	if err := json.Unmarshal([]byte(stripFences(text)), &groups); err != nil {
		return nil, fmt.Errorf("parse divide response: %w", err)
	}
	groups = sanitizeGroups(groups, actions)
	if len(groups) < 2 {
		return nil, fmt.Errorf("divide produced %d group(s), need at least 2", len(groups))
	}
	return groups, nil
}

// Summarize asks the model for a one-line summary of the toolset.
func (c *LLMClassifier) Summarize(ctx context.Context, actions []catalog.Action) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, a := range actions {
		fmt.Fprintf(&sb, "- %s: %s\n", a.Name, firstLine(a.Description))
	}

	text, err := c.complete(ctx, summarizeSystemPrompt, sb.String())
	if err != nil {
		return "", fmt.Errorf("summarize toolset: %w", err)
	}
	summary := strings.TrimSpace(text)
	if summary == "" {
		return "", fmt.Errorf("summarize produced empty response")
	}
	return summary, nil
}

// complete sends one request and collects the streamed text.
func (c *LLMClassifier) complete(ctx context.Context, system, user string) (string, error) {
	req := provider.CompletionRequest{
		Model:     c.model,
		System:    system,
		Messages:  []provider.Message{provider.NewUserMessage(user)},
		MaxTokens: 1024,
	}

	stream, err := c.provider.Stream(ctx, req)
	if err != nil {
		return "", fmt.Errorf("classification request: %w", err)
	}

	var result strings.Builder
	for event := range stream {
		switch event.Type {
		case "text_delta":
			result.WriteString(event.Text)
		case "error":
			return "", fmt.Errorf("classification stream error: %w", event.Error)
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}
	}
	return result.String(), nil
}

// sanitizeGroups drops member names the model invented and folds tools the
// model forgot into the first group, so the division always covers the
// toolset exactly.
func sanitizeGroups(groups []Group, actions []catalog.Action) []Group {
	valid := make(map[string]bool, len(actions))
	for _, a := range actions {
		valid[a.Name] = true
	}

	assigned := make(map[string]bool, len(actions))
	out := groups[:0]
	for _, g := range groups {
		var tools []string
		for _, name := range g.Tools {
			if valid[name] && !assigned[name] {
				tools = append(tools, name)
				assigned[name] = true
			}
		}
		if len(tools) == 0 {
			continue
		}
		g.Name = catalog.Slugify(g.Name)
		g.Tools = tools
		out = append(out, g)
	}

	if len(out) > 0 {
		for _, a := range actions {
			if !assigned[a.Name] {
				out[0].Tools = append(out[0].Tools, a.Name)
			}
		}
	}
	return out
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 160 {
		s = s[:160]
	}
	return s
}
