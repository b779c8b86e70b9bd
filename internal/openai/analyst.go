package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	oa "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const systemPrompt = `You are a quantitative analyst reviewing a crypto trading desk's performance against the Fear & Greed sentiment index.
You receive a list of computed facts about the currently filtered data. Interpret only those facts.

Respond with at most three short sections:
**What stands out:** one or two sentences.
**Sentiment link:** how win rate, PnL or volume differ between regimes.
**Simulator:** what the strategy result suggests, with its limits.

Guidelines:
- Do not invent numbers that are not in the facts
- Plain text, bullets where helpful, under 150 words`

// Analyst writes short interpretations of dashboard facts.
type Analyst struct {
	cli   oa.Client
	model string
}

func NewAnalyst(apiKey string, opts ...option.RequestOption) *Analyst {
	client := oa.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)
	return &Analyst{cli: client, model: "gpt-4"}
}

// Explain asks the model to interpret facts, one per line.
func (a *Analyst) Explain(ctx context.Context, facts []string) (string, error) {
	prompt := userPrompt(facts)
	if prompt == "" {
		return "", errors.New("no facts to explain")
	}
	resp, err := a.cli.Chat.Completions.New(ctx, oa.ChatCompletionNewParams{
		Model: a.model,
		Messages: []oa.ChatCompletionMessageParamUnion{
			oa.SystemMessage(systemPrompt),
			oa.UserMessage(prompt),
		},
		MaxTokens: oa.Int(400),
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// userPrompt bullets the non-empty facts, each capped in length.
func userPrompt(facts []string) string {
	var b strings.Builder
	for _, f := range facts {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if len(f) > 500 {
			f = f[:500]
		}
		b.WriteString("- ")
		b.WriteString(f)
		b.WriteString("\n")
	}
	if b.Len() == 0 {
		return ""
	}
	return "Dashboard facts:\n" + b.String()
}
