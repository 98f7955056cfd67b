package ai

import "context"

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client is a provider-agnostic generative client. The model identifier is
// per call because one reconciliation pass may walk an ordered model list.
type Client interface {
	Generate(ctx context.Context, model string, messages []Message) (string, []byte, error)
}

const defaultMaxTokens = 4096

func resolveMaxTokens(value int) int {
	if value > 0 {
		return value
	}

	return defaultMaxTokens
}
