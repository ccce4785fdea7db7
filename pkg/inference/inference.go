package inference

import (
	"context"

	"github.com/openai/openai-go/v3"
)

// Inferencer is the model boundary: a single synchronous chat completion
// over a system/user message pair. Implementations make exactly one
// attempt; callers own any degradation on failure.
type Inferencer interface {
	Infer(ctx context.Context, params *openai.ChatCompletionNewParams, system, user string) (string, error)
}
