package llm

import "context"

// Provider is the core abstraction for text generation.
// Consumers build a prompt, call Generate, and receive plain text.
type Provider interface {
	// Generate sends a prompt to the generation service and returns the
	// produced text. The call blocks until the service answers or the
	// context expires; callers set the timeout on ctx.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the generation service.
type Request struct {
	// Prompt is the full instruction text for a single-turn generation.
	Prompt string

	// Temperature controls randomness. Range: 0.0 - 1.0.
	Temperature float64

	// MaxTokens is the maximum number of tokens in the response.
	MaxTokens int

	// TopP is the nucleus sampling cutoff. Zero means provider default.
	TopP float64
}

// Response holds the service's output.
type Response struct {
	// Text is the raw generated text, unparsed.
	Text string

	// Model is the actual model that served the request.
	Model string
}
