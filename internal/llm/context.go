package llm

import "context"

type purposeKey struct{}

// WithPurpose annotates ctx with the reason for a generation call
// ("analysis", "summary", "question-gen", "chat"). The logging
// decorator picks it up for structured log fields.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom extracts the purpose annotation, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if p, ok := ctx.Value(purposeKey{}).(string); ok {
		return p
	}
	return "unknown"
}
