package core

import "context"

// Context keys for run options
type contextKey string

const (
	runIDKey          contextKey = "runID"
	suppressHeaderKey contextKey = "suppressHeader"
)

// withRunID tags the context with the id of the current run
func withRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// runIDFrom returns the id of the current run, or "" outside a run
func runIDFrom(ctx context.Context) string {
	runID, _ := ctx.Value(runIDKey).(string)
	return runID
}

// WithSuppressHeader marks the context so that progress headers are not printed
func WithSuppressHeader(ctx context.Context) context.Context {
	return context.WithValue(ctx, suppressHeaderKey, true)
}

// shouldSuppressHeader returns whether headers should be suppressed from context
func shouldSuppressHeader(ctx context.Context) bool {
	val := ctx.Value(suppressHeaderKey)
	if val == nil {
		return false // default: show headers
	}
	suppress, ok := val.(bool)
	return ok && suppress
}
