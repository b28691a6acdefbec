// Package filter provides the filter chain for contact form submissions.
package filter

import (
	"context"
	"sort"
	"time"
)

// Submission represents a contact message to be validated.
type Submission struct {
	Name       string
	Email      string // Normalized (lower case)
	Subject    string
	Body       string
	ReceivedAt time.Time
}

// Result represents the result of a filter check.
type Result struct {
	Accepted bool
	Code     string // e.g., "message_length", "blocked_domain", "rate_limited"
	Filter   string // Name of the rejecting filter
}

// Accept returns an accepted result.
func Accept() Result {
	return Result{Accepted: true}
}

// Reject returns a rejected result with the given code.
func Reject(code string) Result {
	return Result{Accepted: false, Code: code}
}

// History gives filters access to previously accepted messages.
type History interface {
	// CountSince returns how many messages the sender submitted since the given time.
	CountSince(ctx context.Context, email string, since time.Time) (int64, error)
	// ExistsSince reports whether the sender submitted the same body since the given time.
	ExistsSince(ctx context.Context, email, body string, since time.Time) (bool, error)
}

// Deps holds the dependencies filters may need.
type Deps struct {
	History History
}

// Filter is the interface for submission filters.
type Filter interface {
	// Name returns the filter name (used in config).
	Name() string
	// Description returns a human-readable description.
	Description() string
	// ReturnCodes returns the codes this filter can return.
	ReturnCodes() []string
	// ValidateConfig validates and applies the filter configuration.
	ValidateConfig(settings map[string]any) error
	// Check performs the filter check.
	Check(ctx context.Context, s Submission) Result
}

// Factory creates a filter.
type Factory func(deps Deps) Filter

// registry holds registered filter factories.
var registry = make(map[string]Factory)

// Register registers a filter factory.
func Register(name string, factory Factory) {
	registry[name] = factory
}

// GetRegistered returns all registered filter factories.
func GetRegistered() map[string]Factory {
	return registry
}

// Names returns the registered filter names in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
