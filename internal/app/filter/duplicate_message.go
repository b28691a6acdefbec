package filter

import (
	"context"
	"strings"
	"time"

	zlog "github.com/rs/zerolog/log"
)

// DuplicateMessageConfig represents the configuration for DuplicateMessageFilter.
type DuplicateMessageConfig struct {
	WindowMinutes int `mapstructure:"window_minutes" default:"1440" validate:"gte=1"`
}

// DuplicateMessageFilter rejects a message identical to one the same sender
// submitted within the window.
type DuplicateMessageFilter struct {
	history History
	window  time.Duration
}

// NewDuplicateMessageFilter creates a new duplicate message filter.
func NewDuplicateMessageFilter(history History) *DuplicateMessageFilter {
	return &DuplicateMessageFilter{history: history}
}

func (f *DuplicateMessageFilter) Name() string {
	return "duplicate_message_filter"
}

func (f *DuplicateMessageFilter) Description() string {
	return "Rejects messages identical to one the same sender recently submitted"
}

func (f *DuplicateMessageFilter) ReturnCodes() []string {
	return []string{"duplicate_message"}
}

func (f *DuplicateMessageFilter) ValidateConfig(settings map[string]any) error {
	var config DuplicateMessageConfig
	if err := decodeSettings(settings, &config); err != nil {
		return err
	}
	f.window = time.Duration(config.WindowMinutes) * time.Minute
	zlog.Debug().Msgf("duplicate message filter config: %+v", config)
	return nil
}

func (f *DuplicateMessageFilter) Check(ctx context.Context, s Submission) Result {
	if f.history == nil || f.window <= 0 {
		return Accept()
	}

	exists, err := f.history.ExistsSince(ctx, s.Email, strings.TrimSpace(s.Body), s.ReceivedAt.Add(-f.window))
	if err != nil {
		// Fail open on lookup errors
		zlog.Warn().Err(err).Msgf("duplicate message lookup failed: email=%s", s.Email)
		return Accept()
	}
	if exists {
		return Reject("duplicate_message")
	}
	return Accept()
}

func init() {
	Register("duplicate_message_filter", func(deps Deps) Filter {
		return NewDuplicateMessageFilter(deps.History)
	})
}
