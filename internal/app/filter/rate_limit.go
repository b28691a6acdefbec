package filter

import (
	"context"
	"time"

	zlog "github.com/rs/zerolog/log"
)

// RateLimitConfig represents the configuration for RateLimitFilter.
type RateLimitConfig struct {
	MaxMessages   int `mapstructure:"max_messages" default:"3" validate:"gte=1"`
	WindowMinutes int `mapstructure:"window_minutes" default:"60" validate:"gte=1"`
}

// RateLimitFilter limits how many messages one sender can submit per window.
type RateLimitFilter struct {
	history History
	config  *RateLimitConfig
}

// NewRateLimitFilter creates a new rate limit filter.
func NewRateLimitFilter(history History) *RateLimitFilter {
	return &RateLimitFilter{history: history}
}

func (f *RateLimitFilter) Name() string {
	return "rate_limit_filter"
}

func (f *RateLimitFilter) Description() string {
	return "Limits the number of messages one sender can submit per time window"
}

func (f *RateLimitFilter) ReturnCodes() []string {
	return []string{"rate_limited"}
}

func (f *RateLimitFilter) ValidateConfig(settings map[string]any) error {
	var config RateLimitConfig
	if err := decodeSettings(settings, &config); err != nil {
		return err
	}
	f.config = &config
	zlog.Debug().Msgf("rate limit filter config: %+v", config)
	return nil
}

func (f *RateLimitFilter) Check(ctx context.Context, s Submission) Result {
	if f.history == nil || f.config == nil {
		return Accept()
	}

	since := s.ReceivedAt.Add(-time.Duration(f.config.WindowMinutes) * time.Minute)
	count, err := f.history.CountSince(ctx, s.Email, since)
	if err != nil {
		zlog.Warn().Err(err).Msgf("rate limit lookup failed: email=%s", s.Email)
		return Accept()
	}
	if count >= int64(f.config.MaxMessages) {
		return Reject("rate_limited")
	}
	return Accept()
}

func init() {
	Register("rate_limit_filter", func(deps Deps) Filter {
		return NewRateLimitFilter(deps.History)
	})
}
