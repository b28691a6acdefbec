package filter

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/onair/internal/infra/config"
)

var receivedAt = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

type fakeHistory struct {
	count     int64
	exists    bool
	err       error
	lastSince time.Time
	lastBody  string
}

func (h *fakeHistory) CountSince(ctx context.Context, email string, since time.Time) (int64, error) {
	h.lastSince = since
	return h.count, h.err
}

func (h *fakeHistory) ExistsSince(ctx context.Context, email, body string, since time.Time) (bool, error) {
	h.lastSince = since
	h.lastBody = body
	return h.exists, h.err
}

func submission(email, body string) Submission {
	return Submission{Name: "Ana", Email: email, Body: body, ReceivedAt: receivedAt}
}

func TestMessageLengthFilter_Check(t *testing.T) {
	tests := []struct {
		name         string
		minChars     int
		maxChars     int
		body         string
		wantAccepted bool
	}{
		{name: "within limits", minChars: 5, maxChars: 20, body: "Great show!", wantAccepted: true},
		{name: "too short", minChars: 5, maxChars: 20, body: "Hi", wantAccepted: false},
		{name: "whitespace ignored", minChars: 5, maxChars: 20, body: "   Hi    ", wantAccepted: false},
		{name: "too long", minChars: 1, maxChars: 5, body: "Way too long", wantAccepted: false},
		{name: "no max", minChars: 1, maxChars: 0, body: strings.Repeat("a", 10000), wantAccepted: true},
		{name: "multibyte counted as characters", minChars: 3, maxChars: 3, body: "ラジオ", wantAccepted: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewMessageLengthFilter()
			f.config = &MessageLengthConfig{MinChars: tt.minChars, MaxChars: tt.maxChars}

			result := f.Check(context.Background(), submission("ana@example.com", tt.body))
			assert.Equal(t, tt.wantAccepted, result.Accepted)
			if !tt.wantAccepted {
				assert.Equal(t, "message_length", result.Code)
			}
		})
	}
}

func TestMessageLengthFilter_ValidateConfig(t *testing.T) {
	tests := []struct {
		name     string
		settings map[string]any
		wantErr  bool
		wantMin  int
		wantMax  int
	}{
		{name: "defaults", settings: nil, wantMin: 10, wantMax: 5000},
		{name: "custom", settings: map[string]any{"min_chars": 2, "max_chars": 50}, wantMin: 2, wantMax: 50},
		{name: "string numbers", settings: map[string]any{"min_chars": "3"}, wantMin: 3, wantMax: 5000},
		{name: "min above max", settings: map[string]any{"min_chars": 100, "max_chars": 50}, wantErr: true},
		{name: "negative max", settings: map[string]any{"max_chars": -1}, wantErr: true},
		{name: "unknown key", settings: map[string]any{"minimum": 3}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewMessageLengthFilter()
			err := f.ValidateConfig(tt.settings)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMin, f.config.MinChars)
			assert.Equal(t, tt.wantMax, f.config.MaxChars)
		})
	}
}

func TestBlockedDomainFilter_Check(t *testing.T) {
	f := NewBlockedDomainFilter("spam.example", "@Junk.Test ")

	tests := []struct {
		email        string
		wantAccepted bool
	}{
		{email: "ana@example.com", wantAccepted: true},
		{email: "bot@spam.example", wantAccepted: false},
		{email: "bot@mail.spam.example", wantAccepted: false},
		{email: "bot@notspam.example", wantAccepted: true},
		{email: "bot@JUNK.test", wantAccepted: false},
		{email: "no-at-sign", wantAccepted: true},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			result := f.Check(context.Background(), submission(tt.email, "Hello there"))
			assert.Equal(t, tt.wantAccepted, result.Accepted)
			if !tt.wantAccepted {
				assert.Equal(t, "blocked_domain", result.Code)
			}
		})
	}
}

func TestBlockedDomainFilter_ValidateConfig(t *testing.T) {
	f := NewBlockedDomainFilter()
	require.NoError(t, f.ValidateConfig(map[string]any{"domains": []any{"a.test", "b.test"}}))
	assert.Equal(t, []string{"a.test", "b.test"}, f.domains)

	assert.Error(t, f.ValidateConfig(map[string]any{"domains": []any{""}}))
}

func TestDuplicateMessageFilter_Check(t *testing.T) {
	tests := []struct {
		name         string
		history      *fakeHistory
		wantAccepted bool
	}{
		{name: "new message", history: &fakeHistory{exists: false}, wantAccepted: true},
		{name: "duplicate", history: &fakeHistory{exists: true}, wantAccepted: false},
		{name: "lookup error", history: &fakeHistory{err: errors.New("db down")}, wantAccepted: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewDuplicateMessageFilter(tt.history)
			require.NoError(t, f.ValidateConfig(map[string]any{"window_minutes": 30}))

			result := f.Check(context.Background(), submission("ana@example.com", "  Same text  "))
			assert.Equal(t, tt.wantAccepted, result.Accepted)
			assert.Equal(t, receivedAt.Add(-30*time.Minute), tt.history.lastSince)
			assert.Equal(t, "Same text", tt.history.lastBody)
			if !tt.wantAccepted {
				assert.Equal(t, "duplicate_message", result.Code)
			}
		})
	}
}

func TestRateLimitFilter_Check(t *testing.T) {
	tests := []struct {
		name         string
		count        int64
		wantAccepted bool
	}{
		{name: "first message", count: 0, wantAccepted: true},
		{name: "below limit", count: 2, wantAccepted: true},
		{name: "at limit", count: 3, wantAccepted: false},
		{name: "above limit", count: 10, wantAccepted: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &fakeHistory{count: tt.count}
			f := NewRateLimitFilter(h)
			require.NoError(t, f.ValidateConfig(nil))

			result := f.Check(context.Background(), submission("ana@example.com", "Hello there"))
			assert.Equal(t, tt.wantAccepted, result.Accepted)
			assert.Equal(t, receivedAt.Add(-time.Hour), h.lastSince)
			if !tt.wantAccepted {
				assert.Equal(t, "rate_limited", result.Code)
			}
		})
	}
}

func TestChain_Execute(t *testing.T) {
	length := NewMessageLengthFilter()
	length.config = &MessageLengthConfig{MinChars: 5}

	chain := NewChain()
	chain.Add(NewBlockedDomainFilter("spam.example"))
	chain.Add(length)

	assert.True(t, chain.Execute(context.Background(), submission("ana@example.com", "Hello there")).Accepted)

	result := chain.Execute(context.Background(), submission("bot@spam.example", "x"))
	assert.False(t, result.Accepted)
	assert.Equal(t, "blocked_domain", result.Code)
	assert.Equal(t, "blocked_domain_filter", result.Filter)

	result = chain.Execute(context.Background(), submission("ana@example.com", "x"))
	assert.Equal(t, "message_length", result.Code)
	assert.Equal(t, "message_length_filter", result.Filter)
}

func TestNewChainFromConfig(t *testing.T) {
	cfg := &config.Config{
		Filters: map[string]config.FilterConfig{
			"message_length_filter": {Enabled: true, Settings: map[string]any{"min_chars": 2}},
			"rate_limit_filter":     {Enabled: true},
			"blocked_domain_filter": {Enabled: false},
		},
	}

	chain, err := NewChainFromConfig(cfg, Deps{History: &fakeHistory{}})
	require.NoError(t, err)

	var names []string
	for _, f := range chain.Filters() {
		names = append(names, f.Name())
	}
	assert.Equal(t, []string{"message_length_filter", "rate_limit_filter"}, names)
}

func TestNewChainFromConfig_Errors(t *testing.T) {
	t.Run("invalid settings", func(t *testing.T) {
		cfg := &config.Config{Filters: map[string]config.FilterConfig{
			"rate_limit_filter": {Enabled: true, Settings: map[string]any{"max_messages": -1}},
		}}
		_, err := NewChainFromConfig(cfg, Deps{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rate_limit_filter")
	})

	t.Run("unknown filter", func(t *testing.T) {
		cfg := &config.Config{Filters: map[string]config.FilterConfig{
			"profanity_filter": {Enabled: true},
		}}
		_, err := NewChainFromConfig(cfg, Deps{})
		assert.Error(t, err)
	})
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{
		"blocked_domain_filter",
		"duplicate_message_filter",
		"message_length_filter",
		"rate_limit_filter",
	}, Names())

	for name, factory := range GetRegistered() {
		f := factory(Deps{})
		assert.Equal(t, name, f.Name())
		assert.NotEmpty(t, f.Description())
		assert.NotEmpty(t, f.ReturnCodes())
	}
}
