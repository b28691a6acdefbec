package filter

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
)

// MessageLengthConfig represents the configuration for MessageLengthFilter.
type MessageLengthConfig struct {
	MinChars int `mapstructure:"min_chars" default:"10" validate:"gte=1"`
	MaxChars int `mapstructure:"max_chars" default:"5000" validate:"gte=0"` // 0 means no limit
}

// MessageLengthFilter checks the length of the message body.
type MessageLengthFilter struct {
	config *MessageLengthConfig
}

// NewMessageLengthFilter creates a new message length filter.
func NewMessageLengthFilter() *MessageLengthFilter {
	return &MessageLengthFilter{}
}

func (f *MessageLengthFilter) Name() string {
	return "message_length_filter"
}

func (f *MessageLengthFilter) Description() string {
	return "Rejects messages shorter or longer than the configured number of characters"
}

func (f *MessageLengthFilter) ReturnCodes() []string {
	return []string{"message_length"}
}

func (f *MessageLengthFilter) ValidateConfig(settings map[string]any) error {
	var config MessageLengthConfig
	if err := decodeSettings(settings, &config); err != nil {
		return err
	}
	if config.MaxChars > 0 && config.MinChars > config.MaxChars {
		return errors.New("min_chars cannot be greater than max_chars")
	}
	f.config = &config
	zlog.Debug().Msgf("message length filter config: %+v", config)
	return nil
}

func (f *MessageLengthFilter) Check(ctx context.Context, s Submission) Result {
	if f.config == nil {
		return Accept()
	}

	n := utf8.RuneCountInString(strings.TrimSpace(s.Body))
	if n < f.config.MinChars {
		return Reject("message_length")
	}
	if f.config.MaxChars > 0 && n > f.config.MaxChars {
		return Reject("message_length")
	}
	return Accept()
}

func init() {
	Register("message_length_filter", func(Deps) Filter {
		return NewMessageLengthFilter()
	})
}
