package filter

import (
	"context"
	"strings"

	zlog "github.com/rs/zerolog/log"
)

// BlockedDomainConfig represents the configuration for BlockedDomainFilter.
type BlockedDomainConfig struct {
	Domains []string `mapstructure:"domains" validate:"dive,required"`
}

// BlockedDomainFilter rejects senders whose email domain is blocklisted.
// Subdomains of a blocked domain are blocked too.
type BlockedDomainFilter struct {
	domains []string
}

// NewBlockedDomainFilter creates a new blocked domain filter.
func NewBlockedDomainFilter(domains ...string) *BlockedDomainFilter {
	f := &BlockedDomainFilter{}
	f.setDomains(domains)
	return f
}

func (f *BlockedDomainFilter) setDomains(domains []string) {
	f.domains = f.domains[:0]
	for _, d := range domains {
		d = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(d, "@")))
		if d != "" {
			f.domains = append(f.domains, d)
		}
	}
}

func (f *BlockedDomainFilter) Name() string {
	return "blocked_domain_filter"
}

func (f *BlockedDomainFilter) Description() string {
	return "Rejects messages sent from blocklisted email domains"
}

func (f *BlockedDomainFilter) ReturnCodes() []string {
	return []string{"blocked_domain"}
}

func (f *BlockedDomainFilter) ValidateConfig(settings map[string]any) error {
	var config BlockedDomainConfig
	if err := decodeSettings(settings, &config); err != nil {
		return err
	}
	f.setDomains(config.Domains)
	zlog.Debug().Msgf("blocked domain filter config: domains=%v", f.domains)
	return nil
}

func (f *BlockedDomainFilter) Check(ctx context.Context, s Submission) Result {
	at := strings.LastIndex(s.Email, "@")
	if at < 0 {
		return Accept()
	}
	domain := strings.ToLower(s.Email[at+1:])

	for _, blocked := range f.domains {
		if domain == blocked || strings.HasSuffix(domain, "."+blocked) {
			return Reject("blocked_domain")
		}
	}
	return Accept()
}

func init() {
	Register("blocked_domain_filter", func(Deps) Filter {
		return NewBlockedDomainFilter()
	})
}
