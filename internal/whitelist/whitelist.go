package whitelist

import (
	"net/mail"
	"strings"

	"go.uber.org/zap"
)

// Checker decides whether a sender belongs to a trusted domain
type Checker struct {
	domains map[string]struct{}
	logger  *zap.Logger
}

// NewChecker creates a new trusted-sender checker
func NewChecker(domains []string, logger *zap.Logger) *Checker {
	normalized := make(map[string]struct{}, len(domains))
	for _, domain := range domains {
		domain = strings.ToLower(strings.TrimSpace(domain))
		if domain != "" {
			normalized[domain] = struct{}{}
		}
	}

	if len(normalized) > 0 {
		logger.Info("Initialized trusted sender checker", zap.Int("domains", len(normalized)))
	}

	return &Checker{
		domains: normalized,
		logger:  logger,
	}
}

// IsTrusted checks if the sender's domain is trusted. from may be a bare
// address or a full header value such as "Alice <alice@example.com>".
func (c *Checker) IsTrusted(from string) bool {
	if len(c.domains) == 0 {
		return false
	}

	if addr, err := mail.ParseAddress(from); err == nil {
		from = addr.Address
	}

	at := strings.LastIndex(from, "@")
	if at < 0 || at == len(from)-1 {
		return false
	}
	domain := strings.ToLower(from[at+1:])

	if _, ok := c.domains[domain]; ok {
		c.logger.Debug("Sender domain is trusted", zap.String("domain", domain))
		return true
	}
	return false
}
