package whitelist

import (
	"net/mail"
	"strings"

	"go.uber.org/zap"
)

// Checker decides whether an alert email's sender domain is accepted
type Checker struct {
	domains []string
	logger  *zap.Logger
}

// NewChecker creates a new sender checker. An empty domain list accepts
// every sender.
func NewChecker(domains []string, logger *zap.Logger) *Checker {
	// Normalize domains (lowercase, no leading @)
	normalizedDomains := make([]string, 0, len(domains))
	for _, domain := range domains {
		domain = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(domain)), "@")
		if domain != "" {
			normalizedDomains = append(normalizedDomains, domain)
		}
	}

	if len(normalizedDomains) > 0 && logger != nil {
		logger.Info("Initialized sender allow-list", zap.Strings("domains", normalizedDomains))
	}

	return &Checker{
		domains: normalizedDomains,
		logger:  logger,
	}
}

// IsAllowed checks if the sender's domain, or a parent of it, is listed
func (c *Checker) IsAllowed(from string) bool {
	if len(c.domains) == 0 {
		return true
	}

	domain := senderDomain(from)
	if domain == "" {
		return false
	}

	for _, allowed := range c.domains {
		if domain == allowed || strings.HasSuffix(domain, "."+allowed) {
			return true
		}
	}

	if c.logger != nil {
		c.logger.Debug("Sender domain is not allowed",
			zap.String("domain", domain),
			zap.String("email", from))
	}
	return false
}

// senderDomain extracts the lowercase domain of a bare or display-name address
func senderDomain(from string) string {
	address := strings.TrimSpace(from)
	if parsed, err := mail.ParseAddress(address); err == nil {
		address = parsed.Address
	}

	at := strings.LastIndex(address, "@")
	if at < 0 || at == len(address)-1 {
		return ""
	}
	return strings.ToLower(address[at+1:])
}
