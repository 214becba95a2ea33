package consolidate

import (
	"net/url"
	"strings"
)

// Domains granted the relaxed location rule. Listings on these sites are
// city-scoped, so an empty venue still identifies a real local event.
var trustedDomains = []string{
	"do312.com",
	"timeout.com",
	"choosechicago.com",
	"chicago.gov",
	"chicagomag.com",
	"blockclubchicago.org",
	"eventbrite.com",
	"navypier.org",
}

// FallbackLocation is the city-level placeholder substituted for trusted
// sources that omit a venue.
const FallbackLocation = "Chicago"

// TrustedSource reports whether rawURL's host is on the trusted allowlist,
// including subdomains.
func TrustedSource(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return false
	}
	for _, domain := range trustedDomains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}
