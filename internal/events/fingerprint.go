package events

import (
	"crypto/md5" // #nosec G401 -- dedup key, not a security boundary
	"encoding/hex"
	"fmt"
	"strings"
)

// Fingerprint derives the stable dedup id from the normalized title, date
// text, and location. Any stage recomputing it from the same three fields
// gets the same id, which is what makes cross-stage dedup work without
// shared state. The 16-hex-char md5 prefix is pinned by the published
// dataset format.
func Fingerprint(title, dateInfo, location string) string {
	src := fmt.Sprintf("%s|%s|%s",
		strings.ToLower(strings.TrimSpace(title)),
		strings.ToLower(strings.TrimSpace(dateInfo)),
		strings.ToLower(strings.TrimSpace(location)),
	)
	sum := md5.Sum([]byte(src))
	return hex.EncodeToString(sum[:])[:16]
}
