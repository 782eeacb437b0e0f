package domain

import "time"

// AccessKind tells how an AccessURL was obtained
type AccessKind string

const (
	AccessKindPublic     AccessKind = "public"
	AccessKindSigned     AccessKind = "signed"
	AccessKindUnresolved AccessKind = "unresolved"
)

// AccessURL is a resolved URL for a stored object
type AccessURL struct {
	Kind      AccessKind `json:"kind"`
	URL       string     `json:"url,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// PublicAccess returns a durable public AccessURL
func PublicAccess(url string) AccessURL {
	return AccessURL{Kind: AccessKindPublic, URL: url}
}

// SignedAccess returns a signed AccessURL valid until expiresAt
func SignedAccess(url string, expiresAt time.Time) AccessURL {
	return AccessURL{Kind: AccessKindSigned, URL: url, ExpiresAt: &expiresAt}
}

// UnresolvedAccess returns an AccessURL with no usable URL
func UnresolvedAccess() AccessURL {
	return AccessURL{Kind: AccessKindUnresolved}
}

// Resolved reports whether a URL is available
func (u AccessURL) Resolved() bool {
	return u.Kind != AccessKindUnresolved && u.URL != ""
}

// ValidAt reports whether the URL can still be used at now
func (u AccessURL) ValidAt(now time.Time) bool {
	switch u.Kind {
	case AccessKindPublic:
		return u.URL != ""
	case AccessKindSigned:
		return u.URL != "" && u.ExpiresAt != nil && now.Before(*u.ExpiresAt)
	default:
		return false
	}
}
