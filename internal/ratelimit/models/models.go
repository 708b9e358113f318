package models

import (
	"strings"
	"time"
)

// EndpointClass categorizes endpoints for differentiated rate limiting.
type EndpointClass string

const (
	// ClassPublicWrite covers anonymous writes such as contact messages and newsletter sign-ups.
	ClassPublicWrite EndpointClass = "public_write"
	// ClassBulk covers bulk registration, limited per user.
	ClassBulk EndpointClass = "bulk"
)

// IsValid checks if the endpoint class is one of the supported enum values.
func (c EndpointClass) IsValid() bool {
	switch c {
	case ClassPublicWrite, ClassBulk:
		return true
	}
	return false
}

// Limit is the number of requests allowed per sliding window.
type Limit struct {
	RequestsPerWindow int
	Window            time.Duration
}

// RateLimitResult represents the outcome of a rate limit check.
type RateLimitResult struct {
	Allowed    bool      `json:"allowed"`
	Limit      int       `json:"limit"`
	Remaining  int       `json:"remaining"`
	ResetAt    time.Time `json:"reset_at"`
	RetryAfter int       `json:"retry_after,omitempty"`
}

// RateLimitExceededResponse is the API response when rate limit is exceeded.
type RateLimitExceededResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	RetryAfter       int    `json:"retry_after"`
}

// SanitizeKeySegment escapes the key delimiter so an identifier cannot address
// another bucket.
func SanitizeKeySegment(s string) string {
	return strings.ReplaceAll(s, ":", "_")
}

// NewIPKey builds the bucket key of an IP address for class.
func NewIPKey(ip string, class EndpointClass) string {
	return "rl:ip:" + SanitizeKeySegment(ip) + ":" + string(class)
}

// NewUserKey builds the bucket key of a user for class.
func NewUserKey(userID string, class EndpointClass) string {
	return "rl:user:" + SanitizeKeySegment(userID) + ":" + string(class)
}
