// Package redirect hands a finished order off to the messaging channel,
// choosing a platform-specific deep-link and fallback strategy.
package redirect

import "strings"

// Platform buckets the client for deep-link selection.
type Platform string

const (
	PlatformAndroid Platform = "android"
	PlatformIOS     Platform = "ios"
	PlatformDesktop Platform = "desktop"
)

// Classifier decides the platform bucket for a request. User-agent matching
// is inherently heuristic, so the interface exists to let tests substitute
// fixed outcomes.
type Classifier interface {
	Classify(userAgent string) Platform
}

// UserAgentClassifier buckets by user-agent substring matching.
type UserAgentClassifier struct{}

func (UserAgentClassifier) Classify(userAgent string) Platform {
	ua := strings.ToLower(userAgent)
	switch {
	case strings.Contains(ua, "android"):
		return PlatformAndroid
	case strings.Contains(ua, "iphone"), strings.Contains(ua, "ipad"), strings.Contains(ua, "ipod"):
		return PlatformIOS
	default:
		return PlatformDesktop
	}
}

// StaticClassifier always reports a fixed platform.
type StaticClassifier Platform

func (s StaticClassifier) Classify(string) Platform {
	return Platform(s)
}
