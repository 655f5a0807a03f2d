// Package useragent classifies User-Agent strings for access logging.
//
// The access log either records the raw User-Agent or a coarse
// browser/not-browser tag, never both, to bound log verbosity.
package useragent

import "strings"

// Well-known browser engine markers. Programmatic clients (curl, wget,
// language HTTP libraries) carry none of these.
var browserMarkers = []string{
	"Mozilla",
	"AppleWebKit",
	"Chrome",
	"Safari",
	"Gecko",
	"Opera",
	"Trident",
	"Edge",
}

// IsBrowser reports whether the User-Agent string looks like an
// interactive browser rather than a programmatic client.
func IsBrowser(ua string) bool {
	if ua == "" {
		return false
	}
	for _, marker := range browserMarkers {
		if strings.Contains(ua, marker) {
			return true
		}
	}
	return false
}

// Classify returns "browser" or "not-browser" for access log use.
func Classify(ua string) string {
	if IsBrowser(ua) {
		return "browser"
	}
	return "not-browser"
}
