// Package timezone resolves IANA zone names for display conversion.
package timezone

import (
	"strings"
	"sync"
	"time"
	_ "time/tzdata" // slim container images ship without zoneinfo
)

// Fallback is used whenever a requested zone cannot be resolved.
var Fallback = time.UTC

var cache sync.Map // name -> *time.Location

// Resolve returns the location for an IANA name and whether it was recognized.
// Empty, "Local" and unknown names resolve to Fallback with ok=false; the host
// zone is never exposed.
func Resolve(name string) (loc *time.Location, ok bool) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "local") {
		return Fallback, false
	}
	if strings.EqualFold(name, "UTC") {
		return time.UTC, true
	}
	if cached, hit := cache.Load(name); hit {
		return cached.(*time.Location), true
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return Fallback, false
	}
	cache.Store(name, loc)
	return loc, true
}

// MustResolve is Resolve for configuration values that have to be valid.
func MustResolve(name string) *time.Location {
	loc, ok := Resolve(name)
	if !ok {
		panic("timezone: unknown zone " + name)
	}
	return loc
}
