package store

import "strings"

// Capability is one primitive a store adapter may offer.
type Capability uint8

const (
	// CapReadURL returns the cookies that apply to a URL.
	CapReadURL Capability = 1 << iota
	// CapReadAll enumerates every cookie in the store.
	CapReadAll
	// CapWrite stores a cookie.
	CapWrite
	// CapDeleteName removes a cookie by name for a URL.
	CapDeleteName
	// CapDeleteAll removes every cookie.
	CapDeleteAll
	// CapDeleteSession removes every cookie without an expiry.
	CapDeleteSession
	// CapFlush persists pending changes to disk.
	CapFlush
)

var capabilityNames = []struct {
	c    Capability
	name string
}{
	{CapReadURL, "read-for-url"},
	{CapReadAll, "read-all"},
	{CapWrite, "write"},
	{CapDeleteName, "delete-by-name"},
	{CapDeleteAll, "delete-all"},
	{CapDeleteSession, "delete-session-only"},
	{CapFlush, "flush"},
}

// Capabilities is a set of Capability values.
type Capabilities uint8

// CapabilitySet builds a set from caps.
func CapabilitySet(caps ...Capability) Capabilities {
	var s Capabilities
	for _, c := range caps {
		s |= Capabilities(c)
	}
	return s
}

// Has reports whether c is in the set.
func (s Capabilities) Has(c Capability) bool {
	return s&Capabilities(c) != 0
}

func (s Capabilities) String() string {
	var names []string
	for _, cn := range capabilityNames {
		if s.Has(cn.c) {
			names = append(names, cn.name)
		}
	}
	return "{" + strings.Join(names, ", ") + "}"
}

func (c Capability) String() string {
	for _, cn := range capabilityNames {
		if cn.c == c {
			return cn.name
		}
	}
	return "unknown"
}

// Variant names the kind of native store an adapter fronts.
type Variant int

const (
	// LegacyShared is the process-wide store without full enumeration.
	LegacyShared Variant = iota
	// PerWebview is the store scoped to a web-rendering context.
	PerWebview
)

func (v Variant) String() string {
	switch v {
	case LegacyShared:
		return "legacy-shared"
	case PerWebview:
		return "per-webview"
	default:
		return "unknown"
	}
}
