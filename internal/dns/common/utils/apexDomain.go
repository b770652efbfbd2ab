package utils

import "golang.org/x/net/publicsuffix"

// ApexDomain returns the registrable apex (effective TLD plus one) for
// a name, falling back to the canonical input when the public suffix
// list cannot place it.
func ApexDomain(name string) string {
	name = CanonicalText(name)
	apex, err := publicsuffix.EffectiveTLDPlusOne(name)
	if err != nil {
		return name
	}
	return apex
}

// IsPublicSuffix reports whether the name is itself a public suffix
// (com, co.uk, ...). Zone origins that are bare public suffixes are
// almost always configuration mistakes.
func IsPublicSuffix(name string) bool {
	name = CanonicalText(name)
	if name == "" {
		return false
	}
	suffix, _ := publicsuffix.PublicSuffix(name)
	return suffix == name
}
