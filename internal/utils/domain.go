package utils

import (
	"strings"
)

// NormalizeDomainName lowercases and trims a domain name as it arrives from
// upstream feeds
func NormalizeDomainName(domain string) string {
	return strings.ToLower(strings.TrimSpace(domain))
}

// DomainSlug converts a domain name into its URL slug (dots become hyphens).
// The transform is reversible via SlugToDomain.
func DomainSlug(domain string) string {
	return strings.ReplaceAll(NormalizeDomainName(domain), ".", "-")
}

// SlugToDomain reverses DomainSlug for single-label domains (name.tld)
func SlugToDomain(slug string) string {
	idx := strings.LastIndex(slug, "-")
	if idx == -1 {
		return slug
	}
	return slug[:idx] + "." + slug[idx+1:]
}

// ExtractTld returns the TLD portion of a domain name, without the dot
func ExtractTld(domain string) string {
	idx := strings.LastIndex(domain, ".")
	if idx == -1 {
		return ""
	}
	return domain[idx+1:]
}

// ExtractName returns the portion of a domain name before the first dot
func ExtractName(domain string) string {
	idx := strings.Index(domain, ".")
	if idx == -1 {
		return domain
	}
	return domain[:idx]
}
