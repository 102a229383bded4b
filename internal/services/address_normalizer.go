package services

import (
	"strings"

	"order-map-service/internal/domain"
)

// NormalizeAddress validates and trims a raw address-like record.
//
// The second return value is false when barangay, municipality, or province
// is missing or blank; resolution must not be attempted for such addresses.
// Pure and synchronous: no side effects, no network access.
func NormalizeAddress(raw domain.Address) (domain.Address, bool) {
	norm := domain.Address{
		Line1:        strings.TrimSpace(raw.Line1),
		Line2:        strings.TrimSpace(raw.Line2),
		Barangay:     strings.TrimSpace(raw.Barangay),
		Municipality: strings.TrimSpace(raw.Municipality),
		Province:     strings.TrimSpace(raw.Province),
		PostalCode:   strings.TrimSpace(raw.PostalCode),
	}

	if !norm.HasHierarchy() {
		return domain.Address{}, false
	}

	return norm, true
}

// ComposeAddress formats a display string from the non-empty address parts,
// comma-joined: line1, line2, barangay, municipality, province, postal code.
func ComposeAddress(a domain.Address) string {
	parts := make([]string, 0, 6)
	for _, p := range []string{a.Line1, a.Line2, a.Barangay, a.Municipality, a.Province, a.PostalCode} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
