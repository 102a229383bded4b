package domain

// Hierarchical shipping or business address.
// Barangay, Municipality, and Province form the required hierarchy;
// the remaining fields are optional display data.
type Address struct {
	Line1        string
	Line2        string
	Barangay     string
	Municipality string
	Province     string
	PostalCode   string
}

// Report whether the three required hierarchy levels are present.
// A partial hierarchy is treated as unresolvable, not as an error.
func (a Address) HasHierarchy() bool {
	return a.Barangay != "" && a.Municipality != "" && a.Province != ""
}
