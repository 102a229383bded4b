package services

import (
	"testing"

	"order-map-service/internal/domain"
)

func TestNormalizeAddressTrimsFields(t *testing.T) {
	raw := domain.Address{
		Line1:        "  Purok 3 ",
		Barangay:     " Centro ",
		Municipality: " Sagnay",
		Province:     "Camarines Sur ",
		PostalCode:   " 4420",
	}

	norm, ok := NormalizeAddress(raw)
	if !ok {
		t.Fatal("expected address to normalize")
	}

	if norm.Line1 != "Purok 3" {
		t.Errorf("Line1 = %q, want %q", norm.Line1, "Purok 3")
	}
	if norm.Barangay != "Centro" {
		t.Errorf("Barangay = %q, want %q", norm.Barangay, "Centro")
	}
	if norm.Municipality != "Sagnay" {
		t.Errorf("Municipality = %q, want %q", norm.Municipality, "Sagnay")
	}
	if norm.Province != "Camarines Sur" {
		t.Errorf("Province = %q, want %q", norm.Province, "Camarines Sur")
	}
}

func TestNormalizeAddressRejectsPartialHierarchy(t *testing.T) {
	cases := []domain.Address{
		{Municipality: "Sagnay", Province: "Camarines Sur"},
		{Barangay: "Centro", Province: "Camarines Sur"},
		{Barangay: "Centro", Municipality: "Sagnay"},
		{Barangay: "   ", Municipality: "Sagnay", Province: "Camarines Sur"},
		{},
	}

	for i, raw := range cases {
		if _, ok := NormalizeAddress(raw); ok {
			t.Errorf("case %d: expected partial hierarchy to be rejected", i)
		}
	}
}

func TestComposeAddressJoinsNonEmptyParts(t *testing.T) {
	addr := domain.Address{
		Line1:        "Purok 3",
		Barangay:     "Centro",
		Municipality: "Sagnay",
		Province:     "Camarines Sur",
		PostalCode:   "4420",
	}

	got := ComposeAddress(addr)
	want := "Purok 3, Centro, Sagnay, Camarines Sur, 4420"
	if got != want {
		t.Errorf("ComposeAddress = %q, want %q", got, want)
	}
}

func TestComposeAddressSkipsEmptyParts(t *testing.T) {
	addr := domain.Address{
		Barangay:     "Pag-asa",
		Municipality: "Sagnay",
		Province:     "Camarines Sur",
	}

	got := ComposeAddress(addr)
	want := "Pag-asa, Sagnay, Camarines Sur"
	if got != want {
		t.Errorf("ComposeAddress = %q, want %q", got, want)
	}
}
