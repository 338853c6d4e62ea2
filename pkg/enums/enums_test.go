package enums

import "testing"

func TestParsePrincipalKind(t *testing.T) {
	for _, raw := range []string{"admin", "seller", "customer"} {
		kind, err := ParsePrincipalKind(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if kind.String() != raw {
			t.Fatalf("expected %q got %q", raw, kind)
		}
	}
	if _, err := ParsePrincipalKind("Admin"); err == nil {
		t.Fatalf("expected case-sensitive parse to reject Admin")
	}
}

func TestSellerEnumsDefaults(t *testing.T) {
	if !SellerRoleSeller.IsValid() || !SellerStatusPending.IsValid() || !PaymentStatusInactive.IsValid() {
		t.Fatalf("expected seller defaults to be valid")
	}
	if SellerStatus("closed").IsValid() {
		t.Fatalf("unexpected valid seller status")
	}
	if _, err := ParsePaymentStatus("paid"); err == nil {
		t.Fatalf("expected paid to be rejected")
	}
}

func TestHashSchemeValues(t *testing.T) {
	if HashSchemePBKDF2SHA512 != "pbkdf2-sha512" || HashSchemeHMACSHA256 != "hmac-sha256" {
		t.Fatalf("hash scheme values changed")
	}
	if _, err := ParseHashScheme("argon2id"); err == nil {
		t.Fatalf("expected unknown scheme to be rejected")
	}
	if !RegistrationMethodOAuth.IsValid() || AdminRole("owner").IsValid() {
		t.Fatalf("unexpected role/method validity")
	}
}
