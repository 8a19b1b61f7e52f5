package security_test

import (
	"testing"
	"time"

	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/adapters/security"
	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/ports"
)

const secret = "0123456789abcdef-operators"

func TestSignAndVerify(t *testing.T) {
	t.Parallel()
	verifier, err := security.NewHMACTokenVerifier(secret, "satisfaction-analytics")
	if err != nil {
		t.Fatalf("verifier: %v", err)
	}
	token, err := verifier.Sign(ports.TokenClaims{SubjectID: "ops-1", Role: " Admin "}, time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	claims, err := verifier.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.SubjectID != "ops-1" || claims.Role != "admin" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestVerifyRejects(t *testing.T) {
	t.Parallel()
	verifier, err := security.NewHMACTokenVerifier(secret, "satisfaction-analytics")
	if err != nil {
		t.Fatalf("verifier: %v", err)
	}
	other, err := security.NewHMACTokenVerifier("another-secret-with-length", "satisfaction-analytics")
	if err != nil {
		t.Fatalf("verifier: %v", err)
	}
	foreignIssuer, err := security.NewHMACTokenVerifier(secret, "someone-else")
	if err != nil {
		t.Fatalf("verifier: %v", err)
	}

	wrongSecret, _ := other.Sign(ports.TokenClaims{SubjectID: "ops-1"}, time.Minute)
	expired, _ := verifier.Sign(ports.TokenClaims{SubjectID: "ops-1"}, -time.Hour)
	wrongIssuer, _ := foreignIssuer.Sign(ports.TokenClaims{SubjectID: "ops-1"}, time.Minute)

	cases := map[string]string{
		"wrong secret": wrongSecret,
		"expired":      expired,
		"wrong issuer": wrongIssuer,
		"garbage":      "not-a-token",
	}
	for name, token := range cases {
		if _, err := verifier.Verify(token); err == nil {
			t.Fatalf("%s: expected verification failure", name)
		}
	}
}

func TestVerifierConstruction(t *testing.T) {
	t.Parallel()
	if _, err := security.NewHMACTokenVerifier("too-short", ""); err == nil {
		t.Fatalf("expected short secret to be rejected")
	}
	verifier, err := security.NewHMACTokenVerifier(secret, "")
	if err != nil {
		t.Fatalf("verifier: %v", err)
	}
	if _, err := verifier.Sign(ports.TokenClaims{}, time.Minute); err == nil {
		t.Fatalf("expected empty subject to be rejected")
	}
}
