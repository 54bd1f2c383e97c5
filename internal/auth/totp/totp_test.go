package totp

import (
	"bytes"
	"strings"
	"testing"
	"time"

	ptotp "github.com/pquerna/otp/totp"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestManager_Enroll(t *testing.T) {
	m := NewManager("Devlog")

	enrollment, err := m.Enroll("alice@example.com")
	if err != nil {
		t.Fatalf("enroll failed: %v", err)
	}
	if enrollment.Secret == "" {
		t.Fatalf("expected secret")
	}
	if !strings.HasPrefix(enrollment.ProvisioningURI, "otpauth://totp/") {
		t.Fatalf("unexpected provisioning URI: %s", enrollment.ProvisioningURI)
	}
	if !strings.Contains(enrollment.ProvisioningURI, "Devlog") {
		t.Fatalf("issuer missing from URI: %s", enrollment.ProvisioningURI)
	}
	if !strings.Contains(enrollment.ProvisioningURI, "alice@example.com") {
		t.Fatalf("account missing from URI: %s", enrollment.ProvisioningURI)
	}
	if !strings.Contains(enrollment.ProvisioningURI, "secret="+enrollment.Secret) {
		t.Fatalf("secret missing from URI: %s", enrollment.ProvisioningURI)
	}
	if !bytes.HasPrefix(enrollment.QRCodePNG, pngMagic) {
		t.Fatalf("QR artifact is not a PNG")
	}
}

// A code produced by a standard RFC 6238 generator from the enrollment
// secret must verify: this is what an authenticator app does.
func TestManager_Verify_RoundTrip(t *testing.T) {
	m := NewManager("Devlog")
	enrollment, err := m.Enroll("bob@example.com")
	if err != nil {
		t.Fatalf("enroll failed: %v", err)
	}

	now := time.Now()
	code, err := ptotp.GenerateCode(enrollment.Secret, now)
	if err != nil {
		t.Fatalf("generate code: %v", err)
	}

	if !m.Verify(enrollment.Secret, code, now) {
		t.Fatalf("expected freshly generated code to verify")
	}
	if m.Verify(enrollment.Secret, "000000", now) {
		t.Fatalf("expected wrong code to be rejected")
	}
}

// Codes from the adjacent 30-second steps are accepted, two steps away they
// are not.
func TestManager_Verify_WindowBoundary(t *testing.T) {
	m := NewManager("Devlog")
	enrollment, err := m.Enroll("carol@example.com")
	if err != nil {
		t.Fatalf("enroll failed: %v", err)
	}

	// Pin the verification instant to a step boundary so step arithmetic is
	// exact.
	now := time.Unix(30*1_000_000, 0)
	step := 30 * time.Second

	cases := []struct {
		name   string
		offset time.Duration
		want   bool
	}{
		{"current step", 0, true},
		{"one step behind", -step, true},
		{"one step ahead", step, true},
		{"two steps behind", -2 * step, false},
		{"two steps ahead", 2 * step, false},
	}

	for _, tc := range cases {
		code, err := ptotp.GenerateCode(enrollment.Secret, now.Add(tc.offset))
		if err != nil {
			t.Fatalf("%s: generate code: %v", tc.name, err)
		}
		if got := m.Verify(enrollment.Secret, code, now); got != tc.want {
			t.Fatalf("%s: Verify = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestManager_Verify_BadSecret(t *testing.T) {
	m := NewManager("Devlog")
	if m.Verify("not-base32!!", "123456", time.Now()) {
		t.Fatalf("expected malformed secret to fail verification")
	}
}
