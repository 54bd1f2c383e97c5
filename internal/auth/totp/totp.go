// Package totp wraps RFC 6238 one-time-code generation and verification
// behind the two operations the auth flow needs: enrolling a new account and
// checking a submitted 6-digit code.
package totp

import (
	"fmt"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"
)

const (
	secretBytes = 20 // 160 bits of entropy, base32-encoded
	qrSize      = 256
)

// validateOpts pins the verification parameters: 30-second steps, 6 digits,
// and one step of clock skew on either side.
var validateOpts = totp.ValidateOpts{
	Period:    30,
	Skew:      1,
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

// Enrollment holds the artifacts returned to a newly registered user.
type Enrollment struct {
	// Secret is the shared secret, base32-encoded.
	Secret string
	// ProvisioningURI is the standard otpauth:// URI embedding issuer and
	// account name, scannable by any authenticator app.
	ProvisioningURI string
	// QRCodePNG is the provisioning URI rendered as a PNG QR code.
	QRCodePNG []byte
}

// Manager issues enrollments and verifies codes for a fixed issuer name.
type Manager struct {
	issuer string
}

func NewManager(issuer string) *Manager {
	return &Manager{issuer: issuer}
}

// Enroll generates a fresh secret for the given account and returns the
// artifacts needed to provision an authenticator app.
func (m *Manager) Enroll(accountName string) (*Enrollment, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      m.issuer,
		AccountName: accountName,
		SecretSize:  secretBytes,
		Period:      validateOpts.Period,
		Digits:      validateOpts.Digits,
		Algorithm:   validateOpts.Algorithm,
	})
	if err != nil {
		return nil, fmt.Errorf("totp enroll: %w", err)
	}

	png, err := qrcode.Encode(key.URL(), qrcode.Medium, qrSize)
	if err != nil {
		return nil, fmt.Errorf("totp enroll: render qr: %w", err)
	}

	return &Enrollment{
		Secret:          key.Secret(),
		ProvisioningURI: key.URL(),
		QRCodePNG:       png,
	}, nil
}

// Verify reports whether code matches the secret at time at, accepting the
// current 30-second step and one step on either side.
func (m *Manager) Verify(secret, code string, at time.Time) bool {
	ok, err := totp.ValidateCustom(code, secret, at, validateOpts)
	if err != nil {
		return false
	}
	return ok
}
