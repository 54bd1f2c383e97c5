package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Request / Response types ---

type registerRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=8"`
}

// registerResponse carries the enrollment artifacts. QRCodePNG is the
// provisioning QR as PNG bytes, base64-encoded by JSON marshalling.
type registerResponse struct {
	UserID          int64  `json:"user_id"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	TOTPSecret      string `json:"totp_secret"`
	ProvisioningURI string `json:"provisioning_uri"`
	QRCodePNG       []byte `json:"qr_code_png"`
}

// verify2FARequest is shared by the enrollment and login challenges.
type verify2FARequest struct {
	UserID   int64  `json:"user_id"   validate:"required"`
	TOTPCode string `json:"totp_code" validate:"required,len=6,numeric"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	UserID      int64 `json:"user_id"`
	Requires2FA bool  `json:"requires_2fa"`
}

type whoamiResponse struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type changeUsernameRequest struct {
	Username string `json:"username" validate:"required,min=3"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	TOTPCode        string `json:"totp_code"        validate:"required,len=6,numeric"`
	NewPassword     string `json:"new_password"     validate:"required,min=8"`
}
