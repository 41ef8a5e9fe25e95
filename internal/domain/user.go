package domain

import "strings"

// PermissionHandleCheckIn is required to log in a scanning device.
const PermissionHandleCheckIn = "HANDLE_CHECK_IN"

type User struct {
	ID          string   `json:"id"`
	Email       string   `json:"email" validate:"required,email"`
	FirstName   string   `json:"first_name"`
	Surname     string   `json:"surname"`
	Password    string   `json:"password,omitempty"`
	Salt        string   `json:"salt"`
	Permissions []string `json:"permissions"`
}

func (u *User) Name() string {
	return strings.TrimSpace(u.FirstName + " " + u.Surname)
}

func (u *User) HasPermission(code string) bool {
	for _, p := range u.Permissions {
		if p == code {
			return true
		}
	}
	return false
}

type CreateUserRequest struct {
	Email       string   `validate:"required,email"`
	Password    string   `validate:"required,min=8"`
	FirstName   string   `validate:"max=100"`
	Surname     string   `validate:"max=100"`
	Permissions []string `validate:"dive,required"`
}

// LoginRequest fields are optional at the decoding layer: any missing
// required field is answered with the same 401 as a bad password.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	UniqueID string `json:"uniqueId" validate:"required"`
	Brand    string `json:"brand"`
	Model    string `json:"model"`
}

// LoginResponse is the payload a scanner app stores after logging in. The
// same payload backs the device login QR code.
type LoginResponse struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Type              string `json:"type"`
	Title             string `json:"title"`
	Image             string `json:"image"`
	Token             string `json:"token"`
	ValidatePath      string `json:"validatePath"`
	ValidateTokenPath string `json:"validateTokenPath"`
}

// LoginTypeAccount tags login payloads issued for user accounts.
const LoginTypeAccount = "ACCOUNT"
