package auth

import "errors"

var (
	ErrMissingCredentials = errors.New("email and password required")
	ErrInvalidCredentials = errors.New("invalid login credentials")
	ErrNotAdmin           = errors.New("admin access required")
)

// messages are shown on the login page.
var messages = map[error]string{
	ErrMissingCredentials: "Email and password are required",
	ErrInvalidCredentials: "Invalid login credentials",
	ErrNotAdmin:           "You do not have admin access",
}

type LoginRequest struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

// Admin is the signed-in dashboard user.
type Admin struct {
	ID          string
	Email       string
	DisplayName string
}
