// Package dto defines the form payloads posted to the auth routes.
package dto

// LoginForm is the body of POST /login.
type LoginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

// RegisterForm is the body of POST /register.
type RegisterForm struct {
	Username     string `form:"username"`
	Password     string `form:"password"`
	Confirmation string `form:"confirmation"`
}

// ChangePasswordForm is the body of POST /changepass.
type ChangePasswordForm struct {
	Old     string `form:"old"`
	New     string `form:"new"`
	Confirm string `form:"confirm"`
}
