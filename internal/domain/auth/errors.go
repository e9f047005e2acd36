package auth

import "errors"

var (
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrPasswordMismatch       = errors.New("password and confirm_password do not match")
	ErrInvalidToken           = errors.New("invalid or expired token")
	ErrTokenExpired           = errors.New("token has expired")
	ErrRefreshTokenRevoked    = errors.New("refresh token has been revoked")
	ErrGoogleAccountNotLinked = errors.New("no employee is registered with this google account")
	ErrGoogleLoginDisabled    = errors.New("google login is not configured")
)
