package registry

import "errors"

var (
	ErrEmailTaken          = errors.New("email already in use")
	ErrFamilyCodeTaken     = errors.New("family code already in use")
	ErrInvalidFamilyCode   = errors.New("invalid family code")
	ErrFamilyCodeExhausted = errors.New("could not generate a unique family code")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUserNotFound        = errors.New("user not found")
	ErrNoFamily            = errors.New("user is not part of any family")
	ErrMemberNotFound      = errors.New("member not found")
	ErrNotInFamily         = errors.New("member not part of your family")
)

// ValidationError is a client error carrying the message to show.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(msg string) error { return &ValidationError{Message: msg} }
