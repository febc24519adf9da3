package user

import "errors"

var (
	ErrUnknownRole             = errors.New("unknown role")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrCompanyIDRequired       = errors.New("company ID is required")
	ErrCompanyAccessDenied     = errors.New("company access denied")
)
