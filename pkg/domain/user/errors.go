package user

import (
	"errors"
	"fmt"

	"github.com/angelous0/erp-textil/pkg/domain/shared"
)

// Domain errors for user operations.
var (
	ErrUserNotFound      = fmt.Errorf("user %w", shared.ErrNotFound)
	ErrUserAlreadyExists = fmt.Errorf("user %w", shared.ErrAlreadyExists)
	ErrUserInactive      = errors.New("user is inactive")
	ErrInvalidEmail      = fmt.Errorf("%w: invalid email", shared.ErrValidation)

	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrPasswordTooWeak    = errors.New("password does not meet requirements")
)

// AlreadyExistsError creates an already exists error for a username.
func AlreadyExistsError(username string) error {
	return fmt.Errorf("user %s %w", username, shared.ErrAlreadyExists)
}
