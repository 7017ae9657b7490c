package auth

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"party-lab/errors"
)

var validate = validator.New()

type registerRequest struct {
	Name string `validate:"required,min=1,max=32"`
}

// ValidateName checks the display name a player registers with.
func ValidateName(name string) error {
	if err := validate.Struct(registerRequest{Name: name}); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidName, err)
	}
	return nil
}
