package services

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/sbilibin2017/juicebox/internal/apperrors"
	"golang.org/x/crypto/bcrypt"
)

// maxNameLength is the width of the VARCHAR columns holding names and titles.
const maxNameLength = 255

var validate = validator.New()

// validateStruct checks the `validate` tags of params.
func validateStruct(params any) error {
	if err := validate.Struct(params); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return nil
}

// validateTagNames rejects empty and oversized tag names. Names are otherwise kept as given.
func validateTagNames(names []string) error {
	for i, name := range names {
		if name == "" {
			return fmt.Errorf("%w: tag %d is empty", apperrors.ErrValidation, i)
		}
		if utf8.RuneCountInString(name) > maxNameLength {
			return fmt.Errorf("%w: tag %d is longer than %d characters", apperrors.ErrValidation, i, maxNameLength)
		}
	}
	return nil
}

// hashPassword hashes password with bcrypt. Passwords bcrypt cannot take are a validation error.
func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
