package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sampleInput struct {
	Email string `validate:"required,email"`
	Name  string `validate:"required,min=3"`
}

func TestValidatorAcceptsValidInput(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&sampleInput{Email: "a@b.com", Name: "abc"})
	assert.NoError(t, err)
}

func TestValidatorRejectsInvalidInput(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&sampleInput{Email: "not-an-email", Name: "x"})
	assert.Error(t, err)
}
