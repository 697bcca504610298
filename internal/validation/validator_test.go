package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reviewInput struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=10"`
	Email   string `json:"email" validate:"omitempty,email"`
	Mode    string `json:"mode" validate:"omitempty,oneof=hybrid content"`
}

func TestValidateValid(t *testing.T) {
	assert.NoError(t, Validate(&reviewInput{Rating: 4, Comment: "good"}))
}

func TestValidateMessages(t *testing.T) {
	err := Validate(&reviewInput{Rating: 9, Comment: "far too long a comment", Email: "nope", Mode: "random"})
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Fields, 4)

	byField := map[string]string{}
	for _, f := range verr.Fields {
		byField[f.Field] = f.Message
	}
	assert.Equal(t, "rating must be at most 5", byField["rating"])
	assert.Equal(t, "comment must be at most 10 characters", byField["comment"])
	assert.Equal(t, "email must be a valid email address", byField["email"])
	assert.Equal(t, "mode must be one of: hybrid content", byField["mode"])
}

func TestValidateRequired(t *testing.T) {
	err := Validate(&reviewInput{})
	require.Error(t, err)
	assert.Equal(t, "rating is required", err.Error())
}

func TestValidatorIsShared(t *testing.T) {
	assert.Same(t, Validator(), Validator())
}
