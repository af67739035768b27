package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBad = errors.New("bad input")

type input struct {
	Name       string `validate:"required,min=4"`
	Visibility string `validate:"oneof=PUBLIC PRIVATE"`
	ImageID    int64
}

func TestStruct(t *testing.T) {
	t.Parallel()

	require.NoError(t, Struct(input{Name: "alice", Visibility: "PUBLIC"}, errBad))

	err := Struct(input{Name: "al", Visibility: "SECRET"}, errBad)
	require.ErrorIs(t, err, errBad)

	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []FieldError{
		{Field: "name", Reason: "must be at least 4 characters"},
		{Field: "visibility", Reason: "must be one of PUBLIC PRIVATE"},
	}, verr.Fields)
	assert.Contains(t, err.Error(), "bad input: name:")
}

func TestInvalid(t *testing.T) {
	t.Parallel()

	err := Invalid(errBad, "imageId", "image not found")
	require.ErrorIs(t, err, errBad)
	assert.Equal(t, "bad input: imageId: image not found", err.Error())
}

func TestLowerFirst(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "imageID", lowerFirst("ImageID"))
	assert.Equal(t, "", lowerFirst(""))
}
