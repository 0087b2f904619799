package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name     string `validate:"required"`
	Priority string `validate:"oneof=high medium low"`
}

func TestValidate(t *testing.T) {
	v := New()

	require.NoError(t, v.Validate(sample{Name: "a", Priority: "high"}))

	err := v.Validate(sample{Priority: "urgent"})
	require.Error(t, err)

	desc := Describe(err)
	assert.Contains(t, desc, "sample.Name: required")
	assert.Contains(t, desc, "sample.Priority: oneof=high medium low")
}
