package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statusRequest struct {
	Status string `json:"status" validate:"required,oneof=open done blocked cancelled"`
	Date   string `json:"meeting_date" validate:"omitempty,datetime=2006-01-02"`
}

func TestValidate_AcceptsKnownStatus(t *testing.T) {
	v := New()
	for _, s := range []string{"open", "done", "blocked", "cancelled"} {
		assert.NoError(t, v.Validate(&statusRequest{Status: s}), s)
	}
}

func TestValidate_FieldErrorsUseJSONNames(t *testing.T) {
	v := New()

	err := v.Validate(&statusRequest{Status: "archived", Date: "June 1"})
	require.Error(t, err)

	fields := FieldErrors(err)
	assert.Equal(t, "must be one of: open, done, blocked, cancelled", fields["status"])
	assert.Equal(t, "must match layout 2006-01-02", fields["meeting_date"])
}

func TestValidate_Required(t *testing.T) {
	err := New().Validate(&statusRequest{})
	assert.Equal(t, map[string]string{"status": "is required"}, FieldErrors(err))
}

func TestFieldErrors_NonValidationError(t *testing.T) {
	assert.Nil(t, FieldErrors(errors.New("boom")))
}
