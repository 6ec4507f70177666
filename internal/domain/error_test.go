package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil error", nil, ""},
		{"domain error", &Error{Code: ENOTFOUND, Message: "gone"}, ENOTFOUND},
		{"wrapped domain error", fmt.Errorf("outer: %w", &Error{Code: ECONFLICT}), ECONFLICT},
		{"plain error", errors.New("boom"), EINTERNAL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorCode(tt.err))
		})
	}
}

func TestErrorMessage(t *testing.T) {
	t.Run("user facing message passes through", func(t *testing.T) {
		err := Invalid("inventory.update", "quantity must be non-negative")
		assert.Equal(t, "quantity must be non-negative", ErrorMessage(err))
	})

	t.Run("internal details are hidden", func(t *testing.T) {
		err := Internal(errors.New("pq: deadlock detected"), "product.create", "failed to create product")
		msg := ErrorMessage(err)
		assert.NotContains(t, msg, "deadlock")
	})

	t.Run("unknown errors are hidden", func(t *testing.T) {
		msg := ErrorMessage(errors.New("raw driver error"))
		assert.NotContains(t, msg, "driver")
	})
}

func TestErrorString(t *testing.T) {
	err := &Error{Code: EINTERNAL, Op: "order.get", Message: "failed to load order", Err: errors.New("conn refused")}
	assert.Equal(t, "order.get: failed to load order: conn refused", err.Error())

	err = &Error{Code: ENOTFOUND, Op: "order.get", Message: "order not found"}
	assert.Equal(t, "order.get: order not found", err.Error())
}

func TestErrorUnwrap(t *testing.T) {
	inner := errors.New("inner")
	err := WrapError(inner, EINTERNAL, "op", "wrapped")
	assert.True(t, errors.Is(err, inner))
	assert.Nil(t, WrapError(nil, EINTERNAL, "op", "wrapped"))
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("product.create", "name", "name is required")
	err = AddFieldError(err, "images", "add at least one image")

	assert.True(t, IsValidationError(err))

	fields := GetValidationFields(err)
	assert.Len(t, fields, 2)
	assert.Equal(t, "add at least one image", fields["images"])

	// non-validation errors yield nil fields
	assert.Nil(t, GetValidationFields(errors.New("nope")))
}

func TestAddFieldErrorStartsFresh(t *testing.T) {
	err := AddFieldError(nil, "sku", "sku already exists")
	fields := GetValidationFields(err)
	assert.Equal(t, map[string]string{"sku": "sku already exists"}, fields)
}
