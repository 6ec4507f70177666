package postgres

import (
	"errors"
	"net"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelierhq/atelier/internal/domain"
)

func TestWrapQueryError(t *testing.T) {
	t.Run("nil passes through", func(t *testing.T) {
		assert.NoError(t, wrapQueryError(nil, "product.get", "query failed"))
	})

	t.Run("network error maps to unavailable", func(t *testing.T) {
		cause := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}

		err := wrapQueryError(cause, "product.get", "query failed")

		require.Error(t, err)
		assert.Equal(t, domain.EUNAVAILABLE, domain.ErrorCode(err))
		assert.ErrorIs(t, err, cause)
	})

	t.Run("pg error maps to internal with code", func(t *testing.T) {
		cause := &pgconn.PgError{Code: "42703", Message: "column does not exist"}

		err := wrapQueryError(cause, "product.get", "query failed")

		require.Error(t, err)
		assert.Equal(t, domain.EINTERNAL, domain.ErrorCode(err))
		assert.ErrorIs(t, err, cause)
	})

	t.Run("plain error maps to internal", func(t *testing.T) {
		err := wrapQueryError(errors.New("boom"), "product.get", "query failed")

		require.Error(t, err)
		assert.Equal(t, domain.EINTERNAL, domain.ErrorCode(err))
	})
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("boom")))
}
