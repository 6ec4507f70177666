package postgres

import (
	"encoding/base64"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/atelierhq/atelier/internal/domain"
)

// productCursor is the keyset position encoded into the opaque page cursor:
// the sort field, the serialized sort key of the last row, and its id as the
// tie-breaker.
type productCursor struct {
	Field string    `json:"f"`
	Key   string    `json:"k"`
	ID    uuid.UUID `json:"id"`
}

func encodeCursor(c productCursor) string {
	b, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

// decodeCursor rejects garbage and cursors minted under a different sort so
// a stale bookmark cannot skew the keyset predicate.
func decodeCursor(s, sortField string) (productCursor, error) {
	var c productCursor
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return c, domain.Invalid("product.cursor", "invalid page cursor")
	}
	if err := json.Unmarshal(b, &c); err != nil {
		return c, domain.Invalid("product.cursor", "invalid page cursor")
	}
	if c.Field != sortField {
		return c, domain.Invalid("product.cursor", "cursor does not match the requested sort")
	}
	return c, nil
}
