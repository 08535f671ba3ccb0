// Package tracking generates the public-facing parcel tracking codes.
package tracking

import (
	"fmt"

	"github.com/google/uuid"
)

// Prefix brands every tracking code.
const Prefix = "FT"

// NewCode returns a short, human-shareable code: the fixed prefix followed by
// eight uppercase hex characters drawn from a random UUID. Uniqueness is
// best-effort; the parcels table carries a unique constraint on the column as
// the backstop.
func NewCode() string {
	id := uuid.New()
	return fmt.Sprintf("%s%X", Prefix, id[:4])
}
