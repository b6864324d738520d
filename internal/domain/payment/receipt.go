package payment

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// receipt builds a human-traceable receipt from a timestamp and the first
// eight characters of the actor id. Uniqueness is best effort.
func receipt(now time.Time, userID uuid.UUID) string {
	return fmt.Sprintf("rcpt_%d_%s", now.UnixMilli(), userID.String()[:8])
}
