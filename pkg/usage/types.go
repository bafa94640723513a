package usage

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event is one append-only usage log entry. Events feed dashboards and billing
// aggregation; writes are best-effort and never gate entitlement decisions.
type Event struct {
	TenantID  uuid.UUID      `json:"tenant_id"`
	Metric    string         `json:"metric"`
	Quantity  int64          `json:"quantity"`
	Source    string         `json:"source"` // originating operation, e.g. "enforce" or "refund"
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// Validate checks if the event has all required fields.
func (e *Event) Validate() error {
	if e.TenantID == uuid.Nil {
		return fmt.Errorf("%w: tenant_id is required", ErrEventValidation)
	}
	if e.Metric == "" {
		return fmt.Errorf("%w: metric is required", ErrEventValidation)
	}
	return nil
}
