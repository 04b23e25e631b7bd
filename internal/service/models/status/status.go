package status

import (
	"database/sql/driver"
	"errors"
)

// Status is the order lifecycle status.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

var ErrInvalidStatus = errors.New("invalid order status")

func (s Status) String() string {
	return string(s)
}

func (s Status) Value() (driver.Value, error) {
	return s.String(), nil
}

// Parse validates a raw status value. Unknown values are rejected.
func Parse(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return Status(s), nil
	default:
		return "", ErrInvalidStatus
	}
}

// ParseOrDefault validates a raw status value, falling back to pending for
// unknown or empty values. Used at order creation, where pending is a safe
// default; explicit status updates go through Parse instead.
func ParseOrDefault(s string) Status {
	parsed, err := Parse(s)
	if err != nil {
		return StatusPending
	}

	return parsed
}
