package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/goldendragon/restaurant/internal/risk"
)

// Status is the lifecycle state of an order.
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusPreparing  Status = "preparing"
	StatusDelivering Status = "delivering"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
	StatusRejected   Status = "rejected"
)

// statusTransitions lists the allowed next states per state. Delivered,
// cancelled and rejected are terminal.
var statusTransitions = map[Status][]Status{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusPreparing, StatusCancelled},
	StatusPreparing:  {StatusDelivering, StatusCancelled},
	StatusDelivering: {StatusDelivered},
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusDelivering,
		StatusDelivered, StatusCancelled, StatusRejected:
		return true
	}
	return false
}

// Order is a persisted customer order together with its risk outcome.
type Order struct {
	ID                   uuid.UUID        `json:"id"`
	UserID               *uuid.UUID       `json:"user_id,omitempty"`
	CustomerName         string           `json:"customer_name"`
	Email                string           `json:"email"`
	Phone                string           `json:"phone"`
	DeliveryAddress      string           `json:"delivery_address"`
	Items                []risk.OrderItem `json:"items"`
	Subtotal             float64          `json:"subtotal"`
	Tax                  float64          `json:"tax"`
	DeliveryFee          float64          `json:"delivery_fee"`
	Total                float64          `json:"total"`
	Status               Status           `json:"status"`
	RiskScore            int              `json:"risk_score"`
	RiskIssues           []string         `json:"risk_issues,omitempty"`
	RequiresConfirmation bool             `json:"requires_confirmation"`
	Notes                string           `json:"notes,omitempty"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

// CreateOrderRequest is the order submission payload. Field semantics
// (email shape, phone shape, item validity, amount bounds) are judged by
// the risk evaluator rather than rejected at the binding layer. A zero
// total binds fine and earns the below-minimum issue downstream; only
// negative amounts are malformed input.
type CreateOrderRequest struct {
	CustomerName    string           `json:"customer_name" binding:"required"`
	Email           string           `json:"email" binding:"required"`
	Phone           string           `json:"phone" binding:"required"`
	DeliveryAddress string           `json:"delivery_address" binding:"required"`
	Items           []risk.OrderItem `json:"items"`
	Subtotal        float64          `json:"subtotal" binding:"gte=0"`
	Tax             float64          `json:"tax" binding:"gte=0"`
	DeliveryFee     float64          `json:"delivery_fee" binding:"gte=0"`
	Total           float64          `json:"total" binding:"gte=0"`
	Notes           string           `json:"notes"`
}

// CreateOrderResponse pairs the stored order with the risk verdict so the
// client can surface confirmation prompts and address suggestions.
type CreateOrderResponse struct {
	Order      *Order          `json:"order"`
	Assessment risk.Assessment `json:"assessment"`
}

// UpdateStatusRequest moves an order to a new lifecycle state.
type UpdateStatusRequest struct {
	Status Status `json:"status" binding:"required"`
}
