package eventbus

import "github.com/google/uuid"

// Subjects and event types for order lifecycle events.
const (
	SubjectOrderCreated   = "orders.created"
	SubjectOrderConfirmed = "orders.confirmed"
	SubjectOrderRejected  = "orders.rejected"

	EventOrderCreated   = "order.created"
	EventOrderConfirmed = "order.confirmed"
	EventOrderRejected  = "order.rejected"
)

// OrderCreatedData is published whenever an order is accepted for processing.
type OrderCreatedData struct {
	OrderID      uuid.UUID `json:"order_id"`
	CustomerName string    `json:"customer_name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Total        float64   `json:"total"`
	RiskScore    int       `json:"risk_score"`
	Status       string    `json:"status"`
}

// OrderConfirmedData is published when an order passes risk evaluation.
type OrderConfirmedData struct {
	OrderID      uuid.UUID `json:"order_id"`
	CustomerName string    `json:"customer_name"`
	Email        string    `json:"email"`
	Total        float64   `json:"total"`
}

// OrderRejectedData is published when an order fails risk evaluation.
type OrderRejectedData struct {
	OrderID   uuid.UUID `json:"order_id"`
	RiskScore int       `json:"risk_score"`
	Issues    []string  `json:"issues"`
}
