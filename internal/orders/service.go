package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goldendragon/restaurant/internal/risk"
	"github.com/goldendragon/restaurant/pkg/common"
	"github.com/goldendragon/restaurant/pkg/eventbus"
	"github.com/goldendragon/restaurant/pkg/logger"
	"github.com/goldendragon/restaurant/pkg/ws"
)

// OrderRepository defines the data access interface for orders
type OrderRepository interface {
	Create(ctx context.Context, order *Order) error
	GetByID(ctx context.Context, orderID uuid.UUID) (*Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Order, int64, error)
	List(ctx context.Context, status *Status, limit, offset int) ([]*Order, int64, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status Status) error
	CountOrdersForUser(ctx context.Context, userID string, since time.Time) (int, error)
}

// EventPublisher publishes order lifecycle events
type EventPublisher interface {
	Publish(ctx context.Context, subject, eventType, eventID string, payload interface{}) error
}

// Broadcaster pushes live updates to connected dashboard clients
type Broadcaster interface {
	Broadcast(msg ws.Message)
}

// Service implements order business logic
type Service struct {
	repo      OrderRepository
	evaluator *risk.Evaluator
	bus       EventPublisher
	hub       Broadcaster
	now       func() time.Time
}

// NewService creates a new order service. bus and hub may be nil; events and
// live updates are then skipped.
func NewService(repo OrderRepository, evaluator *risk.Evaluator, bus EventPublisher, hub Broadcaster) *Service {
	return &Service{
		repo:      repo,
		evaluator: evaluator,
		bus:       bus,
		hub:       hub,
		now:       time.Now,
	}
}

// CreateOrder scores the submission and persists the order with a status
// derived from the verdict: rejected when invalid, pending when the score
// calls for confirmation, confirmed otherwise. The order is stored in every
// case so staff can review rejections.
func (s *Service) CreateOrder(ctx context.Context, req *CreateOrderRequest, userID *uuid.UUID) (*CreateOrderResponse, error) {
	submission := risk.OrderSubmission{
		CustomerName:    req.CustomerName,
		Email:           req.Email,
		Phone:           req.Phone,
		DeliveryAddress: req.DeliveryAddress,
		OrderTotal:      req.Total,
		Items:           req.Items,
	}
	if userID != nil {
		submission.UserID = userID.String()
	}

	now := s.now().UTC()
	assessment := s.evaluator.Evaluate(ctx, submission, now)

	status := StatusConfirmed
	switch {
	case !assessment.IsValid:
		status = StatusRejected
	case assessment.RequiresConfirmation:
		status = StatusPending
	}

	order := &Order{
		ID:                   uuid.New(),
		UserID:               userID,
		CustomerName:         req.CustomerName,
		Email:                req.Email,
		Phone:                req.Phone,
		DeliveryAddress:      req.DeliveryAddress,
		Items:                req.Items,
		Subtotal:             req.Subtotal,
		Tax:                  req.Tax,
		DeliveryFee:          req.DeliveryFee,
		Total:                req.Total,
		Status:               status,
		RiskScore:            assessment.RiskScore,
		RiskIssues:           assessment.Issues,
		RequiresConfirmation: assessment.RequiresConfirmation,
		Notes:                req.Notes,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if err := s.repo.Create(ctx, order); err != nil {
		logger.WithContext(ctx).Error("Failed to create order", zap.Error(err))
		return nil, common.NewInternalServerError("failed to create order")
	}

	logger.WithContext(ctx).Info("Order created",
		zap.String("order_id", order.ID.String()),
		zap.String("status", string(order.Status)),
		zap.Int("risk_score", order.RiskScore))

	s.publishLifecycleEvents(ctx, order, assessment)
	s.broadcast("order.created", order)

	return &CreateOrderResponse{Order: order, Assessment: assessment}, nil
}

// GetOrder returns one order. Customers can only read their own orders;
// staff roles can read any.
func (s *Service) GetOrder(ctx context.Context, orderID uuid.UUID, requesterID uuid.UUID, role string) (*Order, error) {
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, common.NewNotFoundError("order not found", err)
	}

	if !isStaff(role) && (order.UserID == nil || *order.UserID != requesterID) {
		return nil, common.NewForbiddenError("not allowed to view this order")
	}

	return order, nil
}

// ListOrdersForUser lists the requesting customer's own orders
func (s *Service) ListOrdersForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Order, int64, error) {
	orders, total, err := s.repo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		logger.WithContext(ctx).Error("Failed to list orders", zap.Error(err))
		return nil, 0, common.NewInternalServerError("failed to list orders")
	}
	return orders, total, nil
}

// ListAllOrders lists every order for staff, optionally filtered by status
func (s *Service) ListAllOrders(ctx context.Context, status *Status, limit, offset int) ([]*Order, int64, error) {
	orders, total, err := s.repo.List(ctx, status, limit, offset)
	if err != nil {
		logger.WithContext(ctx).Error("Failed to list orders", zap.Error(err))
		return nil, 0, common.NewInternalServerError("failed to list orders")
	}
	return orders, total, nil
}

// UpdateStatus moves an order along its lifecycle, enforcing the allowed
// transitions. A pending order confirmed by staff emits the same confirmed
// event as an auto-confirmed one.
func (s *Service) UpdateStatus(ctx context.Context, orderID uuid.UUID, next Status) (*Order, error) {
	if !next.Valid() {
		return nil, common.NewBadRequestError("unknown order status", nil)
	}

	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, common.NewNotFoundError("order not found", err)
	}

	if !order.Status.CanTransitionTo(next) {
		return nil, common.NewConflictError("cannot move order from "+string(order.Status)+" to "+string(next), nil)
	}

	if err := s.repo.UpdateStatus(ctx, orderID, next); err != nil {
		logger.WithContext(ctx).Error("Failed to update order status", zap.Error(err))
		return nil, common.NewInternalServerError("failed to update order status")
	}

	order.Status = next
	order.UpdatedAt = s.now().UTC()

	if next == StatusConfirmed {
		s.publish(ctx, eventbus.SubjectOrderConfirmed, eventbus.EventOrderConfirmed, order.ID.String(), eventbus.OrderConfirmedData{
			OrderID:      order.ID,
			CustomerName: order.CustomerName,
			Email:        order.Email,
			Total:        order.Total,
		})
	}
	s.broadcast("order.status_changed", order)

	return order, nil
}

// publishLifecycleEvents emits created plus the verdict-specific event.
func (s *Service) publishLifecycleEvents(ctx context.Context, order *Order, assessment risk.Assessment) {
	s.publish(ctx, eventbus.SubjectOrderCreated, eventbus.EventOrderCreated, order.ID.String(), eventbus.OrderCreatedData{
		OrderID:      order.ID,
		CustomerName: order.CustomerName,
		Email:        order.Email,
		Phone:        order.Phone,
		Total:        order.Total,
		RiskScore:    order.RiskScore,
		Status:       string(order.Status),
	})

	switch order.Status {
	case StatusConfirmed:
		s.publish(ctx, eventbus.SubjectOrderConfirmed, eventbus.EventOrderConfirmed, order.ID.String(), eventbus.OrderConfirmedData{
			OrderID:      order.ID,
			CustomerName: order.CustomerName,
			Email:        order.Email,
			Total:        order.Total,
		})
	case StatusRejected:
		s.publish(ctx, eventbus.SubjectOrderRejected, eventbus.EventOrderRejected, order.ID.String(), eventbus.OrderRejectedData{
			OrderID:   order.ID,
			RiskScore: order.RiskScore,
			Issues:    assessment.Issues,
		})
	}
}

// publish sends one event, logging failures instead of surfacing them. Order
// persistence must not depend on bus availability.
func (s *Service) publish(ctx context.Context, subject, eventType, eventID string, payload interface{}) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, subject, eventType, eventID, payload); err != nil {
		logger.WithContext(ctx).Warn("Failed to publish order event",
			zap.String("subject", subject),
			zap.Error(err))
	}
}

func (s *Service) broadcast(msgType string, order *Order) {
	if s.hub == nil {
		return
	}
	s.hub.Broadcast(ws.Message{Type: msgType, Data: order})
}

func isStaff(role string) bool {
	return role == "restaurantHost" || role == "maintenance"
}
