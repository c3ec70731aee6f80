package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/goldendragon/restaurant/pkg/eventbus"
	"github.com/goldendragon/restaurant/pkg/logger"
)

// EventHandler processes order events from the bus and triggers customer
// notifications.
type EventHandler struct {
	service *Service
}

// NewEventHandler creates an event handler backed by the notification service.
func NewEventHandler(service *Service) *EventHandler {
	return &EventHandler{service: service}
}

// RegisterSubscriptions subscribes to order lifecycle events on the bus.
func (h *EventHandler) RegisterSubscriptions(ctx context.Context, bus *eventbus.Bus) error {
	if err := bus.Subscribe(ctx, "orders.>", "notifications-orders", h.handleOrderEvent); err != nil {
		return fmt.Errorf("subscribe to order events: %w", err)
	}
	logger.Info("notifications: subscribed to order lifecycle events")
	return nil
}

func (h *EventHandler) handleOrderEvent(ctx context.Context, event *eventbus.Event) error {
	switch event.Type {
	case eventbus.EventOrderConfirmed:
		return h.onOrderConfirmed(ctx, event)
	case eventbus.EventOrderRejected:
		return h.onOrderRejected(ctx, event)
	default:
		return nil
	}
}

func (h *EventHandler) onOrderConfirmed(ctx context.Context, event *eventbus.Event) error {
	var data eventbus.OrderConfirmedData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		return fmt.Errorf("unmarshal order confirmed: %w", err)
	}

	if err := h.service.SendOrderConfirmationEmail(ctx, data.Email, data.CustomerName, data.Total); err != nil {
		logger.Warn("failed to send order confirmation email",
			zap.String("order_id", data.OrderID.String()),
			zap.Error(err))
	}
	return nil
}

// onOrderRejected only records the rejection. Rejected submitters are not
// notified automatically; staff decide whether to follow up.
func (h *EventHandler) onOrderRejected(ctx context.Context, event *eventbus.Event) error {
	var data eventbus.OrderRejectedData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		return fmt.Errorf("unmarshal order rejected: %w", err)
	}

	logger.WithContext(ctx).Info("Order rejected by risk screening",
		zap.String("order_id", data.OrderID.String()),
		zap.Int("risk_score", data.RiskScore),
		zap.Strings("issues", data.Issues))
	return nil
}
