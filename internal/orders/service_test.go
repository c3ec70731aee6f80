package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/goldendragon/restaurant/internal/risk"
	"github.com/goldendragon/restaurant/pkg/common"
	"github.com/goldendragon/restaurant/pkg/eventbus"
	"github.com/goldendragon/restaurant/pkg/ws"
)

type mockOrderRepository struct {
	mock.Mock
}

func (m *mockOrderRepository) Create(ctx context.Context, order *Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *mockOrderRepository) GetByID(ctx context.Context, orderID uuid.UUID) (*Order, error) {
	args := m.Called(ctx, orderID)
	order, _ := args.Get(0).(*Order)
	return order, args.Error(1)
}

func (m *mockOrderRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Order, int64, error) {
	args := m.Called(ctx, userID, limit, offset)
	orders, _ := args.Get(0).([]*Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *mockOrderRepository) List(ctx context.Context, status *Status, limit, offset int) ([]*Order, int64, error) {
	args := m.Called(ctx, status, limit, offset)
	orders, _ := args.Get(0).([]*Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *mockOrderRepository) UpdateStatus(ctx context.Context, orderID uuid.UUID, status Status) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *mockOrderRepository) CountOrdersForUser(ctx context.Context, userID string, since time.Time) (int, error) {
	args := m.Called(ctx, userID, since)
	return args.Int(0), args.Error(1)
}

type recordedEvent struct {
	subject   string
	eventType string
	payload   interface{}
}

type fakePublisher struct {
	events []recordedEvent
}

func (f *fakePublisher) Publish(ctx context.Context, subject, eventType, eventID string, payload interface{}) error {
	f.events = append(f.events, recordedEvent{subject: subject, eventType: eventType, payload: payload})
	return nil
}

type fakeBroadcaster struct {
	messages []ws.Message
}

func (f *fakeBroadcaster) Broadcast(msg ws.Message) {
	f.messages = append(f.messages, msg)
}

func testEvaluator(history risk.OrderHistory) *risk.Evaluator {
	cfg := risk.DefaultConfig()
	cfg.Location, _ = time.LoadLocation("America/New_York")
	return risk.NewEvaluator(cfg, history)
}

func fixedNow() time.Time {
	loc, _ := time.LoadLocation("America/New_York")
	return time.Date(2024, 5, 14, 14, 0, 0, 0, loc)
}

func cleanRequest() *CreateOrderRequest {
	return &CreateOrderRequest{
		CustomerName:    "Jane Doe",
		Email:           "jane@example.com",
		Phone:           "212-555-0198",
		DeliveryAddress: "456 Elm Street, 10003",
		Total:           45,
		Items: []risk.OrderItem{
			{Name: "Kung Pao Chicken", Price: 15.95, Quantity: 2},
		},
	}
}

func newTestService(repo *mockOrderRepository, bus *fakePublisher, hub *fakeBroadcaster) *Service {
	// Avoid wrapping typed nil pointers in the interface parameters, which
	// would defeat the service's nil checks.
	var busIface EventPublisher
	if bus != nil {
		busIface = bus
	}
	var hubIface Broadcaster
	if hub != nil {
		hubIface = hub
	}
	service := NewService(repo, testEvaluator(repo), busIface, hubIface)
	service.now = fixedNow
	return service
}

func TestCreateOrderCleanSubmissionIsConfirmed(t *testing.T) {
	ctx := context.Background()
	repo := new(mockOrderRepository)
	bus := &fakePublisher{}
	hub := &fakeBroadcaster{}
	service := newTestService(repo, bus, hub)

	repo.On("Create", ctx, mock.AnythingOfType("*orders.Order")).Return(nil)

	response, err := service.CreateOrder(ctx, cleanRequest(), nil)

	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, response.Order.Status)
	assert.Zero(t, response.Order.RiskScore)
	assert.True(t, response.Assessment.IsValid)
	assert.Equal(t, "456 Elm St, 10003", response.Assessment.SuggestedAddress)

	require.Len(t, bus.events, 2)
	assert.Equal(t, eventbus.SubjectOrderCreated, bus.events[0].subject)
	assert.Equal(t, eventbus.SubjectOrderConfirmed, bus.events[1].subject)

	require.Len(t, hub.messages, 1)
	assert.Equal(t, "order.created", hub.messages[0].Type)

	repo.AssertExpectations(t)
}

func TestCreateOrderLargeAmountIsPending(t *testing.T) {
	ctx := context.Background()
	repo := new(mockOrderRepository)
	bus := &fakePublisher{}
	service := newTestService(repo, bus, nil)

	repo.On("Create", ctx, mock.AnythingOfType("*orders.Order")).Return(nil)

	req := cleanRequest()
	req.Total = 600

	response, err := service.CreateOrder(ctx, req, nil)

	require.NoError(t, err)
	assert.Equal(t, StatusPending, response.Order.Status)
	assert.True(t, response.Order.RequiresConfirmation)
	assert.Equal(t, 40, response.Order.RiskScore)

	// Pending orders only emit the created event; confirmation comes later
	// from staff.
	require.Len(t, bus.events, 1)
	assert.Equal(t, eventbus.SubjectOrderCreated, bus.events[0].subject)

	repo.AssertExpectations(t)
}

func TestCreateOrderInvalidSubmissionIsRejectedButStored(t *testing.T) {
	ctx := context.Background()
	repo := new(mockOrderRepository)
	bus := &fakePublisher{}
	service := newTestService(repo, bus, nil)

	var stored *Order
	repo.On("Create", ctx, mock.AnythingOfType("*orders.Order")).Run(func(args mock.Arguments) {
		stored = args.Get(1).(*Order)
	}).Return(nil)

	req := cleanRequest()
	req.Phone = "555-555-5555"

	response, err := service.CreateOrder(ctx, req, nil)

	require.NoError(t, err)
	assert.Equal(t, StatusRejected, response.Order.Status)
	assert.False(t, response.Assessment.IsValid)
	require.NotNil(t, stored)
	assert.Equal(t, StatusRejected, stored.Status)
	assert.NotEmpty(t, stored.RiskIssues)

	require.Len(t, bus.events, 2)
	assert.Equal(t, eventbus.SubjectOrderRejected, bus.events[1].subject)
	rejected := bus.events[1].payload.(eventbus.OrderRejectedData)
	assert.Equal(t, response.Order.ID, rejected.OrderID)
	assert.Equal(t, response.Order.RiskScore, rejected.RiskScore)
}

func TestCreateOrderUsesOrderHistoryForLoggedInUsers(t *testing.T) {
	ctx := context.Background()
	repo := new(mockOrderRepository)
	service := newTestService(repo, nil, nil)
	userID := uuid.New()

	repo.On("CountOrdersForUser", ctx, userID.String(), fixedNow().UTC().Add(-time.Hour)).Return(6, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*orders.Order")).Return(nil)

	response, err := service.CreateOrder(ctx, cleanRequest(), &userID)

	require.NoError(t, err)
	assert.Contains(t, response.Assessment.Issues, "Too many orders (6) in the last hour")
	assert.Equal(t, 35, response.Order.RiskScore)
	assert.Equal(t, &userID, response.Order.UserID)

	repo.AssertExpectations(t)
}

func TestCreateOrderHistoryFailureStillConfirms(t *testing.T) {
	ctx := context.Background()
	repo := new(mockOrderRepository)
	service := newTestService(repo, nil, nil)
	userID := uuid.New()

	repo.On("CountOrdersForUser", ctx, userID.String(), mock.AnythingOfType("time.Time")).
		Return(0, assert.AnError)
	repo.On("Create", ctx, mock.AnythingOfType("*orders.Order")).Return(nil)

	response, err := service.CreateOrder(ctx, cleanRequest(), &userID)

	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, response.Order.Status)
	assert.Zero(t, response.Order.RiskScore)
}

func TestUpdateStatusConfirmingPendingOrderPublishesEvent(t *testing.T) {
	ctx := context.Background()
	repo := new(mockOrderRepository)
	bus := &fakePublisher{}
	service := newTestService(repo, bus, nil)
	orderID := uuid.New()

	repo.On("GetByID", ctx, orderID).Return(&Order{
		ID:           orderID,
		CustomerName: "Jane Doe",
		Email:        "jane@example.com",
		Total:        600,
		Status:       StatusPending,
	}, nil)
	repo.On("UpdateStatus", ctx, orderID, StatusConfirmed).Return(nil)

	order, err := service.UpdateStatus(ctx, orderID, StatusConfirmed)

	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, order.Status)

	require.Len(t, bus.events, 1)
	assert.Equal(t, eventbus.SubjectOrderConfirmed, bus.events[0].subject)
	confirmed := bus.events[0].payload.(eventbus.OrderConfirmedData)
	assert.Equal(t, "jane@example.com", confirmed.Email)

	repo.AssertExpectations(t)
}

func TestUpdateStatusRejectsInvalidTransition(t *testing.T) {
	ctx := context.Background()
	repo := new(mockOrderRepository)
	service := newTestService(repo, nil, nil)
	orderID := uuid.New()

	repo.On("GetByID", ctx, orderID).Return(&Order{ID: orderID, Status: StatusDelivered}, nil)

	_, err := service.UpdateStatus(ctx, orderID, StatusPreparing)

	require.Error(t, err)
	appErr, ok := err.(*common.AppError)
	require.True(t, ok)
	assert.Equal(t, 409, appErr.Code)
	repo.AssertNotCalled(t, "UpdateStatus", ctx, orderID, StatusPreparing)
}

func TestUpdateStatusUnknownStatus(t *testing.T) {
	service := newTestService(new(mockOrderRepository), nil, nil)

	_, err := service.UpdateStatus(context.Background(), uuid.New(), Status("burned"))

	require.Error(t, err)
	appErr, ok := err.(*common.AppError)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.Code)
}

func TestGetOrderOwnershipEnforced(t *testing.T) {
	ctx := context.Background()
	repo := new(mockOrderRepository)
	service := newTestService(repo, nil, nil)
	orderID := uuid.New()
	ownerID := uuid.New()
	strangerID := uuid.New()

	repo.On("GetByID", ctx, orderID).Return(&Order{ID: orderID, UserID: &ownerID}, nil)

	_, err := service.GetOrder(ctx, orderID, strangerID, "customer")
	require.Error(t, err)
	appErr, ok := err.(*common.AppError)
	require.True(t, ok)
	assert.Equal(t, 403, appErr.Code)

	// Owner and staff both succeed.
	_, err = service.GetOrder(ctx, orderID, ownerID, "customer")
	assert.NoError(t, err)
	_, err = service.GetOrder(ctx, orderID, strangerID, "restaurantHost")
	assert.NoError(t, err)
}
