package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"app/internal/domain/model"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// Repository mocks / fakes
// =====================

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) ReadAll(ctx context.Context) ([]model.Order, error) {
	args := m.Called(ctx)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

func (m *OrderRepoMock) WriteAll(ctx context.Context, orders []model.Order) error {
	args := m.Called(ctx, orders)
	return args.Error(0)
}

type RestaurantRepoMock struct{ mock.Mock }

func (m *RestaurantRepoMock) ReadAll(ctx context.Context) ([]model.Restaurant, error) {
	args := m.Called(ctx)
	rs, _ := args.Get(0).([]model.Restaurant)
	return rs, args.Error(1)
}

func (m *RestaurantRepoMock) WriteAll(ctx context.Context, restaurants []model.Restaurant) error {
	args := m.Called(ctx, restaurants)
	return args.Error(0)
}

// ステートフルなシナリオ用のin-memory実装
type memoryOrderRepo struct {
	orders []model.Order
}

func (r *memoryOrderRepo) ReadAll(ctx context.Context) ([]model.Order, error) {
	out := make([]model.Order, len(r.orders))
	copy(out, r.orders)
	return out, nil
}

func (r *memoryOrderRepo) WriteAll(ctx context.Context, orders []model.Order) error {
	r.orders = make([]model.Order, len(orders))
	copy(r.orders, orders)
	return nil
}

type memoryRestaurantRepo struct {
	restaurants []model.Restaurant
}

func (r *memoryRestaurantRepo) ReadAll(ctx context.Context) ([]model.Restaurant, error) {
	out := make([]model.Restaurant, len(r.restaurants))
	copy(out, r.restaurants)
	return out, nil
}

func (r *memoryRestaurantRepo) WriteAll(ctx context.Context, restaurants []model.Restaurant) error {
	r.restaurants = make([]model.Restaurant, len(restaurants))
	copy(r.restaurants, restaurants)
	return nil
}

type fixedIDGen struct{ id string }

func (g *fixedIDGen) NewID() string { return g.id }

type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

func testRestaurant() model.Restaurant {
	return model.Restaurant{
		ID:          "r1",
		Name:        "Diamond Grill House",
		IsOpen:      true,
		DeliveryFee: 1.5,
		MinOrder:    15,
		Menu: []model.MenuItem{
			{ID: "m1", Name: "Signature Diamond Steak", Price: 20, IsAvailable: true},
			{ID: "m2", Name: "Gilded Wings", Price: 18, IsAvailable: false},
		},
		HistoricalAvgMinutes: 25,
	}
}

func newTestUsecase(orders *memoryOrderRepo, restaurants *memoryRestaurantRepo) *usecase.OrderUsecase {
	return usecase.NewOrderUsecase(
		orders,
		restaurants,
		&fixedIDGen{id: "abcdef12-0000-0000-0000-000000000000"},
		&fixedClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
	)
}

func assertErrContains(t *testing.T, err error, wantSubstr string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.True(t, strings.Contains(err.Error(), wantSubstr), "err=%q want contains %q", err.Error(), wantSubstr)
	}
}

// =====================
// PlaceOrder tests
// =====================

func TestOrderUsecase_PlaceOrder_TotalIsCartPlusDeliveryFee(t *testing.T) {
	orders := &memoryOrderRepo{}
	restaurants := &memoryRestaurantRepo{restaurants: []model.Restaurant{testRestaurant()}}
	uc := newTestUsecase(orders, restaurants)

	// 20 × 2 = 40 のカート、配達料 1.5
	out, err := uc.PlaceOrder(context.Background(), usecase.PlaceOrderInput{
		CustomerID:      "user-1",
		RestaurantID:    "r1",
		Items:           []usecase.PlaceOrderItemInput{{MenuItemID: "m1", Quantity: 2}},
		DeliveryAddress: "777 Emerald Blvd",
		PaymentMethod:   model.PaymentMethodCard,
	})

	assert.NoError(t, err)
	assert.Equal(t, 41.5, out.Total)
	assert.Equal(t, model.OrderStatusPending, out.Status)
	assert.Equal(t, int64(4), out.LoyaltyPointsEarned) // floor(40 × 0.1)
	assert.True(t, strings.HasPrefix(out.ID, "DIAMOND-"))
	assert.Equal(t, 1, len(orders.orders))
}

func TestOrderUsecase_PlaceOrder_InsufficientFunds_NoOrderCreated(t *testing.T) {
	ordersRepo := new(OrderRepoMock)
	restaurantsRepo := new(RestaurantRepoMock)
	restaurantsRepo.On("ReadAll", mock.Anything).Return([]model.Restaurant{testRestaurant()}, nil)

	uc := usecase.NewOrderUsecase(ordersRepo, restaurantsRepo, &fixedIDGen{id: "x"}, &fixedClock{now: time.Now()})

	_, err := uc.PlaceOrder(context.Background(), usecase.PlaceOrderInput{
		CustomerID:      "user-1",
		RestaurantID:    "r1",
		Items:           []usecase.PlaceOrderItemInput{{MenuItemID: "m1", Quantity: 2}},
		DeliveryAddress: "777 Emerald Blvd",
		PaymentMethod:   model.PaymentMethodWallet,
		WalletBalance:   10,
	})

	assert.True(t, errors.Is(err, usecase.ErrInsufficientFunds))
	assertErrContains(t, err, "insufficient funds")

	// 注文は一切作られない（ReadAllもWriteAllも呼ばれない）
	ordersRepo.AssertNotCalled(t, "WriteAll", mock.Anything, mock.Anything)
	ordersRepo.AssertNotCalled(t, "ReadAll", mock.Anything)
}

func TestOrderUsecase_PlaceOrder_UnavailableItemRejected(t *testing.T) {
	orders := &memoryOrderRepo{}
	restaurants := &memoryRestaurantRepo{restaurants: []model.Restaurant{testRestaurant()}}
	uc := newTestUsecase(orders, restaurants)

	_, err := uc.PlaceOrder(context.Background(), usecase.PlaceOrderInput{
		CustomerID:      "user-1",
		RestaurantID:    "r1",
		Items:           []usecase.PlaceOrderItemInput{{MenuItemID: "m2", Quantity: 1}},
		DeliveryAddress: "777 Emerald Blvd",
	})

	assertErrContains(t, err, "menu item unavailable")
	assert.Equal(t, 0, len(orders.orders))
}

func TestOrderUsecase_PlaceOrder_BelowMinimumOrder(t *testing.T) {
	rs := testRestaurant()
	rs.MinOrder = 100

	orders := &memoryOrderRepo{}
	restaurants := &memoryRestaurantRepo{restaurants: []model.Restaurant{rs}}
	uc := newTestUsecase(orders, restaurants)

	_, err := uc.PlaceOrder(context.Background(), usecase.PlaceOrderInput{
		CustomerID:      "user-1",
		RestaurantID:    "r1",
		Items:           []usecase.PlaceOrderItemInput{{MenuItemID: "m1", Quantity: 1}},
		DeliveryAddress: "777 Emerald Blvd",
	})

	assertErrContains(t, err, "below minimum order")
}

// =====================
// Transition tests
// =====================

func seededOrder(status model.OrderStatus) model.Order {
	return model.Order{
		ID:           "DIAMOND-TEST01",
		CustomerID:   "user-1",
		RestaurantID: "r1",
		Status:       status,
		Total:        41.5,
	}
}

func TestOrderUsecase_Transition_AdjacentEdgeSucceeds(t *testing.T) {
	orders := &memoryOrderRepo{orders: []model.Order{seededOrder(model.OrderStatusPending)}}
	restaurants := &memoryRestaurantRepo{restaurants: []model.Restaurant{testRestaurant()}}
	uc := newTestUsecase(orders, restaurants)

	out, err := uc.Transition(context.Background(), "DIAMOND-TEST01", model.OrderStatusAccepted, "")
	assert.NoError(t, err)
	assert.Equal(t, model.OrderStatusAccepted, out.Status)
	assert.Equal(t, model.OrderStatusAccepted, orders.orders[0].Status)
}

func TestOrderUsecase_Transition_NonAdjacentJumpRejected(t *testing.T) {
	ordersRepo := new(OrderRepoMock)
	restaurantsRepo := new(RestaurantRepoMock)
	ordersRepo.On("ReadAll", mock.Anything).Return([]model.Order{seededOrder(model.OrderStatusPending)}, nil)

	uc := usecase.NewOrderUsecase(ordersRepo, restaurantsRepo, &fixedIDGen{id: "x"}, &fixedClock{now: time.Now()})

	// PENDING → DELIVERED の直行は不正
	_, err := uc.Transition(context.Background(), "DIAMOND-TEST01", model.OrderStatusDelivered, "")

	assert.True(t, errors.Is(err, usecase.ErrInvalidTransition))
	assertErrContains(t, err, "invalid transition")

	// 状態は一切変わらない
	ordersRepo.AssertNotCalled(t, "WriteAll", mock.Anything, mock.Anything)
}

func TestOrderUsecase_Transition_OutOfTerminalRejected(t *testing.T) {
	for _, terminal := range []model.OrderStatus{model.OrderStatusDelivered, model.OrderStatusCancelled} {
		ordersRepo := new(OrderRepoMock)
		restaurantsRepo := new(RestaurantRepoMock)
		ordersRepo.On("ReadAll", mock.Anything).Return([]model.Order{seededOrder(terminal)}, nil)

		uc := usecase.NewOrderUsecase(ordersRepo, restaurantsRepo, &fixedIDGen{id: "x"}, &fixedClock{now: time.Now()})

		_, err := uc.Transition(context.Background(), "DIAMOND-TEST01", model.OrderStatusAccepted, "")
		assert.True(t, errors.Is(err, usecase.ErrInvalidTransition), "terminal=%s", terminal)
		ordersRepo.AssertNotCalled(t, "WriteAll", mock.Anything, mock.Anything)
	}
}

func TestOrderUsecase_Transition_UnknownStatusRejected(t *testing.T) {
	orders := &memoryOrderRepo{orders: []model.Order{seededOrder(model.OrderStatusPending)}}
	restaurants := &memoryRestaurantRepo{}
	uc := newTestUsecase(orders, restaurants)

	_, err := uc.Transition(context.Background(), "DIAMOND-TEST01", model.OrderStatus("SHIPPED"), "")
	assertErrContains(t, err, "invalid status")
}

func TestOrderUsecase_Transition_OrderNotFound(t *testing.T) {
	orders := &memoryOrderRepo{}
	restaurants := &memoryRestaurantRepo{}
	uc := newTestUsecase(orders, restaurants)

	_, err := uc.Transition(context.Background(), "DIAMOND-NOPE", model.OrderStatusAccepted, "")
	assertErrContains(t, err, "order not found")
}

func TestOrderUsecase_Transition_OutForDeliveryRequiresCourier(t *testing.T) {
	// 店の受理だけ（courier無し）の注文は配達に入れない
	for _, status := range []model.OrderStatus{model.OrderStatusAccepted, model.OrderStatusReady} {
		ordersRepo := new(OrderRepoMock)
		restaurantsRepo := new(RestaurantRepoMock)
		ordersRepo.On("ReadAll", mock.Anything).Return([]model.Order{seededOrder(status)}, nil)

		uc := usecase.NewOrderUsecase(ordersRepo, restaurantsRepo, &fixedIDGen{id: "x"}, &fixedClock{now: time.Now()})

		_, err := uc.Transition(context.Background(), "DIAMOND-TEST01", model.OrderStatusOutForDelivery, "")
		assert.True(t, errors.Is(err, usecase.ErrInvalidTransition), "status=%s", status)
		assertErrContains(t, err, "courier not assigned")
		ordersRepo.AssertNotCalled(t, "WriteAll", mock.Anything, mock.Anything)
	}
}

func TestOrderUsecase_Transition_OutForDeliveryAfterCourierAccept(t *testing.T) {
	ctx := context.Background()
	orders := &memoryOrderRepo{orders: []model.Order{seededOrder(model.OrderStatusReady)}}
	restaurants := &memoryRestaurantRepo{}
	uc := newTestUsecase(orders, restaurants)

	_, err := uc.AssignCourier(ctx, "DIAMOND-TEST01", "driver-1")
	assert.NoError(t, err)

	out, err := uc.Transition(ctx, "DIAMOND-TEST01", model.OrderStatusOutForDelivery, "")
	assert.NoError(t, err)
	assert.Equal(t, model.OrderStatusOutForDelivery, out.Status)
	assert.True(t, out.CourierAssigned)
}

// =====================
// Cancel tests
// =====================

func TestOrderUsecase_Cancel_FromPending_RecordsReasonVerbatim(t *testing.T) {
	orders := &memoryOrderRepo{orders: []model.Order{seededOrder(model.OrderStatusPending)}}
	restaurants := &memoryRestaurantRepo{}
	uc := newTestUsecase(orders, restaurants)

	reason := "Changed my mind, ordered sushi instead."
	out, err := uc.Cancel(context.Background(), "DIAMOND-TEST01", reason)

	assert.NoError(t, err)
	assert.Equal(t, model.OrderStatusCancelled, out.Status)
	assert.Equal(t, reason, out.CancellationReason)
	assert.Equal(t, reason, orders.orders[0].CancellationReason)
}

func TestOrderUsecase_Cancel_AfterAccept_Rejected(t *testing.T) {
	orders := &memoryOrderRepo{orders: []model.Order{seededOrder(model.OrderStatusAccepted)}}
	restaurants := &memoryRestaurantRepo{}
	uc := newTestUsecase(orders, restaurants)

	_, err := uc.Cancel(context.Background(), "DIAMOND-TEST01", "too late")
	assert.True(t, errors.Is(err, usecase.ErrInvalidTransition))
	assert.Equal(t, model.OrderStatusAccepted, orders.orders[0].Status)
}

// =====================
// AssignCourier tests
// =====================

func TestOrderUsecase_AssignCourier_RequiresReady(t *testing.T) {
	for _, status := range []model.OrderStatus{
		model.OrderStatusPending,
		model.OrderStatusAccepted,
		model.OrderStatusPreparing,
		model.OrderStatusOutForDelivery,
		model.OrderStatusDelivered,
	} {
		ordersRepo := new(OrderRepoMock)
		restaurantsRepo := new(RestaurantRepoMock)
		ordersRepo.On("ReadAll", mock.Anything).Return([]model.Order{seededOrder(status)}, nil)

		uc := usecase.NewOrderUsecase(ordersRepo, restaurantsRepo, &fixedIDGen{id: "x"}, &fixedClock{now: time.Now()})

		_, err := uc.AssignCourier(context.Background(), "DIAMOND-TEST01", "driver-1")
		assert.True(t, errors.Is(err, usecase.ErrInvalidTransition), "status=%s", status)
		ordersRepo.AssertNotCalled(t, "WriteAll", mock.Anything, mock.Anything)
	}
}

func TestOrderUsecase_AssignCourier_FromReady(t *testing.T) {
	orders := &memoryOrderRepo{orders: []model.Order{seededOrder(model.OrderStatusReady)}}
	restaurants := &memoryRestaurantRepo{}
	uc := newTestUsecase(orders, restaurants)

	out, err := uc.AssignCourier(context.Background(), "DIAMOND-TEST01", "driver-1")
	assert.NoError(t, err)
	assert.Equal(t, "driver-1", out.CourierID)
	assert.True(t, out.CourierAssigned)

	// 配達員が仕事を受けた、の意味でACCEPTEDに戻る
	assert.Equal(t, model.OrderStatusAccepted, out.Status)
}

// =====================
// Full lifecycle scenario
// =====================

func TestOrderUsecase_FullLifecycle(t *testing.T) {
	ctx := context.Background()
	orders := &memoryOrderRepo{}
	restaurants := &memoryRestaurantRepo{restaurants: []model.Restaurant{testRestaurant()}}
	uc := newTestUsecase(orders, restaurants)

	placed, err := uc.PlaceOrder(ctx, usecase.PlaceOrderInput{
		CustomerID:      "user-1",
		RestaurantID:    "r1",
		Items:           []usecase.PlaceOrderItemInput{{MenuItemID: "m1", Quantity: 2}},
		DeliveryAddress: "777 Emerald Blvd",
	})
	assert.NoError(t, err)
	assert.Equal(t, 41.5, placed.Total)

	for _, next := range []model.OrderStatus{
		model.OrderStatusAccepted,
		model.OrderStatusPreparing,
		model.OrderStatusReady,
	} {
		_, err = uc.Transition(ctx, placed.ID, next, "")
		assert.NoError(t, err, "to %s", next)
	}

	assigned, err := uc.AssignCourier(ctx, placed.ID, "driver-1")
	assert.NoError(t, err)
	assert.Equal(t, model.OrderStatusAccepted, assigned.Status)
	assert.Equal(t, "driver-1", assigned.CourierID)

	_, err = uc.Transition(ctx, placed.ID, model.OrderStatusOutForDelivery, "")
	assert.NoError(t, err)

	delivered, err := uc.Transition(ctx, placed.ID, model.OrderStatusDelivered, "")
	assert.NoError(t, err)
	assert.Equal(t, model.OrderStatusDelivered, delivered.Status)

	// 終端からはどこへも行けない
	for _, next := range []model.OrderStatus{
		model.OrderStatusPending,
		model.OrderStatusAccepted,
		model.OrderStatusOutForDelivery,
		model.OrderStatusCancelled,
	} {
		_, err = uc.Transition(ctx, placed.ID, next, "")
		assert.True(t, errors.Is(err, usecase.ErrInvalidTransition), "to %s", next)
	}
}
