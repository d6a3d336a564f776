package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type HTTPError struct {
	Status  int
	Message string
	cause   error
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *HTTPError) Unwrap() error {
	return e.cause
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

// WrapHTTPError はsentinelを保持したままHTTPErrorにする（errors.Isで判定できる）
func WrapHTTPError(status int, message string, cause error) error {
	return &HTTPError{
		Status:  status,
		Message: message,
		cause:   cause,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

var (
	// 現在statusから到達できない遷移を要求した
	ErrInvalidTransition = errors.New("invalid transition")

	// WALLET残高不足。注文は一切作られない
	ErrInsufficientFunds = errors.New("insufficient funds")
)

type IDGenerator interface {
	NewID() string
}

type Clock interface {
	Now() time.Time
}

// 注文のライフサイクルを司る。全ての状態変更はここを通る
type OrderUsecase struct {
	orders      repo.OrderRepository
	restaurants repo.RestaurantRepository
	idGen       IDGenerator
	clock       Clock
}

func NewOrderUsecase(
	orders repo.OrderRepository,
	restaurants repo.RestaurantRepository,
	idGen IDGenerator,
	clock Clock,
) *OrderUsecase {
	return &OrderUsecase{
		orders:      orders,
		restaurants: restaurants,
		idGen:       idGen,
		clock:       clock,
	}
}

type PlaceOrderItemInput struct {
	MenuItemID string
	Quantity   int64
	AddonIDs   []string
}

type PlaceOrderInput struct {
	CustomerID           string
	RestaurantID         string
	Items                []PlaceOrderItemInput
	DeliveryAddress      string
	DeliveryInstructions string
	PaymentMethod        model.PaymentMethod

	// デモ用ウォレット残高（viewが保持している値をそのまま渡す）
	WalletBalance float64
}

// PlaceOrder はPENDINGの新規注文を作る。
// totalはここで一度だけ計算し、以後再計算しない。
func (u *OrderUsecase) PlaceOrder(ctx context.Context, in PlaceOrderInput) (model.Order, error) {
	if strings.TrimSpace(in.CustomerID) == "" {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid customer_id")
	}
	if len(in.Items) == 0 {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "cart empty")
	}
	if strings.TrimSpace(in.DeliveryAddress) == "" {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid delivery_address")
	}
	if in.PaymentMethod != "" && !in.PaymentMethod.Valid() {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid payment_method")
	}

	restaurants, err := u.restaurants.ReadAll(ctx)
	if err != nil {
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "store error")
	}

	var res model.Restaurant
	found := false
	for _, r := range restaurants {
		if r.ID == in.RestaurantID {
			res = r
			found = true
			break
		}
	}
	if !found {
		return model.Order{}, WrapHTTPError(http.StatusNotFound, "restaurant not found", repo.ErrNotFound)
	}
	if !res.IsOpen {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "restaurant closed")
	}

	// メニューから注文時点の名前・価格をスナップショット
	items := make([]model.OrderItem, 0, len(in.Items))
	var cartTotal float64
	for _, it := range in.Items {
		if it.Quantity <= 0 {
			return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
		}

		mi, ok := findMenuItem(res.Menu, it.MenuItemID)
		if !ok {
			return model.Order{}, NewHTTPError(http.StatusBadRequest, "menu item not found")
		}
		if !mi.IsAvailable {
			return model.Order{}, NewHTTPError(http.StatusBadRequest, "menu item unavailable")
		}

		items = append(items, model.OrderItem{
			MenuItemID:     mi.ID,
			Name:           mi.Name,
			UnitPrice:      mi.Price,
			Quantity:       it.Quantity,
			SelectedAddons: selectAddons(mi.Addons, it.AddonIDs),
		})
		cartTotal += mi.Price * float64(it.Quantity)
	}

	if cartTotal < res.MinOrder {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "below minimum order")
	}

	total := cartTotal + res.DeliveryFee

	// 残高不足は注文が作られる前に弾く（部分的に作られた注文を残さない）
	if in.PaymentMethod == model.PaymentMethodWallet && in.WalletBalance < total {
		return model.Order{}, WrapHTTPError(http.StatusBadRequest, "insufficient funds", ErrInsufficientFunds)
	}

	order := model.Order{
		ID:                   orderToken(u.idGen.NewID()),
		CustomerID:           in.CustomerID,
		RestaurantID:         in.RestaurantID,
		Items:                items,
		Total:                total,
		Status:               model.OrderStatusPending,
		CreatedAt:            u.clock.Now(),
		DeliveryAddress:      in.DeliveryAddress,
		DeliveryInstructions: in.DeliveryInstructions,
		PaymentMethod:        in.PaymentMethod,
		LoyaltyPointsEarned:  int64(math.Floor(cartTotal * 0.1)),
	}

	orders, err := u.orders.ReadAll(ctx)
	if err != nil {
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "store error")
	}
	orders = append(orders, order)

	if err := u.orders.WriteAll(ctx, orders); err != nil {
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "store error")
	}

	return order, nil
}

// Transition は遷移テーブルで検証してからstatusを変更する。
// 不正な遷移はErrInvalidTransitionで拒否し、状態は一切変えない。
func (u *OrderUsecase) Transition(ctx context.Context, orderID string, target model.OrderStatus, reason string) (model.Order, error) {
	if !target.Valid() {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	orders, err := u.orders.ReadAll(ctx)
	if err != nil {
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "store error")
	}

	idx := findOrder(orders, orderID)
	if idx < 0 {
		return model.Order{}, WrapHTTPError(http.StatusNotFound, "order not found", repo.ErrNotFound)
	}

	current := orders[idx].Status
	if !current.CanTransitionTo(target) {
		return model.Order{}, WrapHTTPError(
			http.StatusConflict,
			fmt.Sprintf("invalid transition: %s -> %s", current, target),
			ErrInvalidTransition,
		)
	}

	// 出発できるのは配達員が仕事を受けた注文だけ。
	// 店の受理（courier無しのACCEPTED）からは配達に入れない
	if target == model.OrderStatusOutForDelivery && !orders[idx].CourierAssigned {
		return model.Order{}, WrapHTTPError(
			http.StatusConflict,
			"invalid transition: courier not assigned",
			ErrInvalidTransition,
		)
	}

	orders[idx].Status = target
	if target == model.OrderStatusCancelled {
		// 理由はそのまま保存する
		orders[idx].CancellationReason = reason
	}

	if err := u.orders.WriteAll(ctx, orders); err != nil {
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "store error")
	}

	return orders[idx], nil
}

// Cancel はPENDINGからのみ成功する（遷移テーブルがそう定義している）
func (u *OrderUsecase) Cancel(ctx context.Context, orderID string, reason string) (model.Order, error) {
	return u.Transition(ctx, orderID, model.OrderStatusCancelled, reason)
}

// AssignCourier はREADYの注文に配達員を割り当てる。
// 成功するとstatusはACCEPTEDに戻る（配達員が仕事を受けた、の意味）。
// 店の受理と区別するためCourierAssignedを立てる。
func (u *OrderUsecase) AssignCourier(ctx context.Context, orderID string, courierID string) (model.Order, error) {
	if strings.TrimSpace(courierID) == "" {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid courier_id")
	}

	orders, err := u.orders.ReadAll(ctx)
	if err != nil {
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "store error")
	}

	idx := findOrder(orders, orderID)
	if idx < 0 {
		return model.Order{}, WrapHTTPError(http.StatusNotFound, "order not found", repo.ErrNotFound)
	}

	if orders[idx].Status != model.OrderStatusReady {
		return model.Order{}, WrapHTTPError(
			http.StatusConflict,
			fmt.Sprintf("invalid transition: courier assignment requires READY, got %s", orders[idx].Status),
			ErrInvalidTransition,
		)
	}

	orders[idx].CourierID = courierID
	orders[idx].CourierAssigned = true
	orders[idx].Status = model.OrderStatusAccepted

	if err := u.orders.WriteAll(ctx, orders); err != nil {
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "store error")
	}

	return orders[idx], nil
}

func findOrder(orders []model.Order, id string) int {
	for i := range orders {
		if orders[i].ID == id {
			return i
		}
	}
	return -1
}

func findMenuItem(menu []model.MenuItem, id string) (model.MenuItem, bool) {
	for _, m := range menu {
		if m.ID == id {
			return m, true
		}
	}
	return model.MenuItem{}, false
}

func selectAddons(addons []model.Addon, ids []string) []model.Addon {
	if len(ids) == 0 {
		return nil
	}
	selected := make([]model.Addon, 0, len(ids))
	for _, id := range ids {
		for _, a := range addons {
			if a.ID == id {
				selected = append(selected, a)
			}
		}
	}
	return selected
}

// 注文IDは人間が読めるトークンにする（DIAMOND-XXXXXX）
func orderToken(raw string) string {
	s := strings.ToUpper(strings.ReplaceAll(raw, "-", ""))
	if len(s) > 6 {
		s = s[:6]
	}
	return "DIAMOND-" + s
}
