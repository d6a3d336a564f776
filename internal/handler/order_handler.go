package handler

import (
	"context"
	"net/http"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/middleware"
	appsync "app/internal/sync"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 客側のview契約：店一覧・自分の注文・お気に入り・注文作成/キャンセル
type OrderHandler struct {
	orderUC *usecase.OrderUsecase
	favUC   *usecase.FavoriteUsecase
	syncer  *appsync.Syncer
}

func NewOrderHandler(orderUC *usecase.OrderUsecase, favUC *usecase.FavoriteUsecase, syncer *appsync.Syncer) *OrderHandler {
	return &OrderHandler{orderUC: orderUC, favUC: favUC, syncer: syncer}
}

type OrderItemRequest struct {
	MenuItemID string   `json:"menu_item_id"`
	Quantity   int64    `json:"quantity"`
	AddonIDs   []string `json:"addon_ids,omitempty"`
}

type OrderCreateRequest struct {
	RestaurantID         string             `json:"restaurant_id"`
	Items                []OrderItemRequest `json:"items"`
	DeliveryAddress      string             `json:"delivery_address"`
	DeliveryInstructions string             `json:"delivery_instructions,omitempty"`
	PaymentMethod        string             `json:"payment_method,omitempty"`

	// デモ用ウォレット残高。未指定なら初期残高扱い
	WalletBalance *float64 `json:"wallet_balance,omitempty"`
}

type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

// デモ用の初期ウォレット残高
const defaultWalletBalance = 250.0

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("")
	g.Use(middleware.AuthJWT(cfg))

	g.GET("/restaurants", h.listRestaurants)
	g.GET("/orders", h.listOrders)
	g.POST("/orders", h.create)
	g.POST("/orders/:id/cancel", h.cancel)
	g.GET("/favorites", h.listFavorites)
	g.POST("/favorites/:restaurantId/toggle", h.toggleFavorite)
}

// 店一覧はスナップショットから返す（ストア直読みしない）
func (h *OrderHandler) listRestaurants(c echo.Context) error {
	snap := h.syncer.Snapshot()

	if c.QueryParam("available") == "true" {
		// 客向けは販売可否フラグでのみ絞り込む
		for i := range snap.Restaurants {
			menu := make([]model.MenuItem, 0, len(snap.Restaurants[i].Menu))
			for _, m := range snap.Restaurants[i].Menu {
				if m.IsAvailable {
					menu = append(menu, m)
				}
			}
			snap.Restaurants[i].Menu = menu
		}
	}

	return c.JSON(http.StatusOK, snap.Restaurants)
}

func (h *OrderHandler) listOrders(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	snap := h.syncer.Snapshot()
	mine := make([]model.Order, 0, len(snap.Orders))
	for _, o := range snap.Orders {
		if o.CustomerID == userID {
			mine = append(mine, o)
		}
	}
	return c.JSON(http.StatusOK, mine)
}

func (h *OrderHandler) create(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req OrderCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	items := make([]usecase.PlaceOrderItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, usecase.PlaceOrderItemInput{
			MenuItemID: it.MenuItemID,
			Quantity:   it.Quantity,
			AddonIDs:   it.AddonIDs,
		})
	}

	wallet := defaultWalletBalance
	if req.WalletBalance != nil {
		wallet = *req.WalletBalance
	}

	in := usecase.PlaceOrderInput{
		CustomerID:           userID,
		RestaurantID:         req.RestaurantID,
		Items:                items,
		DeliveryAddress:      req.DeliveryAddress,
		DeliveryInstructions: req.DeliveryInstructions,
		PaymentMethod:        model.PaymentMethod(req.PaymentMethod),
		WalletBalance:        wallet,
	}

	// 書き込み直後に即時再読込して自分の操作が見えるようにする
	var placed model.Order
	err := h.syncer.Mutate(c.Request().Context(), func(ctx context.Context) error {
		var err error
		placed, err = h.orderUC.PlaceOrder(ctx, in)
		return err
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, placed)
}

func (h *OrderHandler) cancel(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	orderID := c.Param("id")

	var req CancelOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	// 他人の注文は「存在しない扱い」にする
	snap := h.syncer.Snapshot()
	owned := false
	for _, o := range snap.Orders {
		if o.ID == orderID && o.CustomerID == userID {
			owned = true
			break
		}
	}
	if !owned {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "order not found"})
	}

	var cancelled model.Order
	err := h.syncer.Mutate(c.Request().Context(), func(ctx context.Context) error {
		var err error
		cancelled, err = h.orderUC.Cancel(ctx, orderID, req.Reason)
		return err
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, cancelled)
}

func (h *OrderHandler) listFavorites(c echo.Context) error {
	snap := h.syncer.Snapshot()
	return c.JSON(http.StatusOK, snap.Favorites)
}

func (h *OrderHandler) toggleFavorite(c echo.Context) error {
	restaurantID := c.Param("restaurantId")

	var updated []string
	err := h.syncer.Mutate(c.Request().Context(), func(ctx context.Context) error {
		var err error
		updated, err = h.favUC.Toggle(ctx, restaurantID)
		return err
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, updated)
}
