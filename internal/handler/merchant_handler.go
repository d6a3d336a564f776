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

// 店側のview契約：注文status更新、メニューON/OFF、バナー編集
type MerchantHandler struct {
	orderUC      *usecase.OrderUsecase
	restaurantUC *usecase.RestaurantUsecase
	syncer       *appsync.Syncer
}

func NewMerchantHandler(orderUC *usecase.OrderUsecase, restaurantUC *usecase.RestaurantUsecase, syncer *appsync.Syncer) *MerchantHandler {
	return &MerchantHandler{orderUC: orderUC, restaurantUC: restaurantUC, syncer: syncer}
}

type StatusUpdateRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

type BannersUpdateRequest struct {
	Banners []string `json:"banners"`
}

func (h *MerchantHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/merchant")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.RoleGuard(string(model.UserRoleRestaurant)))

	g.GET("/orders", h.listOrders)
	g.PUT("/orders/:id/status", h.updateStatus)
	g.PUT("/menu/:restaurantId/items/:itemId/toggle", h.toggleMenuItem)
	g.PUT("/menu/:restaurantId/banners", h.updateBanners)
}

// デモでは最初の店が自分の店
func (h *MerchantHandler) myRestaurant() (model.Restaurant, bool) {
	snap := h.syncer.Snapshot()
	if len(snap.Restaurants) == 0 {
		return model.Restaurant{}, false
	}
	return snap.Restaurants[0], true
}

func (h *MerchantHandler) listOrders(c echo.Context) error {
	res, ok := h.myRestaurant()
	if !ok {
		return c.JSON(http.StatusOK, []model.Order{})
	}

	snap := h.syncer.Snapshot()
	mine := make([]model.Order, 0, len(snap.Orders))
	for _, o := range snap.Orders {
		if o.RestaurantID == res.ID {
			mine = append(mine, o)
		}
	}
	return c.JSON(http.StatusOK, mine)
}

func (h *MerchantHandler) updateStatus(c echo.Context) error {
	orderID := c.Param("id")

	var req StatusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	var updated model.Order
	err := h.syncer.Mutate(c.Request().Context(), func(ctx context.Context) error {
		var err error
		updated, err = h.orderUC.Transition(ctx, orderID, model.OrderStatus(req.Status), req.Reason)
		return err
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, updated)
}

func (h *MerchantHandler) toggleMenuItem(c echo.Context) error {
	restaurantID := c.Param("restaurantId")
	itemID := c.Param("itemId")

	var updated model.Restaurant
	err := h.syncer.Mutate(c.Request().Context(), func(ctx context.Context) error {
		var err error
		updated, err = h.restaurantUC.ToggleMenuItem(ctx, restaurantID, itemID)
		return err
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, updated)
}

func (h *MerchantHandler) updateBanners(c echo.Context) error {
	restaurantID := c.Param("restaurantId")

	var req BannersUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	var updated model.Restaurant
	err := h.syncer.Mutate(c.Request().Context(), func(ctx context.Context) error {
		var err error
		updated, err = h.restaurantUC.UpdateBanners(ctx, restaurantID, req.Banners)
		return err
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, updated)
}
