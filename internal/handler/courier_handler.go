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

// 配達員側のview契約：仕事を受ける（READY → ACCEPTED + courier付与）、
// ピックアップ完了（OUT_FOR_DELIVERY）、配達完了（DELIVERED）
type CourierHandler struct {
	orderUC *usecase.OrderUsecase
	syncer  *appsync.Syncer
	cfg     config.Config
}

func NewCourierHandler(orderUC *usecase.OrderUsecase, syncer *appsync.Syncer, cfg config.Config) *CourierHandler {
	return &CourierHandler{orderUC: orderUC, syncer: syncer, cfg: cfg}
}

func (h *CourierHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/courier")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.RoleGuard(string(model.UserRoleDriver)))

	g.GET("/orders", h.listOrders)
	g.POST("/orders/:id/accept", h.accept)
	g.PUT("/orders/:id/status", h.updateStatus)
}

// activeバンドの注文だけ返す（受けられる仕事＋今の仕事）
func (h *CourierHandler) listOrders(c echo.Context) error {
	snap := h.syncer.Snapshot()
	active := make([]model.Order, 0, len(snap.Orders))
	for _, o := range snap.Orders {
		if o.Status.IsActive() {
			active = append(active, o)
		}
	}
	return c.JSON(http.StatusOK, active)
}

func (h *CourierHandler) accept(c echo.Context) error {
	orderID := c.Param("id")

	courierID, ok := getUserIDFromContext(c)
	if !ok {
		courierID = h.cfg.CourierID
	}

	var updated model.Order
	err := h.syncer.Mutate(c.Request().Context(), func(ctx context.Context) error {
		var err error
		updated, err = h.orderUC.AssignCourier(ctx, orderID, courierID)
		return err
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, updated)
}

func (h *CourierHandler) updateStatus(c echo.Context) error {
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
