package handler

import (
	"net/http"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/middleware"
	appsync "app/internal/sync"

	"github.com/labstack/echo/v4"
)

// 管理者dashboardのview契約（read-only）
type AdminHandler struct {
	syncer *appsync.Syncer
}

func NewAdminHandler(syncer *appsync.Syncer) *AdminHandler {
	return &AdminHandler{syncer: syncer}
}

type AdminStatsResponse struct {
	TotalOrders      int     `json:"total_orders"`
	ActiveOrders     int     `json:"active_orders"`
	TotalRevenue     float64 `json:"total_revenue"`
	TotalRestaurants int     `json:"total_restaurants"`
}

func (h *AdminHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/admin")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.RoleGuard(string(model.UserRoleAdmin)))

	g.GET("/orders", h.listOrders)
	g.GET("/restaurants", h.listRestaurants)
	g.GET("/stats", h.stats)
}

func (h *AdminHandler) listOrders(c echo.Context) error {
	snap := h.syncer.Snapshot()

	//status 絞り込み
	if s := c.QueryParam("status"); s != "" {
		filtered := make([]model.Order, 0, len(snap.Orders))
		for _, o := range snap.Orders {
			if string(o.Status) == s {
				filtered = append(filtered, o)
			}
		}
		return c.JSON(http.StatusOK, filtered)
	}

	return c.JSON(http.StatusOK, snap.Orders)
}

func (h *AdminHandler) listRestaurants(c echo.Context) error {
	snap := h.syncer.Snapshot()
	return c.JSON(http.StatusOK, snap.Restaurants)
}

func (h *AdminHandler) stats(c echo.Context) error {
	snap := h.syncer.Snapshot()

	out := AdminStatsResponse{
		TotalOrders:      len(snap.Orders),
		TotalRestaurants: len(snap.Restaurants),
	}
	for _, o := range snap.Orders {
		if o.Status.IsActive() {
			out.ActiveOrders++
		}
		if o.Status != model.OrderStatusCancelled {
			out.TotalRevenue += o.Total
		}
	}

	return c.JSON(http.StatusOK, out)
}
