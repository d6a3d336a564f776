package server

import (
	"context"

	"app/internal/config"
	"app/internal/handler"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Auth     *handler.AuthHandler
	Order    *handler.OrderHandler
	Merchant *handler.MerchantHandler
	Courier  *handler.CourierHandler
	Admin    *handler.AdminHandler
	Tracking *handler.TrackingHandler
}

type Server struct {
	e *echo.Echo
}

func New(cfg config.Config, h Handlers) *Server {
	e := echo.New()
	e.HideBanner = true

	h.Auth.RegisterRoutes(e)
	h.Order.RegisterRoutes(e, cfg)
	h.Merchant.RegisterRoutes(e, cfg)
	h.Courier.RegisterRoutes(e, cfg)
	h.Admin.RegisterRoutes(e, cfg)
	h.Tracking.RegisterRoutes(e, cfg)

	return &Server{e: e}
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}
