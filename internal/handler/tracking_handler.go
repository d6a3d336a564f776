package handler

import (
	"net/http"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/middleware"
	appsync "app/internal/sync"
	"app/internal/telemetry"

	"github.com/labstack/echo/v4"
)

// ライブ追跡のview契約：配達員位置・ETA・sync状態・表示中の通知
type TrackingHandler struct {
	tracker  *telemetry.Tracker
	sim      *telemetry.Simulator
	pipeline *telemetry.Pipeline
	syncer   *appsync.Syncer
	notifier *appsync.Notifier
}

func NewTrackingHandler(
	tracker *telemetry.Tracker,
	sim *telemetry.Simulator,
	pipeline *telemetry.Pipeline,
	syncer *appsync.Syncer,
	notifier *appsync.Notifier,
) *TrackingHandler {
	return &TrackingHandler{
		tracker:  tracker,
		sim:      sim,
		pipeline: pipeline,
		syncer:   syncer,
		notifier: notifier,
	}
}

type TrackingResponse struct {
	TrackedOrderID string                `json:"tracked_order_id,omitempty"`
	Delivering     bool                  `json:"delivering"`
	Position       *model.Position       `json:"position,omitempty"`
	Destination    *model.Position       `json:"destination,omitempty"`
	ETA            *model.ETAEstimate    `json:"eta,omitempty"`
	Syncing        bool                  `json:"syncing"`
	Notification   *appsync.Notification `json:"notification,omitempty"`
}

func (h *TrackingHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/tracking")
	g.Use(middleware.AuthJWT(cfg))

	g.GET("", h.current)
}

func (h *TrackingHandler) current(c echo.Context) error {
	out := TrackingResponse{
		TrackedOrderID: h.tracker.TrackedOrderID(),
		Syncing:        h.syncer.Syncing(),
	}

	// テレメトリは配達中（タイマーが動いている間）だけ意味を持つ
	if h.sim.Running() {
		out.Delivering = true
		pos := h.sim.Position()
		dest := h.sim.Destination()
		eta := h.pipeline.Estimate()
		out.Position = &pos
		out.Destination = &dest
		out.ETA = &eta
	}

	if n, ok := h.notifier.Current(); ok {
		out.Notification = &n
	}

	return c.JSON(http.StatusOK, out)
}
