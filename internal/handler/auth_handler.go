package handler

import (
	"net/http"
	"strings"
	"time"

	"app/internal/config"
	"app/internal/domain/model"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

const roleTokenTTL = 12 * time.Hour

// デモ用：roleを選ぶとそのroleのtokenを発行する（landing pageのrole選択に相当）
type AuthHandler struct {
	cfg config.Config
}

func NewAuthHandler(cfg config.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

type RoleTokenRequest struct {
	Role string `json:"role"`
}

type RoleTokenResponse struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (h *AuthHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/auth/role", h.issueRoleToken)
}

func (h *AuthHandler) issueRoleToken(c echo.Context) error {
	var req RoleTokenRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	role := model.UserRole(strings.ToUpper(strings.TrimSpace(req.Role)))
	if !role.Valid() {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid role"})
	}

	now := time.Now()
	expiresAt := now.Add(roleTokenTTL)

	claims := jwt.MapClaims{
		"sub":  demoUserID(role),
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(h.cfg.JWTSecret))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}

	return c.JSON(http.StatusOK, RoleTokenResponse{
		Token:     signed,
		UserID:    demoUserID(role),
		Role:      string(role),
		ExpiresAt: expiresAt,
	})
}

// roleごとに固定のデモユーザー
func demoUserID(role model.UserRole) string {
	switch role {
	case model.UserRoleRestaurant:
		return "merchant-1"
	case model.UserRoleDriver:
		return "driver-1"
	case model.UserRoleAdmin:
		return "admin-1"
	default:
		return "user-1"
	}
}
