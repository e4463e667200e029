package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/Finterra/ledger_exchange_app/internal/apperrors"
	portssvc "github.com/Finterra/ledger_exchange_app/internal/core/ports/services"
	"github.com/Finterra/ledger_exchange_app/internal/dto"
	"github.com/Finterra/ledger_exchange_app/internal/middleware"
	"github.com/Finterra/ledger_exchange_app/pkg/config"
)

// authHandler handles authentication related requests.
type authHandler struct {
	authService portssvc.AuthSvc
}

func newAuthHandler(as portssvc.AuthSvc) *authHandler {
	return &authHandler{authService: as}
}

// registerAuthRoutes sets up the public routes for authentication. Login is
// rate limited per IP to slow down API key guessing.
func registerAuthRoutes(rg *gin.Engine, cfg *config.Config, authService portssvc.AuthSvc) {
	h := newAuthHandler(authService)

	period := cfg.RateLimitPeriod
	if period == "" {
		period = "5-M"
	}
	rate, err := limiter.NewRateFromFormatted(period)
	if err != nil {
		rate, _ = limiter.NewRateFromFormatted("5-M")
	}
	ipLimiter := limiter.New(memory.NewStore(), rate)
	limitMiddleware := middleware.RateLimit(ipLimiter)

	auth := rg.Group("/api/v1/auth")
	{
		auth.POST("/login", limitMiddleware, h.login)
	}
}

// login exchanges an API key for a signed JWT.
func (h *authHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid API key"})
			return
		}
		logger.Error("Login failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Login failed"})
		return
	}

	c.JSON(http.StatusOK, resp)
}
