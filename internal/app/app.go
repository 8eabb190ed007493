package app

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/accountsvc/internal/config"
	httpx "github.com/you/accountsvc/internal/http"
	"github.com/you/accountsvc/internal/http/handlers"
	"github.com/you/accountsvc/internal/http/middleware"
	"github.com/you/accountsvc/internal/infrastructure/database"
)

// Run wires the container and serves the HTTP surface.
func Run(cfg *config.Config) error {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	c, err := NewContainer(cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := database.Ping(context.Background(), c.RedisClient); err != nil {
		return err
	}

	authH := handlers.NewAuthHandlers(c.AuthSvc)
	jwtMW := middleware.NewAuthMW(c.TokenSvc)
	rlMW := middleware.NewRateLimitMW(c.RateLimiter)

	r := httpx.BuildRouter(authH, jwtMW, rlMW)

	addr := ":" + cfg.Port
	log.Printf("listening on %s", addr)
	return http.ListenAndServe(addr, r)
}
