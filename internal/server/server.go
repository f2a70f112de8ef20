package server

import (
	"context"
	"digital-goods-fulfillment/internal/handler"
	appmiddleware "digital-goods-fulfillment/internal/middleware"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Server struct {
	echo                 *echo.Echo
	fulfillmentHandler   *handler.FulfillmentHandler
	purchaseEventHandler *handler.PurchaseEventHandler
	webhookAuth          echo.MiddlewareFunc
}

func NewServer(
	fulfillmentHandler *handler.FulfillmentHandler,
	purchaseEventHandler *handler.PurchaseEventHandler,
	webhookSecret, webhookAudience string,
	logger *slog.Logger,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", v.RequestID,
			}
			if v.Error != nil {
				logger.LogAttrs(context.Background(), slog.LevelError, "request", slog.Group("http", attrs...), slog.String("error", v.Error.Error()))
				return nil
			}
			logger.LogAttrs(context.Background(), slog.LevelInfo, "request", slog.Group("http", attrs...))
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:                 e,
		fulfillmentHandler:   fulfillmentHandler,
		purchaseEventHandler: purchaseEventHandler,
		webhookAuth:          appmiddleware.WebhookAuth(webhookSecret, webhookAudience),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// -------- conversational platform webhook --------
	api.POST("/fulfillment", s.fulfillmentHandler.Fulfill, s.webhookAuth)

	// -------- diagnostics --------
	api.GET("/conversations/:id/events", s.purchaseEventHandler.ListByConversation)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// ServeHTTP exposes the router, mainly for tests.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}
