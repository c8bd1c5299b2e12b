package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// NewRouter собирает маршруты сервиса под префиксом /{moduleName}.
// Если metrics равен nil, /metrics не публикуется.
func NewRouter(moduleName string, h *Handler, metrics *Metrics, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), RequestLogger(logger), Recovery(logger))
	if metrics != nil {
		router.Use(metrics.Middleware())
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.gatherer, promhttp.HandlerOpts{})))
	}

	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	api := router.Group("/" + moduleName)

	api.GET("/staff/:id/salary", h.Salary)

	actions := api.Group("/actions", RequireAuthorization())
	actions.POST("/schedule_lesson", h.ScheduleLesson)
	actions.POST("/courses/:id/enroll", h.EnrollDogs)

	api.GET("/:entity", h.List)
	api.GET("/:entity/:id", h.GetOne)

	mutating := api.Group("", RequireAuthorization())
	mutating.POST("/:entity", h.Create)
	mutating.POST("/:entity/many", h.CreateMany)
	mutating.PUT("/:entity", h.UpdateMany)
	mutating.PUT("/:entity/:id", h.Update)
	mutating.DELETE("/:entity", h.DeleteMany)
	mutating.DELETE("/:entity/:id", h.Delete)

	return router
}

// Server HTTP сервер с корректной остановкой
type Server struct {
	srv    *http.Server
	logger *zap.Logger
}

func NewServer(addr string, handler http.Handler, logger *zap.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Start блокируется до остановки сервера
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", zap.String("addr", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
