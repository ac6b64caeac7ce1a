package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"k8s.io/klog/v2"

	"github.com/gocrane/canary-metrics/pkg/canary"
	"github.com/gocrane/canary-metrics/pkg/canaryerr"
	"github.com/gocrane/canary-metrics/pkg/storage"
)

const shutdownTimeout = 10 * time.Second

// Server exposes the fetch API: run a query, store the resulting metric set
// list and read stored lists back.
type Server struct {
	engine  *gin.Engine
	querier canary.Querier
	store   storage.MetricSetListStore
}

func New(querier canary.Querier, store storage.MetricSetListStore, gatherer prometheus.Gatherer) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		engine:  gin.New(),
		querier: querier,
		store:   store,
	}

	s.engine.Use(gin.Recovery(), accessLog())
	s.engine.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	s.engine.POST("/fetch/stackdriver/query", s.handleStackdriverQuery)
	s.engine.GET("/metricSetList/:id", s.handleGetMetricSetList)
	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.engine}

	errCh := make(chan error, 1)
	go func() {
		klog.Infof("Fetch API listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		klog.Infof("Fetch API shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) handleGetMetricSetList(c *gin.Context) {
	sets, err := s.store.Load(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sets)
}

func accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		klog.V(4).Infof("%s %s %d %s", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(c *gin.Context, err error) {
	code := canaryerr.CodeOf(err)
	status := http.StatusInternalServerError
	switch code {
	case canaryerr.CodeConfig:
		status = http.StatusBadRequest
	case canaryerr.CodeNotFound:
		status = http.StatusNotFound
	case canaryerr.CodeBackend, canaryerr.CodeParse:
		status = http.StatusBadGateway
	case "":
		code = "internal_error"
	}
	if status >= http.StatusInternalServerError {
		klog.Errorf("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(status, errorResponse{Code: code, Message: err.Error()})
}
