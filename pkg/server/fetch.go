package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gocrane/canary-metrics/pkg/canary"
	"github.com/gocrane/canary-metrics/pkg/canaryerr"
	"github.com/gocrane/canary-metrics/pkg/providers/stackdriver"
)

// StackdriverFetchRequest is the body of POST /fetch/stackdriver/query.
type StackdriverFetchRequest struct {
	MetricsAccountName string    `json:"metricsAccountName" binding:"required"`
	MetricSetName      string    `json:"metricSetName" binding:"required"`
	MetricType         string    `json:"metricType" binding:"required"`
	GroupByFields      []string  `json:"groupByFields"`
	Scope              string    `json:"scope"`
	Region             string    `json:"region"`
	Step               int64     `json:"step" binding:"required"`
	Start              time.Time `json:"start"`
	End                time.Time `json:"end"`
}

type fetchResponse struct {
	MetricSetListID string `json:"metricSetListId"`
}

func (s *Server) handleStackdriverQuery(c *gin.Context) {
	var req StackdriverFetchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, canaryerr.New(canaryerr.CodeConfig, "invalid fetch request", err))
		return
	}

	if req.Start.IsZero() || req.End.IsZero() {
		writeError(c, canaryerr.Config("start and end are required"))
		return
	}

	scope := canary.Scope{Scope: req.Scope, Region: req.Region, Start: req.Start, End: req.End, Step: req.Step}
	if err := scope.Validate(); err != nil {
		writeError(c, canaryerr.New(canaryerr.CodeConfig, "invalid scope", err))
		return
	}
	metricConfig := canary.MetricConfig{
		Name:  req.MetricSetName,
		Query: stackdriver.QueryConfig{MetricType: req.MetricType, GroupByFields: req.GroupByFields},
	}

	ctx := c.Request.Context()
	sets, err := s.querier.QueryMetrics(ctx, req.MetricsAccountName, metricConfig, scope)
	if err != nil {
		writeError(c, err)
		return
	}

	id, err := s.store.Save(ctx, req.MetricsAccountName, sets)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, fetchResponse{MetricSetListID: id})
}
