package handler

import (
	"net/http"

	"rentals/internal/service"
	"rentals/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type StatisticsHandler struct {
	statisticsService service.StatisticsService
	log               *zap.Logger
}

func NewStatisticsHandler(statisticsService service.StatisticsService, log *zap.Logger) *StatisticsHandler {
	return &StatisticsHandler{statisticsService: statisticsService, log: log}
}

func (h *StatisticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/api/statistics", h.GetStatistics)
}

// @Summary      Get Dashboard Statistics
// @Description  Record totals plus asset, contract and invoice counts per state
// @Tags         Statistics
// @Produce      json
// @Success      200 {object} response.Response{data=model.DashboardStats}
// @Failure      500 {object} response.Response "Internal server error"
// @Router       /api/statistics [get]
func (h *StatisticsHandler) GetStatistics(c *gin.Context) {
	stats, err := h.statisticsService.GetDashboardStats(c.Request.Context())
	if err != nil {
		h.log.Error("failed to load dashboard statistics", zap.Error(err))
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "failed to load statistics"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}
