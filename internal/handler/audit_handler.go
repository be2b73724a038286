package handler

import (
	"net/http"
	"strconv"

	"rentals/internal/middleware"
	"rentals/internal/repository"
	"rentals/internal/service"
	"rentals/pkg/pagination"
	"rentals/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuditHandler struct {
	auditService service.AuditService
	log          *zap.Logger
}

func NewAuditHandler(auditService service.AuditService, log *zap.Logger) *AuditHandler {
	return &AuditHandler{auditService: auditService, log: log}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/audit-logs")
	group.Use(middleware.RequireCaller()) // history is for signed-in operators
	{
		group.GET("", h.GetAuditLogs)
	}
}

// GetAuditLogs returns the audit trail newest first
// @Summary      Get audit logs
// @Description  Who changed what and when, one entry per successful mutation
// @Tags         audit
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Param        action     query  string  false  "Only entries with this action, e.g. CREATE_CONTRACT"
// @Param        entity_id  query  string  false  "Only entries touching this record id"
// @Success      200    {object}  response.Response{data=object}
// @Failure      401    {object}  response.Response
// @Router       /api/audit-logs [get]
func (h *AuditHandler) GetAuditLogs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(pagination.DefaultLimit)))
	p32, l32 := int32(page), int32(limit)
	params := pagination.FromArgs(&p32, &l32)

	filter := repository.AuditFilter{
		Action:   c.Query("action"),
		EntityID: c.Query("entity_id"),
	}

	logs, total, err := h.auditService.List(c.Request.Context(), filter, params)
	if err != nil {
		h.log.Error("failed to list audit logs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "failed to retrieve audit logs"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"logs":  logs,
		"total": total,
		"page":  params.Page,
		"limit": params.Limit,
	}))
}
