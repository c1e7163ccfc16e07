package transfers

import (
	"net/http"
	"time"

	"partnerportal/pkg/dates"
	"partnerportal/pkg/security"

	"github.com/gin-gonic/gin"
)

type TransferHandler struct {
	registry *Registry
}

func RegisterRoutes(router *gin.Engine, registry *Registry) {
	handler := TransferHandler{registry: registry}

	transfers := router.Group("/transfers", security.JWTMiddleware(), security.Authorize("partner"))
	{
		transfers.GET("", handler.listTransfers)
		transfers.GET("/summary", handler.getSummary)
		transfers.POST("/refresh", handler.refresh)
		transfers.PUT("/filters/search", handler.setSearch)
		transfers.PUT("/filters/status", handler.setStatus)
		transfers.PUT("/filters/dates", handler.setDateRange)
		transfers.POST("/page/next", handler.nextPage)
		transfers.POST("/page/previous", handler.previousPage)
		transfers.POST("/:id/view", handler.viewTransfer)
		transfers.POST("/:id/complete", handler.markCompleted)
		transfers.POST("/drawer/close", handler.closeDrawer)
	}
}

func (h *TransferHandler) session(c *gin.Context) (*Session, bool) {
	accountID, crmToken, err := security.AccountFromContext(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid session", "details": err.Error()})
		return nil, false
	}
	return h.registry.Session(accountID, crmToken), true
}

func (h *TransferHandler) listTransfers(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	session.EnsureLoaded(c.Request.Context())
	c.JSON(http.StatusOK, session.View())
}

func (h *TransferHandler) getSummary(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	session.EnsureLoaded(c.Request.Context())
	c.JSON(http.StatusOK, session.SummarySnapshot())
}

func (h *TransferHandler) refresh(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	session.Refresh(c.Request.Context())
	c.JSON(http.StatusOK, session.View())
}

func (h *TransferHandler) setSearch(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req struct {
		Term string `json:"term"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	session.SetSearch(req.Term)
	c.JSON(http.StatusOK, session.View())
}

func (h *TransferHandler) setStatus(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	session.SetStatus(c.Request.Context(), req.Status)
	c.JSON(http.StatusOK, session.View())
}

func (h *TransferHandler) setDateRange(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req struct {
		Start *string `json:"start"`
		End   *string `json:"end"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	start, err := parseRangeBound(req.Start)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid start date", "details": err.Error()})
		return
	}
	end, err := parseRangeBound(req.End)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid end date", "details": err.Error()})
		return
	}

	session.SetDateRange(c.Request.Context(), start, end)
	c.JSON(http.StatusOK, session.View())
}

// parseRangeBound reads a "2006-01-02" bound; nil means that side is open.
func parseRangeBound(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	parsed, err := time.ParseInLocation("2006-01-02", *value, time.Local)
	if err != nil {
		return nil, err
	}
	bound := dates.StartOfDay(parsed)
	return &bound, nil
}

func (h *TransferHandler) nextPage(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	session.NextPage()
	c.JSON(http.StatusOK, session.View())
}

func (h *TransferHandler) previousPage(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	session.PreviousPage()
	c.JSON(http.StatusOK, session.View())
}

func (h *TransferHandler) viewTransfer(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	if !session.ViewTransfer(c.Param("id")) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Transfer not found"})
		return
	}
	c.JSON(http.StatusOK, session.View())
}

func (h *TransferHandler) markCompleted(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	if !session.MarkCompleted(c.Param("id")) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Transfer not found"})
		return
	}
	c.JSON(http.StatusOK, session.View())
}

func (h *TransferHandler) closeDrawer(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	session.CloseDrawer()
	c.JSON(http.StatusOK, session.View())
}
