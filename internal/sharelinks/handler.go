package sharelinks

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"partnerportal/internal/rate_limiter"
	"partnerportal/internal/transfers"
	"partnerportal/pkg/security"

	"github.com/gin-gonic/gin"
)

const resolveLimit = 30

type Handler struct {
	service     *Service
	registry    *transfers.Registry
	rateLimiter *rate_limiter.RateLimiter
}

func RegisterRoutes(router *gin.Engine, service *Service, registry *transfers.Registry) {
	handler := Handler{
		service:     service,
		registry:    registry,
		rateLimiter: rate_limiter.NewRateLimiter(resolveLimit, time.Minute),
	}

	router.POST("/share-links", security.JWTMiddleware(), security.Authorize("partner"), handler.createLink)
	router.GET("/share-links/:token", handler.resolveLink)
}

// createLink snapshots the caller's current session filters behind a token.
func (h *Handler) createLink(c *gin.Context) {
	accountID, crmToken, err := security.AccountFromContext(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid session", "details": err.Error()})
		return
	}

	session := h.registry.Session(accountID, crmToken)

	link, err := h.service.Create(accountID, session.Filters())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to create share link", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, link)
}

// resolveLink is public; the rate limiter stands in for the missing
// credential.
func (h *Handler) resolveLink(c *gin.Context) {
	clientIP := c.ClientIP()
	if !h.rateLimiter.IsAllowed(clientIP) {
		remaining := h.rateLimiter.GetRemainingRequests(clientIP)
		c.Header("X-RateLimit-Limit", strconv.Itoa(resolveLimit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", time.Now().Add(time.Minute).Format(time.RFC3339))
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":     "Too many requests. Try again later.",
			"remaining": remaining,
		})
		return
	}

	link, err := h.service.Resolve(c.Param("token"))
	if err != nil {
		switch {
		case errors.Is(err, ErrLinkNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Share link not found"})
		case errors.Is(err, ErrLinkExpired):
			c.AbortWithStatusJSON(http.StatusGone, gin.H{"error": "Share link expired"})
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to resolve share link", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, link)
}
