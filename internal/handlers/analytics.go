package handlers

import (
	"net/http"
	"strings"

	"mental-wellness-be/internal/models"
	"mental-wellness-be/internal/services"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	analytics *services.AnalyticsService
}

func NewAnalyticsHandler(analytics *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// GetAnalytics godoc
// @Summary Get wellness analytics for a user
// @Description Returns aggregated stress statistics, or a progress message while the user has fewer than 3 conversations
// @Tags analytics
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} models.AnalyticsResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /analytics/{username} [get]
func (h *AnalyticsHandler) GetAnalytics(c *gin.Context) {
	username := c.Param("username")

	view, err := h.analytics.GetAnalytics(c.Request.Context(), username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "server_error",
			Message: "Failed to compute analytics",
		})
		return
	}

	c.JSON(http.StatusOK, view)
}

// GetConversationCount godoc
// @Summary Get a user's conversation count
// @Description Lightweight progress payload for the chat page threshold indicator
// @Tags analytics
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} models.ConversationCountResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /analytics/{username}/count [get]
func (h *AnalyticsHandler) GetConversationCount(c *gin.Context) {
	username := c.Param("username")

	resp, err := h.analytics.GetConversationCount(c.Request.Context(), username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "server_error",
			Message: "Failed to read conversation count",
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// SearchSuggestions godoc
// @Summary Search past wellness suggestions
// @Description Fuzzy search over the suggestions a user has received
// @Tags analytics
// @Produce json
// @Param username path string true "Username"
// @Param q query string true "Search query"
// @Success 200 {object} map[string][]models.SuggestionItem
// @Failure 500 {object} models.ErrorResponse
// @Router /analytics/{username}/suggestions [get]
func (h *AnalyticsHandler) SearchSuggestions(c *gin.Context) {
	username := c.Param("username")

	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusOK, gin.H{"suggestions": []models.SuggestionItem{}})
		return
	}

	results, err := h.analytics.SearchSuggestions(c.Request.Context(), username, query, 5)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "server_error",
			Message: "Failed to search suggestions",
		})
		return
	}

	if results == nil {
		results = []models.SuggestionItem{}
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": results})
}
