package handler

import (
	"errors"
	"net/http"
	"strconv"

	"worththehype/pkg/logger"
	"worththehype/trust-service/internal/app/trust/service"

	"github.com/gin-gonic/gin"
)

// TrustHandler статистика авторов, рейтинг и сводка ресторана, сверка счетчиков
type TrustHandler struct {
	authorService    service.AuthorServiceInterface
	scoreService     service.ScoreServiceInterface
	summaryService   service.SummaryServiceInterface
	reconcileService service.ReconcileServiceInterface
}

func NewTrustHandler(
	authorService service.AuthorServiceInterface,
	scoreService service.ScoreServiceInterface,
	summaryService service.SummaryServiceInterface,
	reconcileService service.ReconcileServiceInterface,
) *TrustHandler {
	return &TrustHandler{
		authorService:    authorService,
		scoreService:     scoreService,
		summaryService:   summaryService,
		reconcileService: reconcileService,
	}
}

func (h *TrustHandler) GetAuthorStats(c *gin.Context) {
	authorID := c.Param("author_id")

	stats, err := h.authorService.GetStats(c.Request.Context(), authorID)
	if err != nil {
		logger.Error().Err(err).Str("author_id", authorID).Msg("Failed to get author stats")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get author stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *TrustHandler) GetRestaurantScore(c *gin.Context) {
	restaurantID := c.Param("restaurant_id")

	score, err := h.scoreService.RestaurantScore(c.Request.Context(), restaurantID)
	if err != nil {
		logger.Error().Err(err).Str("restaurant_id", restaurantID).Msg("Failed to compute restaurant score")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute score"})
		return
	}

	c.JSON(http.StatusOK, score)
}

// GetRestaurantSummary сводка ресторана, ?refresh=true пересоздает ее принудительно
func (h *TrustHandler) GetRestaurantSummary(c *gin.Context) {
	restaurantID := c.Param("restaurant_id")

	force := false
	if raw := c.Query("refresh"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "refresh must be a boolean"})
			return
		}
		force = parsed
	}

	resp, err := h.summaryService.GetSummary(c.Request.Context(), restaurantID, force)
	if err != nil {
		if errors.Is(err, service.ErrSummaryUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "summary unavailable"})
			return
		}
		logger.Error().Err(err).Str("restaurant_id", restaurantID).Msg("Failed to get summary")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get summary"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Reconcile полный пересчет счетчиков по журналу голосов
func (h *TrustHandler) Reconcile(c *gin.Context) {
	resp, err := h.reconcileService.ReconcileAll(c.Request.Context())
	if err != nil {
		logger.Error().Err(err).Msg("Manual reconciliation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Reconciliation failed"})
		return
	}

	c.JSON(http.StatusOK, resp)
}
