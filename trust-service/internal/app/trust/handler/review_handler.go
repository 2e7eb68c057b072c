package handler

import (
	"errors"
	"net/http"

	"worththehype/pkg/logger"
	"worththehype/trust-service/internal/app/trust/entity"
	"worththehype/trust-service/internal/app/trust/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ReviewHandler отзывы, голоса и достоверность
type ReviewHandler struct {
	reviewService      service.ReviewServiceInterface
	voteService        service.VoteServiceInterface
	credibilityService service.CredibilityServiceInterface
	validator          *validator.Validate
}

func NewReviewHandler(
	reviewService service.ReviewServiceInterface,
	voteService service.VoteServiceInterface,
	credibilityService service.CredibilityServiceInterface,
) *ReviewHandler {
	return &ReviewHandler{
		reviewService:      reviewService,
		voteService:        voteService,
		credibilityService: credibilityService,
		validator:          validator.New(),
	}
}

type createReviewResponse struct {
	Review    *entity.Review `json:"review"`
	NewBadges []entity.Badge `json:"new_badges"`
}

func (h *ReviewHandler) CreateReview(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req entity.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	review, badges, err := h.reviewService.CreateReview(c.Request.Context(), user, &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidReview) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error().Err(err).Str("user_id", user.ID).Msg("Failed to create review")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create review"})
		return
	}

	if badges == nil {
		badges = []entity.Badge{}
	}
	c.JSON(http.StatusCreated, createReviewResponse{Review: review, NewBadges: badges})
}

func (h *ReviewHandler) GetReviewsByRestaurant(c *gin.Context) {
	restaurantID := c.Param("restaurant_id")
	if restaurantID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Restaurant ID is required"})
		return
	}

	reviews, err := h.reviewService.GetReviewsByRestaurant(c.Request.Context(), restaurantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get reviews"})
		return
	}

	c.JSON(http.StatusOK, entity.ReviewListResponse{
		Reviews: reviews,
		Total:   len(reviews),
	})
}

// ApplyVote голос за отзыв. Повтор того же направления снимает голос.
func (h *ReviewHandler) ApplyVote(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	reviewID := c.Param("review_id")

	var req entity.VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	result, err := h.voteService.ApplyVote(c.Request.Context(), reviewID, user.ID, req.Direction)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDirection):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrReviewNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		case errors.Is(err, service.ErrVoteConflict):
			c.JSON(http.StatusConflict, gin.H{"error": "Concurrent vote, please retry"})
		case errors.Is(err, service.ErrAggregateSkew):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Vote recorded, counters are being updated"})
		default:
			logger.Error().Err(err).Str("review_id", reviewID).Str("user_id", user.ID).Msg("Failed to apply vote")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to apply vote"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ReviewHandler) GetUserVote(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	reviewID := c.Param("review_id")

	direction, err := h.voteService.GetUserVote(c.Request.Context(), reviewID, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get vote"})
		return
	}

	c.JSON(http.StatusOK, entity.UserVoteResponse{ReviewID: reviewID, Direction: direction})
}

// GetCredibility оценка достоверности отзыва. Сбой анализа дает запись-заглушку, а не ошибку.
func (h *ReviewHandler) GetCredibility(c *gin.Context) {
	reviewID := c.Param("review_id")

	review, err := h.reviewService.GetReview(c.Request.Context(), reviewID)
	if err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get review"})
		return
	}

	record, err := h.credibilityService.GetOrCompute(c.Request.Context(), reviewID, review.Text)
	if err != nil {
		logger.Error().Err(err).Str("review_id", reviewID).Msg("Credibility store unavailable")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Credibility unavailable"})
		return
	}

	c.JSON(http.StatusOK, record)
}

func formatValidationError(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			return fieldError.Field() + " is " + fieldError.Tag()
		}
	}
	return "Validation failed"
}
