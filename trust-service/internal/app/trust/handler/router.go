package handler

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"worththehype/pkg/logger"
	"worththehype/pkg/metrics"
)

func SetupRoutes(
	reviewHandler *ReviewHandler,
	trustHandler *TrustHandler,
	healthHandler *HealthCheckHandler,
	authMiddleware *AuthMiddleware,
) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())

	router.Use(logger.GinLoggerMiddleware())

	router.Use(metrics.GinPrometheusMiddleware("trust-service"))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	healthHandler.RegisterRoutes(router)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	registerAPIRoutes(router, reviewHandler, trustHandler, authMiddleware)

	return router
}

func registerAPIRoutes(router gin.IRouter, reviewHandler *ReviewHandler, trustHandler *TrustHandler, authMiddleware *AuthMiddleware) {
	reviews := router.Group("/reviews")
	reviews.Use(authMiddleware.Authenticate())
	{
		reviews.POST("", reviewHandler.CreateReview)
		reviews.GET("/restaurant/:restaurant_id", reviewHandler.GetReviewsByRestaurant)
		reviews.POST("/:review_id/vote", reviewHandler.ApplyVote)
		reviews.GET("/:review_id/vote", reviewHandler.GetUserVote)
		reviews.GET("/:review_id/credibility", reviewHandler.GetCredibility)
	}

	authors := router.Group("/authors")
	authors.Use(authMiddleware.Authenticate())
	{
		authors.GET("/:author_id/stats", trustHandler.GetAuthorStats)
	}

	restaurants := router.Group("/restaurants")
	restaurants.Use(authMiddleware.Authenticate())
	{
		restaurants.GET("/:restaurant_id/score", trustHandler.GetRestaurantScore)
		restaurants.GET("/:restaurant_id/summary", trustHandler.GetRestaurantSummary)
	}

	admin := router.Group("/admin")
	admin.Use(authMiddleware.Authenticate(), authMiddleware.RequireRole(roleAdmin))
	{
		admin.POST("/reconcile", trustHandler.Reconcile)
	}
}
