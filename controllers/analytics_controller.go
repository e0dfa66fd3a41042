package controllers

import (
	"net/http"
	"strconv"

	"checkout-service/repository"
	"checkout-service/services"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	analytics repository.AnalyticsRepository
	cache     *services.BestSellerCache
}

func NewAnalyticsController(analytics repository.AnalyticsRepository, cache *services.BestSellerCache) *AnalyticsController {
	return &AnalyticsController{analytics: analytics, cache: cache}
}

// GetDashboard returns the running-totals row (admin only).
func (ac *AnalyticsController) GetDashboard(ctx *gin.Context) {
	snapshot, err := ac.analytics.GetDashboard(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"analytics": snapshot})
}

// GetBestSelling returns the top sellers, served through the versioned
// Redis cache when warm.
func (ac *AnalyticsController) GetBestSelling(ctx *gin.Context) {
	limit := 10
	if l, err := strconv.Atoi(ctx.DefaultQuery("limit", "10")); err == nil && l > 0 && l <= 100 {
		limit = l
	}

	if ac.cache != nil {
		if top, ok := ac.cache.Get(ctx.Request.Context(), limit); ok {
			ctx.JSON(http.StatusOK, gin.H{"best_selling": top, "cached": true})
			return
		}
	}

	top, err := ac.analytics.TopSelling(ctx.Request.Context(), limit)
	if err != nil {
		respondError(ctx, err)
		return
	}

	if ac.cache != nil {
		ac.cache.SetAsync(limit, top)
	}

	ctx.JSON(http.StatusOK, gin.H{"best_selling": top})
}
