package analytics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"dyno/internal/ml"
	"dyno/internal/prediction"
	"dyno/internal/training"

	"github.com/gin-gonic/gin"
)

// Trainer runs a training pass on demand.
type Trainer interface {
	Run(ctx context.Context) (*training.Result, error)
}

type Handler struct {
	service     *Service
	predictions *prediction.Service
	trainer     Trainer
}

func NewHandler(service *Service, predictions *prediction.Service, trainer Trainer) *Handler {
	return &Handler{
		service:     service,
		predictions: predictions,
		trainer:     trainer,
	}
}

func queryInt(c *gin.Context, key string) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// --------------------------------------------------
// USER: popular items for the home page
// --------------------------------------------------
func (h *Handler) Suggestions(c *gin.Context) {
	limit, ok := queryInt(c, "limit")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}

	var (
		sugg *Suggestions
		err  error
	)
	if region := c.Query("region"); region != "" {
		sugg, err = h.service.SuggestForRegion(c.Request.Context(), region, limit)
	} else {
		userID, _ := c.Get("userID")
		id, _ := userID.(string)
		sugg, err = h.service.SuggestForUser(c.Request.Context(), id, limit)
	}

	// suggestions are optional; never fail the page over them
	if err != nil {
		h.service.logger.WarnContext(c.Request.Context(), "suggestions_unavailable", "error", err)
		c.JSON(http.StatusOK, gin.H{
			"items":   []SuggestedItem{},
			"message": "no suggestions available",
		})
		return
	}

	c.JSON(http.StatusOK, sugg)
}

// --------------------------------------------------
// STAFF: dashboard
// --------------------------------------------------
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.OverallStats(c.Request.Context(), c.Query("region"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load analytics"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) RecentPredictions(c *gin.Context) {
	limit, ok := queryInt(c, "limit")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}
	if limit == 0 {
		limit = h.service.opts.RecentPredictions
	}

	results, err := h.predictions.RecentPredictions(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load predictions"})
		return
	}

	resp := gin.H{"predictions": results}
	if h.predictions.Bundle() == nil {
		resp["message"] = "model not trained yet"
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) Predict(c *gin.Context) {
	var q prediction.Query
	if err := c.ShouldBindJSON(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	res, err := h.predictions.Predict(q)
	if err != nil {
		if errors.Is(err, ml.ErrBundleMissing) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "model not trained yet"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, res)
}

// --------------------------------------------------
// STAFF: model lifecycle
// --------------------------------------------------
func (h *Handler) Train(c *gin.Context) {
	res, err := h.trainer.Run(c.Request.Context())
	if err != nil {
		if errors.Is(err, ml.ErrInsufficientData) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "no data to train the model"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "training failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "model trained",
		"location":      res.Location,
		"trained_at":    res.Bundle.TrainedAt.Format(time.RFC3339),
		"training_rows": res.Bundle.TrainingRows,
		"shared":        res.Shared,
	})
}

func (h *Handler) Model(c *gin.Context) {
	resp := gin.H{
		"trained":   false,
		"fallbacks": h.predictions.Stats(),
	}

	if b := h.predictions.Bundle(); b != nil {
		resp["trained"] = true
		resp["trained_at"] = b.TrainedAt.Format(time.RFC3339)
		resp["training_rows"] = b.TrainingRows
		resp["customers"] = b.CustomerEncoder.Len()
		resp["regions"] = b.RegionEncoder.Len()
		resp["items"] = b.ItemEncoder.Len()
		resp["weights"] = b.Model.Weights
		resp["intercept"] = b.Model.Intercept
	}

	c.JSON(http.StatusOK, resp)
}
