package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"content-feedback/internal/feedback"
	"content-feedback/internal/simulation"
)

type ingestMetricRequest struct {
	PostID      int64   `json:"postId"`
	Platform    string  `json:"platform"`
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	Conversions int64   `json:"conversions"`
	Revenue     float64 `json:"revenue"`
}

type searchWinnersRequest struct {
	QueryText string `json:"queryText"`
	Limit     int    `json:"limit"`
}

type winnerResult struct {
	Key             string            `json:"key"`
	SimilarityScore float64           `json:"similarityScore"`
	Content         string            `json:"content"`
	Metadata        map[string]string `json:"metadata"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) ingestMetric(c *gin.Context) {
	var req ingestMetricRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return
	}

	_, err := s.feedback.IngestMetric(c.Request.Context(), req.PostID, req.Platform,
		req.Impressions, req.Clicks, req.Conversions, decimal.NewFromFloat(req.Revenue))
	if err != nil {
		if errors.Is(err, feedback.ErrInvalidArgument) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		s.logger.Error().Err(err).Int64("post_id", req.PostID).Msg("metric ingestion failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to persist metric"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "metric recorded"})
}

func (s *Server) searchWinners(c *gin.Context) {
	var req searchWinnersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return
	}

	results := s.store.Search(req.QueryText, req.Limit)
	out := make([]winnerResult, 0, len(results))
	for _, res := range results {
		out = append(out, winnerResult{
			Key:             res.Key,
			SimilarityScore: res.Score,
			Content:         res.Text,
			Metadata:        res.Metadata,
		})
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "results": out})
}

func (s *Server) brandWinners(c *gin.Context) {
	brandID, err := strconv.ParseInt(c.Param("brandId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid brand id"})
		return
	}

	winners := s.store.BrandWinners(brandID)
	out := make([]winnerResult, 0, len(winners))
	for _, rec := range winners {
		// Brand winners are canonical, not similarity-ranked.
		out = append(out, winnerResult{
			Key:             rec.Key,
			SimilarityScore: 1.0,
			Content:         rec.Text,
			Metadata:        rec.Metadata,
		})
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "results": out})
}

func (s *Server) brandTrends(c *gin.Context) {
	brandID, err := strconv.ParseInt(c.Param("brandId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid brand id"})
		return
	}

	windowDays := 30
	if raw := c.Query("windowDays"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid windowDays"})
			return
		}
		windowDays = parsed
	}

	report, err := s.feedback.AnalyzeTrends(c.Request.Context(), brandID, windowDays)
	if err != nil {
		s.logger.Error().Err(err).Int64("brand_id", brandID).Msg("trend analysis failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "trend analysis failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "report": report})
}

func (s *Server) runNightlyWinner(c *gin.Context) {
	result, err := s.sched.RunNow("nightly_winner")
	if err != nil {
		s.logger.Error().Err(err).Msg("on-demand nightly winner job failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "nightly winner job complete",
		"stats": gin.H{
			"brandsProcessed":   result.Processed,
			"winnersIdentified": result.Succeeded,
			"errors":            result.Failed,
		},
	})
}

func (s *Server) stats(c *gin.Context) {
	stats := s.store.Stats()

	perBrand := make(map[string]int, len(stats.PerBrandCounts))
	for brandID, count := range stats.PerBrandCounts {
		perBrand[strconv.FormatInt(brandID, 10)] = count
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "similarity store stats",
		"stats": gin.H{
			"totalItems":        stats.TotalItems,
			"brandsWithWinners": stats.BrandsWithWinners,
			"perBrandCounts":    perBrand,
		},
	})
}

func (s *Server) simulateCampaign(c *gin.Context) {
	var cfg simulation.CampaignConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return
	}

	report, err := s.runner.Campaign(cfg)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "report": report})
}

func (s *Server) simulateAudience(c *gin.Context) {
	var cfg simulation.AudienceConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return
	}

	report, err := s.runner.Audience(cfg)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "report": report})
}

func (s *Server) simulateCreative(c *gin.Context) {
	var cfg simulation.CreativeConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return
	}

	report, err := s.runner.Creative(cfg)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "report": report})
}
