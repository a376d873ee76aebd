// In file: cmd/gateway/handler.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/analysis"
	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/api"
	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/llm"
	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/metrics"
	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/optimize"
	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/service"
	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/technique"
)

// GatewayHandler serves the prompt analysis and optimization API.
type GatewayHandler struct {
	svc     *service.PromptService
	router  *llm.Router
	metrics *metrics.Metrics
}

// NewGatewayHandler wires the handler. router may be nil when no provider is
// configured.
func NewGatewayHandler(svc *service.PromptService, router *llm.Router, m *metrics.Metrics) *GatewayHandler {
	return &GatewayHandler{svc: svc, router: router, metrics: m}
}

// Register mounts every route on engine.
func (h *GatewayHandler) Register(engine *gin.Engine) {
	engine.GET("/healthz", h.HandleHealth)
	engine.GET("/version", h.HandleVersion)
	engine.GET("/metrics", gin.WrapH(h.metrics.Handler()))

	v1 := engine.Group("/api/v1")
	{
		v1.POST("/analyze", h.HandleAnalyze)
		v1.POST("/optimize", h.HandleOptimize)
		v1.GET("/patterns", h.HandleListPatterns)
		v1.POST("/patterns/:id/apply", h.HandleApplyPattern)
		v1.GET("/techniques", h.HandleListTechniques)
		v1.GET("/platforms", h.HandleListPlatforms)
		v1.GET("/providers", h.HandleListProviders)
		v1.DELETE("/cache", h.HandleClearCache)
	}
}

func (h *GatewayHandler) HandleAnalyze(c *gin.Context) {
	var req api.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	log.Printf("--- Analyze (Request: %s, Enhanced: %v, Prompt: '%.30s...') ---", requestID(c), req.Enhanced, req.Prompt)
	resp, err := h.svc.Analyze(c.Request.Context(), req)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	if resp.Cached {
		log.Println("✅ Cache HIT")
	}
	resp.RequestID = requestID(c)
	c.JSON(http.StatusOK, resp)
}

func (h *GatewayHandler) HandleOptimize(c *gin.Context) {
	var req api.OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	if f := c.Query("format"); f != "" {
		req.Format = f
	}

	log.Printf("--- Optimize (Request: %s, Mode: %s, Prompt: '%.30s...') ---", requestID(c), req.Mode, req.Prompt)
	resp, err := h.svc.Optimize(c.Request.Context(), req)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	resp.RequestID = requestID(c)

	format := strings.ToLower(req.Format)
	if format == "" || format == api.FormatJSON {
		c.JSON(http.StatusOK, resp)
		return
	}
	body, err := api.Render(resp.Result, format)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	if format == "md" {
		format = api.FormatMarkdown
	} else if format == "txt" {
		format = api.FormatText
	}
	c.Data(http.StatusOK, api.ContentType(format), []byte(body))
}

func (h *GatewayHandler) HandleListPatterns(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"patterns": api.Patterns()})
}

func (h *GatewayHandler) HandleApplyPattern(c *gin.Context) {
	var req api.PatternApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	resp := api.ApplyPattern(c.Param("id"), req)
	if !resp.Applied {
		log.Printf("⚠️ Pattern %s not applied: %s", resp.PatternID, resp.Error)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *GatewayHandler) HandleListTechniques(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"techniques": technique.Catalog()})
}

func (h *GatewayHandler) HandleListPlatforms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"platforms": h.svc.Optimizer().Platforms()})
}

// HandleListProviders reports the tracked stats of every configured provider.
func (h *GatewayHandler) HandleListProviders(c *gin.Context) {
	providers := []*llm.ProviderStats{}
	if h.router != nil {
		for _, name := range h.router.Providers() {
			stats, err := h.router.Usage().Stats(c.Request.Context(), name)
			if err != nil {
				log.Printf("WARNING: could not load stats for %s: %v", name, err)
				continue
			}
			providers = append(providers, stats)
		}
	}
	c.JSON(http.StatusOK, gin.H{"providers": providers})
}

func (h *GatewayHandler) HandleClearCache(c *gin.Context) {
	n, err := h.svc.ClearCache(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	log.Printf("🧹 Cache cleared (%d entries)", n)
	c.JSON(http.StatusOK, api.CacheClearResponse{Removed: n})
}

func (h *GatewayHandler) HandleHealth(c *gin.Context) {
	status := gin.H{"status": "ok", "providers": 0}
	if h.router != nil {
		status["providers"] = len(h.router.Providers())
	}
	c.JSON(http.StatusOK, status)
}

func (h *GatewayHandler) HandleVersion(c *gin.Context) {
	c.JSON(http.StatusOK, GetBuildInfo())
}

// abortWithServiceError maps service errors onto HTTP statuses. Input errors
// are the caller's fault; everything else is ours.
func abortWithServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, analysis.ErrEmptyInput):
		abortWithError(c, http.StatusBadRequest, "prompt must not be empty")
	case errors.Is(err, analysis.ErrUnknownTone),
		errors.Is(err, optimize.ErrUnknownMode),
		errors.Is(err, api.ErrUnknownFormat):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		abortWithError(c, http.StatusGatewayTimeout, err.Error())
	default:
		log.Printf("❌ Request %s failed: %v", requestID(c), err)
		abortWithError(c, http.StatusInternalServerError, err.Error())
	}
}

func abortWithError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, api.ErrorResponse{Error: msg, RequestID: requestID(c)})
}

// timed records the handling time of every request.
func timed(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.Duration.WithLabelValues("http " + c.Request.Method + " " + route).Observe(time.Since(start).Seconds())
	}
}
