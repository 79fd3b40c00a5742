package api

import (
	"encoding/json"
	"net/http"
	"time"

	models "MarketPulse/internal/domain/models"
	domrepo "MarketPulse/internal/domain/repository"
	icache "MarketPulse/internal/service/cache"
	"MarketPulse/internal/service/metrics"
	"MarketPulse/internal/service/ratelimit"
	"MarketPulse/internal/usecase"
	xhttp "MarketPulse/pkg/http"
	xlogger "MarketPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// PulseEchoHandler implements Echo-based HTTP handlers following Clean Architecture.
type PulseEchoHandler struct {
	logger   *xlogger.Logger
	pipeline *usecase.IngestPipeline
	pulse    *usecase.PulseUseCase
	queue    *usecase.RetryQueue
	cache    icache.BytesCache
	rl       *ratelimit.Limiter
}

func NewPulseEchoHandler(logger *xlogger.Logger, pipeline *usecase.IngestPipeline, pulse *usecase.PulseUseCase, queue *usecase.RetryQueue) *PulseEchoHandler {
	metrics.Register()
	return &PulseEchoHandler{
		logger:   logger,
		pipeline: pipeline,
		pulse:    pulse,
		queue:    queue,
		rl:       ratelimit.New(),
	}
}

// SetCache injects an optional response cache for read endpoints.
func (h *PulseEchoHandler) SetCache(c icache.BytesCache) { h.cache = c }

func (h *PulseEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)
	g := e.Group("/api")
	g.POST("/ingest", h.Ingest)
	g.GET("/pulse", h.Pulse)
	g.GET("/pulse/range", h.PulseRange)
	g.GET("/sentiment", h.Sentiment)
	g.POST("/scenario", h.Scenario)
	g.GET("/queue", h.Queue)
	g.GET("/logs", h.Logs)
}

func (h *PulseEchoHandler) Ingest(c echo.Context) error {
	start := time.Now()
	defer func() { metrics.PulseLatency.WithLabelValues("ingest").Observe(time.Since(start).Seconds()) }()

	if !h.rl.Allow(c.RealIP()+":ingest", 20, 10) {
		h.logger.Warn("ingest rate_limited", xlogger.String("remote", c.RealIP()))
		return xhttp.DataResponse(c, http.StatusTooManyRequests, map[string]string{"error": "rate limited"})
	}

	req := &models.IngestRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res := h.pipeline.Ingest(c.Request().Context(), req.Text, req.DateHeading)
	if !res.Accepted && !res.Duplicate {
		return xhttp.DataResponse(c, http.StatusUnprocessableEntity, res)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *PulseEchoHandler) Pulse(c echo.Context) error {
	start := time.Now()
	defer func() { metrics.PulseLatency.WithLabelValues("pulse").Observe(time.Since(start).Seconds()) }()

	req := &models.PulseRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	size := domrepo.NormalizeWindowMinutes(req.WindowMinutes)
	lookback := time.Duration(req.LookbackMin) * time.Minute

	if b, ok := h.cached("pulse", c, req); ok {
		return c.JSONBlob(http.StatusOK, b)
	}

	res := h.pulse.Overview(usecase.OverviewParams{
		Lookback:   lookback,
		WindowSize: size,
	})
	h.store("pulse", req, res, 15*time.Second)
	return xhttp.SuccessResponse(c, res)
}

// PulseRange serves windowed aggregation over the persisted alert history.
// Responds with an empty set when no history store is configured.
func (h *PulseEchoHandler) PulseRange(c echo.Context) error {
	start := time.Now()
	defer func() { metrics.PulseLatency.WithLabelValues("pulse_range").Observe(time.Since(start).Seconds()) }()

	now := time.Now()
	from := xhttp.ParseTimeDefault(c.QueryParam("from"), now.Add(-24*time.Hour))
	to := xhttp.ParseTimeDefault(c.QueryParam("to"), now)
	size := domrepo.NormalizeWindowMinutes(xhttp.ParseIntDefault(c.QueryParam("window"), 5))
	from, to = xhttp.AlignRange(from, to, size.Duration())

	res, err := h.pulse.WindowsRange(c.Request().Context(), c.QueryParam("ticker"), from, to, size)
	if err != nil {
		metrics.PulseErrors.WithLabelValues("pulse_range").Inc()
		h.logger.Error("pulse range error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *PulseEchoHandler) Sentiment(c echo.Context) error {
	start := time.Now()
	defer func() { metrics.PulseLatency.WithLabelValues("sentiment").Observe(time.Since(start).Seconds()) }()

	req := &models.SentimentRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	if b, ok := h.cached("sentiment", c, req); ok {
		return c.JSONBlob(http.StatusOK, b)
	}

	res := h.pulse.Sentiment(time.Duration(req.LookbackMin) * time.Minute)
	h.store("sentiment", req, res, 15*time.Second)
	return xhttp.SuccessResponse(c, res)
}

func (h *PulseEchoHandler) Scenario(c echo.Context) error {
	start := time.Now()
	defer func() { metrics.PulseLatency.WithLabelValues("scenario").Observe(time.Since(start).Seconds()) }()

	if !h.rl.Allow(c.RealIP()+":scenario", 5, 2) {
		h.logger.Warn("scenario rate_limited", xlogger.String("remote", c.RealIP()))
		return xhttp.DataResponse(c, http.StatusTooManyRequests, map[string]string{"error": "rate limited"})
	}

	req := &models.ScenarioRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res := h.pulse.Scenario(req.Snapshot, time.Duration(req.LookbackMin)*time.Minute)
	return xhttp.SuccessResponse(c, res)
}

func (h *PulseEchoHandler) Queue(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.queue.Status())
}

// Logs exposes the in-process error-log ring for debugging.
func (h *PulseEchoHandler) Logs(c echo.Context) error {
	coll := h.logger.Collector()
	if coll == nil {
		return xhttp.SuccessResponse(c, []xlogger.AggregatedLogEntry{})
	}
	return xhttp.SuccessResponse(c, coll.Recent())
}

func (h *PulseEchoHandler) Health(c echo.Context) error {
	out := map[string]string{"status": "ok", "history": "ok"}
	if err := h.pulse.Health(c.Request().Context()); err != nil {
		out["history"] = err.Error()
	}
	return xhttp.SuccessResponse(c, out)
}

// cached returns a previously stored response body for the endpoint and
// request parameters. A cache failure is logged and treated as a miss.
func (h *PulseEchoHandler) cached(endpoint string, c echo.Context, req interface{}) ([]byte, bool) {
	if h.cache == nil {
		return nil, false
	}
	key := cacheKey(endpoint, req)
	b, ok, err := h.cache.GetBytes(key)
	if err != nil {
		h.logger.Warn(endpoint+" cache_get_error", xlogger.Error(err))
		return nil, false
	}
	if ok {
		h.logger.Debug(endpoint+" cache_hit", xlogger.String("key", key))
	}
	return b, ok
}

func (h *PulseEchoHandler) store(endpoint string, req, res interface{}, ttl time.Duration) {
	if h.cache == nil {
		return
	}
	b, err := json.Marshal(xhttp.APIResponse{
		Status:  http.StatusOK,
		Message: http.StatusText(http.StatusOK),
		Data:    res,
	})
	if err != nil {
		return
	}
	if err := h.cache.SetBytes(cacheKey(endpoint, req), b, ttl); err != nil {
		h.logger.Warn(endpoint+" cache_set_error", xlogger.Error(err))
	}
}

func cacheKey(endpoint string, req interface{}) string {
	b, _ := json.Marshal(req)
	return endpoint + ":" + string(b)
}
