package api

import (
	"context"
	"errors"
	"time"

	"github.com/labstack/echo/v4"

	models "SignalHub/internal/domain/models"
	domrepo "SignalHub/internal/domain/repository"
	"SignalHub/internal/usecase"
	xhttp "SignalHub/pkg/http"
	xlogger "SignalHub/pkg/logger"
	"SignalHub/pkg/util"
)

// WSHandler serves a live websocket subscription endpoint.
type WSHandler interface {
	HandleWS(c echo.Context) error
}

// SignalsEchoHandler wires the signal pipeline to Echo routes.
type SignalsEchoHandler struct {
	logger *xlogger.Logger
	agg    *usecase.SignalAggregator
	ws     WSHandler
	store  domrepo.SignalStore // for health checks; may be nil
}

func NewSignalsEchoHandler(logger *xlogger.Logger, agg *usecase.SignalAggregator, ws WSHandler, store domrepo.SignalStore) *SignalsEchoHandler {
	return &SignalsEchoHandler{logger: logger, agg: agg, ws: ws, store: store}
}

func (h *SignalsEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)

	g := e.Group("/api")
	g.GET("/analysis/:ticker", h.Analysis)
	g.POST("/flow", h.Flow)
	g.POST("/warnings", h.Warnings)
	g.POST("/sentiment", h.Sentiment)
	g.GET("/news/:ticker", h.News)
	g.GET("/brokers/:ticker", h.Brokers)
	g.GET("/history/:ticker", h.History)

	if h.ws != nil {
		e.GET("/ws", h.ws.HandleWS)
	}
}

// Analysis runs the full pipeline for one ticker.
func (h *SignalsEchoHandler) Analysis(c echo.Context) error {
	req := &models.AnalysisRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	ticker := util.NormalizeTicker(req.Ticker)

	res, err := h.agg.Analyze(c.Request().Context(), ticker, req.Lookback)
	if err != nil {
		h.logger.Error("analysis usecase error",
			xlogger.String("ticker", ticker),
			xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=30")
	return xhttp.SuccessResponse(c, res)
}

// Flow classifies caller-supplied observables without touching providers.
func (h *SignalsEchoHandler) Flow(c echo.Context) error {
	req := &models.FlowRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res := h.agg.ClassifyFlow(req.PercentChange, req.VolumeRatio, req.VWAPDeviation)
	return xhttp.SuccessResponse(c, res)
}

// Warnings generates the prioritized quant report from caller-supplied scalars.
func (h *SignalsEchoHandler) Warnings(c echo.Context) error {
	req := &models.WarningsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res := h.agg.GenerateWarnings(
		req.ExpectedReturn, req.VolumeRatio, req.RSI,
		req.ForeignNetBuy, req.SentimentScore, req.ATRRatio,
		req.BrokerActivity,
	)
	return xhttp.SuccessResponse(c, res)
}

// Sentiment blends a group status into a baseline bullish probability.
func (h *SignalsEchoHandler) Sentiment(c echo.Context) error {
	req := &models.SentimentRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res := h.agg.BlendSentiment(req.BaselineProbUp, req.GroupStatus, req.HasCatalyst)
	return xhttp.SuccessResponse(c, res)
}

// News returns recent headlines for a ticker. Always 200; a dead feed means
// an empty list.
func (h *SignalsEchoHandler) News(c echo.Context) error {
	req := &models.NewsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res := h.agg.News(c.Request().Context(), util.NormalizeTicker(req.Ticker), req.Limit)
	if res == nil {
		res = []models.Headline{}
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=300")
	return xhttp.SuccessResponse(c, res)
}

// Brokers returns the per-broker flow summary for a ticker.
func (h *SignalsEchoHandler) Brokers(c echo.Context) error {
	req := &models.BrokersRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	ticker := util.NormalizeTicker(req.Ticker)

	res, err := h.agg.BrokerSummary(c.Request().Context(), ticker)
	if err != nil {
		if errors.Is(err, domrepo.ErrDataUnavailable) {
			return xhttp.NotFoundResponse(c, map[string]string{"ticker": ticker, "reason": "no broker flow data"})
		}
		h.logger.Error("brokers usecase error",
			xlogger.String("ticker", ticker),
			xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

// History returns the recent audit trail for a ticker.
func (h *SignalsEchoHandler) History(c echo.Context) error {
	req := &models.HistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	ticker := util.NormalizeTicker(req.Ticker)

	res, err := h.agg.RecentSignals(c.Request().Context(), ticker, req.Limit)
	if err != nil {
		h.logger.Error("history usecase error",
			xlogger.String("ticker", ticker),
			xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	if res == nil {
		res = []models.SignalRecord{}
	}
	return xhttp.SuccessResponse(c, res)
}

// Health reports liveness plus audit store reachability.
func (h *SignalsEchoHandler) Health(c echo.Context) error {
	status := map[string]string{"status": "ok"}
	if h.store != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := h.store.Health(ctx); err != nil {
			status["clickhouse"] = "unreachable"
		} else {
			status["clickhouse"] = "ok"
		}
	}
	return xhttp.SuccessResponse(c, status)
}
