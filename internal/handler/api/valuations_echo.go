package api

import (
	"errors"
	"net/http"

	models "OptionVal/internal/domain/models"
	"OptionVal/internal/montecarlo"
	"OptionVal/internal/service/finnhub"
	"OptionVal/internal/service/ratelimit"
	"OptionVal/internal/usecase"
	xhttp "OptionVal/pkg/http"
	xlogger "OptionVal/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ValuationsEchoHandler exposes the valuation endpoints over Echo.
type ValuationsEchoHandler struct {
	logger    *xlogger.Logger
	svc       *usecase.ValuationService
	collector *usecase.SpotCollector // nil when live feed is disabled
	rest      *finnhub.RESTClient    // nil when no API key configured
	limiter   *ratelimit.Limiter
}

func NewValuationsEchoHandler(logger *xlogger.Logger, svc *usecase.ValuationService, collector *usecase.SpotCollector, rest *finnhub.RESTClient) *ValuationsEchoHandler {
	return &ValuationsEchoHandler{
		logger:    logger,
		svc:       svc,
		collector: collector,
		rest:      rest,
		limiter:   ratelimit.New(),
	}
}

func (h *ValuationsEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/valuations", h.Value)
	g.GET("/valuations", h.History)
	g.GET("/analytic", h.Analytic)
	g.GET("/spot/:symbol", h.Spot)
}

func (h *ValuationsEchoHandler) Value(c echo.Context) error {
	// Valuations are CPU-heavy; token bucket per client IP.
	if !h.limiter.Allow(c.RealIP(), 10, 5) {
		return xhttp.DataResponse(c, http.StatusTooManyRequests, "rate limit exceeded")
	}

	req := &models.ValuationRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.svc.Value(c.Request().Context(), req, "http")
	if err != nil {
		h.logger.Error("valuation usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, valuationError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

// valuationError maps pricing errors onto HTTP statuses. Parameter problems
// (bad grids, off-grid times) are the caller's fault.
func valuationError(err error) error {
	switch {
	case errors.Is(err, montecarlo.ErrInvalidGrid),
		errors.Is(err, montecarlo.ErrTimeOutOfRange),
		errors.Is(err, montecarlo.ErrTimeNotOnGrid),
		errors.Is(err, montecarlo.ErrDimensionMismatch):
		return xhttp.BadRequestError(err.Error())
	default:
		return err
	}
}

func (h *ValuationsEchoHandler) History(c echo.Context) error {
	req := &models.HistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.svc.History(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("history usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *ValuationsEchoHandler) Analytic(c echo.Context) error {
	req := &models.AnalyticRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	price, err := h.svc.Analytic(req)
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"kind":  req.Kind,
		"price": price,
	})
}

func (h *ValuationsEchoHandler) Spot(c echo.Context) error {
	symbol := c.Param("symbol")
	if h.collector != nil {
		if q, ok := h.collector.LastQuote(symbol); ok {
			return xhttp.SuccessResponse(c, q)
		}
	}
	// REST fallback when the stream has not ticked for this symbol yet.
	if h.rest != nil {
		q, err := h.rest.Quote(c.Request().Context(), symbol)
		if err != nil {
			h.logger.Warn("rest quote fallback failed", xlogger.Error(err))
			return xhttp.NotFoundResponse(c, "no quote available for "+symbol)
		}
		return xhttp.SuccessResponse(c, q)
	}
	return xhttp.NotFoundResponse(c, "no quote observed for "+symbol)
}
