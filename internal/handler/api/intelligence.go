package api

import (
	"Aletheia/internal/domain/models"
	"Aletheia/internal/service/news"
	"Aletheia/internal/usecase"
	xhttp "Aletheia/pkg/http"
	xlogger "Aletheia/pkg/logger"
	"Aletheia/pkg/util"

	"github.com/labstack/echo/v4"
)

// IntelligenceHandler exposes the intelligence lookup surface over HTTP.
type IntelligenceHandler struct {
	logger   *xlogger.Logger
	resolver *usecase.Resolver
	lister   *usecase.TickerLister
	news     *news.Generator
}

func NewIntelligenceHandler(
	lgr *xlogger.Logger,
	resolver *usecase.Resolver,
	lister *usecase.TickerLister,
	newsGen *news.Generator,
) *IntelligenceHandler {
	return &IntelligenceHandler{
		logger:   lgr,
		resolver: resolver,
		lister:   lister,
		news:     newsGen,
	}
}

func (h *IntelligenceHandler) RegisterRoutes(e *echo.Echo) {
	// static /tickers route wins over the :ticker param route
	e.GET("/intelligence/tickers", h.Tickers)
	e.GET("/intelligence/:ticker", h.Intelligence)
	e.GET("/news/:ticker", h.News)
}

// Intelligence serves a resolution. The resolver owns the status code: 200
// for live/cache/static, 202 for training with no cache, and the upstream's
// own status or 503/500 on total exhaustion.
func (h *IntelligenceHandler) Intelligence(c echo.Context) error {
	req := &models.IntelligenceRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res := h.resolver.Resolve(c.Request().Context(), req.Ticker)
	if res.Raw != nil {
		return c.JSONBlob(res.StatusCode, res.Raw)
	}
	return xhttp.JSONResponse(c, res.StatusCode, res.Body)
}

func (h *IntelligenceHandler) Tickers(c echo.Context) error {
	entries := h.lister.ListTickers(c.Request().Context())
	return xhttp.SuccessResponse(c, entries)
}

func (h *IntelligenceHandler) News(c echo.Context) error {
	req := &models.NewsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	feed := h.news.Generate(util.NormalizeTicker(req.Ticker), req.Limit)
	return xhttp.SuccessResponse(c, feed)
}
