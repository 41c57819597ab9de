// Package router binds the HTTP surface onto an Echo instance. Each
// router owns one slice of the API and declares the narrow dependency
// interfaces it needs, so handlers stay testable without a live cluster.
package router

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mkoskenniemi/lakihaku/internal/domain"
	"github.com/mkoskenniemi/lakihaku/internal/search"
	"github.com/mkoskenniemi/lakihaku/internal/storage/es"
	"github.com/mkoskenniemi/lakihaku/pkg/pagination"
)

// DocumentSearcher is the slice of the index service the search
// endpoints need; satisfied by *es.Searcher.
type DocumentSearcher interface {
	SearchStatutes(ctx context.Context, language domain.Language, query string, opts es.SearchOptions) ([]es.StatuteDoc, int64, error)
	SearchJudgments(ctx context.Context, language domain.Language, query string, level domain.CourtLevel, opts es.SearchOptions) ([]es.JudgmentDoc, int64, error)
}

type SearchRouter struct {
	e        *echo.Echo
	searcher DocumentSearcher
	weights  search.Weights
}

func NewSearchRouter(e *echo.Echo, searcher DocumentSearcher, weights search.Weights) *SearchRouter {
	return &SearchRouter{
		e:        e,
		searcher: searcher,
		weights:  weights,
	}
}

func (r *SearchRouter) Bind() {
	r.e.GET("/api/search/statutes/:language", r.searchStatutes)
	r.e.GET("/api/search/judgments/:language", r.searchJudgments)
}

func (r *SearchRouter) searchStatutes(c echo.Context) error {
	language, err := domain.ParseLanguage(c.Param("language"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	query := c.QueryParam("query")
	if query == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "query parameter is required"})
	}

	var page pagination.OffsetRequest
	if err := c.Bind(&page); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid pagination parameters"})
	}
	_ = page.Validate()

	docs, total, err := r.searcher.SearchStatutes(c.Request().Context(), language, query, es.SearchOptions{
		Fields: search.BoostedFields(r.weights.Statutes),
		Page:   page.Page,
		Size:   page.Size,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "search failed"})
	}

	return c.JSON(http.StatusOK, pagination.NewOffsetResult(docs, total, page.Page, page.Size))
}

func (r *SearchRouter) searchJudgments(c echo.Context) error {
	language, err := domain.ParseLanguage(c.Param("language"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	query := c.QueryParam("query")
	if query == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "query parameter is required"})
	}

	level, err := parseLevelParam(c.QueryParam("level"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	var page pagination.OffsetRequest
	if err := c.Bind(&page); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid pagination parameters"})
	}
	_ = page.Validate()

	docs, total, err := r.searcher.SearchJudgments(c.Request().Context(), language, query, level, es.SearchOptions{
		Fields: search.BoostedFields(r.weights.Judgments),
		Page:   page.Page,
		Size:   page.Size,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "search failed"})
	}

	return c.JSON(http.StatusOK, pagination.NewOffsetResult(docs, total, page.Page, page.Size))
}

// parseLevelParam accepts the internal form ("kko") and the published
// abbreviation ("KKO", "HFD"). Empty means no court filter.
func parseLevelParam(raw string) (domain.CourtLevel, error) {
	if raw == "" {
		return "", nil
	}
	if level := domain.CourtLevel(strings.ToLower(raw)); level.Valid() {
		return level, nil
	}
	return domain.ParseCourtDisplay(strings.ToUpper(raw))
}
