package router

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/mkoskenniemi/lakihaku/internal/domain"
	"github.com/mkoskenniemi/lakihaku/internal/storage"
	"github.com/mkoskenniemi/lakihaku/pkg/pagination"
)

// BrowseStore is the read surface the browse endpoints need; satisfied
// by *pg.Store.
type BrowseStore interface {
	StatuteByID(ctx context.Context, id uuid.UUID, language domain.Language) (*domain.Statute, error)
	JudgmentByID(ctx context.Context, id uuid.UUID, language domain.Language) (*domain.Judgment, error)
	StatutesByYear(ctx context.Context, year int, language domain.Language) ([]domain.Statute, error)
	JudgmentsByYear(ctx context.Context, year int, language domain.Language) ([]domain.Judgment, error)
	ListStatuteKeywords(ctx context.Context, language domain.Language) ([]domain.StatuteKeyword, error)
	StatutesByKeywordID(ctx context.Context, language domain.Language, keywordID string) ([]domain.Statute, error)
	ListJudgmentKeywords(ctx context.Context, language domain.Language) ([]domain.JudgmentKeyword, error)
	JudgmentsByKeywordID(ctx context.Context, language domain.Language, keywordID string) ([]domain.Judgment, error)
}

type BrowseRouter struct {
	e     *echo.Echo
	store BrowseStore
}

func NewBrowseRouter(e *echo.Echo, store BrowseStore) *BrowseRouter {
	return &BrowseRouter{e: e, store: store}
}

func (r *BrowseRouter) Bind() {
	r.e.GET("/api/statute/keywords/:language", r.statuteKeywords)
	r.e.GET("/api/statute/keywords/:language/:keyword_id", r.statutesByKeyword)
	r.e.GET("/api/judgment/keywords/:language", r.judgmentKeywords)
	r.e.GET("/api/judgment/keywords/:language/:keyword_id", r.judgmentsByKeyword)
	r.e.GET("/api/statute/:id", r.statuteByID)
	r.e.GET("/api/judgment/:id", r.judgmentByID)
	r.e.GET("/api/statutes/:language/:year", r.statutesByYear)
	r.e.GET("/api/judgments/:language/:year", r.judgmentsByYear)
}

func (r *BrowseRouter) statuteKeywords(c echo.Context) error {
	language, err := domain.ParseLanguage(c.Param("language"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	keywords, err := r.store.ListStatuteKeywords(c.Request().Context(), language)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list keywords"})
	}
	return c.JSON(http.StatusOK, keywords)
}

func (r *BrowseRouter) statutesByKeyword(c echo.Context) error {
	language, err := domain.ParseLanguage(c.Param("language"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	statutes, err := r.store.StatutesByKeywordID(c.Request().Context(), language, c.Param("keyword_id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list statutes"})
	}
	return c.JSON(http.StatusOK, statutes)
}

func (r *BrowseRouter) judgmentKeywords(c echo.Context) error {
	language, err := domain.ParseLanguage(c.Param("language"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	keywords, err := r.store.ListJudgmentKeywords(c.Request().Context(), language)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list keywords"})
	}
	return c.JSON(http.StatusOK, keywords)
}

func (r *BrowseRouter) judgmentsByKeyword(c echo.Context) error {
	language, err := domain.ParseLanguage(c.Param("language"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	judgments, err := r.store.JudgmentsByKeywordID(c.Request().Context(), language, c.Param("keyword_id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list judgments"})
	}
	return c.JSON(http.StatusOK, judgments)
}

func (r *BrowseRouter) statuteByID(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid document id"})
	}
	language, err := domain.ParseLanguage(c.QueryParam("language"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	statute, err := r.store.StatuteByID(c.Request().Context(), id, language)
	if errors.Is(err, storage.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "statute not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to load statute"})
	}
	return c.JSON(http.StatusOK, statute)
}

func (r *BrowseRouter) judgmentByID(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid document id"})
	}
	language, err := domain.ParseLanguage(c.QueryParam("language"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	judgment, err := r.store.JudgmentByID(c.Request().Context(), id, language)
	if errors.Is(err, storage.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "judgment not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to load judgment"})
	}
	return c.JSON(http.StatusOK, judgment)
}

func (r *BrowseRouter) statutesByYear(c echo.Context) error {
	language, year, page, err := yearParams(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	statutes, err := r.store.StatutesByYear(c.Request().Context(), year, language)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list statutes"})
	}
	return c.JSON(http.StatusOK, offsetSlice(statutes, page))
}

func (r *BrowseRouter) judgmentsByYear(c echo.Context) error {
	language, year, page, err := yearParams(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	judgments, err := r.store.JudgmentsByYear(c.Request().Context(), year, language)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list judgments"})
	}
	return c.JSON(http.StatusOK, offsetSlice(judgments, page))
}

func yearParams(c echo.Context) (domain.Language, int, pagination.OffsetRequest, error) {
	var page pagination.OffsetRequest

	language, err := domain.ParseLanguage(c.Param("language"))
	if err != nil {
		return "", 0, page, err
	}
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		return "", 0, page, errors.New("year must be a number")
	}
	if err := c.Bind(&page); err != nil {
		return "", 0, page, errors.New("invalid pagination parameters")
	}
	_ = page.Validate()
	return language, year, page, nil
}

// offsetSlice pages an already-loaded row list. Year listings are small
// enough that paging in memory beats a second count query.
func offsetSlice[T any](items []T, page pagination.OffsetRequest) *pagination.OffsetResult[T] {
	total := int64(len(items))
	start := (page.Page - 1) * page.Size
	if start > len(items) {
		start = len(items)
	}
	end := start + page.Size
	if end > len(items) {
		end = len(items)
	}
	return pagination.NewOffsetResult(items[start:end], total, page.Page, page.Size)
}
