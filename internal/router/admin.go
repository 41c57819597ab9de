package router

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/mkoskenniemi/lakihaku/internal/domain"
	"github.com/mkoskenniemi/lakihaku/internal/storage"
	"github.com/mkoskenniemi/lakihaku/pkg/logbuffer"
)

const (
	statusDefaultLimit = 20
	statusMaxLimit     = 100
	logsDefaultLimit   = 100
)

// SetupRunner drives the long-running background tasks; satisfied by
// *ingest.Runner.
type SetupRunner interface {
	Running(ctx context.Context) (bool, error)
	Setup(ctx context.Context, startYear int) error
	RebuildIndexes(ctx context.Context) error
}

// Ingestor ingests single documents out of band; satisfied by
// *ingest.Orchestrator.
type Ingestor interface {
	IngestStatute(ctx context.Context, key domain.StatuteKey) error
	IngestJudgment(ctx context.Context, url string) error
	WaitImages()
}

// Upserter mirrors one stored document into its index; satisfied by
// *search.Syncer.
type Upserter interface {
	UpsertOne(ctx context.Context, entity domain.EntityType, language domain.Language, id uuid.UUID) error
}

// AdminStore is the maintenance surface of the database; satisfied by
// *pg.Store.
type AdminStore interface {
	FindStatuteUUID(ctx context.Context, number string, year int, language domain.Language) (uuid.UUID, error)
	FindJudgmentUUID(ctx context.Context, number string, year int, language domain.Language, level domain.CourtLevel) (uuid.UUID, error)
	DeleteYear(ctx context.Context, entity domain.EntityType, year int) error
	DropTables(ctx context.Context) error
	DropJudgmentTables(ctx context.Context) error
	CreateTables(ctx context.Context) error
}

// URLBuilder maps judgment keys to their public page URLs; satisfied by
// *finlex.Locator.
type URLBuilder interface {
	JudgmentURL(key domain.JudgmentKey) (string, error)
}

type AdminDeps struct {
	Runner    SetupRunner
	Ingestor  Ingestor
	Upserter  Upserter
	Store     AdminStore
	Status    storage.StatusStore
	Logs      *logbuffer.Buffer
	URLs      URLBuilder
	StartYear int
	EndYear   int
}

type AdminRouter struct {
	e    *echo.Echo
	deps AdminDeps
}

func NewAdminRouter(e *echo.Echo, deps AdminDeps) *AdminRouter {
	return &AdminRouter{e: e, deps: deps}
}

func (r *AdminRouter) Bind() {
	r.e.GET("/api/ping", r.ping)
	r.e.GET("/api/config", r.config)
	r.e.GET("/api/check-db-status", r.checkDBStatus)
	r.e.GET("/api/status", r.listStatus)
	r.e.GET("/api/status/latest", r.latestStatus)
	r.e.DELETE("/api/status", r.clearStatus)
	r.e.GET("/api/logs", r.logs)

	r.e.POST("/api/setup", r.setup)
	r.e.POST("/api/rebuild-index", r.rebuildIndex)
	r.e.POST("/api/statute", r.addStatute)
	r.e.POST("/api/judgment", r.addJudgment)
	r.e.DELETE("/api/statutes/:year", r.deleteStatuteYear)
	r.e.DELETE("/api/judgments", r.dropJudgments)
	r.e.DELETE("/api/database", r.recreateDatabase)
}

func (r *AdminRouter) ping(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "pong"})
}

func (r *AdminRouter) config(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]int{
		"startYear": r.deps.StartYear,
		"endYear":   r.deps.EndYear,
	})
}

// checkDBStatus answers 503 while a background run is in progress, so
// clients can hold off querying a half-built corpus.
func (r *AdminRouter) checkDBStatus(c echo.Context) error {
	running, err := r.deps.Runner.Running(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to read status"})
	}
	if running {
		return c.JSON(http.StatusServiceUnavailable, map[string]bool{"updating": true})
	}
	return c.JSON(http.StatusOK, map[string]bool{"updating": false})
}

func (r *AdminRouter) listStatus(c echo.Context) error {
	limit := statusDefaultLimit
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "limit must be a positive number"})
		}
		limit = parsed
	}
	if limit > statusMaxLimit {
		limit = statusMaxLimit
	}

	entries, err := r.deps.Status.ListStatus(c.Request().Context(), limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list status"})
	}
	return c.JSON(http.StatusOK, entries)
}

func (r *AdminRouter) latestStatus(c echo.Context) error {
	entry, err := r.deps.Status.LatestStatus(c.Request().Context())
	if errors.Is(err, storage.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "no status entries"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to read status"})
	}
	return c.JSON(http.StatusOK, entry)
}

func (r *AdminRouter) clearStatus(c echo.Context) error {
	deleted, err := r.deps.Status.ClearStatus(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to clear status"})
	}
	return c.JSON(http.StatusOK, map[string]int64{"deleted": deleted})
}

func (r *AdminRouter) logs(c echo.Context) error {
	limit := logsDefaultLimit
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "limit must be a positive number"})
		}
		limit = parsed
	}
	return c.JSON(http.StatusOK, map[string][]string{"logs": r.deps.Logs.Recent(limit)})
}

// setup launches the crawl-and-sync run in the background and answers
// immediately; progress is visible through the status endpoints.
func (r *AdminRouter) setup(c echo.Context) error {
	startYear := 0
	if raw := c.QueryParam("startYear"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "startYear must be a number"})
		}
		startYear = parsed
	}

	running, err := r.deps.Runner.Running(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to read status"})
	}
	if running {
		return c.JSON(http.StatusConflict, map[string]string{"error": "a run is already in progress"})
	}

	go func() {
		if err := r.deps.Runner.Setup(context.Background(), startYear); err != nil {
			slog.Error("background setup failed", "error", err)
		}
	}()
	return c.JSON(http.StatusAccepted, map[string]string{"message": "setup started"})
}

func (r *AdminRouter) rebuildIndex(c echo.Context) error {
	running, err := r.deps.Runner.Running(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to read status"})
	}
	if running {
		return c.JSON(http.StatusConflict, map[string]string{"error": "a run is already in progress"})
	}

	go func() {
		if err := r.deps.Runner.RebuildIndexes(context.Background()); err != nil {
			slog.Error("background index rebuild failed", "error", err)
		}
	}()
	return c.JSON(http.StatusAccepted, map[string]string{"message": "index rebuild started"})
}

type addStatuteRequest struct {
	Year   int    `json:"year"`
	Number string `json:"number"`
}

// addStatute ingests one statute out of band in both languages and
// mirrors the stored rows into the indices.
func (r *AdminRouter) addStatute(c echo.Context) error {
	var req addStatuteRequest
	if err := c.Bind(&req); err != nil || req.Year == 0 || req.Number == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "year and number are required"})
	}
	ctx := c.Request().Context()

	indexed := map[string]string{}
	for _, language := range domain.ValidLanguages {
		key := domain.StatuteKey{Year: req.Year, Number: req.Number, Language: language}
		if err := r.deps.Ingestor.IngestStatute(ctx, key); err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}

		id, err := r.deps.Store.FindStatuteUUID(ctx, req.Number, req.Year, language)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		if err := r.deps.Upserter.UpsertOne(ctx, domain.EntityStatutes, language, id); err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		indexed[string(language)] = id.String()
	}
	r.deps.Ingestor.WaitImages()

	if len(indexed) == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "statute not found at source"})
	}
	return c.JSON(http.StatusOK, map[string]any{"indexed": indexed})
}

type addJudgmentRequest struct {
	Year   int    `json:"year"`
	Number string `json:"number"`
	Level  string `json:"level"`
}

// addJudgment ingests one judgment out of band in both languages and
// mirrors the stored rows into the indices.
func (r *AdminRouter) addJudgment(c echo.Context) error {
	var req addJudgmentRequest
	if err := c.Bind(&req); err != nil || req.Year == 0 || req.Number == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "year, number and level are required"})
	}
	level, err := parseLevelParam(req.Level)
	if err != nil || level == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "unknown court level"})
	}
	ctx := c.Request().Context()

	indexed := map[string]string{}
	for _, language := range domain.ValidLanguages {
		key := domain.JudgmentKey{Year: req.Year, Number: req.Number, Language: language, Level: level}
		url, err := r.deps.URLs.JudgmentURL(key)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		if err := r.deps.Ingestor.IngestJudgment(ctx, url); err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}

		id, err := r.deps.Store.FindJudgmentUUID(ctx, req.Number, req.Year, language, level)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		if err := r.deps.Upserter.UpsertOne(ctx, domain.EntityJudgments, language, id); err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		indexed[string(language)] = id.String()
	}

	if len(indexed) == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "judgment not found at source"})
	}
	return c.JSON(http.StatusOK, map[string]any{"indexed": indexed})
}

func (r *AdminRouter) deleteStatuteYear(c echo.Context) error {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "year must be a number"})
	}

	if err := r.deps.Store.DeleteYear(c.Request().Context(), domain.EntityStatutes, year); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to delete statutes"})
	}
	return c.JSON(http.StatusOK, map[string]any{"deleted": year})
}

// dropJudgments removes every judgment row. The schema bootstrap is
// idempotent, so re-creating tables restores the dropped ones.
func (r *AdminRouter) dropJudgments(c echo.Context) error {
	ctx := c.Request().Context()
	if err := r.deps.Store.DropJudgmentTables(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to drop judgment tables"})
	}
	if err := r.deps.Store.CreateTables(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to recreate tables"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "judgment tables recreated"})
}

func (r *AdminRouter) recreateDatabase(c echo.Context) error {
	ctx := c.Request().Context()
	if err := r.deps.Store.DropTables(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to drop tables"})
	}
	if err := r.deps.Store.CreateTables(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to recreate tables"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "database recreated"})
}
