// Package server exposes the wizard's data operations over HTTP: catalog,
// historical statistics, goal drafts and submission previews. It also hosts a
// local development receiver for tag batches so the batch controller can be
// exercised end to end without a production endpoint.
package server

import (
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"chapterops/internal/batch"
	"chapterops/internal/catalog"
	"chapterops/internal/goals"
	"chapterops/internal/history"
	"chapterops/internal/statestore"
	"chapterops/internal/submission"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Server holds the loaded data set and the wired echo instance.
type Server struct {
	cat    *catalog.Catalog
	rows   []history.Row
	events []history.Event
	store  *statestore.Store
	ids    batch.IDGenerator
	echo   *echo.Echo
}

// New loads history and events from dataDir (concurrently; events are
// optional) and wires the API routes.
func New(dataDir string, cat *catalog.Catalog, store *statestore.Store) (*Server, error) {
	var (
		rows   []history.Row
		events []history.Event
	)
	g := new(errgroup.Group)
	g.Go(func() error {
		var err error
		rows, err = history.LoadHistory(filepath.Join(dataDir, "history.csv"))
		return err
	})
	g.Go(func() error {
		var err error
		events, err = history.LoadEvents(filepath.Join(dataDir, "events.csv"))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s := &Server{
		cat:    cat,
		rows:   rows,
		events: events,
		store:  store,
		ids:    batch.UUIDGenerator{},
		echo:   echo.New(),
	}
	s.echo.HideBanner = true
	s.routes()
	return s, nil
}

// Start serves the API on addr until the process is stopped.
func (s *Server) Start(addr string) error {
	log.Info().Str("addr", addr).Msg("Wizard API listening")
	return s.echo.Start(addr)
}

// Handler exposes the wired routes as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) routes() {
	api := s.echo.Group("/api")
	api.GET("/catalog", s.getCatalog)
	api.GET("/stats", s.getStats)
	api.GET("/neighbors", s.getNeighbors)
	api.GET("/draft", s.getDraft)
	api.PUT("/draft", s.putDraft)
	api.DELETE("/draft", s.deleteDraft)
	api.POST("/submission/preview", s.previewSubmission)
	api.POST("/tagbatch", s.receiveTagBatch)
}

func (s *Server) getCatalog(c echo.Context) error {
	return c.JSON(http.StatusOK, s.cat)
}

type metricQuery struct {
	Region    string
	Chapter   string
	MetricKey string
	Month     int
}

func (s *Server) metricQuery(c echo.Context) (*metricQuery, error) {
	month, err := strconv.Atoi(c.QueryParam("month"))
	if err != nil || month < 1 || month > 12 {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "month must be 1-12")
	}
	return &metricQuery{
		Region:    c.QueryParam("region"),
		Chapter:   c.QueryParam("chapter"),
		MetricKey: c.QueryParam("metric"),
		Month:     month,
	}, nil
}

func (s *Server) getStats(c echo.Context) error {
	q, err := s.metricQuery(c)
	if err != nil {
		return err
	}
	stats := history.Compute(s.rows, q.Region, q.Chapter, q.MetricKey, q.Month)
	if stats == nil {
		// No history is a first-class result, not a zero average.
		return c.JSON(http.StatusNotFound, map[string]any{
			"error": "no history for this metric and month",
		})
	}
	return c.JSON(http.StatusOK, stats)
}

func (s *Server) getNeighbors(c echo.Context) error {
	q, err := s.metricQuery(c)
	if err != nil {
		return err
	}
	neighbors := history.Neighbors(s.rows, s.events, q.Region, q.Chapter, q.MetricKey, q.Month)
	return c.JSON(http.StatusOK, neighbors[:])
}

type draftQuery struct {
	Region  string
	Chapter string
	Staff   string
	Months  []string
}

func (s *Server) draftQuery(c echo.Context) (*draftQuery, error) {
	q := &draftQuery{
		Region:  c.QueryParam("region"),
		Chapter: c.QueryParam("chapter"),
		Staff:   c.QueryParam("staff"),
	}
	if months := c.QueryParam("months"); months != "" {
		q.Months = strings.Split(months, ",")
	}
	if q.Region == "" || q.Staff == "" || len(q.Months) == 0 {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "region, staff and months are required")
	}
	return q, nil
}

func (s *Server) getDraft(c echo.Context) error {
	q, err := s.draftQuery(c)
	if err != nil {
		return err
	}
	sheet, err := goals.LoadOrInit(s.store, s.cat, q.Region, q.Chapter, q.Staff, q.Months)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]any{
		"key":   goals.DraftKey(q.Region, q.Chapter, q.Staff, q.Months),
		"goals": sheet,
	})
}

func (s *Server) putDraft(c echo.Context) error {
	q, err := s.draftQuery(c)
	if err != nil {
		return err
	}
	var sheet goals.GoalsByMonth
	if err := c.Bind(&sheet); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "body must be a goals-by-month object")
	}
	key := goals.DraftKey(q.Region, q.Chapter, q.Staff, q.Months)
	if err := s.store.SaveDraft(key, sheet); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) deleteDraft(c echo.Context) error {
	q, err := s.draftQuery(c)
	if err != nil {
		return err
	}
	if err := s.store.ClearDraft(goals.DraftKey(q.Region, q.Chapter, q.Staff, q.Months)); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) previewSubmission(c echo.Context) error {
	var req struct {
		Region  string   `json:"region"`
		Chapter string   `json:"chapter"`
		Staff   string   `json:"staff"`
		Months  []string `json:"months"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed preview request")
	}
	if req.Region == "" || req.Staff == "" || len(req.Months) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "region, staff and months are required")
	}

	sheet, err := goals.LoadOrInit(s.store, s.cat, req.Region, req.Chapter, req.Staff, req.Months)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	payload := submission.BuildPayload(req.Region, req.Chapter, req.Staff, req.Months,
		sheet, s.ids, time.Now(), s.cat.AppVersion)
	block := submission.Block(payload)
	mailto := submission.BuildMailto(payload, block)

	return c.JSON(http.StatusOK, map[string]any{
		"payload":         payload,
		"block":           block,
		"receipt":         submission.ReceiptLine(payload),
		"filename":        submission.Filename(payload),
		"mailtoHref":      mailto.Href,
		"needsAttachment": mailto.NeedsAttachment,
	})
}

// receiveTagBatch is a development stand-in for the production tag API. It
// accepts both apply and undo bodies, distinguished by undo_batch_id, logs
// them and reports success.
func (s *Server) receiveTagBatch(c echo.Context) error {
	var body map[string]any
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed batch body")
	}

	if undoID, ok := body["undo_batch_id"].(string); ok && undoID != "" {
		log.Info().
			Str("undo_batch_id", undoID).
			Str("batch_id", str(body["batch_id"])).
			Str("actor", str(body["actor"])).
			Msg("Received undo batch")
		return c.NoContent(http.StatusNoContent)
	}

	batchID := str(body["batch_id"])
	users, _ := body["users"].([]any)
	if batchID == "" || len(users) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "batch_id and users are required")
	}
	log.Info().
		Str("batch_id", batchID).
		Str("action", str(body["action"])).
		Int("users", len(users)).
		Msg("Received apply batch")
	return c.NoContent(http.StatusNoContent)
}

func str(v any) string {
	s, _ := v.(string)
	return s
}
