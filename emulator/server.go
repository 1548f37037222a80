// ABOUTME: Local stand-in for the remote record store's REST API
// ABOUTME: Serves list, create and patch on /v0/:base/:table backed by SQLite
package emulator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/harperreed/reicrm/db"
)

// MaxRecordsPerWrite is the store's per-request write limit.
const MaxRecordsPerWrite = 10

type Options struct {
	BaseID string
	// Token, when set, must be presented as a bearer token.
	Token  string
	Schema Schema
	Logger *charmlog.Logger
}

type Server struct {
	repo   *db.RecordsRepository
	opts   Options
	logger *charmlog.Logger
}

type recordJSON struct {
	ID          string         `json:"id"`
	Fields      map[string]any `json:"fields"`
	CreatedTime string         `json:"createdTime"`
}

type writeRequest struct {
	Records []struct {
		ID     string         `json:"id"`
		Fields map[string]any `json:"fields"`
	} `json:"records"`
}

func NewServer(repo *db.RecordsRepository, opts Options) *Server {
	if opts.Schema == nil {
		opts.Schema = DefaultSchema()
	}
	logger := opts.Logger
	if logger == nil {
		logger = charmlog.Default()
	}
	return &Server{repo: repo, opts: opts, logger: logger.With("component", "emulator")}
}

// Setup builds the gin engine. mode is a gin mode (debug, release, test).
func (s *Server) Setup(mode string) *gin.Engine {
	gin.SetMode(mode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	v0 := engine.Group("/v0/:base/:table", s.authenticate, s.resolveTable)
	v0.GET("", s.list)
	v0.POST("", s.create)
	v0.PATCH("", s.update)

	return engine
}

func (s *Server) authenticate(c *gin.Context) {
	if s.opts.Token != "" && c.GetHeader("Authorization") != "Bearer "+s.opts.Token {
		abortWithError(c, http.StatusUnauthorized, "AUTHENTICATION_REQUIRED", "Authentication required")
		return
	}
	if s.opts.BaseID != "" && c.Param("base") != s.opts.BaseID {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "NOT_FOUND"})
		return
	}
	c.Next()
}

func (s *Server) resolveTable(c *gin.Context) {
	table := c.Param("table")
	if _, ok := s.opts.Schema[table]; !ok {
		abortWithError(c, http.StatusNotFound, "TABLE_NOT_FOUND",
			fmt.Sprintf("Could not find table %s in application %s", table, c.Param("base")))
		return
	}
	c.Next()
}

func (s *Server) list(c *gin.Context) {
	table := c.Param("table")
	filter, err := ParseFormula(c.Query("filterByFormula"))
	if err != nil {
		abortWithError(c, http.StatusUnprocessableEntity, "INVALID_FILTER_BY_FORMULA",
			"The formula for filtering records is invalid: "+err.Error())
		return
	}

	records, err := s.repo.List(c.Request.Context(), table, filter)
	if err != nil {
		s.serverError(c, err)
		return
	}

	out, err := s.render(c.Request.Context(), table, records)
	if err != nil {
		s.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": out})
}

func (s *Server) create(c *gin.Context) {
	table := c.Param("table")
	req, ok := s.bindWrite(c, table)
	if !ok {
		return
	}

	created := make([]db.Record, 0, len(req.Records))
	for _, rec := range req.Records {
		r, err := s.repo.Create(c.Request.Context(), table, rec.Fields)
		if err != nil {
			s.serverError(c, err)
			return
		}
		created = append(created, r)
	}

	out, err := s.render(c.Request.Context(), table, created)
	if err != nil {
		s.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": out})
}

func (s *Server) update(c *gin.Context) {
	table := c.Param("table")
	req, ok := s.bindWrite(c, table)
	if !ok {
		return
	}

	updated := make([]db.Record, 0, len(req.Records))
	for _, rec := range req.Records {
		if rec.ID == "" {
			abortWithError(c, http.StatusUnprocessableEntity, "INVALID_RECORDS", "Each record must have an id")
			return
		}
		r, err := s.repo.Update(c.Request.Context(), table, rec.ID, rec.Fields)
		if errors.Is(err, db.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "NOT_FOUND"})
			return
		}
		if err != nil {
			s.serverError(c, err)
			return
		}
		updated = append(updated, r)
	}

	out, err := s.render(c.Request.Context(), table, updated)
	if err != nil {
		s.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": out})
}

func (s *Server) bindWrite(c *gin.Context, table string) (writeRequest, bool) {
	var req writeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusUnprocessableEntity, "INVALID_REQUEST_UNKNOWN",
			"Invalid request: parameter validation failed. Check your request data.")
		return writeRequest{}, false
	}
	if len(req.Records) == 0 {
		abortWithError(c, http.StatusUnprocessableEntity, "INVALID_REQUEST_MISSING_FIELDS",
			"Could not find field \"records\" in the request body")
		return writeRequest{}, false
	}
	if len(req.Records) > MaxRecordsPerWrite {
		abortWithError(c, http.StatusUnprocessableEntity, "INVALID_RECORDS",
			fmt.Sprintf("You can write at most %d records per request", MaxRecordsPerWrite))
		return writeRequest{}, false
	}

	schema := s.opts.Schema[table]
	for _, rec := range req.Records {
		if bad, invalid := schema.invalidOption(rec.Fields); invalid {
			abortWithError(c, http.StatusUnprocessableEntity, "INVALID_MULTIPLE_CHOICE_OPTIONS",
				fmt.Sprintf("Insufficient permissions to create new select option \"\"%s\"\"", bad))
			return writeRequest{}, false
		}
	}
	return req, true
}

// render converts records to the wire shape and fills lookup columns.
func (s *Server) render(ctx context.Context, table string, records []db.Record) ([]recordJSON, error) {
	lookups := s.opts.Schema[table].Lookups
	out := make([]recordJSON, 0, len(records))

	for _, rec := range records {
		fields := make(map[string]any, len(rec.Fields)+len(lookups))
		for k, v := range rec.Fields {
			fields[k] = v
		}

		for _, l := range lookups {
			value, ok, err := s.lookup(ctx, l, rec.Fields[l.LinkField])
			if err != nil {
				return nil, err
			}
			if ok {
				fields[l.Column] = []any{value}
			}
		}

		out = append(out, recordJSON{
			ID:          rec.ID,
			Fields:      fields,
			CreatedTime: rec.CreatedTime.UTC().Format("2006-01-02T15:04:05.000Z"),
		})
	}
	return out, nil
}

func (s *Server) lookup(ctx context.Context, l Lookup, link any) (any, bool, error) {
	ids, ok := link.([]any)
	if !ok || len(ids) == 0 {
		return nil, false, nil
	}
	id, ok := ids[0].(string)
	if !ok || id == "" {
		return nil, false, nil
	}

	linked, err := s.repo.Get(ctx, l.Table, id)
	if errors.Is(err, db.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	value, ok := linked.Fields[l.Field]
	return value, ok, nil
}

func (s *Server) serverError(c *gin.Context, err error) {
	s.logger.Error("emulator request failed", "method", c.Request.Method, "path", c.Request.URL.Path, "err", err)
	abortWithError(c, http.StatusInternalServerError, "SERVER_ERROR", "Something went wrong")
}

func abortWithError(c *gin.Context, status int, errType, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": gin.H{"type": errType, "message": message}})
}

// Serve runs the emulator on addr until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Setup(gin.ReleaseMode),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("emulator listening", "addr", addr, "base", s.opts.BaseID)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down emulator: %w", err)
	}
	return nil
}

// BaseURL is the API root a client should use for a server listening at addr.
func BaseURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}
