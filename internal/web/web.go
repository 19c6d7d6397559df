package web

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"btto/internal/config"
	"btto/internal/feed"
	appLog "btto/internal/log"
	"btto/internal/model"
	"btto/internal/store"
)

// Server provides the HTTP read/serve path of the agenda feeds.
type Server struct {
	cfg   *config.Config
	store *store.Store
	mux   *http.ServeMux

	// now is replaceable in tests; the future-window check and DTSTAMP
	// generation depend on it.
	now func() time.Time
}

// embeddedDoc is the German HTML documentation page served at /bt-to/.
//
//go:embed doc.html
var embeddedDoc []byte

// NewServer constructs a new Server.
func NewServer(cfg *config.Config, st *store.Store) *Server {
	s := &Server{
		cfg:   cfg,
		store: st,
		mux:   http.NewServeMux(),
		now:   time.Now,
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/bt-to", s.handleDoc)
	s.mux.HandleFunc("/bt-to/", s.handleBtTo)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleBtTo dispatches everything under /bt-to/ by path suffix: the doc
// page, the data list, the purge endpoint (when enabled) and one handler
// per feed format token.
func (s *Server) handleBtTo(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/bt-to/")
	switch path {
	case "", "/":
		s.handleDoc(w, r)
	case "data-list":
		s.handleDataList(w, r)
	case "purge":
		if !s.cfg.EnablePurge {
			http.NotFound(w, r)
			return
		}
		s.handlePurge(w, r)
	default:
		s.handleAgenda(w, r, path)
	}
}

func (s *Server) handleDoc(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(embeddedDoc); err != nil {
		appLog.Error("failed to write doc page", err)
	}
}

// handleDataList reports which (year, week) pairs have stored items, as a
// JSON object keyed by year with week lists as values, years descending.
func (s *Server) handleDataList(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.DataList(r.Context())
	if err != nil {
		appLog.Error("data list query failed", err)
		writeError(w, http.StatusInternalServerError, "failed to read data list")
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(marshalDataList(list)); err != nil {
		appLog.Error("failed to write data list", err)
	}
}

// marshalDataList hand-builds the JSON object so that the year keys keep
// their descending order; marshaling a map would re-sort them.
func marshalDataList(list []store.YearWeeks) []byte {
	var b bytes.Buffer
	b.WriteString("{")
	for i, yw := range list {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%q: [", strconv.Itoa(yw.Year))
		for j, week := range yw.Weeks {
			if j > 0 {
				b.WriteString(", ")
			}
			b.WriteString(strconv.Itoa(week))
		}
		b.WriteString("]")
	}
	b.WriteString("}")
	return b.Bytes()
}

// handleAgenda serves one feed request: parse parameters, reject future
// windows, query the store, run the filter/dispatch/serialize pipeline.
func (s *Server) handleAgenda(w http.ResponseWriter, r *http.Request, token string) {
	format, err := feed.ParseFormat(token)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	now := s.now()

	win, status, opts, err := parseQuery(r, now)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := feed.CheckWindow(win, now); err != nil {
		writeError(w, http.StatusBadRequest, feed.FutureWindowMessage)
		return
	}

	items, err := s.store.ItemsForWindow(r.Context(), win)
	if err != nil {
		appLog.Error("agenda query failed", err, "year", win.Year)
		writeError(w, http.StatusInternalServerError, "failed to read agenda items")
		return
	}

	payload, err := feed.Render(format, items, status, opts, now)
	if err != nil {
		// Malformed stored timestamps and serializer failures are
		// data-integrity errors; the build fails as a whole.
		appLog.Error("feed build failed", err, "format", token, "year", win.Year)
		writeError(w, http.StatusInternalServerError, "failed to build feed")
		return
	}

	w.Header().Set("Content-Type", payload.ContentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(payload.Data); err != nil {
		appLog.Error("failed to write feed payload", err, "format", token)
	}
}

func (s *Server) handlePurge(w http.ResponseWriter, r *http.Request) {
	n, err := s.store.Purge(r.Context())
	if err != nil {
		appLog.Error("purge failed", err)
		writeError(w, http.StatusInternalServerError, "failed to purge database")
		return
	}
	appLog.Warn("agenda database purged", "deleted", n)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Database purged"))
}

// parseQuery reads the feed query parameters: year (default: current),
// at most one of week/month/day, the status filter and the literal-"true"
// option flags.
func parseQuery(r *http.Request, now time.Time) (model.Window, string, model.BuildOptions, error) {
	q := r.URL.Query()

	win := model.Window{Year: now.Year()}
	if v := q.Get("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return win, "", model.BuildOptions{}, fmt.Errorf("invalid year %q", v)
		}
		win.Year = year
	}

	var err error
	if win.Week, err = optionalInt(q.Get("week"), "week"); err != nil {
		return win, "", model.BuildOptions{}, err
	}
	if win.Month, err = optionalInt(q.Get("month"), "month"); err != nil {
		return win, "", model.BuildOptions{}, err
	}
	if win.Day, err = optionalInt(q.Get("day"), "day"); err != nil {
		return win, "", model.BuildOptions{}, err
	}

	opts := model.BuildOptions{
		IncludeNamedVotes: q.Get("na") == "true",
		NamedVoteAlarm:    q.Get("naAlarm") == "true",
		ShowSittingWeeks:  q.Get("showSW") == "true",
	}

	return win, q.Get("status"), opts, nil
}

func optionalInt(v, name string) (*int, error) {
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", name, v)
	}
	return &n, nil
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}

// StartServer serves until ctx is canceled, then shuts down gracefully.
func StartServer(ctx context.Context, cfg *config.Config, st *store.Store) error {
	s := NewServer(cfg, st)
	srv := &http.Server{
		Addr:    cfg.Listen,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
