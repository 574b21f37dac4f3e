// Package server exposes the schedule queries over HTTP. Every response,
// errors included, is JSON.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

// Schedule answers the two queries the API exposes. Both return an
// already-serialized JSON body.
type Schedule interface {
	Channels(ctx context.Context, groupID *string) ([]byte, error)
	Programs(ctx context.Context, channelIDs *string) ([]byte, error)
}

type Server struct {
	router   chi.Router
	schedule Schedule
}

const versionBody = `{"version":1.0}`

func New(schedule Schedule, logger zerolog.Logger) *Server {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(hlog.NewHandler(logger))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	}))

	s := &Server{router: r, schedule: schedule}
	r.Get("/", s.handleVersion)
	r.Get("/channels", s.handleChannels)
	r.Get("/programs", s.handlePrograms)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe starts the HTTP server on addr and blocks until it
// shuts down or ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeBody(w, http.StatusOK, []byte(versionBody))
}

func (s *Server) handleChannels(w http.ResponseWriter, r *http.Request) {
	body, err := s.schedule.Channels(r.Context(), queryParam(r, "group_id"))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeBody(w, http.StatusOK, body)
}

func (s *Server) handlePrograms(w http.ResponseWriter, r *http.Request) {
	body, err := s.schedule.Programs(r.Context(), queryParam(r, "channel_ids"))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeBody(w, http.StatusOK, body)
}

// queryParam returns the raw value of name, or nil when the parameter is
// absent. A present-but-empty value is still a value and is passed
// through as such.
func queryParam(r *http.Request, name string) *string {
	q := r.URL.Query()
	if !q.Has(name) {
		return nil
	}
	v := q.Get(name)
	return &v
}

func writeBody(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeErr(w http.ResponseWriter, r *http.Request, err error) {
	hlog.FromRequest(r).Error().Err(err).Msg("query failed")
	body, _ := json.Marshal(map[string]string{"error": err.Error()})
	writeBody(w, http.StatusBadGateway, body)
}
