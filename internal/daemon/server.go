package daemon

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"takt/internal/api"
	"takt/internal/logging"
	"takt/internal/runner"
	"takt/internal/store"
)

// apiServer serves the daemon's HTTP control surface. It binds to the
// configured loopback address; with an empty token every request is allowed,
// otherwise a bearer token is required.
type apiServer struct {
	daemon   *Daemon
	token    string
	logger   *slog.Logger
	listener net.Listener
	httpSrv  *http.Server
	wg       sync.WaitGroup
}

func newAPIServer(d *Daemon, bind, token string, logger *slog.Logger) (*apiServer, error) {
	listener, err := net.Listen("tcp", bind)
	if err != nil {
		return nil, err
	}

	srv := &apiServer{
		daemon:   d,
		token:    token,
		logger:   logger.With(logging.FieldComponent, "api"),
		listener: listener,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/status", srv.handleStatus)
	mux.HandleFunc("GET /api/uph", srv.handleSummaries)
	mux.HandleFunc("GET /api/runs", srv.handleRuns)
	mux.HandleFunc("POST /api/recalculate", srv.handleRecalculate)

	srv.httpSrv = &http.Server{
		Handler:           srv.authenticate(mux),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

func (s *apiServer) addr() string {
	return s.listener.Addr().String()
}

func (s *apiServer) serve() {
	s.logger.Debug("api server listening", slog.String("addr", s.addr()))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.httpSrv.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server stopped", slog.Any("error", err))
		}
	}()
}

func (s *apiServer) close() {
	_ = s.httpSrv.Close()
	s.wg.Wait()
}

func (s *apiServer) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.token != "" {
			header := r.Header.Get("Authorization")
			presented, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(presented), []byte(s.token)) != 1 {
				writeError(w, http.StatusUnauthorized, "invalid or missing bearer token")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.daemon.Status(r.Context())
	if err != nil {
		s.logger.Error("status request failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *apiServer) handleSummaries(w http.ResponseWriter, r *http.Request) {
	filter := store.SummaryFilter{
		Operator:   r.URL.Query().Get("operator"),
		WorkCenter: r.URL.Query().Get("work_center"),
	}
	records, err := s.daemon.store.ListSummaries(r.Context(), filter)
	if err != nil {
		s.logger.Error("summary listing failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, api.SummariesResponse{Summaries: api.FromSummaries(records)})
}

func (s *apiServer) handleRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}
	runs, err := s.daemon.store.ListRuns(r.Context(), limit)
	if err != nil {
		s.logger.Error("run listing failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, api.RunsResponse{Runs: api.FromRuns(runs)})
}

func (s *apiServer) handleRecalculate(w http.ResponseWriter, r *http.Request) {
	outcome, err := s.daemon.TriggerRun(r.Context())
	switch {
	case errors.Is(err, runner.ErrRunInProgress):
		writeJSON(w, http.StatusConflict, api.TriggerResponse{
			Accepted: false,
			Message:  err.Error(),
		})
	case err != nil:
		s.logger.Error("triggered run failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		writeJSON(w, http.StatusOK, api.TriggerResponse{
			Accepted: true,
			RunID:    outcome.RunID,
			Message:  "recalculation complete",
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, api.ErrorResponse{Error: message})
}
