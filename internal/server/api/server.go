package api

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/ykhdr/dictcrack/internal/digest"
	"github.com/ykhdr/dictcrack/internal/dispatcher"
	"github.com/ykhdr/dictcrack/internal/http/middleware"
	"github.com/ykhdr/dictcrack/internal/messages/request"
	"github.com/ykhdr/dictcrack/internal/store/requeststore"
	"github.com/ykhdr/dictcrack/internal/wordlist"
	"github.com/ykhdr/dictcrack/pkg/api"
)

type Config struct {
	Addr        string `kdl:"addr"`
	WordlistDir string `kdl:"wordlist-dir"`
}

func DefaultConfig() *Config {
	return &Config{
		Addr:        "0.0.0.0:8080",
		WordlistDir: "./wordlists",
	}
}

type Server struct {
	l            zerolog.Logger
	cfg          *Config
	dispatcher   *dispatcher.Dispatcher
	requestStore requeststore.RequestStore
}

func NewServer(cfg *Config, dispatcher *dispatcher.Dispatcher, requestStore requeststore.RequestStore) *Server {
	return &Server{
		cfg:          cfg,
		dispatcher:   dispatcher,
		requestStore: requestStore,
		l: log.With().
			Str("domain", "api-server").
			Str("type", "http").
			Logger(),
	}
}

func (s *Server) Router() http.Handler {
	router := mux.NewRouter()
	router.Use(middleware.LoggingMiddleware(s.l))
	router.HandleFunc("/api/health", s.handleHealth).Methods(http.MethodGet)

	jsonRouter := router.PathPrefix("/api/hash").Subrouter()
	jsonRouter.Use(middleware.ApplicationJsonContentTypeMiddleware())
	jsonRouter.HandleFunc("/crack", s.handleHashCrack).Methods(http.MethodPost)
	jsonRouter.HandleFunc("/status", s.handleHashStatus).Methods(http.MethodGet)
	return router
}

// Start serves until ctx is done, then shuts the listener down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.l.Warn().Err(err).Msg("api server shutdown failed")
		}
	}()
	s.l.Info().Str("address", s.cfg.Addr).Msg("api server is running")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.l.Error().Err(err).Msg("api server failed")
		return errors.Wrap(err, "api server failed")
	}
	return nil
}

func (s *Server) handleHashCrack(w http.ResponseWriter, r *http.Request) {
	var req api.CrackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.l.Warn().Err(err).Msg("invalid request body")
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	alg, err := digest.ParseAlgorithm(req.Algorithm)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.Hash = strings.TrimSpace(req.Hash)
	if _, err := digest.ParseTarget(alg, req.Hash); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	src, err := wordlist.Resolve(s.cfg.WordlistDir, req.Wordlist)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	reqId, err := s.dispatcher.Dispatch(r.Context(), &req, alg, src)
	if errors.Is(err, dispatcher.ErrQueueFull) {
		s.writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	if err != nil {
		s.l.Warn().Err(err).Msg("failed to dispatch request")
		s.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	s.writeJSON(w, http.StatusOK, api.CrackResponse{RequestId: string(reqId)})
}

func (s *Server) handleHashStatus(w http.ResponseWriter, r *http.Request) {
	requestId := r.URL.Query().Get("requestId")
	if requestId == "" {
		s.writeError(w, http.StatusBadRequest, "missing requestId")
		return
	}
	info, err := s.requestStore.Get(r.Context(), request.Id(requestId))
	if errors.Is(err, requeststore.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "request not found")
		return
	}
	if err != nil {
		s.l.Warn().Err(err).Str("request-id", requestId).Msg("failed to load request")
		s.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	resp := api.StatusResponse{
		Status:   string(info.Status),
		Found:    info.Found,
		Data:     []string{},
		Attempts: info.Attempts,
		Error:    info.ErrorReason,
	}
	if info.Found {
		resp.Data = append(resp.Data, info.Candidate)
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		s.l.Warn().Err(err).Msg("failed to write health response")
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.l.Warn().Err(err).Msg("failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
