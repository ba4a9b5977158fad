package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	accesscontrol "ledgervote/contexts/governance/access-control"
	electionengine "ledgervote/contexts/governance/election-engine"
	electionmirror "ledgervote/contexts/governance/election-mirror"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "ledgervote/internal/platform/httpserver/docs"
)

const maxBodyBytes = 1 << 20

// Server is the stateless relay in front of the governance modules. It
// authenticates signed mutations and forwards them; every decision is made
// by the modules.
type Server struct {
	mux       *http.ServeMux
	http      *http.Server
	logger    *slog.Logger
	addr      string
	access    accesscontrol.Module
	elections electionengine.Module
	mirror    electionmirror.Module
	replay    *replayGuard
}

func New(
	access accesscontrol.Module,
	elections electionengine.Module,
	mirror electionmirror.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:       http.NewServeMux(),
		logger:    logger,
		addr:      addr,
		access:    access,
		elections: elections,
		mirror:    mirror,
		replay:    newReplayGuard(signatureWindow, time.Now),
	}
	s.registerRoutes()
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server stopping",
		"event", "http_server_stopping",
		"module", "internal/platform/httpserver",
		"layer", "platform",
	)
	return s.http.Shutdown(ctx)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	s.registerRoleRoutes()
	s.registerElectionRoutes()
	s.registerMirrorRoutes()
}

// authenticate reads the body and resolves the signing principal. A signed
// request is accepted once and only while X-Timestamp is fresh. On failure it
// writes the response itself and returns ok=false.
func (s *Server) authenticate(w http.ResponseWriter, r *http.Request) (principal string, body []byte, ok bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "body_too_large", "request body is too large")
		return "", nil, false
	}
	principal, err = s.verifyRequest(r, body)
	if err != nil {
		s.logger.Warn("request signature rejected",
			"event", "http_signature_rejected",
			"module", "internal/platform/httpserver",
			"layer", "platform",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err.Error(),
		)
		writeError(w, http.StatusUnauthorized, "unauthenticated", err.Error())
		return "", nil, false
	}
	return principal, body, true
}

func (s *Server) verifyRequest(r *http.Request, body []byte) (string, error) {
	timestamp := strings.TrimSpace(r.Header.Get("X-Timestamp"))
	signedAt, err := s.replay.checkTimestamp(timestamp)
	if err != nil {
		return "", err
	}
	digest := SignedDigest(r.Method, r.URL.Path, timestamp, body)
	principal, err := verifyPrincipal(r.Header.Get("X-Principal"), r.Header.Get("X-Signature"), digest)
	if err != nil {
		return "", err
	}
	if err := s.replay.remember(principal, digest, signedAt); err != nil {
		return "", err
	}
	return principal, nil
}

func decodeBody(w http.ResponseWriter, body []byte, target any) bool {
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
