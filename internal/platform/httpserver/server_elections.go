package httpserver

import (
	"net/http"
	"strconv"

	enginehttp "ledgervote/contexts/governance/election-engine/transport/http"
)

func (s *Server) registerElectionRoutes() {
	s.mux.HandleFunc("POST /v1/elections", s.handleCreateElection)
	s.mux.HandleFunc("GET /v1/elections", s.handleListElections)
	s.mux.HandleFunc("GET /v1/elections/{address}", s.handleGetElection)
	s.mux.HandleFunc("POST /v1/elections/{address}/deactivate", s.handleSetActivation(false))
	s.mux.HandleFunc("POST /v1/elections/{address}/reactivate", s.handleSetActivation(true))
	s.mux.HandleFunc("POST /v1/elections/{address}/lifecycle/{action}", s.handleTransition)
	s.mux.HandleFunc("POST /v1/elections/{address}/result", s.handleDeclareResult)
	s.mux.HandleFunc("GET /v1/elections/{address}/result", s.handleWinner)
	s.mux.HandleFunc("GET /v1/elections/{address}/results", s.handleResults)
	s.mux.HandleFunc("POST /v1/elections/{address}/candidates", s.handleRegisterCandidate)
	s.mux.HandleFunc("GET /v1/elections/{address}/candidates", s.handleListCandidates)
	s.mux.HandleFunc("GET /v1/elections/{address}/candidates/{candidate_id}", s.handleGetCandidate)
	s.mux.HandleFunc("POST /v1/elections/{address}/candidates/{candidate_id}/validate", s.handleValidateCandidate)
	s.mux.HandleFunc("POST /v1/elections/{address}/votes", s.handleCastVote)
	s.mux.HandleFunc("GET /v1/elections/{address}/voters/{voter}", s.handleVoterStatus)
}

func (s *Server) handleCreateElection(w http.ResponseWriter, r *http.Request) {
	caller, body, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	var req enginehttp.CreateElectionRequest
	if !decodeBody(w, body, &req) {
		return
	}
	resp, err := s.elections.Handler.CreateElectionHandler(r.Context(), caller, r.Header.Get("Idempotency-Key"), req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	status := http.StatusCreated
	if resp.Replayed {
		status = http.StatusOK
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleListElections(w http.ResponseWriter, r *http.Request) {
	resp, err := s.elections.Handler.ListElectionsHandler(r.Context())
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetElection(w http.ResponseWriter, r *http.Request) {
	resp, err := s.elections.Handler.GetElectionHandler(r.Context(), r.PathValue("address"))
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetActivation(active bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, _, ok := s.authenticate(w, r)
		if !ok {
			return
		}
		resp, err := s.elections.Handler.SetActivationHandler(r.Context(), caller, r.PathValue("address"), active)
		if err != nil {
			writeElectionDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) handleTransition(w http.ResponseWriter, r *http.Request) {
	caller, _, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	resp, err := s.elections.Handler.TransitionHandler(
		r.Context(),
		caller,
		r.Header.Get("Idempotency-Key"),
		r.PathValue("address"),
		r.PathValue("action"),
	)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeclareResult(w http.ResponseWriter, r *http.Request) {
	caller, _, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	resp, err := s.elections.Handler.DeclareResultHandler(
		r.Context(),
		caller,
		r.Header.Get("Idempotency-Key"),
		r.PathValue("address"),
	)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleWinner(w http.ResponseWriter, r *http.Request) {
	resp, err := s.elections.Handler.WinnerHandler(r.Context(), r.PathValue("address"))
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	resp, err := s.elections.Handler.ResultsHandler(r.Context(), r.PathValue("address"))
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRegisterCandidate(w http.ResponseWriter, r *http.Request) {
	caller, body, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	var req enginehttp.RegisterCandidateRequest
	if !decodeBody(w, body, &req) {
		return
	}
	resp, err := s.elections.Handler.RegisterCandidateHandler(
		r.Context(),
		caller,
		r.Header.Get("Idempotency-Key"),
		r.PathValue("address"),
		req,
	)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	resp, err := s.elections.Handler.ListCandidatesHandler(r.Context(), r.PathValue("address"), r.URL.Query().Get("status"))
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetCandidate(w http.ResponseWriter, r *http.Request) {
	candidateID, ok := parseCandidateID(w, r)
	if !ok {
		return
	}
	resp, err := s.elections.Handler.GetCandidateHandler(r.Context(), r.PathValue("address"), candidateID)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleValidateCandidate(w http.ResponseWriter, r *http.Request) {
	caller, body, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	candidateID, ok := parseCandidateID(w, r)
	if !ok {
		return
	}
	var req enginehttp.ValidateCandidateRequest
	if !decodeBody(w, body, &req) {
		return
	}
	resp, err := s.elections.Handler.ValidateCandidateHandler(
		r.Context(),
		caller,
		r.Header.Get("Idempotency-Key"),
		r.PathValue("address"),
		candidateID,
		req,
	)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCastVote(w http.ResponseWriter, r *http.Request) {
	caller, body, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	var req enginehttp.CastVoteRequest
	if !decodeBody(w, body, &req) {
		return
	}
	resp, err := s.elections.Handler.CastVoteHandler(
		r.Context(),
		caller,
		r.Header.Get("Idempotency-Key"),
		r.PathValue("address"),
		req,
	)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVoterStatus(w http.ResponseWriter, r *http.Request) {
	resp, err := s.elections.Handler.VoterStatusHandler(r.Context(), r.PathValue("address"), r.PathValue("voter"))
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func parseCandidateID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(r.PathValue("candidate_id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_candidate_id", "candidate_id must be an unsigned integer")
		return 0, false
	}
	return id, true
}
