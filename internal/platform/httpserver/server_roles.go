package httpserver

import (
	"net/http"

	accesshttp "ledgervote/contexts/governance/access-control/transport/http"
)

func (s *Server) registerRoleRoutes() {
	s.mux.HandleFunc("POST /v1/roles/grant", s.handleGrantRole)
	s.mux.HandleFunc("POST /v1/roles/revoke", s.handleRevokeRole)
	s.mux.HandleFunc("GET /v1/roles/{role}/holders", s.handleListRoleHolders)
	s.mux.HandleFunc("GET /v1/roles/{role}/subjects/{subject}", s.handleHasRole)
	s.mux.HandleFunc("GET /v1/principals/{principal}/roles", s.handleListPrincipalRoles)
}

func (s *Server) handleGrantRole(w http.ResponseWriter, r *http.Request) {
	caller, body, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	var req accesshttp.RoleMutationRequest
	if !decodeBody(w, body, &req) {
		return
	}
	resp, err := s.access.Handler.GrantRoleHandler(r.Context(), caller, req)
	if err != nil {
		writeAccessDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRevokeRole(w http.ResponseWriter, r *http.Request) {
	caller, body, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	var req accesshttp.RoleMutationRequest
	if !decodeBody(w, body, &req) {
		return
	}
	resp, err := s.access.Handler.RevokeRoleHandler(r.Context(), caller, req)
	if err != nil {
		writeAccessDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListRoleHolders(w http.ResponseWriter, r *http.Request) {
	resp, err := s.access.Handler.ListRoleHoldersHandler(r.Context(), r.PathValue("role"))
	if err != nil {
		writeAccessDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHasRole(w http.ResponseWriter, r *http.Request) {
	resp, err := s.access.Handler.HasRoleHandler(r.Context(), r.PathValue("role"), r.PathValue("subject"))
	if err != nil {
		writeAccessDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListPrincipalRoles(w http.ResponseWriter, r *http.Request) {
	resp, err := s.access.Handler.ListSubjectRolesHandler(r.Context(), r.PathValue("principal"))
	if err != nil {
		writeAccessDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
