package httpserver

import "net/http"

func (s *Server) registerMirrorRoutes() {
	s.mux.HandleFunc("GET /v1/mirror/elections", s.handleMirrorListElections)
	s.mux.HandleFunc("GET /v1/mirror/elections/{address}", s.handleMirrorGetElection)
	s.mux.HandleFunc("GET /v1/mirror/principals/{principal}/roles", s.handleMirrorPrincipalRoles)
}

func (s *Server) handleMirrorListElections(w http.ResponseWriter, r *http.Request) {
	resp, err := s.mirror.Handler.ListElectionsHandler(r.Context())
	if err != nil {
		writeMirrorDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMirrorGetElection(w http.ResponseWriter, r *http.Request) {
	resp, err := s.mirror.Handler.GetElectionHandler(r.Context(), r.PathValue("address"))
	if err != nil {
		writeMirrorDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMirrorPrincipalRoles(w http.ResponseWriter, r *http.Request) {
	resp, err := s.mirror.Handler.PrincipalRolesHandler(r.Context(), r.PathValue("principal"))
	if err != nil {
		writeMirrorDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
