// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conlang Studio Contributors

package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/conlang-studio/studio/internal/project"
)

const maxBodyBytes = 1 << 20

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type meResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type projectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type languageRequest struct {
	Name     string               `json:"name"`
	Kind     project.LanguageKind `json:"kind"`
	ParentID *int64               `json:"parent_id"`
}

type idResponse struct {
	ID int64 `json:"id"`
}

// decode reads a JSON body into dst. Unknown fields are rejected so a
// client cannot smuggle an owner id into a request.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeBadRequest(w, "invalid request body")
		return false
	}
	return true
}

func projectID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		writeBadRequest(w, "invalid project id")
		return 0, false
	}
	return id, true
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decode(w, r, &req) {
		return
	}
	token, err := s.auth.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.setSessionCookie(w, token)
	writeJSON(w, http.StatusCreated, tokenResponse{Token: token})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decode(w, r, &req) {
		return
	}
	token, err := s.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

// handleLogout ends every session the request presents, cookie and bearer
// alike. Calling it without a session, or twice, still succeeds.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	for _, t := range s.tokensFrom(r) {
		if err := s.auth.Logout(r.Context(), t.value); err != nil {
			s.writeError(w, err)
			return
		}
	}
	s.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	writeJSON(w, http.StatusOK, meResponse{ID: id.UserID(), Username: id.Username()})
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	projects, err := s.projects.List(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	var req projectRequest
	if !decode(w, r, &req) {
		return
	}
	p, err := s.projects.Create(r.Context(), id, req.Name, req.Description)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: p.ID})
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	pid, ok := projectID(w, r)
	if !ok {
		return
	}
	p, err := s.projects.Get(r.Context(), id, pid)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	pid, ok := projectID(w, r)
	if !ok {
		return
	}
	var req projectRequest
	if !decode(w, r, &req) {
		return
	}
	if err := s.projects.Update(r.Context(), id, pid, req.Name, req.Description); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	pid, ok := projectID(w, r)
	if !ok {
		return
	}
	if err := s.projects.Delete(r.Context(), id, pid); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListLanguages(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	pid, ok := projectID(w, r)
	if !ok {
		return
	}
	langs, err := s.projects.ListLanguages(r.Context(), id, pid)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, langs)
}

func (s *Server) handleCreateLanguage(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	pid, ok := projectID(w, r)
	if !ok {
		return
	}
	var req languageRequest
	if !decode(w, r, &req) {
		return
	}
	l, err := s.projects.CreateLanguage(r.Context(), id, pid, req.Name, req.Kind, req.ParentID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: l.ID})
}
