// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conlang Studio Contributors

package web

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/samber/oops"

	"github.com/conlang-studio/studio/internal/auth"
	"github.com/conlang-studio/studio/internal/project"
	"github.com/conlang-studio/studio/pkg/errutil"
)

// LoginPath is where anonymous callers are sent.
const LoginPath = "/login"

type errorBody struct {
	Error    string `json:"error"`
	Field    string `json:"field,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	//nolint:errcheck // client may disconnect
	json.NewEncoder(w).Encode(v)
}

func writeLoginRequired(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, errorBody{Error: "login required", Redirect: LoginPath})
}

// writeError maps a service error to a status code by its oops code. Only
// validation errors echo their message; everything unexpected becomes a
// generic 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch errutil.Code(err) {
	case auth.CodeValidation:
		writeJSON(w, http.StatusBadRequest, validationBody(err, auth.ErrValidation))
	case project.CodeValidation:
		writeJSON(w, http.StatusBadRequest, validationBody(err, project.ErrValidation))
	case auth.CodeInvalidCredentials:
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: auth.ErrInvalidCredentials.Error()})
	case project.CodeUnauthenticated:
		writeLoginRequired(w)
	case auth.CodeDuplicateUsername:
		writeJSON(w, http.StatusConflict, errorBody{Error: auth.ErrDuplicateUsername.Error()})
	case project.CodeForbidden:
		writeJSON(w, http.StatusForbidden, errorBody{Error: "forbidden"})
	default:
		errutil.LogError(s.logger, "request failed", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

// validationBody turns "name cannot be empty: validation failed" into
// {"error": "name cannot be empty", "field": "name"}.
func validationBody(err, sentinel error) errorBody {
	body := errorBody{Error: strings.TrimSuffix(err.Error(), ": "+sentinel.Error())}
	if oopsErr, ok := oops.AsOops(err); ok {
		if field, ok := oopsErr.Context()["field"].(string); ok {
			body.Field = field
		}
	}
	return body
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: msg})
}
