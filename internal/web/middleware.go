// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conlang Studio Contributors

package web

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/oklog/ulid/v2"

	"github.com/conlang-studio/studio/internal/auth"
	"github.com/conlang-studio/studio/internal/logging"
	"github.com/conlang-studio/studio/pkg/errutil"
)

type identityKey struct{}

// IdentityFrom returns the identity resolved for this request, if any.
func IdentityFrom(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(auth.Identity)
	return id, ok && id.Authenticated()
}

func withIdentity(ctx context.Context, id auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *responseRecorder) Write(p []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	//nolint:wrapcheck // ResponseWriter passthrough
	return r.ResponseWriter.Write(p)
}

// instrument tags the request with an id for logging and records metrics
// under the matched route template.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		route := r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tmpl, err := cur.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}

		ctx := logging.With(r.Context(), slog.String("request_id", ulid.Make().String()))
		rec := &responseRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r.WithContext(ctx))

		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		elapsed := time.Since(start)
		if s.observer != nil {
			s.observer.ObserveRequest(route, rec.status, elapsed)
		}
		s.logger.DebugContext(ctx, "request complete",
			"method", r.Method,
			"route", route,
			"status", rec.status,
			"took_ms", elapsed.Milliseconds(),
		)
	})
}

// resolveSession attaches the caller's identity when the request carries a
// live session token. The cookie is tried first, then the bearer header.
// Unknown, expired, and unresolvable tokens leave the request anonymous.
func (s *Server) resolveSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, t := range s.tokensFrom(r) {
			id, ok, err := s.auth.Sessions().Resolve(r.Context(), t.value)
			if err != nil {
				errutil.LogError(s.logger, "session resolution failed", err)
				continue
			}
			if !ok {
				continue
			}

			if t.fromCookie {
				s.setSessionCookie(w, t.value)
			}
			ctx := withIdentity(r.Context(), id)
			ctx = logging.With(ctx, slog.Int64("user_id", id.UserID()))
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireIdentity rejects anonymous callers with a login redirect hint.
func (s *Server) requireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := IdentityFrom(r.Context()); !ok {
			writeLoginRequired(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type presentedToken struct {
	value      string
	fromCookie bool
}

// tokensFrom returns the session tokens a request carries: the cookie's,
// then the Authorization bearer header's. Duplicates are dropped.
func (s *Server) tokensFrom(r *http.Request) []presentedToken {
	var tokens []presentedToken
	if c, err := r.Cookie(s.cookie.name); err == nil && c.Value != "" {
		tokens = append(tokens, presentedToken{value: c.Value, fromCookie: true})
	}
	const prefix = "Bearer "
	header := r.Header.Get("Authorization")
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		bearer := strings.TrimSpace(header[len(prefix):])
		if bearer != "" && (len(tokens) == 0 || tokens[0].value != bearer) {
			tokens = append(tokens, presentedToken{value: bearer})
		}
	}
	return tokens
}
