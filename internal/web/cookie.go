// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conlang Studio Contributors

package web

import (
	"net/http"
	"time"
)

type cookieConfig struct {
	name   string
	secure bool
	maxAge time.Duration
}

// setSessionCookie issues or refreshes the session cookie. Its lifetime
// tracks the server-side idle timeout.
func (s *Server) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookie.name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.cookie.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   s.cookie.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookie.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cookie.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
