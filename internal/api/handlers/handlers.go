// Package for API Handlers

package handlers

import (
	"context"
	"log/slog"
	"net/http"

	sonoraEnv "sonora-backend/internal/env"
	sonoraErrors "sonora-backend/internal/errors"
	"sonora-backend/internal/jwt"
	"sonora-backend/internal/services"
)

// environment pulls the injected dependencies out of the request
// context, falling back to a null instance.
func environment(ctx context.Context) *sonoraEnv.Env {
	env, ok := ctx.Value(sonoraEnv.Key).(*sonoraEnv.Env)
	if !ok {
		return sonoraEnv.Null()
	}
	return env
}

// claims returns the validated token claims placed in the context by
// the authentication middleware.
func claims(ctx context.Context) (*jwt.Claims, bool) {
	c, ok := ctx.Value("jwt").(*jwt.Claims)
	return c, ok
}

// subjectRole extracts the token subject and role, or writes a 401.
func subjectRole(w http.ResponseWriter, r *http.Request) (string, services.Role, bool) {
	c, ok := claims(r.Context())
	if !ok {
		environment(r.Context()).Logger.ErrorContext(r.Context(), "Failed to get JWT claims")
		http.Error(w, "JWT not found", http.StatusUnauthorized)
		return "", "", false
	}
	return c.Subject, services.Role(c.Role), true
}

// respondError maps a service error to its HTTP status and logs it.
func respondError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	env := environment(r.Context())
	env.Logger.ErrorContext(r.Context(), msg, slog.Any("error", err))
	status := sonoraErrors.Status(err)
	if status == http.StatusInternalServerError {
		http.Error(w, msg, status)
		return
	}
	http.Error(w, err.Error(), status)
}

func Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
