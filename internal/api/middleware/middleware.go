// Package for API middleware

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"sonora-backend/internal/api/handlers"
	sonoraEnv "sonora-backend/internal/env"
	"sonora-backend/internal/logging"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// Custom ResponseWriter that captures the status code
type logResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *logResponseWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func environment(ctx context.Context) *sonoraEnv.Env {
	env, ok := ctx.Value(sonoraEnv.Key).(*sonoraEnv.Env)
	if !ok {
		return sonoraEnv.Null()
	}
	return env
}

// Handles panic recovery
func RecoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		env := environment(r.Context())

		defer func() {
			if err := recover(); err != nil {
				env.Logger.ErrorContext(r.Context(), "Panic occurred", slog.Any("error", err))
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// Injects the environment object
func InjectEnvironment(env *sonoraEnv.Env) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if env == nil {
				env = sonoraEnv.Null()
			}
			r = r.WithContext(context.WithValue(r.Context(), sonoraEnv.Key, env))
			next.ServeHTTP(w, r)
		})
	}
}

func LogRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		env := environment(r.Context())

		r = r.WithContext(logging.AppendCtx(r.Context(), slog.String("request_id", uuid.NewString())))
		r = r.WithContext(logging.AppendCtx(r.Context(), slog.String("method", r.Method)))
		r = r.WithContext(logging.AppendCtx(r.Context(), slog.String("path", r.URL.RequestURI())))
		lrw := &logResponseWriter{w, http.StatusOK}
		env.Logger.InfoContext(r.Context(), "Request received")
		next.ServeHTTP(lrw, r)
		env.Logger.LogAttrs(
			r.Context(),
			slog.LevelInfo,
			"Request completed",
			slog.Duration("duration", time.Since(start)),
			slog.Int("status", lrw.statusCode),
		)
	})
}

// Authenticate validates the bearer token and stores its claims in the
// request context for the handlers.
func Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		env := environment(r.Context())

		header := r.Header.Get("Authorization")
		rawToken, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			env.Logger.ErrorContext(r.Context(), "Missing bearer token")
			http.Error(w, "Missing bearer token", http.StatusUnauthorized)
			return
		}

		claims, err := env.Signer.ValidateToken(rawToken)
		if err != nil {
			env.Logger.ErrorContext(r.Context(), "Invalid token", slog.Any("error", err))
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		r = r.WithContext(logging.AppendCtx(r.Context(), slog.String("subject", claims.Subject)))
		r = r.WithContext(context.WithValue(r.Context(), "jwt", claims))
		next.ServeHTTP(w, r)
	})
}

// AddRoutes registers every route on the router. Mutating routes are
// wrapped with Authenticate; reads are public.
func AddRoutes(router *mux.Router, env *sonoraEnv.Env) {
	router.Use(InjectEnvironment(env), RecoverMiddleware, LogRequest)

	authed := func(h http.HandlerFunc) http.Handler {
		return Authenticate(h)
	}

	router.HandleFunc("/health", handlers.Health).Methods("GET")
	router.HandleFunc("/auth/login", handlers.Login).Methods("POST")

	// Users
	router.HandleFunc("/users", handlers.CreateUser).Methods("POST")
	router.HandleFunc("/users", handlers.SearchUsers).Methods("GET")
	router.HandleFunc("/users/{name}", handlers.GetUser).Methods("GET")
	router.Handle("/users/{name}", authed(handlers.UpdateUser)).Methods("PUT")
	router.Handle("/users/{name}", authed(handlers.DeleteUser)).Methods("DELETE")
	router.Handle("/users/{name}/playback_history", authed(handlers.AddPlaybackHistory)).Methods("PATCH")
	router.Handle("/users/{name}/saved_playlists", authed(handlers.AddSavedPlaylist)).Methods("PATCH")
	router.Handle("/users/{name}/saved_playlists", authed(handlers.RemoveSavedPlaylist)).Methods("DELETE")

	// Artists
	router.HandleFunc("/artists", handlers.CreateArtist).Methods("POST")
	router.HandleFunc("/artists", handlers.SearchArtists).Methods("GET")
	router.HandleFunc("/artists/{name}", handlers.GetArtist).Methods("GET")
	router.Handle("/artists/{name}", authed(handlers.UpdateArtist)).Methods("PUT")
	router.Handle("/artists/{name}", authed(handlers.DeleteArtist)).Methods("DELETE")
	router.HandleFunc("/artists/{name}/streams", handlers.GetArtistTotalStreams).Methods("GET")
	router.Handle("/artists/{name}/playback_history", authed(handlers.AddPlaybackHistory)).Methods("PATCH")
	router.Handle("/artists/{name}/saved_playlists", authed(handlers.AddSavedPlaylist)).Methods("PATCH")
	router.Handle("/artists/{name}/saved_playlists", authed(handlers.RemoveSavedPlaylist)).Methods("DELETE")

	// Playlists
	router.Handle("/playlists", authed(handlers.CreatePlaylist)).Methods("POST")
	router.HandleFunc("/playlists", handlers.SearchPlaylists).Methods("GET")
	router.HandleFunc("/playlists/{name}", handlers.GetPlaylist).Methods("GET")
	router.Handle("/playlists/{name}", authed(handlers.UpdatePlaylist)).Methods("PUT")
	router.Handle("/playlists/{name}", authed(handlers.DeletePlaylist)).Methods("DELETE")
	router.Handle("/playlists/{name}/songs", authed(handlers.AddSongsToPlaylist)).Methods("PUT")

	// Songs
	router.Handle("/songs", authed(handlers.CreateSong)).Methods("POST")
	router.HandleFunc("/songs", handlers.SearchSongs).Methods("GET")
	router.HandleFunc("/songs/genres/{genre}", handlers.GetSongsByGenre).Methods("GET")
	router.HandleFunc("/songs/{name}", handlers.GetSong).Methods("GET")
	router.Handle("/songs/{name}", authed(handlers.DeleteSong)).Methods("DELETE")
	router.HandleFunc("/songs/{name}/stream", handlers.StreamSong).Methods("GET")
}
