package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"sonora-backend/internal/api/models"
	sonoraErrors "sonora-backend/internal/errors"
	sonoraJson "sonora-backend/internal/json"
	"sonora-backend/internal/services"

	"github.com/gorilla/mux"
)

// Handlers shared between the user and artist account routes. The
// incremental mutators dispatch on the token's role through the shared
// Account interface, so one handler serves both namespaces.

func updateAccount(w http.ResponseWriter, r *http.Request, artist bool) {
	ctx := r.Context()
	env := environment(ctx)
	name := mux.Vars(r)["name"]

	subject, _, ok := subjectRole(w, r)
	if !ok {
		return
	}

	// Decode request payload
	env.Logger.DebugContext(ctx, "Decoding request body")
	var req models.UpdateAccount
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	defer r.Body.Close()
	if err := sonoraJson.DecodeJson(&req, decoder); err != nil {
		env.Logger.ErrorContext(ctx, "Unable to decode request", slog.Any("error", err))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	account := services.Account(env.Users)
	if artist {
		account = env.Artists
	}

	env.Logger.DebugContext(ctx, "Updating account", slog.String("name", name))
	err := account.Update(ctx, subject, name, services.AccountUpdate{
		Photo:    req.Photo,
		Password: req.Password,
	})
	if err != nil {
		respondError(w, r, err, "Unable to update account")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func deleteAccount(w http.ResponseWriter, r *http.Request, artist bool) {
	ctx := r.Context()
	env := environment(ctx)
	name := mux.Vars(r)["name"]

	subject, _, ok := subjectRole(w, r)
	if !ok {
		return
	}

	account := services.Account(env.Users)
	if artist {
		account = env.Artists
	}

	env.Logger.DebugContext(ctx, "Deleting account", slog.String("name", name))
	if err := account.Delete(ctx, subject, name); err != nil {
		respondError(w, r, err, "Unable to delete account")
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func AddPlaybackHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := environment(ctx)
	name := mux.Vars(r)["name"]

	subject, role, ok := subjectRole(w, r)
	if !ok {
		return
	}

	songName := r.URL.Query().Get("song_name")
	if songName == "" {
		respondError(w, r, fmt.Errorf("%w: missing song_name", sonoraErrors.ErrBadParameter), "Missing song_name")
		return
	}

	env.Logger.DebugContext(ctx, "Appending playback history",
		slog.String("name", name), slog.String("song", songName))
	if err := env.Account(role).AddPlaybackHistory(ctx, subject, name, songName); err != nil {
		respondError(w, r, err, "Unable to append playback history")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func AddSavedPlaylist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := environment(ctx)
	name := mux.Vars(r)["name"]

	subject, role, ok := subjectRole(w, r)
	if !ok {
		return
	}

	playlistName := r.URL.Query().Get("playlist_name")
	if playlistName == "" {
		respondError(w, r, fmt.Errorf("%w: missing playlist_name", sonoraErrors.ErrBadParameter), "Missing playlist_name")
		return
	}

	env.Logger.DebugContext(ctx, "Saving playlist",
		slog.String("name", name), slog.String("playlist", playlistName))
	if err := env.Account(role).AddSavedPlaylist(ctx, subject, name, playlistName); err != nil {
		respondError(w, r, err, "Unable to save playlist")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func RemoveSavedPlaylist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := environment(ctx)
	name := mux.Vars(r)["name"]

	subject, role, ok := subjectRole(w, r)
	if !ok {
		return
	}

	playlistName := r.URL.Query().Get("playlist_name")
	if playlistName == "" {
		respondError(w, r, fmt.Errorf("%w: missing playlist_name", sonoraErrors.ErrBadParameter), "Missing playlist_name")
		return
	}

	env.Logger.DebugContext(ctx, "Removing saved playlist",
		slog.String("name", name), slog.String("playlist", playlistName))
	if err := env.Account(role).RemoveSavedPlaylist(ctx, subject, name, playlistName); err != nil {
		respondError(w, r, err, "Unable to remove saved playlist")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
