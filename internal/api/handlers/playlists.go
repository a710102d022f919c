package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"sonora-backend/internal/api/models"
	sonoraJson "sonora-backend/internal/json"
	"sonora-backend/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

func GetPlaylist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := environment(ctx)
	name := mux.Vars(r)["name"]

	env.Logger.DebugContext(ctx, "Retrieving playlist", slog.String("name", name))
	playlist, err := env.Playlists.Get(ctx, name)
	if err != nil {
		respondError(w, r, err, "Unable to retrieve playlist")
		return
	}

	if err := sonoraJson.EncodeJson(w, http.StatusOK, models.NewPlaylist(playlist)); err != nil {
		env.Logger.ErrorContext(ctx, "Unable to encode response", slog.Any("error", err))
	}
}

func CreatePlaylist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := environment(ctx)

	subject, role, ok := subjectRole(w, r)
	if !ok {
		return
	}

	// Decode request payload
	env.Logger.DebugContext(ctx, "Decoding request body")
	var req models.CreatePlaylist
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	defer r.Body.Close()
	if err := sonoraJson.DecodeJson(&req, decoder); err != nil {
		env.Logger.ErrorContext(ctx, "Unable to decode request", slog.Any("error", err))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Validate payload
	env.Logger.DebugContext(ctx, "Validating request body")
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(req); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to validate request body", slog.Any("error", err))
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	// Create playlist
	env.Logger.DebugContext(ctx, "Creating playlist", slog.String("name", req.Name))
	playlist, err := env.Playlists.Create(ctx, subject, role, req.Name, req.Photo, req.Description)
	if err != nil {
		respondError(w, r, err, "Unable to create playlist")
		return
	}

	if err := sonoraJson.EncodeJson(w, http.StatusCreated, models.NewPlaylist(playlist)); err != nil {
		env.Logger.ErrorContext(ctx, "Unable to encode response", slog.Any("error", err))
	}
}

func UpdatePlaylist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := environment(ctx)
	name := mux.Vars(r)["name"]

	subject, _, ok := subjectRole(w, r)
	if !ok {
		return
	}

	// Decode request payload
	env.Logger.DebugContext(ctx, "Decoding request body")
	var req models.UpdatePlaylist
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	defer r.Body.Close()
	if err := sonoraJson.DecodeJson(&req, decoder); err != nil {
		env.Logger.ErrorContext(ctx, "Unable to decode request", slog.Any("error", err))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	env.Logger.DebugContext(ctx, "Updating playlist", slog.String("name", name))
	err := env.Playlists.Update(ctx, subject, name, services.PlaylistUpdate{
		NewName:     req.NewName,
		Photo:       req.Photo,
		Description: req.Description,
	})
	if err != nil {
		respondError(w, r, err, "Unable to update playlist")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func DeletePlaylist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := environment(ctx)
	name := mux.Vars(r)["name"]

	subject, _, ok := subjectRole(w, r)
	if !ok {
		return
	}

	env.Logger.DebugContext(ctx, "Deleting playlist", slog.String("name", name))
	if err := env.Playlists.Delete(ctx, subject, name); err != nil {
		respondError(w, r, err, "Unable to delete playlist")
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func SearchPlaylists(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := environment(ctx)
	query := r.URL.Query().Get("name")

	env.Logger.DebugContext(ctx, "Searching playlists", slog.String("query", query))
	playlists, err := env.Playlists.SearchByName(ctx, query)
	if err != nil {
		respondError(w, r, err, "Unable to search playlists")
		return
	}

	response := models.SearchPlaylistsResponse{Playlists: make([]models.Playlist, 0, len(playlists))}
	for i := range playlists {
		response.Playlists = append(response.Playlists, models.NewPlaylist(&playlists[i]))
	}
	if err := sonoraJson.EncodeJson(w, http.StatusOK, response); err != nil {
		env.Logger.ErrorContext(ctx, "Unable to encode response", slog.Any("error", err))
	}
}

func AddSongsToPlaylist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := environment(ctx)
	name := mux.Vars(r)["name"]

	subject, _, ok := subjectRole(w, r)
	if !ok {
		return
	}

	// Decode request payload
	env.Logger.DebugContext(ctx, "Decoding request body")
	var req models.AddSongs
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	defer r.Body.Close()
	if err := sonoraJson.DecodeJson(&req, decoder); err != nil {
		env.Logger.ErrorContext(ctx, "Unable to decode request", slog.Any("error", err))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Validate payload
	env.Logger.DebugContext(ctx, "Validating request body")
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(req); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to validate request body", slog.Any("error", err))
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	env.Logger.DebugContext(ctx, "Adding songs to playlist", slog.String("name", name))
	if err := env.Playlists.AddSongs(ctx, subject, name, req.SongNames); err != nil {
		respondError(w, r, err, "Unable to add songs to playlist")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
