package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"sonora-backend/internal/api/models"
	sonoraJson "sonora-backend/internal/json"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

func GetArtist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := environment(ctx)
	name := mux.Vars(r)["name"]

	env.Logger.DebugContext(ctx, "Retrieving artist", slog.String("name", name))
	artist, err := env.Artists.Get(ctx, name)
	if err != nil {
		respondError(w, r, err, "Unable to retrieve artist")
		return
	}

	if err := sonoraJson.EncodeJson(w, http.StatusOK, models.NewArtist(artist)); err != nil {
		env.Logger.ErrorContext(ctx, "Unable to encode response", slog.Any("error", err))
	}
}

func CreateArtist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := environment(ctx)

	// Decode request payload
	env.Logger.DebugContext(ctx, "Decoding request body")
	var req models.CreateAccount
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

	// Create artist
	env.Logger.DebugContext(ctx, "Creating artist", slog.String("name", req.Name))
	artist, err := env.Artists.Create(ctx, req.Name, req.Photo, req.Password)
	if err != nil {
		respondError(w, r, err, "Unable to create artist")
		return
	}

	if err := sonoraJson.EncodeJson(w, http.StatusCreated, models.NewArtist(artist)); err != nil {
		env.Logger.ErrorContext(ctx, "Unable to encode response", slog.Any("error", err))
	}
}

func UpdateArtist(w http.ResponseWriter, r *http.Request) {
	updateAccount(w, r, true)
}

func DeleteArtist(w http.ResponseWriter, r *http.Request) {
	deleteAccount(w, r, true)
}

func SearchArtists(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := environment(ctx)
	query := r.URL.Query().Get("name")

	env.Logger.DebugContext(ctx, "Searching artists", slog.String("query", query))
	artists, err := env.Artists.SearchByName(ctx, query)
	if err != nil {
		respondError(w, r, err, "Unable to search artists")
		return
	}

	response := models.SearchArtistsResponse{Artists: make([]models.Artist, 0, len(artists))}
	for i := range artists {
		response.Artists = append(response.Artists, models.NewArtist(&artists[i]))
	}
	if err := sonoraJson.EncodeJson(w, http.StatusOK, response); err != nil {
		env.Logger.ErrorContext(ctx, "Unable to encode response", slog.Any("error", err))
	}
}

func GetArtistTotalStreams(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := environment(ctx)
	name := mux.Vars(r)["name"]

	env.Logger.DebugContext(ctx, "Summing artist streams", slog.String("name", name))
	total, err := env.Artists.TotalStreams(ctx, name)
	if err != nil {
		respondError(w, r, err, "Unable to sum artist streams")
		return
	}

	if err := sonoraJson.EncodeJson(w, http.StatusOK, models.TotalStreamsResponse{
		Artist:       name,
		TotalStreams: total,
	}); err != nil {
		env.Logger.ErrorContext(ctx, "Unable to encode response", slog.Any("error", err))
	}
}
