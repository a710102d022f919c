package handlers

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"sonora-backend/internal/api/models"
	sonoraJson "sonora-backend/internal/json"

	"github.com/gorilla/mux"
)

// Uploads beyond this size are rejected before analysis.
const maxUploadBytes = 50 << 20

func GetSong(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := environment(ctx)
	name := mux.Vars(r)["name"]

	env.Logger.DebugContext(ctx, "Retrieving song", slog.String("name", name))
	song, err := env.Songs.Get(ctx, name)
	if err != nil {
		respondError(w, r, err, "Unable to retrieve song")
		return
	}

	if err := sonoraJson.EncodeJson(w, http.StatusOK, models.NewSong(song)); err != nil {
		env.Logger.ErrorContext(ctx, "Unable to encode response", slog.Any("error", err))
	}
}

func CreateSong(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := environment(ctx)

	subject, _, ok := subjectRole(w, r)
	if !ok {
		return
	}

	// Retrieve request parameters
	env.Logger.DebugContext(ctx, "Retrieving request parameters")
	query := r.URL.Query()
	name := query.Get("name")
	genre := query.Get("genre")
	photo := query.Get("photo")
	artist := query.Get("artist")
	if artist == "" {
		artist = subject
	}

	// Read uploaded payload
	env.Logger.DebugContext(ctx, "Parsing multipart form")
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		env.Logger.ErrorContext(ctx, "Unable to parse multipart form", slog.Any("error", err))
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		env.Logger.ErrorContext(ctx, "Missing audio file", slog.Any("error", err))
		http.Error(w, "Audio file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()
	payload, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		env.Logger.ErrorContext(ctx, "Unable to read audio file", slog.Any("error", err))
		http.Error(w, "Unable to read audio file", http.StatusInternalServerError)
		return
	}

	// Create song
	env.Logger.DebugContext(ctx, "Creating song", slog.String("name", name), slog.String("artist", artist))
	song, err := env.Songs.Create(ctx, subject, name, artist, genre, photo, payload)
	if err != nil {
		respondError(w, r, err, "Unable to create song")
		return
	}

	if err := sonoraJson.EncodeJson(w, http.StatusCreated, models.NewSong(song)); err != nil {
		env.Logger.ErrorContext(ctx, "Unable to encode response", slog.Any("error", err))
	}
}

func DeleteSong(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := environment(ctx)
	name := mux.Vars(r)["name"]

	subject, _, ok := subjectRole(w, r)
	if !ok {
		return
	}

	env.Logger.DebugContext(ctx, "Deleting song", slog.String("name", name))
	if err := env.Songs.Delete(ctx, subject, name); err != nil {
		respondError(w, r, err, "Unable to delete song")
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func SearchSongs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := environment(ctx)
	query := r.URL.Query().Get("name")

	env.Logger.DebugContext(ctx, "Searching songs", slog.String("query", query))
	songs, err := env.Songs.SearchByName(ctx, query)
	if err != nil {
		respondError(w, r, err, "Unable to search songs")
		return
	}

	response := models.SearchSongsResponse{Songs: make([]models.Song, 0, len(songs))}
	for i := range songs {
		response.Songs = append(response.Songs, models.NewSongMetadata(&songs[i]))
	}
	if err := sonoraJson.EncodeJson(w, http.StatusOK, response); err != nil {
		env.Logger.ErrorContext(ctx, "Unable to encode response", slog.Any("error", err))
	}
}

func GetSongsByGenre(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := environment(ctx)
	genre := mux.Vars(r)["genre"]

	env.Logger.DebugContext(ctx, "Listing songs by genre", slog.String("genre", genre))
	songs, err := env.Songs.GetByGenre(ctx, genre)
	if err != nil {
		respondError(w, r, err, "Unable to list songs by genre")
		return
	}

	response := models.SearchSongsResponse{Songs: make([]models.Song, 0, len(songs))}
	for i := range songs {
		response.Songs = append(response.Songs, models.NewSongMetadata(&songs[i]))
	}
	if err := sonoraJson.EncodeJson(w, http.StatusOK, response); err != nil {
		env.Logger.ErrorContext(ctx, "Unable to encode response", slog.Any("error", err))
	}
}

// StreamSong serves the requested byte range of a song payload as a
// 206 Partial Content response.
func StreamSong(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := environment(ctx)
	name := mux.Vars(r)["name"]

	env.Logger.DebugContext(ctx, "Resolving stream range", slog.String("name", name))
	session, err := env.Songs.Stream(ctx, name, r.Header.Get("Range"))
	if err != nil {
		respondError(w, r, err, fmt.Sprintf("Unable to stream song %q", name))
		return
	}
	defer session.Close()

	for key, values := range session.Range.Headers(session.Length) {
		for _, value := range values {
			w.Header().Set(key, value)
		}
	}
	w.WriteHeader(http.StatusPartialContent)

	if _, err := session.Chunks.WriteTo(w); err != nil {
		// Headers are already written; all that is left is logging.
		env.Logger.ErrorContext(ctx, "Failed while writing stream", slog.Any("error", err))
	}
}
