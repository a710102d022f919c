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

func GetUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := environment(ctx)
	name := mux.Vars(r)["name"]

	env.Logger.DebugContext(ctx, "Retrieving user", slog.String("name", name))
	user, err := env.Users.Get(ctx, name)
	if err != nil {
		respondError(w, r, err, "Unable to retrieve user")
		return
	}

	if err := sonoraJson.EncodeJson(w, http.StatusOK, models.NewUser(user)); err != nil {
		env.Logger.ErrorContext(ctx, "Unable to encode response", slog.Any("error", err))
	}
}

func CreateUser(w http.ResponseWriter, r *http.Request) {
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

	// Create user
	env.Logger.DebugContext(ctx, "Creating user", slog.String("name", req.Name))
	user, err := env.Users.Create(ctx, req.Name, req.Photo, req.Password)
	if err != nil {
		respondError(w, r, err, "Unable to create user")
		return
	}

	if err := sonoraJson.EncodeJson(w, http.StatusCreated, models.NewUser(user)); err != nil {
		env.Logger.ErrorContext(ctx, "Unable to encode response", slog.Any("error", err))
	}
}

func UpdateUser(w http.ResponseWriter, r *http.Request) {
	updateAccount(w, r, false)
}

func DeleteUser(w http.ResponseWriter, r *http.Request) {
	deleteAccount(w, r, false)
}

func SearchUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := environment(ctx)
	query := r.URL.Query().Get("name")

	env.Logger.DebugContext(ctx, "Searching users", slog.String("query", query))
	users, err := env.Users.SearchByName(ctx, query)
	if err != nil {
		respondError(w, r, err, "Unable to search users")
		return
	}

	response := models.SearchUsersResponse{Users: make([]models.User, 0, len(users))}
	for i := range users {
		response.Users = append(response.Users, models.NewUser(&users[i]))
	}
	if err := sonoraJson.EncodeJson(w, http.StatusOK, response); err != nil {
		env.Logger.ErrorContext(ctx, "Unable to encode response", slog.Any("error", err))
	}
}
