package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"sonora-backend/internal/api/models"
	sonoraJson "sonora-backend/internal/json"

	"github.com/go-playground/validator/v10"
)

func Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := environment(ctx)

	// Decode request payload
	env.Logger.DebugContext(ctx, "Decoding request body")
	var loginRequest models.Login
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	defer r.Body.Close()
	if err := sonoraJson.DecodeJson(&loginRequest, decoder); err != nil {
		env.Logger.ErrorContext(ctx, "Unable to decode request", slog.Any("error", err))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Validate payload
	env.Logger.DebugContext(ctx, "Validating request body")
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(loginRequest); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to validate request body", slog.Any("error", err))
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	// Verify credentials and issue token
	env.Logger.DebugContext(ctx, "Logging in account")
	token, role, err := env.Auth.Login(ctx, loginRequest.Name, loginRequest.Password)
	if err != nil {
		respondError(w, r, err, "Unable to login")
		return
	}

	// Return token
	env.Logger.DebugContext(ctx, "Encoding response")
	if err := sonoraJson.EncodeJson(w, http.StatusOK, models.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		Role:        string(role),
	}); err != nil {
		env.Logger.ErrorContext(ctx, "Unable to encode response", slog.Any("error", err))
	}
}
