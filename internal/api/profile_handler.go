package api

import (
	"log/slog"
	"net/http"

	"github.com/yoman-app/yoman-api/internal/api/shared"
	"github.com/yoman-app/yoman-api/internal/platform/logger"
	"github.com/yoman-app/yoman-api/internal/service"
)

// ProfileHandler serves the signed-in user's account and settings.
type ProfileHandler struct {
	users    service.UserService
	profiles service.ProfileService
	logger   *slog.Logger
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(users service.UserService, profiles service.ProfileService, logger *slog.Logger) *ProfileHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ProfileHandler")
	}
	return &ProfileHandler{
		users:    users,
		profiles: profiles,
		logger:   logger.With(slog.String("component", "profile_handler")),
	}
}

// Get handles GET /api/profile.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	user, err := h.users.GetUser(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, ProfileResponse{
		UserID:      user.ID,
		Email:       user.Email,
		Role:        user.Role,
		Profile:     user.Profile,
		PushEnabled: user.Profile.PushToken != "",
		ActiveSet:   user.ActiveSet,
	})
}

// Update handles PUT /api/profile. Saving the profile completes onboarding.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req ProfileRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	profile, err := h.profiles.Update(r.Context(), userID, req.toDomain())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, profile)
}

// SavePushToken handles PUT /api/profile/push-token.
func (h *ProfileHandler) SavePushToken(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req PushTokenRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if err := h.profiles.SavePushToken(r.Context(), userID, req.Token); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /api/profile. The account and everything it owns
// are removed.
func (h *ProfileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if err := h.users.DeleteUser(r.Context(), userID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	logger.FromContextOrDefault(r.Context(), h.logger).Info("account deleted")
	w.WriteHeader(http.StatusNoContent)
}
