package handler

import (
	"errors"
	"net/http"

	"github.com/fixline/complaint-api/internal/auth"
	"github.com/fixline/complaint-api/internal/domain"
	"github.com/fixline/complaint-api/internal/mapper"
	"github.com/fixline/complaint-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AuthHandler serves the authenticated account's own profile. Accounts
// are provisioned from token claims the first time they are seen.
type AuthHandler struct {
	userRepo *repository.UserRepository
	logger   *zap.Logger
}

func NewAuthHandler(userRepo *repository.UserRepository, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		userRepo: userRepo,
		logger:   logger,
	}
}

// Me godoc
// @Summary Get current account
// @Description Returns the profile of the authenticated account, creating it from token claims on first sight
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.UserDTO
// @Failure 401 {object} domain.APIError
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	user, err := h.userRepo.GetByID(r.Context(), userCtx.UserID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			h.logger.Error("failed to load account", zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "Failed to load account")
			return
		}

		// First request from this token: provision the account
		user = &domain.User{
			Email:       userCtx.Email,
			DisplayName: userCtx.DisplayName,
			Role:        userCtx.Role,
			IsActive:    true,
		}
		user.ID = userCtx.UserID
		if err := h.userRepo.Create(r.Context(), user); err != nil {
			h.logger.Error("failed to provision account",
				zap.String("userID", userCtx.UserID.String()),
				zap.Error(err),
			)
			respondWithError(w, http.StatusInternalServerError, "Failed to provision account")
			return
		}

		h.logger.Info("account provisioned from token claims",
			zap.String("userID", user.ID.String()),
			zap.String("role", string(user.Role)),
		)
	}

	respondJSON(w, http.StatusOK, mapper.ToUserDTO(user))
}
