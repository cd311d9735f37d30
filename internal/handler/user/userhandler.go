package userhandler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/TheRmarkable/Common-Component-Backend/internal/domain"
	"github.com/TheRmarkable/Common-Component-Backend/internal/handler/middleware"
	"github.com/TheRmarkable/Common-Component-Backend/internal/service"
	"github.com/TheRmarkable/Common-Component-Backend/pkg/dto"
	"github.com/TheRmarkable/Common-Component-Backend/pkg/logger"
)

type UserService interface {
	Register(ctx context.Context, input service.RegisterInput) (*domain.User, string, error)
	Login(email, password string) (string, error)
	Verify(userID string, principal domain.Principal) (*domain.User, error)
	User(id string) (*domain.User, error)
}

type UserHandler struct {
	srv UserService
}

func New(srv UserService) *UserHandler {
	return &UserHandler{
		srv: srv,
	}
}

func (uh *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var register dto.Register

	if err := json.NewDecoder(r.Body).Decode(&register); err != nil {
		logger.Log.Warn("error while decoding a register request")
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)

		return
	}
	defer closeBody(r.Body)

	if err := register.IsValid(); err != nil {
		logger.Log.Warn("invalid register fields", logger.Error(err))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	user, token, err := uh.srv.Register(r.Context(), service.RegisterInput{
		IdentityNumber: register.IdentityNumber,
		Name:           register.Name,
		Surname:        register.Surname,
		Email:          register.Email,
		Role:           domain.Role(register.Role),
		MobileNumber:   register.MobileNumber,
		Password:       register.Password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			http.Error(w, "user already exists", http.StatusConflict)
			return
		}

		logger.Log.Error("error while registering user", logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Authorization", "Bearer "+token)
	writeJSON(w, toUserDTO(user))
}

func (uh *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var auth dto.Auth

	if err := json.NewDecoder(r.Body).Decode(&auth); err != nil {
		logger.Log.Warn("error while decoding a login request")
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)

		return
	}
	defer closeBody(r.Body)

	if err := auth.IsValid(); err != nil {
		logger.Log.Warn("invalid auth fields", logger.Error(err))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	token, err := uh.srv.Login(auth.Email, auth.Password)
	if err != nil {
		if errors.Is(err, domain.ErrIncorrectCredentials) {
			http.Error(w, "incorrect email or password", http.StatusUnauthorized)
			return
		}

		logger.Log.Error("error while logging in", logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Authorization", "Bearer "+token)
	w.WriteHeader(http.StatusOK)
}

func (uh *UserHandler) User(w http.ResponseWriter, r *http.Request) {
	user, err := uh.srv.User(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}

		logger.Log.Error("error while fetching user", logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	writeJSON(w, toUserDTO(user))
}

func (uh *UserHandler) Verify(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFrom(r)

	user, err := uh.srv.Verify(chi.URLParam(r, "id"), principal)
	if err != nil {
		if errors.Is(err, domain.ErrPermissionDenied) {
			http.Error(w, "permission denied", http.StatusForbidden)
			return
		}
		if errors.Is(err, domain.ErrUserNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}

		logger.Log.Error("error while verifying user", logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	writeJSON(w, toUserDTO(user))
}

func toUserDTO(user *domain.User) dto.User {
	return dto.User{
		ID:             user.ID,
		IdentityNumber: user.IdentityNumber,
		Name:           user.Name,
		Surname:        user.Surname,
		Email:          user.Email,
		Role:           string(user.Role),
		MobileNumber:   user.MobileNumber,
		Verified:       user.Verified,
		AccountID:      user.AccountID,
		RegisteredAt:   user.RegisteredAt.Format(time.RFC3339),
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("error while encoding response to JSON", logger.Error(err))
	}
}

func closeBody(body io.ReadCloser) {
	if err := body.Close(); err != nil {
		logger.Log.Error("error while closing request body", logger.Error(err))
	}
}
