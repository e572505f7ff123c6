package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MrSnakeDoc/navdeck/internal/catalog"
	"github.com/MrSnakeDoc/navdeck/internal/httpserver/deps"
	"github.com/MrSnakeDoc/navdeck/internal/logger"
)

const maxAuthBody = 4 << 10

type rolesResponse struct {
	Success    bool     `json:"success"`
	Roles      []string `json:"roles"`
	TotalCount int      `json:"totalCount"`
}

// Roles lists every role declared in the link source.
func Roles(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roles, err := d.Catalog.Roles(r.Context())
		if err != nil {
			failure(w, r, d, err, "Database ID is required", "Failed to fetch roles from Notion")
			return
		}
		writeJSON(w, http.StatusOK, rolesResponse{
			Success:    true,
			Roles:      roles,
			TotalCount: len(roles),
		})
	}
}

type authRequest struct {
	Password string `json:"password"`
}

type authResponse struct {
	Success bool   `json:"success"`
	Role    string `json:"role"`
	Message string `json:"message"`
}

// Auth exchanges a role name for that role. This is a view selector, not
// access control: anyone knowing a role name gets its view.
func Auth(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req authRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxAuthBody)).Decode(&req); err != nil {
			d.Logger.Debug("invalid auth body", logger.Error(err))
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		role, err := d.Catalog.Authenticate(r.Context(), req.Password)
		switch {
		case err == nil:
			writeJSON(w, http.StatusOK, authResponse{
				Success: true,
				Role:    role,
				Message: "Authentication successful",
			})
		case errors.Is(err, catalog.ErrPasswordRequired):
			writeError(w, http.StatusBadRequest, "Password is required")
		case errors.Is(err, catalog.ErrInvalidPassword):
			writeError(w, http.StatusUnauthorized, "Invalid password")
		default:
			failure(w, r, d, err, "Database ID is required", "Authentication failed")
		}
	}
}
