package handlers

import (
	"errors"
	"net/http"

	"github.com/JKozubekINF1/dart-counter/db"
	"github.com/JKozubekINF1/dart-counter/models"
	"github.com/gin-gonic/gin"
)

// UserHandler handles the user registry requests
type UserHandler struct {
	store *db.Store
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(store *db.Store) *UserHandler {
	return &UserHandler{store: store}
}

// CreateUser handles user creation requests
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}

	if err := c.BindJSON(&req); err != nil {
		standardResponse(c, http.StatusBadRequest, "error", nil, models.ErrInvalidUserName.Error())
		return
	}

	user, err := h.store.CreateUser(req.Name)
	if err != nil {
		if errors.Is(err, models.ErrInvalidUserName) {
			standardResponse(c, http.StatusBadRequest, "error", nil, err.Error())
			return
		}
		standardResponse(c, http.StatusInternalServerError, "error", nil, err.Error())
		return
	}

	standardResponse(c, http.StatusCreated, "created", user, "")
}

// ListUsers handles requests for the full user list
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.store.ListUsers()
	if err != nil {
		standardResponse(c, http.StatusInternalServerError, "error", nil, err.Error())
		return
	}

	standardResponse(c, http.StatusOK, "ok", users, "")
}

// DeleteUser handles user deletion requests
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id := c.Param("id")

	if err := h.store.DeleteUser(id); err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			standardResponse(c, http.StatusNotFound, "error", nil, err.Error())
			return
		}
		standardResponse(c, http.StatusInternalServerError, "error", nil, err.Error())
		return
	}

	standardResponse(c, http.StatusOK, "deleted", nil, "")
}
