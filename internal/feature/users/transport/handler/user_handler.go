// Package handler provides the HTTP handlers of the user management feature.
package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"memberflow_backend/internal/domain/entity"
	"memberflow_backend/internal/shared/httperr"
)

// UserUsecase defines the user operations the handler consumes.
type UserUsecase interface {
	Save(ctx context.Context, u *entity.User) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) (*entity.User, error)
	FindByID(ctx context.Context, id uint) (*entity.User, error)
	FindAll(ctx context.Context) ([]*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindAllByRoleName(ctx context.Context, roleName string) ([]*entity.User, error)
	AssignRole(ctx context.Context, userID uint, roleName string) (*entity.User, error)
	DeleteByID(ctx context.Context, id uint) error
}

// UserHandler handles the HTTP requests for user accounts.
type UserHandler struct {
	users UserUsecase
}

func NewUserHandler(users UserUsecase) *UserHandler {
	return &UserHandler{users: users}
}

// parseID reads a uint path parameter.
func parseID(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{Error: "invalid " + name})
		return 0, false
	}
	return uint(v), true
}

func (h *UserHandler) Create(c *gin.Context) {
	var u entity.User
	if err := c.ShouldBindJSON(&u); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{Error: "invalid request"})
		return
	}
	saved, err := h.users.Save(c.Request.Context(), &u)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var u entity.User
	if err := c.ShouldBindJSON(&u); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{Error: "invalid request"})
		return
	}
	u.ID = id
	updated, err := h.users.Update(c.Request.Context(), &u)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	u, err := h.users.FindByID(c.Request.Context(), id)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// List returns all users, optionally filtered by email or role name.
func (h *UserHandler) List(c *gin.Context) {
	if email := c.Query("email"); email != "" {
		u, err := h.users.FindByEmail(c.Request.Context(), email)
		if err != nil {
			httperr.Write(c, err)
			return
		}
		c.JSON(http.StatusOK, []*entity.User{u})
		return
	}
	if role := c.Query("role"); role != "" {
		out, err := h.users.FindAllByRoleName(c.Request.Context(), role)
		if err != nil {
			httperr.Write(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
		return
	}
	out, err := h.users.FindAll(c.Request.Context())
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// AssignRole replaces the user's role.
func (h *UserHandler) AssignRole(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{Error: "invalid request"})
		return
	}
	u, err := h.users.AssignRole(c.Request.Context(), id, req.Role)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.users.DeleteByID(c.Request.Context(), id); err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, httperr.MessageResponse{Message: "deleted"})
}
