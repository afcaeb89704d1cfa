package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"memberflow_backend/internal/domain/entity"
	"memberflow_backend/internal/shared/httperr"
)

// RoleUsecase defines the role operations the handler consumes.
type RoleUsecase interface {
	Save(ctx context.Context, r *entity.Role) (*entity.Role, error)
	Update(ctx context.Context, r *entity.Role) (*entity.Role, error)
	FindByID(ctx context.Context, id uint) (*entity.Role, error)
	FindAll(ctx context.Context) ([]*entity.Role, error)
	DeleteByID(ctx context.Context, id uint) error
	AddPermissionToRole(ctx context.Context, roleID, permissionID uint) (*entity.Role, error)
	RemovePermissionFromRole(ctx context.Context, roleID, permissionID uint) (*entity.Role, error)
}

// PermissionUsecase defines the permission operations the handler consumes.
type PermissionUsecase interface {
	Save(ctx context.Context, p *entity.Permission) (*entity.Permission, error)
	FindByID(ctx context.Context, id uint) (*entity.Permission, error)
	FindAll(ctx context.Context) ([]*entity.Permission, error)
	DeleteByID(ctx context.Context, id uint) error
}

// RoleHandler handles the HTTP requests for roles and permissions.
type RoleHandler struct {
	roles       RoleUsecase
	permissions PermissionUsecase
}

func NewRoleHandler(roles RoleUsecase, permissions PermissionUsecase) *RoleHandler {
	return &RoleHandler{roles: roles, permissions: permissions}
}

func (h *RoleHandler) Create(c *gin.Context) {
	var r entity.Role
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{Error: "invalid request"})
		return
	}
	saved, err := h.roles.Save(c.Request.Context(), &r)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (h *RoleHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	r, err := h.roles.FindByID(c.Request.Context(), id)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// Update merges a role by id.
func (h *RoleHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var r entity.Role
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{Error: "invalid request"})
		return
	}
	r.ID = id
	updated, err := h.roles.Update(c.Request.Context(), &r)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *RoleHandler) List(c *gin.Context) {
	out, err := h.roles.FindAll(c.Request.Context())
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *RoleHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.roles.DeleteByID(c.Request.Context(), id); err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, httperr.MessageResponse{Message: "deleted"})
}

// AddPermission links a permission to a role.
func (h *RoleHandler) AddPermission(c *gin.Context) {
	roleID, ok := parseID(c, "id")
	if !ok {
		return
	}
	permissionID, ok := parseID(c, "permissionId")
	if !ok {
		return
	}
	r, err := h.roles.AddPermissionToRole(c.Request.Context(), roleID, permissionID)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// RemovePermission unlinks a permission from a role.
func (h *RoleHandler) RemovePermission(c *gin.Context) {
	roleID, ok := parseID(c, "id")
	if !ok {
		return
	}
	permissionID, ok := parseID(c, "permissionId")
	if !ok {
		return
	}
	r, err := h.roles.RemovePermissionFromRole(c.Request.Context(), roleID, permissionID)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *RoleHandler) CreatePermission(c *gin.Context) {
	var p entity.Permission
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{Error: "invalid request"})
		return
	}
	saved, err := h.permissions.Save(c.Request.Context(), &p)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (h *RoleHandler) ListPermissions(c *gin.Context) {
	out, err := h.permissions.FindAll(c.Request.Context())
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
