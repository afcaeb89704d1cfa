// Package handler provides the HTTP handlers of the classes feature.
package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"memberflow_backend/internal/domain/entity"
	"memberflow_backend/internal/shared/httperr"
)

// MembershipUsecase defines the membership operations the handler consumes.
type MembershipUsecase interface {
	Save(ctx context.Context, m *entity.Membership) (*entity.Membership, error)
	Update(ctx context.Context, m *entity.Membership) (*entity.Membership, error)
	FindByID(ctx context.Context, id uint) (*entity.Membership, error)
	FindAll(ctx context.Context) ([]*entity.Membership, error)
	FindByType(ctx context.Context, t entity.MembershipType) (*entity.Membership, error)
	DeleteByID(ctx context.Context, id uint) error
}

// TrainingGroupUsecase defines the group operations the handler consumes.
type TrainingGroupUsecase interface {
	Save(ctx context.Context, g *entity.TrainingGroup) (*entity.TrainingGroup, error)
	Update(ctx context.Context, g *entity.TrainingGroup) (*entity.TrainingGroup, error)
	FindByID(ctx context.Context, id uint) (*entity.TrainingGroup, error)
	FindAll(ctx context.Context) ([]*entity.TrainingGroup, error)
	FindAllByTeacherID(ctx context.Context, teacherID uint) ([]*entity.TrainingGroup, error)
	AddStudentToGroup(ctx context.Context, groupID, studentID uint) (*entity.TrainingGroup, error)
	RemoveStudentFromGroup(ctx context.Context, groupID, studentID uint) (*entity.TrainingGroup, error)
	DeleteByID(ctx context.Context, id uint) error
}

// TrainingSessionUsecase defines the session operations the handler consumes.
type TrainingSessionUsecase interface {
	Save(ctx context.Context, s *entity.TrainingSession) (*entity.TrainingSession, error)
	Update(ctx context.Context, s *entity.TrainingSession) (*entity.TrainingSession, error)
	FindByID(ctx context.Context, id uint) (*entity.TrainingSession, error)
	FindAllByGroupID(ctx context.Context, groupID uint) ([]*entity.TrainingSession, error)
	GenerateRecurringSessions(ctx context.Context, groupID uint, startDate time.Time, months int) ([]*entity.TrainingSession, error)
	DeleteByID(ctx context.Context, id uint) error
	DeleteAllAssistancesBySession(ctx context.Context, sessionID uint) error
}

// AssistanceUsecase defines the attendance operations the handler consumes.
type AssistanceUsecase interface {
	Save(ctx context.Context, a *entity.Assistance) (*entity.Assistance, error)
	FindAllBySessionID(ctx context.Context, sessionID uint) ([]*entity.Assistance, error)
	DeleteByID(ctx context.Context, id uint) error
}

// ClassHandler handles the HTTP requests for memberships, groups, sessions
// and attendance.
type ClassHandler struct {
	memberships MembershipUsecase
	groups      TrainingGroupUsecase
	sessions    TrainingSessionUsecase
	assistances AssistanceUsecase
}

func NewClassHandler(memberships MembershipUsecase, groups TrainingGroupUsecase, sessions TrainingSessionUsecase, assistances AssistanceUsecase) *ClassHandler {
	return &ClassHandler{memberships: memberships, groups: groups, sessions: sessions, assistances: assistances}
}

func parseID(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{Error: "invalid " + name})
		return 0, false
	}
	return uint(v), true
}

func (h *ClassHandler) CreateMembership(c *gin.Context) {
	var m entity.Membership
	if err := c.ShouldBindJSON(&m); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{Error: "invalid request"})
		return
	}
	saved, err := h.memberships.Save(c.Request.Context(), &m)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// ListMemberships returns all memberships, or one by tier when the query
// parameter is present.
func (h *ClassHandler) ListMemberships(c *gin.Context) {
	if t := c.Query("type"); t != "" {
		m, err := h.memberships.FindByType(c.Request.Context(), entity.MembershipType(t))
		if err != nil {
			httperr.Write(c, err)
			return
		}
		c.JSON(http.StatusOK, []*entity.Membership{m})
		return
	}
	out, err := h.memberships.FindAll(c.Request.Context())
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *ClassHandler) GetMembership(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	m, err := h.memberships.FindByID(c.Request.Context(), id)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// UpdateMembership merges a membership by id.
func (h *ClassHandler) UpdateMembership(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var m entity.Membership
	if err := c.ShouldBindJSON(&m); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{Error: "invalid request"})
		return
	}
	m.ID = id
	updated, err := h.memberships.Update(c.Request.Context(), &m)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *ClassHandler) DeleteMembership(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.memberships.DeleteByID(c.Request.Context(), id); err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, httperr.MessageResponse{Message: "deleted"})
}

func (h *ClassHandler) CreateGroup(c *gin.Context) {
	var g entity.TrainingGroup
	if err := c.ShouldBindJSON(&g); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{Error: "invalid request"})
		return
	}
	saved, err := h.groups.Save(c.Request.Context(), &g)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (h *ClassHandler) GetGroup(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	g, err := h.groups.FindByID(c.Request.Context(), id)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

// ListGroups returns all groups, optionally filtered by teacher.
func (h *ClassHandler) ListGroups(c *gin.Context) {
	if t := c.Query("teacher"); t != "" {
		teacherID, err := strconv.ParseUint(t, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, httperr.ErrorResponse{Error: "invalid teacher"})
			return
		}
		out, err := h.groups.FindAllByTeacherID(c.Request.Context(), uint(teacherID))
		if err != nil {
			httperr.Write(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
		return
	}
	out, err := h.groups.FindAll(c.Request.Context())
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// UpdateGroup merges a group by id.
func (h *ClassHandler) UpdateGroup(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var g entity.TrainingGroup
	if err := c.ShouldBindJSON(&g); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{Error: "invalid request"})
		return
	}
	g.ID = id
	updated, err := h.groups.Update(c.Request.Context(), &g)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *ClassHandler) DeleteGroup(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.groups.DeleteByID(c.Request.Context(), id); err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, httperr.MessageResponse{Message: "deleted"})
}

func (h *ClassHandler) AddStudent(c *gin.Context) {
	groupID, ok := parseID(c, "id")
	if !ok {
		return
	}
	studentID, ok := parseID(c, "studentId")
	if !ok {
		return
	}
	g, err := h.groups.AddStudentToGroup(c.Request.Context(), groupID, studentID)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

func (h *ClassHandler) RemoveStudent(c *gin.Context) {
	groupID, ok := parseID(c, "id")
	if !ok {
		return
	}
	studentID, ok := parseID(c, "studentId")
	if !ok {
		return
	}
	g, err := h.groups.RemoveStudentFromGroup(c.Request.Context(), groupID, studentID)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

func (h *ClassHandler) CreateSession(c *gin.Context) {
	var s entity.TrainingSession
	if err := c.ShouldBindJSON(&s); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{Error: "invalid request"})
		return
	}
	saved, err := h.sessions.Save(c.Request.Context(), &s)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// GenerateSessions schedules a weekly run of sessions for a group.
func (h *ClassHandler) GenerateSessions(c *gin.Context) {
	groupID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req struct {
		StartDate time.Time `json:"start_date" binding:"required"`
		Months    int       `json:"months" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{Error: "invalid request"})
		return
	}
	out, err := h.sessions.GenerateRecurringSessions(c.Request.Context(), groupID, req.StartDate, req.Months)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h *ClassHandler) ListSessionsByGroup(c *gin.Context) {
	groupID, ok := parseID(c, "id")
	if !ok {
		return
	}
	out, err := h.sessions.FindAllByGroupID(c.Request.Context(), groupID)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// UpdateSession merges a session by id.
func (h *ClassHandler) UpdateSession(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var s entity.TrainingSession
	if err := c.ShouldBindJSON(&s); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{Error: "invalid request"})
		return
	}
	s.ID = id
	updated, err := h.sessions.Update(c.Request.Context(), &s)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *ClassHandler) DeleteSession(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.sessions.DeleteByID(c.Request.Context(), id); err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, httperr.MessageResponse{Message: "deleted"})
}

func (h *ClassHandler) ClearSessionAssistances(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.sessions.DeleteAllAssistancesBySession(c.Request.Context(), id); err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, httperr.MessageResponse{Message: "cleared"})
}

func (h *ClassHandler) CreateAssistance(c *gin.Context) {
	var a entity.Assistance
	if err := c.ShouldBindJSON(&a); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{Error: "invalid request"})
		return
	}
	saved, err := h.assistances.Save(c.Request.Context(), &a)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (h *ClassHandler) DeleteAssistance(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.assistances.DeleteByID(c.Request.Context(), id); err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, httperr.MessageResponse{Message: "deleted"})
}

func (h *ClassHandler) ListAssistancesBySession(c *gin.Context) {
	sessionID, ok := parseID(c, "id")
	if !ok {
		return
	}
	out, err := h.assistances.FindAllBySessionID(c.Request.Context(), sessionID)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
