package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"memberflow_backend/internal/domain/entity"
	"memberflow_backend/internal/shared/httperr"
)

// StudentUsecase defines the student operations the handler consumes.
type StudentUsecase interface {
	Save(ctx context.Context, s *entity.Student) (*entity.Student, error)
	Update(ctx context.Context, s *entity.Student) (*entity.Student, error)
	FindByID(ctx context.Context, id uint) (*entity.Student, error)
	FindAll(ctx context.Context) ([]*entity.Student, error)
	FindByDNI(ctx context.Context, dni string) (*entity.Student, error)
	AssignMembership(ctx context.Context, studentID, membershipID uint) (*entity.Student, error)
	RemoveMembership(ctx context.Context, studentID uint) (*entity.Student, error)
	RemoveGroupFromStudent(ctx context.Context, studentID, groupID uint) (*entity.Student, error)
	DeleteByID(ctx context.Context, id uint) error
}

// TeacherUsecase defines the teacher operations the handler consumes.
type TeacherUsecase interface {
	Save(ctx context.Context, t *entity.Teacher) (*entity.Teacher, error)
	Update(ctx context.Context, t *entity.Teacher) (*entity.Teacher, error)
	FindByID(ctx context.Context, id uint) (*entity.Teacher, error)
	FindAll(ctx context.Context) ([]*entity.Teacher, error)
	DeleteByID(ctx context.Context, id uint) error
}

// AdminUsecase defines the admin operations the handler consumes.
type AdminUsecase interface {
	Save(ctx context.Context, a *entity.Admin) (*entity.Admin, error)
	FindByID(ctx context.Context, id uint) (*entity.Admin, error)
	FindAll(ctx context.Context) ([]*entity.Admin, error)
	DeleteByID(ctx context.Context, id uint) error
}

// StudentHistoryUsecase defines the history operations the handler consumes.
type StudentHistoryUsecase interface {
	Save(ctx context.Context, h *entity.StudentHistory) (*entity.StudentHistory, error)
	FindAllByStudentID(ctx context.Context, studentID uint) ([]*entity.StudentHistory, error)
	DeleteByID(ctx context.Context, id uint) error
}

// MemberHandler handles the HTTP requests for student, teacher and admin
// profiles and student history.
type MemberHandler struct {
	students StudentUsecase
	teachers TeacherUsecase
	admins   AdminUsecase
	history  StudentHistoryUsecase
}

func NewMemberHandler(students StudentUsecase, teachers TeacherUsecase, admins AdminUsecase, history StudentHistoryUsecase) *MemberHandler {
	return &MemberHandler{students: students, teachers: teachers, admins: admins, history: history}
}

func (h *MemberHandler) CreateStudent(c *gin.Context) {
	var s entity.Student
	if err := c.ShouldBindJSON(&s); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{Error: "invalid request"})
		return
	}
	saved, err := h.students.Save(c.Request.Context(), &s)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (h *MemberHandler) UpdateStudent(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var s entity.Student
	if err := c.ShouldBindJSON(&s); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{Error: "invalid request"})
		return
	}
	s.ID = id
	updated, err := h.students.Update(c.Request.Context(), &s)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *MemberHandler) GetStudent(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	s, err := h.students.FindByID(c.Request.Context(), id)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// ListStudents returns all students, or one by DNI when the query parameter
// is present.
func (h *MemberHandler) ListStudents(c *gin.Context) {
	if dni := c.Query("dni"); dni != "" {
		s, err := h.students.FindByDNI(c.Request.Context(), dni)
		if err != nil {
			httperr.Write(c, err)
			return
		}
		c.JSON(http.StatusOK, []*entity.Student{s})
		return
	}
	out, err := h.students.FindAll(c.Request.Context())
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *MemberHandler) DeleteStudent(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.students.DeleteByID(c.Request.Context(), id); err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, httperr.MessageResponse{Message: "deleted"})
}

func (h *MemberHandler) AssignMembership(c *gin.Context) {
	studentID, ok := parseID(c, "id")
	if !ok {
		return
	}
	membershipID, ok := parseID(c, "membershipId")
	if !ok {
		return
	}
	s, err := h.students.AssignMembership(c.Request.Context(), studentID, membershipID)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *MemberHandler) RemoveMembership(c *gin.Context) {
	studentID, ok := parseID(c, "id")
	if !ok {
		return
	}
	s, err := h.students.RemoveMembership(c.Request.Context(), studentID)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *MemberHandler) RemoveGroup(c *gin.Context) {
	studentID, ok := parseID(c, "id")
	if !ok {
		return
	}
	groupID, ok := parseID(c, "groupId")
	if !ok {
		return
	}
	s, err := h.students.RemoveGroupFromStudent(c.Request.Context(), studentID, groupID)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *MemberHandler) CreateTeacher(c *gin.Context) {
	var t entity.Teacher
	if err := c.ShouldBindJSON(&t); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{Error: "invalid request"})
		return
	}
	saved, err := h.teachers.Save(c.Request.Context(), &t)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (h *MemberHandler) UpdateTeacher(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var t entity.Teacher
	if err := c.ShouldBindJSON(&t); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{Error: "invalid request"})
		return
	}
	t.ID = id
	updated, err := h.teachers.Update(c.Request.Context(), &t)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *MemberHandler) GetTeacher(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	t, err := h.teachers.FindByID(c.Request.Context(), id)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *MemberHandler) ListTeachers(c *gin.Context) {
	out, err := h.teachers.FindAll(c.Request.Context())
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *MemberHandler) DeleteTeacher(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.teachers.DeleteByID(c.Request.Context(), id); err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, httperr.MessageResponse{Message: "deleted"})
}

func (h *MemberHandler) CreateAdmin(c *gin.Context) {
	var a entity.Admin
	if err := c.ShouldBindJSON(&a); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{Error: "invalid request"})
		return
	}
	saved, err := h.admins.Save(c.Request.Context(), &a)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (h *MemberHandler) ListAdmins(c *gin.Context) {
	out, err := h.admins.FindAll(c.Request.Context())
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *MemberHandler) CreateHistory(c *gin.Context) {
	var rec entity.StudentHistory
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{Error: "invalid request"})
		return
	}
	saved, err := h.history.Save(c.Request.Context(), &rec)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (h *MemberHandler) ListHistoryByStudent(c *gin.Context) {
	studentID, ok := parseID(c, "id")
	if !ok {
		return
	}
	out, err := h.history.FindAllByStudentID(c.Request.Context(), studentID)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
