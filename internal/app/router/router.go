// Package router assembles the gin engine and mounts every feature's routes.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	authhandler "memberflow_backend/internal/feature/auth/transport/handler"
	classhandler "memberflow_backend/internal/feature/classes/transport/handler"
	financehandler "memberflow_backend/internal/feature/finance/transport/handler"
	usershandler "memberflow_backend/internal/feature/users/transport/handler"
	jwtmw "memberflow_backend/internal/platform/jwt"
)

// Handlers bundles every feature handler the router mounts.
type Handlers struct {
	Auth          *authhandler.AuthHandler
	Users         *usershandler.UserHandler
	Roles         *usershandler.RoleHandler
	Members       *usershandler.MemberHandler
	Notifications *usershandler.NotificationHandler
	Classes       *classhandler.ClassHandler
	Finance       *financehandler.FinanceHandler
	Catalog       *financehandler.CatalogHandler
}

// NewRouter builds the gin engine. Login and refresh are open; everything
// else requires a valid bearer token.
func NewRouter(h Handlers) *gin.Engine {
	r := gin.Default()

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/login", h.Auth.Login)
	r.POST("/refresh", h.Auth.Refresh)
	r.POST("/logout", h.Auth.Logout)

	auth := r.Group("/")
	auth.Use(jwtmw.AuthRequired())
	{
		auth.POST("/users", h.Users.Create)
		auth.GET("/users", h.Users.List)
		auth.GET("/users/:id", h.Users.Get)
		auth.PUT("/users/:id", h.Users.Update)
		auth.DELETE("/users/:id", h.Users.Delete)
		auth.PUT("/users/:id/role", h.Users.AssignRole)
		auth.GET("/users/:id/notifications", h.Notifications.ListByUser)

		auth.POST("/roles", h.Roles.Create)
		auth.GET("/roles", h.Roles.List)
		auth.GET("/roles/:id", h.Roles.Get)
		auth.PUT("/roles/:id", h.Roles.Update)
		auth.DELETE("/roles/:id", h.Roles.Delete)
		auth.POST("/roles/:id/permissions/:permissionId", h.Roles.AddPermission)
		auth.DELETE("/roles/:id/permissions/:permissionId", h.Roles.RemovePermission)
		auth.POST("/permissions", h.Roles.CreatePermission)
		auth.GET("/permissions", h.Roles.ListPermissions)

		auth.POST("/students", h.Members.CreateStudent)
		auth.GET("/students", h.Members.ListStudents)
		auth.GET("/students/:id", h.Members.GetStudent)
		auth.PUT("/students/:id", h.Members.UpdateStudent)
		auth.DELETE("/students/:id", h.Members.DeleteStudent)
		auth.PUT("/students/:id/membership/:membershipId", h.Members.AssignMembership)
		auth.DELETE("/students/:id/membership", h.Members.RemoveMembership)
		auth.DELETE("/students/:id/groups/:groupId", h.Members.RemoveGroup)
		auth.GET("/students/:id/history", h.Members.ListHistoryByStudent)

		auth.POST("/teachers", h.Members.CreateTeacher)
		auth.GET("/teachers", h.Members.ListTeachers)
		auth.GET("/teachers/:id", h.Members.GetTeacher)
		auth.PUT("/teachers/:id", h.Members.UpdateTeacher)
		auth.DELETE("/teachers/:id", h.Members.DeleteTeacher)
		auth.POST("/admins", h.Members.CreateAdmin)
		auth.GET("/admins", h.Members.ListAdmins)
		auth.POST("/history", h.Members.CreateHistory)

		auth.POST("/notifications", h.Notifications.Create)
		auth.GET("/notifications", h.Notifications.List)
		auth.GET("/notifications/:id", h.Notifications.Get)
		auth.PUT("/notifications/:id", h.Notifications.Update)
		auth.DELETE("/notifications/:id", h.Notifications.Delete)
		auth.POST("/notifications/:id/users/:userId", h.Notifications.AddToUser)
		auth.DELETE("/notifications/:id/users/:userId", h.Notifications.RemoveFromUser)

		auth.POST("/memberships", h.Classes.CreateMembership)
		auth.GET("/memberships", h.Classes.ListMemberships)
		auth.GET("/memberships/:id", h.Classes.GetMembership)
		auth.PUT("/memberships/:id", h.Classes.UpdateMembership)
		auth.DELETE("/memberships/:id", h.Classes.DeleteMembership)

		auth.POST("/groups", h.Classes.CreateGroup)
		auth.GET("/groups", h.Classes.ListGroups)
		auth.GET("/groups/:id", h.Classes.GetGroup)
		auth.PUT("/groups/:id", h.Classes.UpdateGroup)
		auth.DELETE("/groups/:id", h.Classes.DeleteGroup)
		auth.POST("/groups/:id/students/:studentId", h.Classes.AddStudent)
		auth.DELETE("/groups/:id/students/:studentId", h.Classes.RemoveStudent)
		auth.GET("/groups/:id/sessions", h.Classes.ListSessionsByGroup)
		auth.POST("/groups/:id/sessions/generate", h.Classes.GenerateSessions)

		auth.POST("/sessions", h.Classes.CreateSession)
		auth.PUT("/sessions/:id", h.Classes.UpdateSession)
		auth.DELETE("/sessions/:id", h.Classes.DeleteSession)
		auth.GET("/sessions/:id/assistances", h.Classes.ListAssistancesBySession)
		auth.DELETE("/sessions/:id/assistances", h.Classes.ClearSessionAssistances)
		auth.POST("/assistances", h.Classes.CreateAssistance)
		auth.DELETE("/assistances/:id", h.Classes.DeleteAssistance)

		auth.POST("/invoices", h.Finance.CreateInvoice)
		auth.GET("/invoices", h.Finance.ListInvoices)
		auth.GET("/invoices/:id", h.Finance.GetInvoice)
		auth.PUT("/invoices/:id", h.Finance.UpdateInvoice)
		auth.DELETE("/invoices/:id", h.Finance.DeleteInvoice)
		auth.POST("/invoices/:id/lines", h.Finance.AddLine)
		auth.DELETE("/invoices/:id/lines/:lineId", h.Finance.RemoveLine)
		auth.DELETE("/invoices/:id/lines", h.Finance.ClearLines)
		auth.POST("/invoices/:id/recalculate", h.Finance.Recalculate)
		auth.GET("/invoices/:id/lines", h.Finance.ListLines)
		auth.PUT("/lines/:id", h.Finance.UpdateLine)
		auth.DELETE("/lines/:id", h.Finance.DeleteLine)

		auth.POST("/payments", h.Finance.CreatePayment)
		auth.GET("/payments", h.Finance.ListPayments)
		auth.GET("/payments/:id", h.Finance.GetPayment)
		auth.PUT("/payments/:id", h.Finance.UpdatePayment)
		auth.DELETE("/payments/:id", h.Finance.DeletePayment)

		auth.POST("/products", h.Catalog.CreateProduct)
		auth.GET("/products", h.Catalog.ListProducts)
		auth.GET("/products/:id", h.Catalog.GetProduct)
		auth.PUT("/products/:id", h.Catalog.UpdateProduct)
		auth.DELETE("/products/:id", h.Catalog.DeleteProduct)
		auth.POST("/iva-types", h.Catalog.CreateIVAType)
		auth.GET("/iva-types", h.Catalog.ListIVATypes)
		auth.PUT("/iva-types/:id", h.Catalog.UpdateIVAType)
		auth.DELETE("/iva-types/:id", h.Catalog.DeleteIVAType)
	}

	return r
}
