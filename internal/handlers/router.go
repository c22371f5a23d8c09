package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/bugfree-api/internal/middleware"
)

// Router holds every handler and registers the route table.
type Router struct {
	Auth        *AuthHandler
	Tickets     *TicketHandler
	Attachments *AttachmentHandler
	Projects    *ProjectHandler
	Pages       *PageHandler

	// RateLimit guards auth-sensitive endpoints; nil disables it.
	RateLimit func(endpoint string) gin.HandlerFunc
}

// Register mounts all routes on r. Session middleware must already be
// installed.
func (rt *Router) Register(r *gin.Engine) {
	limit := func(endpoint string) gin.HandlerFunc {
		if rt.RateLimit == nil {
			return func(c *gin.Context) { c.Next() }
		}
		return rt.RateLimit(endpoint)
	}

	r.GET("/health", Health)

	// Public
	r.POST("/register", limit("register"), rt.Auth.Register)
	r.POST("/login", limit("login"), rt.Auth.Login)
	r.POST("/logout", rt.Auth.Logout)
	r.POST("/accept_invite", limit("accept_invite"), rt.Auth.AcceptInvite)

	// Protected
	authed := r.Group("/")
	authed.Use(middleware.RequireAuth())
	{
		if rt.Pages != nil {
			authed.GET("/", rt.Pages.Dashboard)
			authed.GET("/create_project", rt.Pages.CreateProjectPage)
		}

		authed.POST("/submit_ticket", rt.Tickets.SubmitTicket)
		authed.GET("/get_tickets", rt.Tickets.ListTickets)
		authed.GET("/get_ticket/:id", middleware.LoadTicketID(), rt.Tickets.GetTicket)
		authed.POST("/update_ticket/:id", middleware.LoadTicketID(), rt.Tickets.UpdateTicket)
		authed.GET("/get_game_names", rt.Tickets.ListGameNames)
		authed.POST("/api/tickets/generate", rt.Tickets.GenerateTickets)

		authed.POST("/add_attachments/:id", middleware.LoadTicketID(), rt.Attachments.AddAttachments)
		authed.GET("/ticket_attachments/:id", middleware.LoadTicketID(), rt.Attachments.ListAttachments)
		authed.GET("/attachment/:id", middleware.LoadTicketID(), rt.Attachments.Download)
		authed.DELETE("/delete_attachment/:id", middleware.LoadTicketID(), rt.Attachments.Delete)

		authed.GET("/me", rt.Auth.GetCurrentUser)
		authed.GET("/active_users", rt.Auth.ListActiveUsers)
		authed.POST("/invite_user", limit("invite_user"), rt.Auth.InviteUser)

		authed.POST("/create_project", rt.Projects.CreateProject)
		authed.GET("/api/projects", rt.Projects.ListProjects)
		authed.GET("/api/assignees", rt.Projects.ListAssignees)
		authed.POST("/assign_user", rt.Projects.AssignUser)
	}
}
