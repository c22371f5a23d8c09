package handlers

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/bugfree-api/internal/middleware"
	"github.com/yukikurage/bugfree-api/internal/models"
	"github.com/yukikurage/bugfree-api/internal/repository"
	"github.com/yukikurage/bugfree-api/internal/services"
)

//go:embed templates/*.html
var templateFS embed.FS

// BoardColumn is one status lane on the dashboard.
type BoardColumn struct {
	Status  string
	Label   string
	Tickets []models.Ticket
}

// boardStatuses are the lanes shown by default. Status is free text, so
// tickets with any other status get a lane of their own.
var boardStatuses = []struct{ Status, Label string }{
	{"todo", "To Do"},
	{"inprocess", "In Process"},
	{"inreview", "In Review"},
	{"done", "Done"},
	{"onhold", "On Hold"},
	{"suggestion", "Suggestion"},
}

// Templates parses the server-side page templates.
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
}

// PageHandler renders the HTML pages.
type PageHandler struct {
	ticketService  *services.TicketService
	projectService *services.ProjectService
	authService    *services.AuthService
	logger         *slog.Logger
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(ticketService *services.TicketService, projectService *services.ProjectService, authService *services.AuthService, logger *slog.Logger) *PageHandler {
	return &PageHandler{
		ticketService:  ticketService,
		projectService: projectService,
		authService:    authService,
		logger:         logger,
	}
}

// Dashboard renders the ticket board.
func (h *PageHandler) Dashboard(c *gin.Context) {
	filter := repository.TicketFilter{
		WorkType: c.Query("workType"),
		GameName: c.Query("gameName"),
		Search:   c.Query("search"),
	}

	tickets, err := h.ticketService.ListTickets(filter)
	if err != nil {
		internalError(c, h.logger, err)
		return
	}

	gameNames, err := h.ticketService.ListGameNames()
	if err != nil {
		internalError(c, h.logger, err)
		return
	}

	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"User":      h.currentUser(c),
		"Columns":   groupByStatus(tickets),
		"GameNames": gameNames,
		"Filter":    filter,
	})
}

// CreateProjectPage renders the project form with the existing projects.
func (h *PageHandler) CreateProjectPage(c *gin.Context) {
	projects, err := h.projectService.ListProjects(c.Query("search"), c.Query("game"))
	if err != nil {
		internalError(c, h.logger, err)
		return
	}

	c.HTML(http.StatusOK, "create_project.html", gin.H{
		"User":     h.currentUser(c),
		"Projects": projects,
	})
}

func (h *PageHandler) currentUser(c *gin.Context) *models.User {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return nil
	}
	user, err := h.authService.GetUser(userID)
	if err != nil {
		return nil
	}
	return user
}

func groupByStatus(tickets []models.Ticket) []BoardColumn {
	columns := make([]BoardColumn, 0, len(boardStatuses))
	index := make(map[string]int, len(boardStatuses))
	for _, s := range boardStatuses {
		index[s.Status] = len(columns)
		columns = append(columns, BoardColumn{Status: s.Status, Label: s.Label})
	}

	for _, t := range tickets {
		i, ok := index[t.Status]
		if !ok {
			i = len(columns)
			index[t.Status] = i
			columns = append(columns, BoardColumn{Status: t.Status, Label: t.Status})
		}
		columns[i].Tickets = append(columns[i].Tickets, t)
	}

	extra := columns[len(boardStatuses):]
	sort.SliceStable(extra, func(a, b int) bool { return extra[a].Status < extra[b].Status })

	return columns
}
