package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/bugfree-api/internal/dto"
	apierrors "github.com/yukikurage/bugfree-api/internal/errors"
	"github.com/yukikurage/bugfree-api/internal/services"
)

// ProjectHandler serves project and assignment endpoints.
type ProjectHandler struct {
	projectService *services.ProjectService
	logger         *slog.Logger
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService, logger *slog.Logger) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		logger:         logger,
	}
}

// CreateProject creates a project from the project form or JSON.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	type CreateProjectRequest struct {
		GameName      string   `json:"game_name" form:"game_name"`
		GameNameAlias string   `json:"gameName" form:"gameName"`
		Phase         string   `json:"phase" form:"phase"`
		Categories    []string `json:"categories" form:"category"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBind(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	gameName := req.GameName
	if gameName == "" {
		gameName = req.GameNameAlias
	}

	project, err := h.projectService.CreateProject(services.CreateProjectInput{
		GameName:   gameName,
		Phase:      req.Phase,
		Categories: req.Categories,
	})
	if err != nil {
		h.respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"project": dto.ToProjectDTO(*project),
	})
}

// ListProjects lists projects filtered by ?search= and ?game=.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	projects, err := h.projectService.ListProjects(c.Query("search"), c.Query("game"))
	if err != nil {
		h.respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTOs(projects))
}

// ListAssignees lists the users accepted on ?project=.
func (h *ProjectHandler) ListAssignees(c *gin.Context) {
	users, err := h.projectService.ListAssignees(c.Query("project"))
	if err != nil {
		h.respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTOs(users))
}

// AssignUser adds a user to a project.
func (h *ProjectHandler) AssignUser(c *gin.Context) {
	type AssignUserRequest struct {
		UserID      uint64 `json:"user_id" form:"user_id" binding:"required"`
		ProjectName string `json:"project_name" form:"project_name" binding:"required"`
	}

	var req AssignUserRequest
	if err := c.ShouldBind(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	assignment, err := h.projectService.AssignUser(req.UserID, req.ProjectName)
	if err != nil {
		h.respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"assignment": dto.ToProjectAssignmentDTO(*assignment),
	})
}

func (h *ProjectHandler) respondProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrGameNameRequired),
		errors.Is(err, services.ErrProjectNameRequired),
		errors.Is(err, services.ErrFieldTooLong):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		internalError(c, h.logger, err)
	}
}
