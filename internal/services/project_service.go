package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/bugfree-api/internal/constants"
	"github.com/yukikurage/bugfree-api/internal/models"
	"github.com/yukikurage/bugfree-api/internal/repository"
	"gorm.io/gorm"
)

var ErrProjectNameRequired = errors.New("project name is required")

// ProjectService handles projects and their assignees.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	notifier    Notifier
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, userRepo repository.UserRepository, notifier Notifier) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
		notifier:    notifier,
	}
}

// CreateProjectInput describes a new project.
type CreateProjectInput struct {
	GameName   string
	Phase      string
	Categories []string
}

// CreateProject creates a project. Categories are stored comma separated.
func (s *ProjectService) CreateProject(input CreateProjectInput) (*models.Project, error) {
	gameName := strings.TrimSpace(input.GameName)
	if gameName == "" {
		return nil, ErrGameNameRequired
	}

	categories := make([]string, 0, len(input.Categories))
	for _, c := range input.Categories {
		if c = strings.TrimSpace(c); c != "" {
			categories = append(categories, c)
		}
	}

	project := &models.Project{
		GameName: gameName,
		Phase:    strings.TrimSpace(input.Phase),
		Category: strings.Join(categories, ", "),
	}
	if err := checkLengths(
		fieldLimit{"game_name", project.GameName, constants.MaxNameLength},
		fieldLimit{"phase", project.Phase, constants.MaxPhaseLength},
		fieldLimit{"category", project.Category, constants.MaxCategoryLength},
	); err != nil {
		return nil, err
	}

	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

// ListProjects lists projects filtered by game name substrings.
func (s *ProjectService) ListProjects(search, game string) ([]models.Project, error) {
	projects, err := s.projectRepo.List(strings.TrimSpace(search), strings.TrimSpace(game))
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// AssignUser records that a user works on a project and emails them.
// Active users are accepted immediately; invited users stay pending until
// they accept their invite.
func (s *ProjectService) AssignUser(userID uint64, projectName string) (*models.ProjectAssignment, error) {
	projectName = strings.TrimSpace(projectName)
	if projectName == "" {
		return nil, ErrProjectNameRequired
	}
	if err := checkLengths(fieldLimit{"project_name", projectName, constants.MaxNameLength}); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	status := constants.AssignmentPending
	if user.IsActive {
		status = constants.AssignmentAccepted
	}

	assignment := &models.ProjectAssignment{
		UserID:      user.ID,
		ProjectName: projectName,
		Status:      status,
	}
	if err := s.projectRepo.AddAssignment(assignment); err != nil {
		return nil, fmt.Errorf("failed to assign user: %w", err)
	}

	// Phase and category only enrich the email; a missing project is fine.
	project, err := s.projectRepo.FindByGameName(projectName)
	if err != nil {
		project = nil
	}
	s.notifier.ProjectAssigned(user, projectName, project)

	return assignment, nil
}

// ListAssignees lists users accepted on a project.
func (s *ProjectService) ListAssignees(projectName string) ([]models.User, error) {
	projectName = strings.TrimSpace(projectName)
	if projectName == "" {
		return nil, ErrProjectNameRequired
	}

	users, err := s.projectRepo.ListAssignees(projectName)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignees: %w", err)
	}
	return users, nil
}
