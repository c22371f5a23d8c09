package repository

import (
	"github.com/yukikurage/bugfree-api/internal/constants"
	"github.com/yukikurage/bugfree-api/internal/database"
	"github.com/yukikurage/bugfree-api/internal/models"
	"gorm.io/gorm"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(project *models.Project) error {
	return r.db.Create(project).Error
}

// List lists projects filtered by game name substrings
func (r *GormProjectRepository) List(search, game string) ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.Model(&models.Project{}).
		Scopes(
			database.ContainsFold("game_name", search),
			database.ContainsFold("game_name", game),
		).
		Order("game_name ASC").
		Order("id ASC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// FindByGameName finds the first project with the given game name
func (r *GormProjectRepository) FindByGameName(gameName string) (*models.Project, error) {
	var project models.Project
	if err := r.db.Where("game_name = ?", gameName).Order("id ASC").First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// AddAssignment records a user assignment to a project
func (r *GormProjectRepository) AddAssignment(assignment *models.ProjectAssignment) error {
	return r.db.Create(assignment).Error
}

// ListAssignees lists users with an accepted assignment to the project
func (r *GormProjectRepository) ListAssignees(projectName string) ([]models.User, error) {
	var users []models.User
	if err := r.db.Model(&models.User{}).
		Distinct("users.*").
		Joins("JOIN project_assignments ON project_assignments.user_id = users.id").
		Where("project_assignments.project_name = ? AND project_assignments.status = ?", projectName, constants.AssignmentAccepted).
		Order("users.name ASC").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
