package dto

import (
	"time"

	"github.com/yukikurage/bugfree-api/internal/models"
)

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID        uint64    `json:"id"`
	GameName  string    `json:"gameName"`
	Phase     string    `json:"phase"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"createdAt"`
}

// ProjectAssignmentDTO represents a user's assignment to a project
type ProjectAssignmentDTO struct {
	ID          uint64    `json:"id"`
	UserID      uint64    `json:"userId"`
	ProjectName string    `json:"projectName"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(p models.Project) ProjectDTO {
	return ProjectDTO{
		ID:        p.ID,
		GameName:  p.GameName,
		Phase:     p.Phase,
		Category:  p.Category,
		CreatedAt: p.CreatedAt,
	}
}

// ToProjectDTOs converts projects, never returning nil
func ToProjectDTOs(projects []models.Project) []ProjectDTO {
	dtos := make([]ProjectDTO, 0, len(projects))
	for _, p := range projects {
		dtos = append(dtos, ToProjectDTO(p))
	}
	return dtos
}

// ToProjectAssignmentDTO converts a ProjectAssignment model
func ToProjectAssignmentDTO(a models.ProjectAssignment) ProjectAssignmentDTO {
	return ProjectAssignmentDTO{
		ID:          a.ID,
		UserID:      a.UserID,
		ProjectName: a.ProjectName,
		Status:      a.Status,
		CreatedAt:   a.CreatedAt,
	}
}
