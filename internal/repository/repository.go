package repository

import (
	"github.com/yukikurage/bugfree-api/internal/models"
)

// TicketRepository defines the interface for ticket data access
type TicketRepository interface {
	// Create inserts a ticket and its attachments in one transaction
	Create(ticket *models.Ticket, attachments []models.Attachment) error

	// FindByID finds a ticket by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Ticket, error)

	// List retrieves tickets matching the filter, newest first, with
	// attachment metadata preloaded
	List(filter TicketFilter) ([]models.Ticket, error)

	// Update saves ticket columns without touching associations
	Update(ticket *models.Ticket) error

	// Exists reports whether a ticket with the given ID exists
	Exists(id uint64) (bool, error)

	// ListGameNames returns the distinct game names known to tickets and projects
	ListGameNames() ([]string, error)
}

// TicketFilter holds filtering options for listing tickets.
// Empty fields are ignored; present fields are combined with AND.
type TicketFilter struct {
	WorkType string
	GameName string
	Search   string
}

// AttachmentRepository defines the interface for attachment data access
type AttachmentRepository interface {
	// CreateMany inserts attachments
	CreateMany(attachments []models.Attachment) error

	// FindByID finds an attachment including its content
	FindByID(id uint64) (*models.Attachment, error)

	// ListByTicket lists attachment metadata for a ticket, without content
	ListByTicket(ticketID uint64) ([]models.Attachment, error)

	// Delete removes an attachment and returns the number of deleted rows
	Delete(id uint64) (int64, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// CreateInvited creates an inactive user and records the invite in one transaction
	CreateInvited(user *models.User, invite *models.Invite) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email, ignoring case
	FindByEmail(email string) (*models.User, error)

	// Activate saves the user as active and accepts their pending project assignments
	Activate(user *models.User) error

	// ListActive lists active users ordered by name
	ListActive() ([]models.User, error)
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project
	Create(project *models.Project) error

	// List lists projects whose game name contains search and game, ignoring case
	List(search, game string) ([]models.Project, error)

	// FindByGameName finds the first project with the given game name
	FindByGameName(gameName string) (*models.Project, error)

	// AddAssignment records a user assignment to a project
	AddAssignment(assignment *models.ProjectAssignment) error

	// ListAssignees lists users with an accepted assignment to the project
	ListAssignees(projectName string) ([]models.User, error)
}
