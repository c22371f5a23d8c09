package repository

import (
	"sort"

	"github.com/yukikurage/bugfree-api/internal/database"
	"github.com/yukikurage/bugfree-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// attachmentMetadataColumns are loaded when listing attachments; content is
// only read on download.
var attachmentMetadataColumns = []string{"id", "ticket_id", "filename", "content_type", "size", "created_at"}

// GormTicketRepository is a GORM implementation of TicketRepository
type GormTicketRepository struct {
	db *gorm.DB
}

// NewTicketRepository creates a new TicketRepository
func NewTicketRepository(db *gorm.DB) TicketRepository {
	return &GormTicketRepository{db: db}
}

// Create inserts a ticket and its attachments in one transaction
func (r *GormTicketRepository) Create(ticket *models.Ticket, attachments []models.Attachment) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(ticket).Error; err != nil {
			return err
		}

		if len(attachments) == 0 {
			return nil
		}

		for i := range attachments {
			attachments[i].TicketID = ticket.ID
		}
		if err := tx.Create(&attachments).Error; err != nil {
			return err
		}

		ticket.Attachments = attachments
		return nil
	})
}

// FindByID finds a ticket by ID with optional preloading.
// Attachments are always preloaded without their content.
func (r *GormTicketRepository) FindByID(id uint64, preload ...string) (*models.Ticket, error) {
	var ticket models.Ticket
	query := r.db.Preload("Attachments", withoutAttachmentData)

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&ticket, id).Error; err != nil {
		return nil, err
	}

	return &ticket, nil
}

// List retrieves tickets matching the filter
func (r *GormTicketRepository) List(filter TicketFilter) ([]models.Ticket, error) {
	var tickets []models.Ticket

	err := r.db.Model(&models.Ticket{}).
		Scopes(
			database.WorkType(filter.WorkType),
			database.GameName(filter.GameName),
			database.SearchText(filter.Search),
		).
		Preload("Attachments", withoutAttachmentData).
		Order("tickets.created_at DESC").
		Order("tickets.id DESC").
		Find(&tickets).Error
	if err != nil {
		return nil, err
	}

	return tickets, nil
}

// Update saves ticket columns without touching associations
func (r *GormTicketRepository) Update(ticket *models.Ticket) error {
	return r.db.Omit(clause.Associations).Save(ticket).Error
}

// Exists reports whether a ticket with the given ID exists
func (r *GormTicketRepository) Exists(id uint64) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Ticket{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListGameNames returns the distinct, sorted game names of projects and tickets
func (r *GormTicketRepository) ListGameNames() ([]string, error) {
	var fromProjects, fromTickets []string

	if err := r.db.Model(&models.Project{}).Distinct().Where("game_name <> ''").Pluck("game_name", &fromProjects).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.Ticket{}).Distinct().Where("game_name <> ''").Pluck("game_name", &fromTickets).Error; err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(fromProjects)+len(fromTickets))
	names := make([]string, 0, len(fromProjects)+len(fromTickets))
	for _, name := range append(fromProjects, fromTickets...) {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	sort.Strings(names)

	return names, nil
}

func withoutAttachmentData(db *gorm.DB) *gorm.DB {
	return db.Select(attachmentMetadataColumns).Order("id ASC")
}
