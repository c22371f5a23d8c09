package repository

import (
	"github.com/yukikurage/bugfree-api/internal/models"
	"gorm.io/gorm"
)

// GormAttachmentRepository is a GORM implementation of AttachmentRepository
type GormAttachmentRepository struct {
	db *gorm.DB
}

// NewAttachmentRepository creates a new AttachmentRepository
func NewAttachmentRepository(db *gorm.DB) AttachmentRepository {
	return &GormAttachmentRepository{db: db}
}

// CreateMany inserts attachments
func (r *GormAttachmentRepository) CreateMany(attachments []models.Attachment) error {
	if len(attachments) == 0 {
		return nil
	}
	return r.db.Create(&attachments).Error
}

// FindByID finds an attachment including its content
func (r *GormAttachmentRepository) FindByID(id uint64) (*models.Attachment, error) {
	var attachment models.Attachment
	if err := r.db.First(&attachment, id).Error; err != nil {
		return nil, err
	}
	return &attachment, nil
}

// ListByTicket lists attachment metadata for a ticket
func (r *GormAttachmentRepository) ListByTicket(ticketID uint64) ([]models.Attachment, error) {
	var attachments []models.Attachment
	if err := withoutAttachmentData(r.db).
		Where("ticket_id = ?", ticketID).
		Order("id ASC").
		Find(&attachments).Error; err != nil {
		return nil, err
	}
	return attachments, nil
}

// Delete removes an attachment
func (r *GormAttachmentRepository) Delete(id uint64) (int64, error) {
	result := r.db.Delete(&models.Attachment{}, id)
	return result.RowsAffected, result.Error
}
