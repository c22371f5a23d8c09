package services

import (
	"errors"
	"fmt"

	"github.com/yukikurage/bugfree-api/internal/models"
	"github.com/yukikurage/bugfree-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrAttachmentNotFound = errors.New("attachment not found")
	ErrNoFiles            = errors.New("at least one file is required")
)

// AttachmentService handles ticket attachment business logic.
type AttachmentService struct {
	ticketRepo     repository.TicketRepository
	attachmentRepo repository.AttachmentRepository
}

// NewAttachmentService creates a new AttachmentService.
func NewAttachmentService(ticketRepo repository.TicketRepository, attachmentRepo repository.AttachmentRepository) *AttachmentService {
	return &AttachmentService{
		ticketRepo:     ticketRepo,
		attachmentRepo: attachmentRepo,
	}
}

// AddAttachments stores files against an existing ticket.
func (s *AttachmentService) AddAttachments(ticketID uint64, files []FileUpload) ([]models.Attachment, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	if err := checkFilenames(files); err != nil {
		return nil, err
	}

	if err := s.ensureTicket(ticketID); err != nil {
		return nil, err
	}

	attachments := toAttachments(ticketID, files)
	if err := s.attachmentRepo.CreateMany(attachments); err != nil {
		return nil, fmt.Errorf("failed to store attachments: %w", err)
	}

	return attachments, nil
}

// ListAttachments lists attachment metadata for a ticket.
func (s *AttachmentService) ListAttachments(ticketID uint64) ([]models.Attachment, error) {
	if err := s.ensureTicket(ticketID); err != nil {
		return nil, err
	}

	attachments, err := s.attachmentRepo.ListByTicket(ticketID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}
	return attachments, nil
}

// GetAttachment retrieves an attachment including its content.
func (s *AttachmentService) GetAttachment(id uint64) (*models.Attachment, error) {
	attachment, err := s.attachmentRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttachmentNotFound
		}
		return nil, fmt.Errorf("failed to find attachment: %w", err)
	}
	return attachment, nil
}

// DeleteAttachment removes an attachment.
func (s *AttachmentService) DeleteAttachment(id uint64) error {
	deleted, err := s.attachmentRepo.Delete(id)
	if err != nil {
		return fmt.Errorf("failed to delete attachment: %w", err)
	}
	if deleted == 0 {
		return ErrAttachmentNotFound
	}
	return nil
}

func (s *AttachmentService) ensureTicket(ticketID uint64) error {
	exists, err := s.ticketRepo.Exists(ticketID)
	if err != nil {
		return fmt.Errorf("failed to check ticket: %w", err)
	}
	if !exists {
		return ErrTicketNotFound
	}
	return nil
}
