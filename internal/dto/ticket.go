package dto

import (
	"time"

	"github.com/yukikurage/bugfree-api/internal/models"
	"github.com/yukikurage/bugfree-api/internal/services"
)

// AttachmentDTO represents attachment metadata in API responses
type AttachmentDTO struct {
	ID          uint64    `json:"id"`
	TicketID    uint64    `json:"ticketId"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TicketDTO represents a ticket in API responses
type TicketDTO struct {
	ID          uint64          `json:"id"`
	Project     string          `json:"project"`
	WorkType    string          `json:"workType"`
	Status      string          `json:"status"`
	Summary     string          `json:"summary"`
	Description string          `json:"description"`
	AssigneeID  *uint64         `json:"assigneeId"`
	Assignee    *UserDTO        `json:"assignee,omitempty"`
	Team        string          `json:"team"`
	GameName    string          `json:"gameName"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	Attachments []AttachmentDTO `json:"attachments"`
}

// TicketDraftDTO represents an AI generated ticket suggestion
type TicketDraftDTO struct {
	Summary     string `json:"summary"`
	Description string `json:"description"`
	WorkType    string `json:"workType"`
}

// Conversion functions

// ToAttachmentDTO converts an Attachment model to AttachmentDTO
func ToAttachmentDTO(a models.Attachment) AttachmentDTO {
	return AttachmentDTO{
		ID:          a.ID,
		TicketID:    a.TicketID,
		Filename:    a.Filename,
		ContentType: a.ContentType,
		Size:        a.Size,
		CreatedAt:   a.CreatedAt,
	}
}

// ToAttachmentDTOs converts attachments, never returning nil
func ToAttachmentDTOs(attachments []models.Attachment) []AttachmentDTO {
	dtos := make([]AttachmentDTO, 0, len(attachments))
	for _, a := range attachments {
		dtos = append(dtos, ToAttachmentDTO(a))
	}
	return dtos
}

// ToTicketDTO converts a Ticket model to TicketDTO
func ToTicketDTO(ticket models.Ticket) TicketDTO {
	dto := TicketDTO{
		ID:          ticket.ID,
		Project:     ticket.Project,
		WorkType:    ticket.WorkType,
		Status:      ticket.Status,
		Summary:     ticket.Summary,
		Description: ticket.Description,
		AssigneeID:  ticket.AssigneeID,
		Team:        ticket.Team,
		GameName:    ticket.GameName,
		CreatedAt:   ticket.CreatedAt,
		UpdatedAt:   ticket.UpdatedAt,
		Attachments: ToAttachmentDTOs(ticket.Attachments),
	}

	if ticket.Assignee != nil {
		assignee := ToUserDTO(*ticket.Assignee)
		dto.Assignee = &assignee
	}

	return dto
}

// ToTicketDTOs converts tickets, never returning nil
func ToTicketDTOs(tickets []models.Ticket) []TicketDTO {
	dtos := make([]TicketDTO, 0, len(tickets))
	for _, t := range tickets {
		dtos = append(dtos, ToTicketDTO(t))
	}
	return dtos
}

// ToTicketDraftDTOs converts AI drafts
func ToTicketDraftDTOs(drafts []services.TicketDraft) []TicketDraftDTO {
	dtos := make([]TicketDraftDTO, 0, len(drafts))
	for _, d := range drafts {
		dtos = append(dtos, TicketDraftDTO{
			Summary:     d.Summary,
			Description: d.Description,
			WorkType:    d.WorkType,
		})
	}
	return dtos
}
