package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/bugfree-api/internal/constants"
	"github.com/yukikurage/bugfree-api/internal/models"
	"github.com/yukikurage/bugfree-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTicketNotFound         = errors.New("ticket not found")
	ErrTicketContentRequired  = errors.New("summary or description is required")
	ErrGameNameRequired       = errors.New("game name is required")
	ErrAssigneeNotFound       = errors.New("assignee does not exist")
	ErrReportTextRequired     = errors.New("report text is required")
	ErrAIServiceNotConfigured = errors.New("AI service not configured")
	ErrAINoTicketsGenerated   = errors.New("no tickets generated")
)

// TicketService handles ticket related business logic.
type TicketService struct {
	ticketRepo repository.TicketRepository
	userRepo   repository.UserRepository
	notifier   Notifier
	aiService  *AIService
}

// NewTicketService creates a new TicketService. aiService may be nil.
func NewTicketService(ticketRepo repository.TicketRepository, userRepo repository.UserRepository, notifier Notifier, aiService *AIService) *TicketService {
	return &TicketService{
		ticketRepo: ticketRepo,
		userRepo:   userRepo,
		notifier:   notifier,
		aiService:  aiService,
	}
}

// CreateTicketInput describes a new ticket.
type CreateTicketInput struct {
	Project     string
	WorkType    string
	Status      string
	Summary     string
	Description string
	AssigneeID  *uint64
	Team        string
	GameName    string
}

// CreateTicket stores a ticket together with its uploaded files.
func (s *TicketService) CreateTicket(input CreateTicketInput, files []FileUpload) (*models.Ticket, error) {
	summary := strings.TrimSpace(input.Summary)
	description := strings.TrimSpace(input.Description)
	if summary == "" && description == "" {
		return nil, ErrTicketContentRequired
	}

	gameName := strings.TrimSpace(input.GameName)
	if gameName == "" {
		return nil, ErrGameNameRequired
	}

	status := strings.TrimSpace(input.Status)
	if status == "" {
		status = constants.DefaultTicketStatus
	}

	if input.AssigneeID != nil {
		if _, err := s.findAssignee(*input.AssigneeID); err != nil {
			return nil, err
		}
	}

	ticket := &models.Ticket{
		Project:     strings.TrimSpace(input.Project),
		WorkType:    strings.TrimSpace(input.WorkType),
		Status:      status,
		Summary:     summary,
		Description: description,
		AssigneeID:  input.AssigneeID,
		Team:        strings.TrimSpace(input.Team),
		GameName:    gameName,
	}
	if err := validateTicketFields(ticket); err != nil {
		return nil, err
	}
	if err := checkFilenames(files); err != nil {
		return nil, err
	}

	if err := s.ticketRepo.Create(ticket, toAttachments(0, files)); err != nil {
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}

	if ticket.Attachments == nil {
		ticket.Attachments = []models.Attachment{}
	}
	return ticket, nil
}

// ListTickets retrieves tickets matching the filter.
func (s *TicketService) ListTickets(filter repository.TicketFilter) ([]models.Ticket, error) {
	filter.WorkType = strings.TrimSpace(filter.WorkType)
	filter.GameName = strings.TrimSpace(filter.GameName)
	filter.Search = strings.TrimSpace(filter.Search)

	tickets, err := s.ticketRepo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	return tickets, nil
}

// GetTicket retrieves a ticket with its assignee and attachments.
func (s *TicketService) GetTicket(id uint64) (*models.Ticket, error) {
	ticket, err := s.ticketRepo.FindByID(id, "Assignee")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to find ticket: %w", err)
	}
	return ticket, nil
}

// UpdateTicketInput is a partial update. Nil fields are left unchanged.
type UpdateTicketInput struct {
	Project     *string
	WorkType    *string
	Status      *string
	Summary     *string
	Description *string
	Team        *string
	GameName    *string

	// AssigneeID sets the assignee; ClearAssignee removes it.
	AssigneeID    *uint64
	ClearAssignee bool
}

// UpdateTicket applies the patch and notifies the assignee when the
// assignee or the status changed.
func (s *TicketService) UpdateTicket(id uint64, input UpdateTicketInput) (*models.Ticket, error) {
	ticket, err := s.GetTicket(id)
	if err != nil {
		return nil, err
	}

	previousStatus := ticket.Status
	previousAssignee := ticket.AssigneeID

	setTrimmed(&ticket.Project, input.Project)
	setTrimmed(&ticket.WorkType, input.WorkType)
	setTrimmed(&ticket.Summary, input.Summary)
	setTrimmed(&ticket.Description, input.Description)
	setTrimmed(&ticket.Team, input.Team)
	setTrimmed(&ticket.GameName, input.GameName)
	if input.Status != nil {
		if status := strings.TrimSpace(*input.Status); status != "" {
			ticket.Status = status
		}
	}

	if err := validateTicketFields(ticket); err != nil {
		return nil, err
	}

	var assignee *models.User
	switch {
	case input.ClearAssignee:
		ticket.AssigneeID = nil
		ticket.Assignee = nil
	case input.AssigneeID != nil:
		assignee, err = s.findAssignee(*input.AssigneeID)
		if err != nil {
			return nil, err
		}
		ticket.AssigneeID = &assignee.ID
		ticket.Assignee = assignee
	}

	if err := s.ticketRepo.Update(ticket); err != nil {
		return nil, fmt.Errorf("failed to update ticket: %w", err)
	}

	assigneeChanged := !sameAssignee(previousAssignee, ticket.AssigneeID)
	statusChanged := previousStatus != ticket.Status
	if (assigneeChanged || statusChanged) && ticket.AssigneeID != nil {
		if assignee == nil {
			assignee = ticket.Assignee
		}
		if assignee == nil {
			assignee, _ = s.userRepo.FindByID(*ticket.AssigneeID)
		}
		if assignee != nil {
			s.notifier.TicketUpdated(ticket, assignee)
		}
	}

	return ticket, nil
}

// ListGameNames returns every game name known to projects or tickets.
func (s *TicketService) ListGameNames() ([]string, error) {
	names, err := s.ticketRepo.ListGameNames()
	if err != nil {
		return nil, fmt.Errorf("failed to list game names: %w", err)
	}
	return names, nil
}

// GenerateTicketDrafts asks the AI service to split a bug report into
// ticket drafts. Drafts are returned to the caller and not stored.
func (s *TicketService) GenerateTicketDrafts(ctx context.Context, text string) ([]TicketDraft, error) {
	if s.aiService == nil {
		return nil, ErrAIServiceNotConfigured
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrReportTextRequired
	}

	drafts, err := s.aiService.DraftTicketsFromText(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tickets: %w", err)
	}

	valid := make([]TicketDraft, 0, len(drafts))
	for _, d := range drafts {
		d.Summary = strings.TrimSpace(d.Summary)
		if d.Summary == "" {
			continue
		}
		valid = append(valid, d)
		if len(valid) == constants.MaxAIGeneratedTickets {
			break
		}
	}

	if len(valid) == 0 {
		return nil, ErrAINoTicketsGenerated
	}
	return valid, nil
}

func (s *TicketService) findAssignee(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssigneeNotFound
		}
		return nil, fmt.Errorf("failed to find assignee: %w", err)
	}
	return user, nil
}

func validateTicketFields(t *models.Ticket) error {
	return checkLengths(
		fieldLimit{"project", t.Project, constants.MaxNameLength},
		fieldLimit{"workType", t.WorkType, constants.MaxWorkTypeLength},
		fieldLimit{"status", t.Status, constants.MaxStatusLength},
		fieldLimit{"summary", t.Summary, constants.MaxSummaryLength},
		fieldLimit{"team", t.Team, constants.MaxNameLength},
		fieldLimit{"gameName", t.GameName, constants.MaxNameLength},
	)
}

func setTrimmed(dst *string, value *string) {
	if value != nil {
		*dst = strings.TrimSpace(*value)
	}
}

func sameAssignee(a, b *uint64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
