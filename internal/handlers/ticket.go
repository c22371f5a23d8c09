package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/bugfree-api/internal/dto"
	apierrors "github.com/yukikurage/bugfree-api/internal/errors"
	"github.com/yukikurage/bugfree-api/internal/middleware"
	"github.com/yukikurage/bugfree-api/internal/repository"
	"github.com/yukikurage/bugfree-api/internal/services"
)

var errInvalidAssignee = errors.New("assignee must be a user ID")

// TicketHandler serves ticket endpoints.
type TicketHandler struct {
	ticketService     *services.TicketService
	attachmentService *services.AttachmentService
	logger            *slog.Logger
	uploadLimits      UploadLimits
}

// NewTicketHandler creates a new TicketHandler.
func NewTicketHandler(ticketService *services.TicketService, attachmentService *services.AttachmentService, logger *slog.Logger, uploadLimits UploadLimits) *TicketHandler {
	return &TicketHandler{
		ticketService:     ticketService,
		attachmentService: attachmentService,
		logger:            logger,
		uploadLimits:      uploadLimits,
	}
}

// SubmitTicket creates a ticket from a form post. Every file part is
// stored as an attachment.
func (h *TicketHandler) SubmitTicket(c *gin.Context) {
	// Uploads are read first so the body size limit applies before any
	// form parsing.
	files, err := readUploads(c, h.uploadLimits)
	if err != nil {
		respondUploadError(c, h.logger, err)
		return
	}

	assigneeID, _, err := parseAssignee(formValue(c, "assignee", "assigneeId"))
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	ticket, err := h.ticketService.CreateTicket(services.CreateTicketInput{
		Project:     formValue(c, "project"),
		WorkType:    formValue(c, "workType", "work_type"),
		Status:      formValue(c, "status"),
		Summary:     formValue(c, "summary"),
		Description: formValue(c, "description"),
		AssigneeID:  assigneeID,
		Team:        formValue(c, "team"),
		GameName:    formValue(c, "gameName", "game_name"),
	}, files)
	if err != nil {
		h.respondTicketError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"ticket":  dto.ToTicketDTO(*ticket),
	})
}

// ListTickets returns tickets filtered by work type, game and search text.
func (h *TicketHandler) ListTickets(c *gin.Context) {
	tickets, err := h.ticketService.ListTickets(repository.TicketFilter{
		WorkType: c.Query("workType"),
		GameName: c.Query("gameName"),
		Search:   c.Query("search"),
	})
	if err != nil {
		h.respondTicketError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTicketDTOs(tickets))
}

// GetTicket returns a single ticket.
func (h *TicketHandler) GetTicket(c *gin.Context) {
	id, _ := middleware.GetPathID(c)

	ticket, err := h.ticketService.GetTicket(id)
	if err != nil {
		h.respondTicketError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTicketDTO(*ticket))
}

type updateTicketRequest struct {
	Project       *string         `json:"project"`
	WorkType      *string         `json:"work_type"`
	WorkTypeAlias *string         `json:"workType"`
	Status        *string         `json:"status"`
	Summary       *string         `json:"summary"`
	Description   *string         `json:"description"`
	Team          *string         `json:"team"`
	GameName      *string         `json:"game_name"`
	GameNameAlias *string         `json:"gameName"`
	Assignee      json.RawMessage `json:"assignee"`
	AssigneeAlias json.RawMessage `json:"assigneeId"`
}

// UpdateTicket patches a ticket from JSON, or appends attachments when
// the body is multipart.
func (h *TicketHandler) UpdateTicket(c *gin.Context) {
	id, _ := middleware.GetPathID(c)

	if isMultipart(c) {
		h.appendAttachments(c, id)
		return
	}

	var req updateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateTicketInput{
		Project:     req.Project,
		WorkType:    firstNonNil(req.WorkType, req.WorkTypeAlias),
		Status:      req.Status,
		Summary:     req.Summary,
		Description: req.Description,
		Team:        req.Team,
		GameName:    firstNonNil(req.GameName, req.GameNameAlias),
	}

	rawAssignee := req.Assignee
	if len(rawAssignee) == 0 {
		rawAssignee = req.AssigneeAlias
	}
	assigneeID, unset, err := parseAssigneeJSON(rawAssignee)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}
	input.AssigneeID = assigneeID
	input.ClearAssignee = unset

	ticket, err := h.ticketService.UpdateTicket(id, input)
	if err != nil {
		h.respondTicketError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"ticket":  dto.ToTicketDTO(*ticket),
	})
}

func (h *TicketHandler) appendAttachments(c *gin.Context, ticketID uint64) {
	files, err := readUploads(c, h.uploadLimits)
	if err != nil {
		respondUploadError(c, h.logger, err)
		return
	}

	attachments, err := h.attachmentService.AddAttachments(ticketID, files)
	if err != nil {
		h.respondTicketError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"attachments": dto.ToAttachmentDTOs(attachments),
	})
}

// ListGameNames returns the game names offered by the ticket form.
func (h *TicketHandler) ListGameNames(c *gin.Context) {
	names, err := h.ticketService.ListGameNames()
	if err != nil {
		h.respondTicketError(c, err)
		return
	}

	c.JSON(http.StatusOK, names)
}

// GenerateTickets drafts tickets from a free-form bug report using AI.
func (h *TicketHandler) GenerateTickets(c *gin.Context) {
	type GenerateTicketsRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req GenerateTicketsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	drafts, err := h.ticketService.GenerateTicketDrafts(c.Request.Context(), req.Text)
	if err != nil {
		h.respondTicketError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tickets": dto.ToTicketDraftDTOs(drafts),
	})
}

func (h *TicketHandler) respondTicketError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTicketNotFound),
		errors.Is(err, services.ErrAttachmentNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrTicketContentRequired),
		errors.Is(err, services.ErrGameNameRequired),
		errors.Is(err, services.ErrAssigneeNotFound),
		errors.Is(err, services.ErrReportTextRequired),
		errors.Is(err, services.ErrNoFiles),
		errors.Is(err, services.ErrFieldTooLong):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrAINoTicketsGenerated):
		apierrors.BadRequest(c, "No tickets could be generated from the text")
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, "AI service is not configured. Please set OPENAI_API_KEY environment variable.")
	default:
		internalError(c, h.logger, err)
	}
}

// formValue returns the first non-empty form value among keys.
func formValue(c *gin.Context, keys ...string) string {
	for _, key := range keys {
		if v := c.PostForm(key); v != "" {
			return v
		}
	}
	return ""
}

func firstNonNil(values ...*string) *string {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

// parseAssignee parses an assignee user ID from text. A blank value means
// no assignee.
func parseAssignee(raw string) (id *uint64, unset bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true, nil
	}
	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || parsed == 0 {
		return nil, false, errInvalidAssignee
	}
	return &parsed, false, nil
}

// parseAssigneeJSON accepts a number, a numeric string, null or "".
// A missing value leaves the assignee untouched; null and "" clear it.
func parseAssigneeJSON(raw json.RawMessage) (id *uint64, unset bool, err error) {
	if len(raw) == 0 {
		return nil, false, nil
	}
	if string(raw) == "null" {
		return nil, true, nil
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return parseAssignee(text)
	}
	var number json.Number
	if err := json.Unmarshal(raw, &number); err == nil {
		return parseAssignee(number.String())
	}
	return nil, false, fmt.Errorf("%w: %s", errInvalidAssignee, string(raw))
}
