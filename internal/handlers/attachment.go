package handlers

import (
	"errors"
	"log/slog"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/bugfree-api/internal/dto"
	apierrors "github.com/yukikurage/bugfree-api/internal/errors"
	"github.com/yukikurage/bugfree-api/internal/middleware"
	"github.com/yukikurage/bugfree-api/internal/services"
)

// AttachmentHandler serves attachment endpoints.
type AttachmentHandler struct {
	attachmentService *services.AttachmentService
	logger            *slog.Logger
	uploadLimits      UploadLimits
}

// NewAttachmentHandler creates a new AttachmentHandler.
func NewAttachmentHandler(attachmentService *services.AttachmentService, logger *slog.Logger, uploadLimits UploadLimits) *AttachmentHandler {
	return &AttachmentHandler{
		attachmentService: attachmentService,
		logger:            logger,
		uploadLimits:      uploadLimits,
	}
}

// AddAttachments stores the uploaded files on the ticket in the path.
func (h *AttachmentHandler) AddAttachments(c *gin.Context) {
	ticketID, _ := middleware.GetPathID(c)

	files, err := readUploads(c, h.uploadLimits)
	if err != nil {
		respondUploadError(c, h.logger, err)
		return
	}

	attachments, err := h.attachmentService.AddAttachments(ticketID, files)
	if err != nil {
		h.respondAttachmentError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":     true,
		"attachments": dto.ToAttachmentDTOs(attachments),
	})
}

// ListAttachments lists attachment metadata for the ticket in the path.
func (h *AttachmentHandler) ListAttachments(c *gin.Context) {
	ticketID, _ := middleware.GetPathID(c)

	attachments, err := h.attachmentService.ListAttachments(ticketID)
	if err != nil {
		h.respondAttachmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAttachmentDTOs(attachments))
}

// Download sends the attachment content as a file download.
func (h *AttachmentHandler) Download(c *gin.Context) {
	id, _ := middleware.GetPathID(c)

	attachment, err := h.attachmentService.GetAttachment(id)
	if err != nil {
		h.respondAttachmentError(c, err)
		return
	}

	contentType := attachment.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": attachment.Filename,
	}))
	c.Data(http.StatusOK, contentType, attachment.Data)
}

// Delete removes the attachment in the path.
func (h *AttachmentHandler) Delete(c *gin.Context) {
	id, _ := middleware.GetPathID(c)

	if err := h.attachmentService.DeleteAttachment(id); err != nil {
		h.respondAttachmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}

func (h *AttachmentHandler) respondAttachmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrAttachmentNotFound),
		errors.Is(err, services.ErrTicketNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNoFiles):
		apierrors.BadRequest(c, "No files uploaded")
	case errors.Is(err, services.ErrFieldTooLong):
		apierrors.BadRequest(c, err.Error())
	default:
		internalError(c, h.logger, err)
	}
}
