package services

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/yukikurage/bugfree-api/internal/constants"
	"github.com/yukikurage/bugfree-api/internal/models"
)

// ErrFieldTooLong reports a value that does not fit its column.
var ErrFieldTooLong = errors.New("field too long")

// Notifier receives domain events that result in email. Implementations
// must not block and must not fail the caller.
type Notifier interface {
	TicketUpdated(ticket *models.Ticket, assignee *models.User)
	ProjectAssigned(user *models.User, projectName string, project *models.Project)
	Invited(user *models.User, role string)
	Welcome(user *models.User)
}

// FileUpload is an uploaded file read into memory.
type FileUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

func toAttachments(ticketID uint64, files []FileUpload) []models.Attachment {
	attachments := make([]models.Attachment, 0, len(files))
	for _, f := range files {
		contentType := f.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		attachments = append(attachments, models.Attachment{
			TicketID:    ticketID,
			Filename:    f.Filename,
			ContentType: contentType,
			Size:        int64(len(f.Data)),
			Data:        f.Data,
		})
	}
	return attachments
}

type fieldLimit struct {
	name  string
	value string
	max   int
}

func checkLengths(limits ...fieldLimit) error {
	for _, l := range limits {
		if utf8.RuneCountInString(l.value) > l.max {
			return fmt.Errorf("%w: %s must be at most %d characters", ErrFieldTooLong, l.name, l.max)
		}
	}
	return nil
}

func checkFilenames(files []FileUpload) error {
	for _, f := range files {
		if err := checkLengths(fieldLimit{"filename", f.Filename, constants.MaxNameLength}); err != nil {
			return err
		}
	}
	return nil
}
