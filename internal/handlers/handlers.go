package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/bugfree-api/internal/errors"
	"github.com/yukikurage/bugfree-api/internal/middleware"
	"github.com/yukikurage/bugfree-api/internal/services"
)

var (
	errFileTooLarge    = errors.New("uploaded file too large")
	errRequestTooLarge = errors.New("upload request too large")
	errInvalidUpload   = errors.New("invalid multipart body")
)

// UploadLimits bounds multipart uploads. Zero disables a limit.
type UploadLimits struct {
	MaxFileBytes    int64
	MaxRequestBytes int64
}

// internalError logs the cause with the request ID and answers with a
// generic message.
func internalError(c *gin.Context, logger *slog.Logger, err error) {
	logger.Error("request error",
		"request_id", middleware.GetRequestID(c),
		"path", c.FullPath(),
		"error", err,
	)
	_ = c.Error(err)
	apierrors.InternalError(c)
}

// isMultipart reports whether the request carries a multipart body.
func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// readUploads reads every file part of a multipart request into memory,
// regardless of the form field name. Parts without a filename are
// skipped; empty files are kept. Files are returned ordered by field name
// and then by their position in the body.
func readUploads(c *gin.Context, limits UploadLimits) ([]services.FileUpload, error) {
	if limits.MaxRequestBytes > 0 && c.Request.MultipartForm == nil {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limits.MaxRequestBytes)
	}

	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("%w: limit is %d bytes", errRequestTooLarge, maxErr.Limit)
		}
		return nil, fmt.Errorf("%w: %v", errInvalidUpload, err)
	}

	fields := make([]string, 0, len(form.File))
	for field := range form.File {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var uploads []services.FileUpload
	for _, field := range fields {
		for _, header := range form.File[field] {
			if header.Filename == "" {
				continue
			}
			if limits.MaxFileBytes > 0 && header.Size > limits.MaxFileBytes {
				return nil, fmt.Errorf("%w: %s", errFileTooLarge, header.Filename)
			}
			upload, err := readUpload(header)
			if err != nil {
				return nil, err
			}
			uploads = append(uploads, upload)
		}
	}
	return uploads, nil
}

func readUpload(header *multipart.FileHeader) (services.FileUpload, error) {
	file, err := header.Open()
	if err != nil {
		return services.FileUpload{}, fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return services.FileUpload{}, fmt.Errorf("failed to read upload: %w", err)
	}

	return services.FileUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// respondUploadError maps errors from readUploads.
func respondUploadError(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, errFileTooLarge),
		errors.Is(err, errRequestTooLarge):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, errInvalidUpload):
		apierrors.BadRequest(c, "Invalid upload")
	default:
		internalError(c, logger, err)
	}
}
