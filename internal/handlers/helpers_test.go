package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/bugfree-api/internal/constants"
	"github.com/yukikurage/bugfree-api/internal/database"
	"github.com/yukikurage/bugfree-api/internal/notification"
	"github.com/yukikurage/bugfree-api/internal/repository"
	"github.com/yukikurage/bugfree-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type recordingSender struct {
	mu       sync.Mutex
	messages []notification.Message
}

func (s *recordingSender) Enqueue(msg notification.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
	return nil
}

func (s *recordingSender) ofKind(kind string) []notification.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []notification.Message
	for _, m := range s.messages {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}

type testEnv struct {
	db                *gorm.DB
	router            *gin.Engine
	sender            *recordingSender
	authService       *services.AuthService
	attachmentService *services.AttachmentService
}

var testUploadLimits = UploadLimits{MaxFileBytes: 1 << 20, MaxRequestBytes: 4 << 20}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, db.AutoMigrate(database.Models...))
	database.SetDB(db)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	sender := &recordingSender{}
	notifier := notification.NewNotifier(sender, log, "http://bugfree.test")

	ticketRepo := repository.NewTicketRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)

	ticketService := services.NewTicketService(ticketRepo, userRepo, notifier, nil)
	attachmentService := services.NewAttachmentService(ticketRepo, attachmentRepo)
	authService := services.NewAuthService(userRepo, notifier)
	projectService := services.NewProjectService(projectRepo, userRepo, notifier)

	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))
	r.SetHTMLTemplate(Templates())

	rt := &Router{
		Auth:        NewAuthHandler(authService, log),
		Tickets:     NewTicketHandler(ticketService, attachmentService, log, testUploadLimits),
		Attachments: NewAttachmentHandler(attachmentService, log, testUploadLimits),
		Projects:    NewProjectHandler(projectService, log),
		Pages:       NewPageHandler(ticketService, projectService, authService, log),
	}
	rt.Register(r)

	return &testEnv{
		db:                db,
		router:            r,
		sender:            sender,
		authService:       authService,
		attachmentService: attachmentService,
	}
}

// login registers a user and returns the session cookies.
func (env *testEnv) login(t *testing.T, name, email string) []*http.Cookie {
	t.Helper()

	_, err := env.authService.Register(services.RegisterInput{
		Name:     name,
		Email:    email,
		Password: "password123",
	})
	require.NoError(t, err)

	w := env.do(jsonRequest(t, http.MethodPost, "/login", map[string]string{
		"email":    email,
		"password": "password123",
	}), nil)
	require.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies, "expected session cookie to be set")
	return cookies
}

func (env *testEnv) do(req *http.Request, cookies []*http.Cookie) *httptest.ResponseRecorder {
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func jsonRequest(t *testing.T, method, path string, payload any) *http.Request {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

type testFile struct {
	field    string
	filename string
	data     []byte
}

func multipartRequest(t *testing.T, path string, fields map[string]string, files []testFile) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(f.field, f.filename)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
