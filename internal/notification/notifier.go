package notification

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/url"

	"github.com/yuin/goldmark"
	"github.com/yukikurage/bugfree-api/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// Message kinds
const (
	KindTicketUpdate = "ticket_update"
	KindAssignment   = "assignment"
	KindInvite       = "invite"
	KindWelcome      = "welcome"
)

// Sender accepts rendered messages for delivery.
type Sender interface {
	Enqueue(msg Message) error
}

// Notifier renders notification emails and hands them to a Sender. Every
// method is best effort: failures are logged and never returned.
type Notifier struct {
	sender  Sender
	logger  *slog.Logger
	baseURL string
	tmpl    *template.Template
}

func NewNotifier(sender Sender, logger *slog.Logger, baseURL string) *Notifier {
	return &Notifier{
		sender:  sender,
		logger:  logger,
		baseURL: baseURL,
		tmpl:    template.Must(template.New("").ParseFS(templateFS, "templates/*.html")),
	}
}

// TicketUpdated tells the assignee that a ticket assigned to them changed.
func (n *Notifier) TicketUpdated(ticket *models.Ticket, assignee *models.User) {
	n.send(KindTicketUpdate, assignee.Email,
		fmt.Sprintf("[BUG FREE] Ticket #%d updated: %s", ticket.ID, ticket.Summary),
		"ticket_update.html",
		map[string]any{
			"Name":        displayName(assignee),
			"Ticket":      ticket,
			"Description": renderMarkdown(ticket.Description),
			"Link":        fmt.Sprintf("%s/?ticket=%d", n.baseURL, ticket.ID),
		},
	)
}

// ProjectAssigned tells a user they were added to a project.
func (n *Notifier) ProjectAssigned(user *models.User, projectName string, project *models.Project) {
	data := map[string]any{
		"Name":        displayName(user),
		"ProjectName": projectName,
		"Link":        n.baseURL + "/",
	}
	if project != nil {
		data["Phase"] = project.Phase
		data["Category"] = project.Category
	}

	n.send(KindAssignment, user.Email,
		fmt.Sprintf("[BUG FREE] You have been assigned to %s", projectName),
		"assignment.html",
		data,
	)
}

// Invited sends the accept-invite link to a new user.
func (n *Notifier) Invited(user *models.User, role string) {
	n.send(KindInvite, user.Email,
		"[BUG FREE] You have been invited",
		"invite.html",
		map[string]any{
			"Name": displayName(user),
			"Role": role,
			"Link": n.AcceptInviteURL(user.Email),
		},
	)
}

// Welcome greets a newly registered user.
func (n *Notifier) Welcome(user *models.User) {
	n.send(KindWelcome, user.Email,
		"[BUG FREE] Welcome aboard",
		"welcome.html",
		map[string]any{
			"Name": displayName(user),
			"Link": n.baseURL + "/",
		},
	)
}

// AcceptInviteURL builds the accept link carrying the invitee's address.
func (n *Notifier) AcceptInviteURL(email string) string {
	return n.baseURL + "/accept_invite?" + url.Values{"email": {email}}.Encode()
}

func (n *Notifier) send(kind, to, subject, templateName string, data map[string]any) {
	var body bytes.Buffer
	if err := n.tmpl.ExecuteTemplate(&body, templateName, data); err != nil {
		n.logger.Error("failed to render mail", "kind", kind, "to", to, "error", err)
		return
	}

	msg := Message{
		Kind:    kind,
		To:      headerValue(to),
		Subject: headerValue(subject),
		HTML:    body.String(),
	}
	if err := n.sender.Enqueue(msg); err != nil {
		n.logger.Error("failed to queue mail", "kind", kind, "to", to, "error", err)
	}
}

func displayName(user *models.User) string {
	if user.Name != "" {
		return user.Name
	}
	return user.Email
}

// renderMarkdown converts a ticket description to HTML. Raw HTML in the
// source is not passed through.
func renderMarkdown(source string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(source), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(source))
	}
	return template.HTML(buf.String())
}
