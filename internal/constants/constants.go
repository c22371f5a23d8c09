package constants

import "time"

// Session and context keys
const (
	SessionCookieName   = "bugfree_session"
	ContextKeyUserID    = "user_id"
	ContextKeyTicketID  = "ticket_id"
	ContextKeyRequestID = "request_id"
	HeaderRequestID     = "X-Request-ID"
)

// Validation limits
const (
	MinPasswordLength     = 8
	MaxAIGeneratedTickets = 10
)

// Column lengths, in characters
const (
	MaxNameLength     = 255
	MaxRoleLength     = 100
	MaxSummaryLength  = 500
	MaxWorkTypeLength = 100
	MaxStatusLength   = 50
	MaxPhaseLength    = 100
	MaxCategoryLength = 500
)

// Ticket defaults
const (
	DefaultTicketStatus = "todo"
)

// Project assignment statuses
const (
	AssignmentPending  = "pending"
	AssignmentAccepted = "accepted"
)

// Rate limiting
const (
	AuthRateLimitWindow = time.Minute
)

// Mail dispatch
const (
	MailInitialBackoff = time.Second
	MailMaxBackoff     = 30 * time.Second
	MailSendTimeout    = 30 * time.Second
)
