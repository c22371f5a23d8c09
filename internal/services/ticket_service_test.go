package services

import (
	"context"
	"strings"

	"github.com/yukikurage/bugfree-api/internal/constants"
	"github.com/yukikurage/bugfree-api/internal/repository"
)

func strPtr(s string) *string { return &s }

func (suite *ServiceTestSuite) TestCreateTicket_ThenListed() {
	ticket, err := suite.tickets.CreateTicket(CreateTicketInput{
		Project:     "Core",
		WorkType:    "bug",
		Summary:     "Crash on load",
		Description: "Game crashes when loading save slot 2",
		Team:        "QA",
		GameName:    "Space Miners",
	}, nil)
	suite.Require().NoError(err)
	suite.NotZero(ticket.ID)
	suite.Equal("todo", ticket.Status)

	tickets, err := suite.tickets.ListTickets(repository.TicketFilter{})
	suite.Require().NoError(err)
	suite.Require().Len(tickets, 1)

	got := tickets[0]
	suite.Equal(ticket.ID, got.ID)
	suite.Equal("Core", got.Project)
	suite.Equal("bug", got.WorkType)
	suite.Equal("Crash on load", got.Summary)
	suite.Equal("Game crashes when loading save slot 2", got.Description)
	suite.Equal("QA", got.Team)
	suite.Equal("Space Miners", got.GameName)
	suite.Empty(got.Attachments)
}

func (suite *ServiceTestSuite) TestCreateTicket_WithFiles() {
	ticket, err := suite.tickets.CreateTicket(CreateTicketInput{
		Summary:  "Texture glitch",
		GameName: "Space Miners",
	}, []FileUpload{
		{Filename: "shot.png", ContentType: "image/png", Data: []byte{0x89, 0x50}},
		{Filename: "log.txt", Data: []byte("trace")},
	})
	suite.Require().NoError(err)
	suite.Len(ticket.Attachments, 2)

	attachments, err := suite.attachments.ListAttachments(ticket.ID)
	suite.Require().NoError(err)
	suite.Require().Len(attachments, 2)
	suite.Equal("shot.png", attachments[0].Filename)
	suite.Equal("application/octet-stream", attachments[1].ContentType)
}

func (suite *ServiceTestSuite) TestCreateTicket_Validation() {
	_, err := suite.tickets.CreateTicket(CreateTicketInput{GameName: "Space Miners"}, nil)
	suite.ErrorIs(err, ErrTicketContentRequired)

	_, err = suite.tickets.CreateTicket(CreateTicketInput{Summary: "x"}, nil)
	suite.ErrorIs(err, ErrGameNameRequired)

	missing := uint64(999)
	_, err = suite.tickets.CreateTicket(CreateTicketInput{Summary: "x", GameName: "g", AssigneeID: &missing}, nil)
	suite.ErrorIs(err, ErrAssigneeNotFound)

	var count int64
	suite.db.Table("tickets").Count(&count)
	suite.Zero(count)
}

func (suite *ServiceTestSuite) TestListTickets_Filters() {
	suite.createTicket("Crash on load", nil)
	other, err := suite.tickets.CreateTicket(CreateTicketInput{
		WorkType:    "task",
		Summary:     "Add leaderboard",
		Description: "100% of players want it",
		GameName:    "Kart Party",
	}, nil)
	suite.Require().NoError(err)

	tickets, err := suite.tickets.ListTickets(repository.TicketFilter{WorkType: "task"})
	suite.Require().NoError(err)
	suite.Require().Len(tickets, 1)
	suite.Equal(other.ID, tickets[0].ID)

	tickets, err = suite.tickets.ListTickets(repository.TicketFilter{Search: "CRASH"})
	suite.Require().NoError(err)
	suite.Require().Len(tickets, 1)
	suite.Equal("Crash on load", tickets[0].Summary)

	tickets, err = suite.tickets.ListTickets(repository.TicketFilter{Search: "100%"})
	suite.Require().NoError(err)
	suite.Require().Len(tickets, 1)
	suite.Equal(other.ID, tickets[0].ID)

	tickets, err = suite.tickets.ListTickets(repository.TicketFilter{GameName: "Kart Party", Search: "crash"})
	suite.Require().NoError(err)
	suite.Empty(tickets)
}

func (suite *ServiceTestSuite) TestGetTicket_NotFound() {
	_, err := suite.tickets.GetTicket(42)
	suite.ErrorIs(err, ErrTicketNotFound)
}

func (suite *ServiceTestSuite) TestUpdateTicket_NotFound() {
	_, err := suite.tickets.UpdateTicket(42, UpdateTicketInput{Status: strPtr("done")})
	suite.ErrorIs(err, ErrTicketNotFound)
}

func (suite *ServiceTestSuite) TestUpdateTicket_PatchesOnlyPresentFields() {
	ticket := suite.createTicket("Crash on load", nil)

	updated, err := suite.tickets.UpdateTicket(ticket.ID, UpdateTicketInput{Team: strPtr("Engine")})
	suite.Require().NoError(err)
	suite.Equal("Engine", updated.Team)
	suite.Equal("Crash on load", updated.Summary)
	suite.Equal("bug", updated.WorkType)

	reloaded, err := suite.tickets.GetTicket(ticket.ID)
	suite.Require().NoError(err)
	suite.Equal("Engine", reloaded.Team)
	suite.Equal("Space Miners", reloaded.GameName)
}

func (suite *ServiceTestSuite) TestUpdateTicket_NewAssigneeNotifiedOnce() {
	alice := suite.createUser("Alice", "alice@example.com", true)
	bob := suite.createUser("Bob", "bob@example.com", true)
	ticket := suite.createTicket("Crash on load", &alice.ID)

	_, err := suite.tickets.UpdateTicket(ticket.ID, UpdateTicketInput{AssigneeID: &bob.ID})
	suite.Require().NoError(err)

	sent := suite.notifier.ofKind("ticket_update")
	suite.Require().Len(sent, 1)
	suite.Equal("bob@example.com", sent[0].to)
}

func (suite *ServiceTestSuite) TestUpdateTicket_SameAssigneeNotNotified() {
	alice := suite.createUser("Alice", "alice@example.com", true)
	ticket := suite.createTicket("Crash on load", &alice.ID)

	_, err := suite.tickets.UpdateTicket(ticket.ID, UpdateTicketInput{
		AssigneeID: &alice.ID,
		Summary:    strPtr("Crash on load (slot 2)"),
	})
	suite.Require().NoError(err)

	suite.Empty(suite.notifier.ofKind("ticket_update"))
}

func (suite *ServiceTestSuite) TestUpdateTicket_StatusChangeNotifiesAssignee() {
	alice := suite.createUser("Alice", "alice@example.com", true)
	ticket := suite.createTicket("Crash on load", &alice.ID)

	_, err := suite.tickets.UpdateTicket(ticket.ID, UpdateTicketInput{Status: strPtr("inreview")})
	suite.Require().NoError(err)

	sent := suite.notifier.ofKind("ticket_update")
	suite.Require().Len(sent, 1)
	suite.Equal("alice@example.com", sent[0].to)
}

func (suite *ServiceTestSuite) TestUpdateTicket_StatusChangeWithoutAssignee() {
	ticket := suite.createTicket("Crash on load", nil)

	updated, err := suite.tickets.UpdateTicket(ticket.ID, UpdateTicketInput{Status: strPtr("done")})
	suite.Require().NoError(err)
	suite.Equal("done", updated.Status)
	suite.Empty(suite.notifier.sent)
}

func (suite *ServiceTestSuite) TestUpdateTicket_UnknownAssignee() {
	ticket := suite.createTicket("Crash on load", nil)
	missing := uint64(404)

	_, err := suite.tickets.UpdateTicket(ticket.ID, UpdateTicketInput{AssigneeID: &missing})
	suite.ErrorIs(err, ErrAssigneeNotFound)
}

func (suite *ServiceTestSuite) TestUpdateTicket_ClearAssignee() {
	alice := suite.createUser("Alice", "alice@example.com", true)
	ticket := suite.createTicket("Crash on load", &alice.ID)

	updated, err := suite.tickets.UpdateTicket(ticket.ID, UpdateTicketInput{ClearAssignee: true})
	suite.Require().NoError(err)
	suite.Nil(updated.AssigneeID)
	suite.Empty(suite.notifier.sent)
}

func (suite *ServiceTestSuite) TestListGameNames() {
	suite.createTicket("Crash on load", nil)
	_, err := suite.projects.CreateProject(CreateProjectInput{GameName: "Kart Party"})
	suite.Require().NoError(err)
	_, err = suite.projects.CreateProject(CreateProjectInput{GameName: "Space Miners"})
	suite.Require().NoError(err)

	names, err := suite.tickets.ListGameNames()
	suite.Require().NoError(err)
	suite.Equal([]string{"Kart Party", "Space Miners"}, names)
}

func (suite *ServiceTestSuite) TestGenerateTicketDrafts_NotConfigured() {
	_, err := suite.tickets.GenerateTicketDrafts(context.Background(), "it crashes")
	suite.ErrorIs(err, ErrAIServiceNotConfigured)
}

func (suite *ServiceTestSuite) TestCreateTicket_RejectsOversizedFields() {
	_, err := suite.tickets.CreateTicket(CreateTicketInput{
		Summary:  strings.Repeat("a", constants.MaxSummaryLength+1),
		GameName: "Space Miners",
	}, nil)
	suite.ErrorIs(err, ErrFieldTooLong)
	suite.ErrorContains(err, "summary")

	_, err = suite.tickets.CreateTicket(CreateTicketInput{
		Summary:  "Crash",
		GameName: strings.Repeat("g", constants.MaxNameLength+1),
	}, nil)
	suite.ErrorIs(err, ErrFieldTooLong)

	_, err = suite.tickets.CreateTicket(CreateTicketInput{
		Summary:  "Crash",
		GameName: "Space Miners",
	}, []FileUpload{{Filename: strings.Repeat("f", constants.MaxNameLength+1), Data: []byte("x")}})
	suite.ErrorIs(err, ErrFieldTooLong)

	var count int64
	suite.db.Table("tickets").Count(&count)
	suite.Zero(count)
}

func (suite *ServiceTestSuite) TestCreateTicket_LengthCountsCharacters() {
	ticket, err := suite.tickets.CreateTicket(CreateTicketInput{
		Summary:  strings.Repeat("é", constants.MaxSummaryLength),
		GameName: "Space Miners",
	}, nil)
	suite.Require().NoError(err)
	suite.Len([]rune(ticket.Summary), constants.MaxSummaryLength)
}

func (suite *ServiceTestSuite) TestUpdateTicket_RejectsOversizedFields() {
	ticket := suite.createTicket("Crash on load", nil)

	_, err := suite.tickets.UpdateTicket(ticket.ID, UpdateTicketInput{
		Status: strPtr(strings.Repeat("s", constants.MaxStatusLength+1)),
	})
	suite.ErrorIs(err, ErrFieldTooLong)

	reloaded, err := suite.tickets.GetTicket(ticket.ID)
	suite.Require().NoError(err)
	suite.Equal("todo", reloaded.Status)
}
