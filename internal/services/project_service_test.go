package services

import (
	"strings"

	"github.com/yukikurage/bugfree-api/internal/constants"
)

func (suite *ServiceTestSuite) TestCreateProject() {
	project, err := suite.projects.CreateProject(CreateProjectInput{
		GameName:   " Space Miners ",
		Phase:      "alpha",
		Categories: []string{"gameplay", " ", "audio"},
	})
	suite.Require().NoError(err)
	suite.Equal("Space Miners", project.GameName)
	suite.Equal("gameplay, audio", project.Category)

	_, err = suite.projects.CreateProject(CreateProjectInput{GameName: "  "})
	suite.ErrorIs(err, ErrGameNameRequired)
}

func (suite *ServiceTestSuite) TestListProjects() {
	for _, name := range []string{"Space Miners", "Space Race", "Kart Party"} {
		_, err := suite.projects.CreateProject(CreateProjectInput{GameName: name})
		suite.Require().NoError(err)
	}

	projects, err := suite.projects.ListProjects("space", "")
	suite.Require().NoError(err)
	suite.Len(projects, 2)

	projects, err = suite.projects.ListProjects("SPACE", "race")
	suite.Require().NoError(err)
	suite.Require().Len(projects, 1)
	suite.Equal("Space Race", projects[0].GameName)

	projects, err = suite.projects.ListProjects("", "")
	suite.Require().NoError(err)
	suite.Len(projects, 3)
}

func (suite *ServiceTestSuite) TestAssignUser_ActiveUser() {
	alice := suite.createUser("Alice", "alice@example.com", true)
	_, err := suite.projects.CreateProject(CreateProjectInput{GameName: "Space Miners", Phase: "beta"})
	suite.Require().NoError(err)

	assignment, err := suite.projects.AssignUser(alice.ID, "Space Miners")
	suite.Require().NoError(err)
	suite.Equal(constants.AssignmentAccepted, assignment.Status)

	sent := suite.notifier.ofKind("assignment")
	suite.Require().Len(sent, 1)
	suite.Equal("alice@example.com", sent[0].to)
	suite.Equal("Space Miners (beta)", sent[0].subject)

	assignees, err := suite.projects.ListAssignees("Space Miners")
	suite.Require().NoError(err)
	suite.Require().Len(assignees, 1)
	suite.Equal(alice.ID, assignees[0].ID)
}

func (suite *ServiceTestSuite) TestAssignUser_WithoutProjectRow() {
	alice := suite.createUser("Alice", "alice@example.com", true)

	_, err := suite.projects.AssignUser(alice.ID, "Unlisted Game")
	suite.Require().NoError(err)

	sent := suite.notifier.ofKind("assignment")
	suite.Require().Len(sent, 1)
	suite.Equal("Unlisted Game", sent[0].subject)
}

func (suite *ServiceTestSuite) TestAssignUser_UnknownUser() {
	_, err := suite.projects.AssignUser(31337, "Space Miners")
	suite.ErrorIs(err, ErrUserNotFound)
	suite.Empty(suite.notifier.sent)
}

func (suite *ServiceTestSuite) TestListAssignees_RequiresProject() {
	_, err := suite.projects.ListAssignees(" ")
	suite.ErrorIs(err, ErrProjectNameRequired)
}

func (suite *ServiceTestSuite) TestCreateProject_RejectsOversizedFields() {
	_, err := suite.projects.CreateProject(CreateProjectInput{
		GameName: "Space Miners",
		Phase:    strings.Repeat("p", constants.MaxPhaseLength+1),
	})
	suite.ErrorIs(err, ErrFieldTooLong)

	_, err = suite.projects.CreateProject(CreateProjectInput{
		GameName:   "Space Miners",
		Categories: []string{strings.Repeat("c", 300), strings.Repeat("d", 300)},
	})
	suite.ErrorIs(err, ErrFieldTooLong)
	suite.ErrorContains(err, "category")

	var count int64
	suite.db.Table("projects").Count(&count)
	suite.Zero(count)
}
