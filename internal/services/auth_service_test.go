package services

import (
	"strings"

	"github.com/yukikurage/bugfree-api/internal/constants"
	"github.com/yukikurage/bugfree-api/internal/models"
)

func (suite *ServiceTestSuite) TestRegister_Success() {
	user, err := suite.auth.Register(RegisterInput{
		Name:     "Alice",
		Email:    "  Alice@Example.com ",
		Password: "password123",
	})
	suite.Require().NoError(err)
	suite.Equal("alice@example.com", user.Email)
	suite.True(user.IsActive)
	suite.NotEqual("password123", user.PasswordHash)

	welcome := suite.notifier.ofKind("welcome")
	suite.Require().Len(welcome, 1)
	suite.Equal("alice@example.com", welcome[0].to)
}

func (suite *ServiceTestSuite) TestRegister_DuplicateEmailIgnoresCase() {
	_, err := suite.auth.Register(RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "password123"})
	suite.Require().NoError(err)

	_, err = suite.auth.Register(RegisterInput{Name: "Alice 2", Email: "ALICE@example.com", Password: "password456"})
	suite.ErrorIs(err, ErrEmailTaken)

	var count int64
	suite.db.Model(&models.User{}).Count(&count)
	suite.Equal(int64(1), count)
}

func (suite *ServiceTestSuite) TestRegister_Validation() {
	_, err := suite.auth.Register(RegisterInput{Name: "", Email: "a@example.com", Password: "password123"})
	suite.ErrorIs(err, ErrNameRequired)

	_, err = suite.auth.Register(RegisterInput{Name: "A", Email: "not-an-email", Password: "password123"})
	suite.ErrorIs(err, ErrInvalidEmail)

	_, err = suite.auth.Register(RegisterInput{Name: "A", Email: "a@example.com", Password: "short"})
	suite.ErrorIs(err, ErrPasswordTooShort)
}

func (suite *ServiceTestSuite) TestLogin() {
	_, err := suite.auth.Register(RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "password123"})
	suite.Require().NoError(err)

	user, err := suite.auth.Login(LoginInput{Email: "ALICE@example.com", Password: "password123"})
	suite.Require().NoError(err)
	suite.Equal("Alice", user.Name)

	_, err = suite.auth.Login(LoginInput{Email: "alice@example.com", Password: "wrong-password"})
	suite.ErrorIs(err, ErrInvalidCredentials)

	_, err = suite.auth.Login(LoginInput{Email: "nobody@example.com", Password: "password123"})
	suite.ErrorIs(err, ErrInvalidCredentials)
}

func (suite *ServiceTestSuite) TestLogin_InactiveAccount() {
	suite.createUser("Carol", "carol@example.com", false)

	_, err := suite.auth.Login(LoginInput{Email: "carol@example.com", Password: "password123"})
	suite.ErrorIs(err, ErrAccountInactive)
}

func (suite *ServiceTestSuite) TestInviteUser() {
	user, err := suite.auth.InviteUser(InviteInput{Name: "Dana", Role: "QA", Email: "Dana@Example.com"})
	suite.Require().NoError(err)
	suite.False(user.IsActive)
	suite.Equal("dana@example.com", user.Email)

	var invite models.Invite
	suite.Require().NoError(suite.db.Where("email = ?", "dana@example.com").First(&invite).Error)
	suite.Equal("QA", invite.Role)

	invited := suite.notifier.ofKind("invite")
	suite.Require().Len(invited, 1)
	suite.Equal("dana@example.com", invited[0].to)
	suite.Equal("QA", invited[0].subject)

	// Invited accounts cannot log in until they accept.
	_, err = suite.auth.Login(LoginInput{Email: "dana@example.com", Password: ""})
	suite.ErrorIs(err, ErrInvalidCredentials)

	_, err = suite.auth.InviteUser(InviteInput{Name: "Dana", Email: "dana@example.com"})
	suite.ErrorIs(err, ErrEmailTaken)
}

func (suite *ServiceTestSuite) TestAcceptInvite() {
	invited, err := suite.auth.InviteUser(InviteInput{Name: "Dana", Role: "QA", Email: "dana@example.com"})
	suite.Require().NoError(err)

	_, err = suite.projects.AssignUser(invited.ID, "Space Miners")
	suite.Require().NoError(err)

	assignees, err := suite.projects.ListAssignees("Space Miners")
	suite.Require().NoError(err)
	suite.Empty(assignees)

	user, err := suite.auth.AcceptInvite(AcceptInviteInput{
		Email:    "DANA@example.com",
		Name:     "Dana Scully",
		Password: "password123",
	})
	suite.Require().NoError(err)
	suite.True(user.IsActive)
	suite.Equal("Dana Scully", user.Name)

	_, err = suite.auth.Login(LoginInput{Email: "dana@example.com", Password: "password123"})
	suite.Require().NoError(err)

	var assignment models.ProjectAssignment
	suite.Require().NoError(suite.db.Where("user_id = ?", user.ID).First(&assignment).Error)
	suite.Equal(constants.AssignmentAccepted, assignment.Status)

	assignees, err = suite.projects.ListAssignees("Space Miners")
	suite.Require().NoError(err)
	suite.Require().Len(assignees, 1)
	suite.Equal(user.ID, assignees[0].ID)
}

func (suite *ServiceTestSuite) TestAcceptInvite_UnknownEmail() {
	_, err := suite.auth.AcceptInvite(AcceptInviteInput{Email: "ghost@example.com", Name: "Ghost"})
	suite.ErrorIs(err, ErrUserNotFound)
}

func (suite *ServiceTestSuite) TestListActiveUsers() {
	suite.createUser("Zed", "zed@example.com", true)
	suite.createUser("Amy", "amy@example.com", true)
	suite.createUser("Inactive", "inactive@example.com", false)

	users, err := suite.auth.ListActiveUsers()
	suite.Require().NoError(err)
	suite.Require().Len(users, 2)
	suite.Equal("Amy", users[0].Name)
	suite.Equal("Zed", users[1].Name)
}

func (suite *ServiceTestSuite) TestGetUser_NotFound() {
	_, err := suite.auth.GetUser(99)
	suite.ErrorIs(err, ErrUserNotFound)
}

func (suite *ServiceTestSuite) TestAcceptInvite_ActiveAccountKeepsPassword() {
	user := suite.createUser("Alice", "alice@example.com", true)

	_, err := suite.auth.AcceptInvite(AcceptInviteInput{
		Email:    "alice@example.com",
		Name:     "Mallory",
		Password: "attacker-pass",
	})
	suite.ErrorIs(err, ErrAlreadyActive)

	_, err = suite.auth.Login(LoginInput{Email: "alice@example.com", Password: "attacker-pass"})
	suite.ErrorIs(err, ErrInvalidCredentials)

	_, err = suite.auth.Login(LoginInput{Email: "alice@example.com", Password: "password123"})
	suite.Require().NoError(err)

	stored, err := suite.auth.GetUser(user.ID)
	suite.Require().NoError(err)
	suite.Equal("Alice", stored.Name)
}

func (suite *ServiceTestSuite) TestRegister_RejectsOversizedFields() {
	_, err := suite.auth.Register(RegisterInput{
		Name:     strings.Repeat("n", constants.MaxNameLength+1),
		Email:    "alice@example.com",
		Password: "password123",
	})
	suite.ErrorIs(err, ErrFieldTooLong)

	_, err = suite.auth.InviteUser(InviteInput{
		Name:  "Bob",
		Role:  strings.Repeat("r", constants.MaxRoleLength+1),
		Email: "bob@example.com",
	})
	suite.ErrorIs(err, ErrFieldTooLong)

	var count int64
	suite.db.Table("users").Count(&count)
	suite.Zero(count)
}
