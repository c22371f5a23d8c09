package services

import (
	"fmt"
)

func (suite *ServiceTestSuite) TestAddAttachments_ListAndDownload() {
	ticket := suite.createTicket("Crash on load", nil)

	files := make([]FileUpload, 0, 3)
	for i := 0; i < 3; i++ {
		files = append(files, FileUpload{
			Filename:    fmt.Sprintf("capture-%d.log", i),
			ContentType: "text/plain",
			Data:        []byte(fmt.Sprintf("frame %d", i)),
		})
	}

	added, err := suite.attachments.AddAttachments(ticket.ID, files)
	suite.Require().NoError(err)
	suite.Require().Len(added, 3)

	listed, err := suite.attachments.ListAttachments(ticket.ID)
	suite.Require().NoError(err)
	suite.Require().Len(listed, 3)
	for i, a := range listed {
		suite.Equal(files[i].Filename, a.Filename)
		suite.Empty(a.Data)
	}

	for i, a := range added {
		got, err := suite.attachments.GetAttachment(a.ID)
		suite.Require().NoError(err)
		suite.Equal(files[i].Data, got.Data)
		suite.Equal(int64(len(files[i].Data)), got.Size)
	}
}

func (suite *ServiceTestSuite) TestAddAttachments_TicketMissing() {
	_, err := suite.attachments.AddAttachments(77, []FileUpload{{Filename: "a.txt", Data: []byte("a")}})
	suite.ErrorIs(err, ErrTicketNotFound)
}

func (suite *ServiceTestSuite) TestAddAttachments_NoFiles() {
	ticket := suite.createTicket("Crash on load", nil)

	_, err := suite.attachments.AddAttachments(ticket.ID, nil)
	suite.ErrorIs(err, ErrNoFiles)
}

func (suite *ServiceTestSuite) TestGetAttachment_NotFound() {
	_, err := suite.attachments.GetAttachment(5)
	suite.ErrorIs(err, ErrAttachmentNotFound)
}

func (suite *ServiceTestSuite) TestDeleteAttachment() {
	ticket := suite.createTicket("Crash on load", nil)
	added, err := suite.attachments.AddAttachments(ticket.ID, []FileUpload{{Filename: "a.txt", Data: []byte("a")}})
	suite.Require().NoError(err)

	suite.Require().NoError(suite.attachments.DeleteAttachment(added[0].ID))

	listed, err := suite.attachments.ListAttachments(ticket.ID)
	suite.Require().NoError(err)
	suite.Empty(listed)

	suite.ErrorIs(suite.attachments.DeleteAttachment(added[0].ID), ErrAttachmentNotFound)
}

func (suite *ServiceTestSuite) TestDeleteAttachment_NonexistentID() {
	suite.ErrorIs(suite.attachments.DeleteAttachment(12345), ErrAttachmentNotFound)
}
