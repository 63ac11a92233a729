package messaging

import (
	"context"
	"testing"

	"github.com/KirkDiggler/zonk/internal/models"
	"github.com/stretchr/testify/suite"
)

type MessagingServiceTestSuite struct {
	suite.Suite
	service Service
	ctx     context.Context
}

func TestMessagingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MessagingServiceTestSuite))
}

func (s *MessagingServiceTestSuite) SetupTest() {
	var err error
	s.service, err = NewService(&ServiceConfig{Seed: 42})
	s.Require().NoError(err)
	s.ctx = context.Background()
}

func (s *MessagingServiceTestSuite) TestGetEventMessage_MentionsPlayer() {
	for _, eventType := range []models.EventType{
		models.EventPlayerJoined,
		models.EventPlayerLeft,
		models.EventGameStarted,
		models.EventZonk,
		models.EventZonkPenalty,
		models.EventHotDice,
		models.EventBanked,
		models.EventWin,
	} {
		out, err := s.service.GetEventMessage(s.ctx, &GetEventMessageInput{
			Event: models.Event{Type: eventType, PlayerName: "Sterling", Points: 350, Score: 1200},
		})
		s.Require().NoError(err)
		s.Contains(out.Message, "Sterling", "event %s", eventType)
	}
}

func (s *MessagingServiceTestSuite) TestGetEventMessage_WinIsCelebration() {
	out, err := s.service.GetEventMessage(s.ctx, &GetEventMessageInput{
		Event: models.Event{Type: models.EventWin, PlayerName: "Lana", Score: 1050},
	})
	s.Require().NoError(err)
	s.Equal(ToneCelebration, out.Tone)
	s.Contains(out.Message, "1050")
}

func (s *MessagingServiceTestSuite) TestGetEventMessage_NeutralIsStable() {
	input := &GetEventMessageInput{
		Event:         models.Event{Type: models.EventBanked, PlayerName: "Cyril", Points: 300, Score: 300},
		PreferredTone: ToneNeutral,
	}

	first, err := s.service.GetEventMessage(s.ctx, input)
	s.Require().NoError(err)
	for i := 0; i < 10; i++ {
		out, err := s.service.GetEventMessage(s.ctx, input)
		s.Require().NoError(err)
		s.Equal(first.Message, out.Message)
	}
}

func (s *MessagingServiceTestSuite) TestGetEventMessage_UnknownEvent() {
	out, err := s.service.GetEventMessage(s.ctx, &GetEventMessageInput{
		Event: models.Event{Type: "mystery"},
	})
	s.Require().NoError(err)
	s.Empty(out.Message)
}

func (s *MessagingServiceTestSuite) TestGetEventMessage_NilInput() {
	_, err := s.service.GetEventMessage(s.ctx, nil)
	s.Error(err)
}

func (s *MessagingServiceTestSuite) TestGetErrorMessage() {
	out, err := s.service.GetErrorMessage(s.ctx, &GetErrorMessageInput{Code: "NOT_YOUR_TURN"})
	s.Require().NoError(err)
	s.Contains(out.Message, "not your turn")

	out, err = s.service.GetErrorMessage(s.ctx, &GetErrorMessageInput{Code: "SOMETHING_NEW"})
	s.Require().NoError(err)
	s.NotEmpty(out.Message)
}

func (s *MessagingServiceTestSuite) TestGetWinMessage_ListsStandingsHighestFirst() {
	out, err := s.service.GetWinMessage(s.ctx, &GetWinMessageInput{
		WinnerName:  "Pam",
		WinnerScore: 1100,
		Standings: []models.Standing{
			{PlayerName: "Krieger", Score: 200},
			{PlayerName: "Pam", Score: 1100},
			{PlayerName: "Cheryl", Score: 650},
		},
	})
	s.Require().NoError(err)

	s.NotEmpty(out.Title)
	s.Contains(out.Message, "Pam wins with 1100 points!")
	s.Contains(out.Message, "1. Pam: 1100\n2. Cheryl: 650\n3. Krieger: 200")
}
