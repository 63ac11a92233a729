package session

import (
	"testing"
	"time"

	clockMocks "github.com/KirkDiggler/zonk/internal/common/clock/mocks"
	diceMocks "github.com/KirkDiggler/zonk/internal/dice/mocks"
	"github.com/KirkDiggler/zonk/internal/models"
	"github.com/KirkDiggler/zonk/internal/scoring"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type SessionTestSuite struct {
	suite.Suite
	mockCtrl   *gomock.Controller
	mockRoller *diceMocks.MockRoller
	mockClock  *clockMocks.MockClock

	testTime   time.Time
	testRoomID string
	playerA    string
	playerB    string
	playerC    string
}

func TestSessionTestSuite(t *testing.T) {
	suite.Run(t, new(SessionTestSuite))
}

func (s *SessionTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockRoller = diceMocks.NewMockRoller(s.mockCtrl)
	s.mockClock = clockMocks.NewMockClock(s.mockCtrl)

	s.testTime = time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC)
	s.testRoomID = "ABC123"
	s.playerA = "conn-a"
	s.playerB = "conn-b"
	s.playerC = "conn-c"

	s.mockClock.EXPECT().Now().Return(s.testTime).AnyTimes()
}

func (s *SessionTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

// newSession creates a waiting session with the given players seated
func (s *SessionTestSuite) newSession(rules Rules, players ...string) *Session {
	sess, err := New(&Config{
		RoomID:     s.testRoomID,
		Rules:      rules,
		DiceRoller: s.mockRoller,
		Clock:      s.mockClock,
	})
	s.Require().NoError(err)

	for _, id := range players {
		_, err := sess.AddPlayer(id, "name-"+id)
		s.Require().NoError(err)
	}
	return sess
}

// started creates a session with the players seated and the game started
func (s *SessionTestSuite) started(rules Rules, players ...string) *Session {
	sess := s.newSession(rules, players...)
	out, err := sess.Start(players[0])
	s.Require().NoError(err)
	s.requireConsistent(out.Game)
	return sess
}

// script queues die values for the next Roll calls, in order
func (s *SessionTestSuite) script(values ...int) {
	for _, v := range values {
		s.mockRoller.EXPECT().Roll(6).Return(v)
	}
}

func (s *SessionTestSuite) roll(sess *Session, player string, values ...int) *Outcome {
	s.script(values...)
	out, err := sess.Roll(player)
	s.Require().NoError(err)
	s.requireConsistent(out.Game)
	return out
}

func (s *SessionTestSuite) hold(sess *Session, player string, indexes ...int) *Outcome {
	var out *Outcome
	for _, i := range indexes {
		var err error
		out, err = sess.ToggleHold(player, i)
		s.Require().NoError(err)
		s.requireConsistent(out.Game)
	}
	return out
}

// requireConsistent asserts the cached round score of every player matches
// a fresh computation from their dice and held mask
func (s *SessionTestSuite) requireConsistent(g *models.Game) {
	for _, p := range g.Players {
		want := p.Carry + scoring.Score(scoring.Pool(p.Dice), scoring.Mask(p.Held))
		s.Require().Equal(want, p.RoundScore, "player %s round score diverged", p.ID)
		s.Require().Equal(scoring.PoolSize-scoring.Mask(p.Held).Count(), p.DiceToRoll, "player %s dice to roll", p.ID)
	}
	if g.Status.IsPlaying() {
		s.Require().GreaterOrEqual(g.CurrentPlayerIndex, 0)
		s.Require().Less(g.CurrentPlayerIndex, len(g.Players))
	}
}

// requireUnchanged asserts a failed action left the session as it was
func (s *SessionTestSuite) requireUnchanged(before *models.Game, sess *Session) {
	if diff := cmp.Diff(before, sess.Snapshot()); diff != "" {
		s.Failf("session mutated by failed action", "(-before +after):\n%s", diff)
	}
}

func eventTypes(events []models.Event) []models.EventType {
	types := make([]models.EventType, len(events))
	for i, e := range events {
		types[i] = e.Type
	}
	return types
}

func (s *SessionTestSuite) TestNew_ConfigErrors() {
	_, err := New(nil)
	s.ErrorIs(err, ErrNilConfig)

	_, err = New(&Config{DiceRoller: s.mockRoller})
	s.ErrorIs(err, ErrEmptyRoomID)

	_, err = New(&Config{RoomID: s.testRoomID})
	s.ErrorIs(err, ErrNilRoller)
}

func (s *SessionTestSuite) TestNew_DefaultsRules() {
	sess := s.newSession(Rules{})

	s.Equal(DefaultRules(), sess.Rules())
	s.Equal(models.GameStatusWaiting, sess.Status())
	s.True(sess.IsEmpty())
	s.Equal(s.testRoomID, sess.Snapshot().RoomID)
}

func (s *SessionTestSuite) TestAddPlayer_HappyPath() {
	sess := s.newSession(Rules{})

	out, err := sess.AddPlayer(s.playerA, "Alice")
	s.Require().NoError(err)

	s.Len(out.Game.Players, 1)
	s.Equal("Alice", out.Game.Players[0].Name)
	s.Equal([]models.EventType{models.EventPlayerJoined}, eventTypes(out.Events))

	p := out.Game.Players[0]
	s.True(p.FirstRoll)
	s.Equal(0, p.Score)
	s.Equal(6, p.DiceToRoll)
	s.requireConsistent(out.Game)
}

func (s *SessionTestSuite) TestAddPlayer_DefaultName() {
	sess := s.newSession(Rules{})

	_, err := sess.AddPlayer(s.playerA, "")
	s.Require().NoError(err)
	out, err := sess.AddPlayer(s.playerB, "")
	s.Require().NoError(err)

	s.Equal("Player 1", out.Game.Players[0].Name)
	s.Equal("Player 2", out.Game.Players[1].Name)
}

func (s *SessionTestSuite) TestAddPlayer_RejoinIsNoop() {
	sess := s.newSession(Rules{}, s.playerA)
	before := sess.Snapshot()

	out, err := sess.AddPlayer(s.playerA, "Somebody Else")
	s.Require().NoError(err)

	s.Empty(out.Events)
	s.Len(out.Game.Players, 1)
	s.requireUnchanged(before, sess)
}

func (s *SessionTestSuite) TestAddPlayer_RoomFull() {
	sess := s.newSession(Rules{}, "p1", "p2", "p3", "p4")
	before := sess.Snapshot()

	_, err := sess.AddPlayer("p5", "late")
	s.ErrorIs(err, ErrRoomFull)
	s.requireUnchanged(before, sess)
}

func (s *SessionTestSuite) TestAddPlayer_GameInProgress() {
	sess := s.started(Rules{}, s.playerA, s.playerB)

	_, err := sess.AddPlayer(s.playerC, "late")
	s.ErrorIs(err, ErrInvalidAction)
}

func (s *SessionTestSuite) TestAddPlayer_ReopensEmptiedGame() {
	sess := s.started(Rules{}, s.playerA, s.playerB)
	s.roll(sess, s.playerA, 1, 2, 3, 4, 6, 6)
	s.hold(sess, s.playerA, 0)

	_, err := sess.RemovePlayer(s.playerA)
	s.Require().NoError(err)
	_, err = sess.RemovePlayer(s.playerB)
	s.Require().NoError(err)

	out, err := sess.AddPlayer(s.playerC, "back again")
	s.Require().NoError(err)
	s.requireConsistent(out.Game)

	s.Equal([]models.EventType{models.EventPlayerJoined}, eventTypes(out.Events))
	s.Equal(models.GameStatusWaiting, out.Game.Status)
	s.Require().Len(out.Game.Players, 1)
	s.Equal(s.playerC, out.Game.Players[0].ID)
	s.Equal(0, out.Game.Players[0].Score)
	s.Equal(0, out.Game.CurrentPlayerIndex)

	// the joiner is the creator of the new lobby
	_, err = sess.AddPlayer(s.playerA, "")
	s.Require().NoError(err)
	out, err = sess.Start(s.playerC)
	s.Require().NoError(err)
	s.Equal(s.playerC, out.Game.CurrentPlayer().ID)
}

func (s *SessionTestSuite) TestAddPlayer_EmptiedFinishedGameStaysClosed() {
	sess := s.started(Rules{WinningScore: 1000}, s.playerA, s.playerB)
	s.roll(sess, s.playerA, 1, 1, 1, 2, 3, 4)
	s.hold(sess, s.playerA, 0, 1, 2)
	_, err := sess.Bank(s.playerA)
	s.Require().NoError(err)

	_, err = sess.RemovePlayer(s.playerA)
	s.Require().NoError(err)
	_, err = sess.RemovePlayer(s.playerB)
	s.Require().NoError(err)
	before := sess.Snapshot()

	_, err = sess.AddPlayer(s.playerC, "late")
	s.ErrorIs(err, ErrInvalidAction)
	s.requireUnchanged(before, sess)
}

func (s *SessionTestSuite) TestStart_HappyPath() {
	sess := s.newSession(Rules{}, s.playerA, s.playerB)

	out, err := sess.Start(s.playerA)
	s.Require().NoError(err)

	s.Equal(models.GameStatusPlaying, out.Game.Status)
	s.Equal(0, out.Game.CurrentPlayerIndex)
	s.Equal(s.playerA, out.Game.CurrentPlayer().ID)
	s.True(out.Game.CurrentPlayer().FirstRoll)
	s.Equal([]models.EventType{models.EventGameStarted}, eventTypes(out.Events))
}

func (s *SessionTestSuite) TestStart_NotEnoughPlayers() {
	sess := s.newSession(Rules{}, s.playerA)
	before := sess.Snapshot()

	_, err := sess.Start(s.playerA)
	s.ErrorIs(err, ErrNotEnoughPlayers)
	s.requireUnchanged(before, sess)
}

func (s *SessionTestSuite) TestStart_NotCreator() {
	// regardless of player count
	for _, players := range [][]string{
		{s.playerA},
		{s.playerA, s.playerB},
		{s.playerA, s.playerB, s.playerC},
	} {
		sess := s.newSession(Rules{}, players...)
		before := sess.Snapshot()

		_, err := sess.Start(s.playerB)
		s.ErrorIs(err, ErrNotCreator)
		s.requireUnchanged(before, sess)
	}
}

func (s *SessionTestSuite) TestStart_AlreadyStarted() {
	sess := s.started(Rules{}, s.playerA, s.playerB)

	_, err := sess.Start(s.playerA)
	s.ErrorIs(err, ErrInvalidAction)
}

func (s *SessionTestSuite) TestRoll_BeforeStart() {
	sess := s.newSession(Rules{}, s.playerA, s.playerB)

	_, err := sess.Roll(s.playerA)
	s.ErrorIs(err, ErrInvalidAction)
}

func (s *SessionTestSuite) TestRoll_NotYourTurn() {
	sess := s.started(Rules{}, s.playerA, s.playerB)
	before := sess.Snapshot()

	_, err := sess.Roll(s.playerB)
	s.ErrorIs(err, ErrNotYourTurn)

	_, err = sess.Roll("stranger")
	s.ErrorIs(err, ErrNotYourTurn)
	s.requireUnchanged(before, sess)
}

func (s *SessionTestSuite) TestRoll_FirstRollThrowsAllSix() {
	sess := s.started(Rules{}, s.playerA, s.playerB)

	out := s.roll(sess, s.playerA, 1, 2, 2, 3, 4, 6)

	p := out.Game.CurrentPlayer()
	s.Equal(s.playerA, p.ID)
	s.Equal([6]int{1, 2, 2, 3, 4, 6}, p.Dice)
	s.False(p.FirstRoll)
	s.Equal(0, p.RoundScore)
	s.Empty(out.Events)
}

func (s *SessionTestSuite) TestRoll_ZonkPassesTurn() {
	sess := s.started(Rules{}, s.playerA, s.playerB)

	out := s.roll(sess, s.playerA, 2, 2, 3, 4, 6, 6)

	s.Equal(s.playerB, out.Game.CurrentPlayer().ID)
	s.Equal(1, out.Game.CurrentPlayerIndex)
	s.Require().Len(out.Events, 1)
	s.Equal(models.EventZonk, out.Events[0].Type)
	s.Equal(s.playerA, out.Events[0].PlayerID)
	s.Equal([]int{2, 2, 3, 4, 6, 6}, out.Events[0].Dice)

	a := out.Game.PlayerByID(s.playerA)
	s.Equal(0, a.RoundScore)
	s.Equal([6]bool{}, a.Held)
	s.Equal([6]int(defaultPool), a.Dice)
	s.True(a.FirstRoll)
	s.Equal(1, a.ZonkStreak)

	b := out.Game.PlayerByID(s.playerB)
	s.True(b.FirstRoll)
	s.Equal(0, b.RoundScore)
}

func (s *SessionTestSuite) TestRoll_RerollsOnlyUnheldDice() {
	sess := s.started(Rules{}, s.playerA, s.playerB)

	s.roll(sess, s.playerA, 1, 2, 3, 4, 6, 6)
	s.hold(sess, s.playerA, 0)

	// five dice thrown; position 0 keeps its 1
	out := s.roll(sess, s.playerA, 5, 2, 3, 4, 6)

	p := out.Game.CurrentPlayer()
	s.Equal(s.playerA, p.ID)
	s.Equal([6]int{1, 5, 2, 3, 4, 6}, p.Dice)
	s.Equal([6]bool{true}, p.Held)
	s.Equal(100, p.RoundScore)
	s.Equal(5, p.DiceToRoll)
}

func (s *SessionTestSuite) TestRoll_PartialZonkLosesRoundScore() {
	sess := s.started(Rules{}, s.playerA, s.playerB)

	s.roll(sess, s.playerA, 1, 2, 3, 4, 6, 6)
	s.hold(sess, s.playerA, 0)

	// the held 1 does not save a roll of the other five
	out := s.roll(sess, s.playerA, 2, 3, 4, 6, 6)

	s.Equal(s.playerB, out.Game.CurrentPlayer().ID)
	s.Require().Len(out.Events, 1)
	s.Equal(models.EventZonk, out.Events[0].Type)
	s.Equal(100, out.Events[0].Points)
	s.Equal(0, out.Game.PlayerByID(s.playerA).RoundScore)
}

func (s *SessionTestSuite) TestToggleHold_BeforeFirstRoll() {
	sess := s.started(Rules{}, s.playerA, s.playerB)
	before := sess.Snapshot()

	for i := 0; i < scoring.PoolSize; i++ {
		_, err := sess.ToggleHold(s.playerA, i)
		s.ErrorIs(err, ErrInvalidAction)
	}
	s.requireUnchanged(before, sess)
}

func (s *SessionTestSuite) TestToggleHold_IndexOutOfRange() {
	sess := s.started(Rules{}, s.playerA, s.playerB)
	s.roll(sess, s.playerA, 1, 2, 2, 3, 4, 6)
	before := sess.Snapshot()

	for _, i := range []int{-1, 6, 100} {
		_, err := sess.ToggleHold(s.playerA, i)
		s.ErrorIs(err, ErrInvalidAction)
	}
	s.requireUnchanged(before, sess)
}

func (s *SessionTestSuite) TestToggleHold_NotYourTurn() {
	sess := s.started(Rules{}, s.playerA, s.playerB)
	s.roll(sess, s.playerA, 1, 2, 2, 3, 4, 6)
	before := sess.Snapshot()

	_, err := sess.ToggleHold(s.playerB, 0)
	s.ErrorIs(err, ErrNotYourTurn)
	s.requireUnchanged(before, sess)
}

func (s *SessionTestSuite) TestToggleHold_RecomputesRoundScore() {
	sess := s.started(Rules{}, s.playerA, s.playerB)
	s.roll(sess, s.playerA, 1, 5, 2, 3, 4, 6)

	out := s.hold(sess, s.playerA, 0)
	s.Equal(100, out.Game.CurrentPlayer().RoundScore)
	s.Equal(5, out.Game.CurrentPlayer().DiceToRoll)

	out = s.hold(sess, s.playerA, 1)
	s.Equal(150, out.Game.CurrentPlayer().RoundScore)
	s.Equal(4, out.Game.CurrentPlayer().DiceToRoll)

	// a bare 2 is legal to hold but worth nothing
	out = s.hold(sess, s.playerA, 2)
	s.Equal(150, out.Game.CurrentPlayer().RoundScore)
	s.Equal(3, out.Game.CurrentPlayer().DiceToRoll)

	out = s.hold(sess, s.playerA, 0)
	s.Equal(50, out.Game.CurrentPlayer().RoundScore)
	s.Equal(4, out.Game.CurrentPlayer().DiceToRoll)
}

func (s *SessionTestSuite) TestToggleHold_HotDice() {
	sess := s.started(Rules{WinningScore: 5000}, s.playerA, s.playerB)
	s.roll(sess, s.playerA, 1, 2, 3, 4, 5, 6)

	out := s.hold(sess, s.playerA, 0, 1, 2, 3, 4)
	s.Empty(out.Events)
	s.Equal(150, out.Game.CurrentPlayer().RoundScore)

	out = s.hold(sess, s.playerA, 5)
	s.Equal([]models.EventType{models.EventHotDice}, eventTypes(out.Events))

	p := out.Game.CurrentPlayer()
	s.Equal(s.playerA, p.ID, "hot dice does not end the turn")
	s.Equal(1500, p.RoundScore)
	s.Equal(1500, p.Carry)
	s.Equal([6]bool{}, p.Held)
	s.Equal(6, p.DiceToRoll)
	s.True(p.HotDice)

	// the carried dice cannot be held again before the bonus roll
	_, err := sess.ToggleHold(s.playerA, 0)
	s.ErrorIs(err, ErrInvalidAction)

	out = s.roll(sess, s.playerA, 1, 3, 3, 4, 6, 2)
	p = out.Game.CurrentPlayer()
	s.False(p.HotDice)
	s.Equal([6]int{1, 3, 3, 4, 6, 2}, p.Dice)
	s.Equal(1500, p.RoundScore)

	out = s.hold(sess, s.playerA, 0)
	s.Equal(1600, out.Game.CurrentPlayer().RoundScore)
}

func (s *SessionTestSuite) TestToggleHold_HotDiceZonkLosesCarry() {
	sess := s.started(Rules{WinningScore: 5000}, s.playerA, s.playerB)
	s.roll(sess, s.playerA, 2, 2, 3, 3, 6, 6)
	s.hold(sess, s.playerA, 0, 1, 2, 3, 4, 5)

	out := s.roll(sess, s.playerA, 2, 2, 3, 4, 6, 6)

	s.Require().Len(out.Events, 1)
	s.Equal(models.EventZonk, out.Events[0].Type)
	s.Equal(750, out.Events[0].Points)
	s.Equal(s.playerB, out.Game.CurrentPlayer().ID)
	s.Equal(0, out.Game.PlayerByID(s.playerA).Carry)
}

func (s *SessionTestSuite) TestBank_OpeningMinimumNotMet() {
	sess := s.started(Rules{}, s.playerA, s.playerB)
	s.roll(sess, s.playerA, 1, 1, 5, 2, 3, 4)
	s.hold(sess, s.playerA, 0, 1, 2)
	before := sess.Snapshot()
	s.Equal(250, before.CurrentPlayer().RoundScore)

	_, err := sess.Bank(s.playerA)
	s.ErrorIs(err, ErrCannotBank)
	s.requireUnchanged(before, sess)
}

func (s *SessionTestSuite) TestBank_HappyPath() {
	sess := s.started(Rules{}, s.playerA, s.playerB)
	s.roll(sess, s.playerA, 1, 1, 5, 5, 2, 3)
	s.hold(sess, s.playerA, 0, 1, 2, 3)

	out, err := sess.Bank(s.playerA)
	s.Require().NoError(err)
	s.requireConsistent(out.Game)

	s.Equal([]models.EventType{models.EventBanked}, eventTypes(out.Events))
	s.Equal(300, out.Events[0].Points)
	s.Equal(300, out.Events[0].Score)

	a := out.Game.PlayerByID(s.playerA)
	s.Equal(300, a.Score)
	s.Equal(0, a.RoundScore)
	s.True(a.FirstRoll)
	s.Equal([6]bool{}, a.Held)

	s.Equal(s.playerB, out.Game.CurrentPlayer().ID)
	s.Equal(models.GameStatusPlaying, out.Game.Status)
}

func (s *SessionTestSuite) TestBank_AfterOpeningAnyPointsWillDo() {
	sess := s.started(Rules{}, s.playerA, s.playerB)

	s.roll(sess, s.playerA, 1, 1, 5, 5, 2, 3)
	s.hold(sess, s.playerA, 0, 1, 2, 3)
	_, err := sess.Bank(s.playerA)
	s.Require().NoError(err)

	s.roll(sess, s.playerB, 2, 2, 3, 4, 6, 6)

	s.roll(sess, s.playerA, 5, 2, 3, 4, 6, 6)
	s.hold(sess, s.playerA, 0)
	out, err := sess.Bank(s.playerA)
	s.Require().NoError(err)

	s.Equal(350, out.Game.PlayerByID(s.playerA).Score)
}

func (s *SessionTestSuite) TestBank_HouseOpeningScore() {
	sess := s.started(Rules{OpeningScore: 500}, s.playerA, s.playerB)
	s.roll(sess, s.playerA, 1, 1, 5, 5, 2, 3)
	s.hold(sess, s.playerA, 0, 1, 2, 3)

	_, err := sess.Bank(s.playerA)
	s.ErrorIs(err, ErrCannotBank)
}

func (s *SessionTestSuite) TestBank_NothingHeld() {
	sess := s.started(Rules{}, s.playerA, s.playerB)
	s.roll(sess, s.playerA, 1, 1, 1, 5, 2, 3)

	_, err := sess.Bank(s.playerA)
	s.ErrorIs(err, ErrCannotBank)
}

func (s *SessionTestSuite) TestBank_Win() {
	sess := s.started(Rules{WinningScore: 1000}, s.playerA, s.playerB)
	s.roll(sess, s.playerA, 1, 1, 1, 2, 3, 4)
	s.hold(sess, s.playerA, 0, 1, 2)

	out, err := sess.Bank(s.playerA)
	s.Require().NoError(err)
	s.requireConsistent(out.Game)

	s.Equal([]models.EventType{models.EventBanked, models.EventWin}, eventTypes(out.Events))
	s.Equal(models.GameStatusFinished, out.Game.Status)
	s.Require().NotNil(out.Game.Winner)
	s.Equal(s.playerA, out.Game.Winner.ID)
	s.Equal(1000, out.Game.Winner.Score)

	// finished games are read-only
	_, err = sess.Roll(s.playerA)
	s.ErrorIs(err, ErrInvalidAction)
	_, err = sess.Roll(s.playerB)
	s.ErrorIs(err, ErrInvalidAction)
	_, err = sess.Bank(s.playerA)
	s.ErrorIs(err, ErrInvalidAction)
	_, err = sess.AddPlayer(s.playerC, "late")
	s.ErrorIs(err, ErrInvalidAction)

	out, err = sess.RemovePlayer(s.playerB)
	s.Require().NoError(err)
	s.Equal(models.GameStatusFinished, out.Game.Status)
	s.Equal(s.playerA, out.Game.Winner.ID)
}

func (s *SessionTestSuite) TestRemovePlayer_CurrentPlayerPassesTurn() {
	sess := s.started(Rules{}, s.playerA, s.playerB, s.playerC)
	s.roll(sess, s.playerA, 2, 2, 3, 4, 6, 6) // zonk, B is up
	s.roll(sess, s.playerB, 1, 2, 3, 4, 6, 6)

	out, err := sess.RemovePlayer(s.playerB)
	s.Require().NoError(err)
	s.requireConsistent(out.Game)

	s.Equal([]models.EventType{models.EventPlayerLeft}, eventTypes(out.Events))
	s.Len(out.Game.Players, 2)
	s.Equal(s.playerC, out.Game.CurrentPlayer().ID)
	s.Equal(1, out.Game.CurrentPlayerIndex)
	s.True(out.Game.CurrentPlayer().FirstRoll)
}

func (s *SessionTestSuite) TestRemovePlayer_LastSeatCurrentWrapsToFirst() {
	sess := s.started(Rules{}, s.playerA, s.playerB, s.playerC)
	s.roll(sess, s.playerA, 2, 2, 3, 4, 6, 6)
	s.roll(sess, s.playerB, 2, 2, 3, 4, 6, 6) // C is up

	out, err := sess.RemovePlayer(s.playerC)
	s.Require().NoError(err)

	s.Equal(s.playerA, out.Game.CurrentPlayer().ID)
	s.Equal(0, out.Game.CurrentPlayerIndex)
}

func (s *SessionTestSuite) TestRemovePlayer_EarlierSeatKeepsCurrent() {
	sess := s.started(Rules{}, s.playerA, s.playerB, s.playerC)
	s.roll(sess, s.playerA, 2, 2, 3, 4, 6, 6)
	s.roll(sess, s.playerB, 2, 2, 3, 4, 6, 6) // C is up
	s.roll(sess, s.playerC, 1, 2, 3, 4, 6, 6)
	s.hold(sess, s.playerC, 0)

	out, err := sess.RemovePlayer(s.playerA)
	s.Require().NoError(err)

	s.Equal(s.playerC, out.Game.CurrentPlayer().ID)
	s.Equal(1, out.Game.CurrentPlayerIndex)
	s.Equal(100, out.Game.CurrentPlayer().RoundScore, "C keeps their turn in progress")
}

func (s *SessionTestSuite) TestRemovePlayer_LaterSeatKeepsCurrent() {
	sess := s.started(Rules{}, s.playerA, s.playerB, s.playerC)

	out, err := sess.RemovePlayer(s.playerC)
	s.Require().NoError(err)

	s.Equal(s.playerA, out.Game.CurrentPlayer().ID)
	s.Equal(0, out.Game.CurrentPlayerIndex)
}

func (s *SessionTestSuite) TestRemovePlayer_LastPlayerEmptiesRoom() {
	sess := s.started(Rules{}, s.playerA, s.playerB)

	_, err := sess.RemovePlayer(s.playerA)
	s.Require().NoError(err)
	out, err := sess.RemovePlayer(s.playerB)
	s.Require().NoError(err)

	s.True(sess.IsEmpty())
	s.Empty(out.Game.Players)
	s.Equal(0, out.Game.CurrentPlayerIndex)
	s.Nil(out.Game.CurrentPlayer())
}

func (s *SessionTestSuite) TestRemovePlayer_LonePlayerKeepsPlaying() {
	sess := s.started(Rules{WinningScore: 1000}, s.playerA, s.playerB)

	out, err := sess.RemovePlayer(s.playerB)
	s.Require().NoError(err)
	s.Equal(models.GameStatusPlaying, out.Game.Status)
	s.Equal(s.playerA, out.Game.CurrentPlayer().ID)

	// with no one left to pass to, the turn comes straight back
	s.roll(sess, s.playerA, 2, 2, 3, 4, 6, 6)
	s.Equal(s.playerA, sess.Snapshot().CurrentPlayer().ID)

	s.roll(sess, s.playerA, 1, 1, 1, 2, 3, 4)
	s.hold(sess, s.playerA, 0, 1, 2)
	out, err = sess.Bank(s.playerA)
	s.Require().NoError(err)
	s.Equal(models.GameStatusFinished, out.Game.Status)
	s.Equal(s.playerA, out.Game.Winner.ID)
}

func (s *SessionTestSuite) TestRemovePlayer_CreatorLeavesWhileWaiting() {
	sess := s.newSession(Rules{}, s.playerA, s.playerB, s.playerC)

	_, err := sess.RemovePlayer(s.playerA)
	s.Require().NoError(err)

	// B now sits in seat 0 and may start
	out, err := sess.Start(s.playerB)
	s.Require().NoError(err)
	s.Equal(s.playerB, out.Game.CurrentPlayer().ID)
}

func (s *SessionTestSuite) TestRemovePlayer_NotSeated() {
	sess := s.newSession(Rules{}, s.playerA)
	before := sess.Snapshot()

	_, err := sess.RemovePlayer(s.playerB)
	s.ErrorIs(err, ErrPlayerNotInGame)
	s.requireUnchanged(before, sess)
}

func (s *SessionTestSuite) TestZonkStreakPenalty() {
	sess := s.started(Rules{WinningScore: 5000, ZonkStreakLimit: 3, ZonkPenalty: 500}, s.playerA, s.playerB)
	zonk := []int{2, 2, 3, 4, 6, 6}

	s.roll(sess, s.playerA, 1, 1, 5, 5, 2, 3)
	s.hold(sess, s.playerA, 0, 1, 2, 3)
	_, err := sess.Bank(s.playerA)
	s.Require().NoError(err)

	s.roll(sess, s.playerB, zonk...)
	s.roll(sess, s.playerA, zonk...)
	s.roll(sess, s.playerB, zonk...)
	out := s.roll(sess, s.playerA, zonk...)
	s.Equal(300, out.Game.PlayerByID(s.playerA).Score)
	s.Equal(2, out.Game.PlayerByID(s.playerA).ZonkStreak)

	s.roll(sess, s.playerB, zonk...)
	out = s.roll(sess, s.playerA, zonk...)

	s.Equal([]models.EventType{models.EventZonk, models.EventZonkPenalty}, eventTypes(out.Events))
	s.Equal(300, out.Events[1].Points, "penalty never takes the score below zero")
	a := out.Game.PlayerByID(s.playerA)
	s.Equal(0, a.Score)
	s.Equal(0, a.ZonkStreak)
}

func (s *SessionTestSuite) TestZonkStreak_ResetByBank() {
	sess := s.started(Rules{WinningScore: 5000, ZonkPenalty: 500}, s.playerA, s.playerB)

	s.roll(sess, s.playerA, 2, 2, 3, 4, 6, 6)
	s.roll(sess, s.playerB, 2, 2, 3, 4, 6, 6)
	s.roll(sess, s.playerA, 1, 1, 5, 5, 2, 3)
	s.hold(sess, s.playerA, 0, 1, 2, 3)

	out, err := sess.Bank(s.playerA)
	s.Require().NoError(err)
	s.Equal(0, out.Game.PlayerByID(s.playerA).ZonkStreak)
}

func (s *SessionTestSuite) TestVersion_IncrementsOnlyOnSuccess() {
	sess := s.newSession(Rules{}, s.playerA, s.playerB)
	v := sess.Snapshot().Version

	_, err := sess.Start(s.playerB)
	s.Require().Error(err)
	s.Equal(v, sess.Snapshot().Version)

	out, err := sess.Start(s.playerA)
	s.Require().NoError(err)
	s.Equal(v+1, out.Game.Version)
	s.Equal(s.testTime, out.Game.UpdatedAt)
}

func (s *SessionTestSuite) TestSnapshot_IsDeepCopy() {
	sess := s.started(Rules{}, s.playerA, s.playerB)
	snap := sess.Snapshot()

	snap.Players[0].Score = 9999
	snap.Players[0].Dice[0] = 1
	snap.Players = snap.Players[:1]

	fresh := sess.Snapshot()
	s.Equal(0, fresh.Players[0].Score)
	s.Equal(6, fresh.Players[0].Dice[0])
	s.Len(fresh.Players, 2)
}
