// internal/game/game_test.go
package game

import (
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pascal-fortunati/uno-server/internal/models"
)

// stateRecorder captures every broadcast push for assertions.
type stateRecorder struct {
	mu     sync.Mutex
	states []State
}

func (r *stateRecorder) push(st State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, st)
}

func (r *stateRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.states)
}

func (r *stateRecorder) last() (State, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.states) == 0 {
		return State{}, false
	}
	return r.states[len(r.states)-1], true
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func humanSeats() []*models.Player {
	return []*models.Player{
		{ID: 1, Name: "Alice"},
		{ID: 2, Name: "Bob"},
		{ID: 3, Name: "Carol"},
		{ID: 4, Name: "Dave"},
	}
}

// fixedGame builds a game already in play with a known red-5 discard top and
// a blue-heavy draw pile, bypassing Start so tests control every hand.
func fixedGame(seats []*models.Player) (*UnoGame, *stateRecorder) {
	g := NewUnoGame(seats, quietLogger())
	rec := &stateRecorder{}
	g.BroadcastFn = rec.push
	g.BotDelay = time.Hour // keep scheduled bots from firing mid-test

	g.Phase = PhasePlaying
	g.CurrentColor = models.ColorRed
	g.DiscardPile = []models.Card{numCard(900, models.ColorRed, 5)}
	for i := 0; i < 8; i++ {
		g.DrawPile = append(g.DrawPile, numCard(800+i, models.ColorBlue, i+1))
	}
	return g, rec
}

func totalCards(g *UnoGame) int {
	n := len(g.DrawPile) + len(g.DiscardPile)
	for _, p := range g.Players {
		n += len(p.Hand)
	}
	return n
}

func TestStartDealsHands(t *testing.T) {
	g := NewUnoGame(humanSeats(), quietLogger())
	rec := &stateRecorder{}
	g.BroadcastFn = rec.push
	g.BotDelay = time.Hour

	g.Start()

	assert.Equal(t, PhasePlaying, g.Phase)
	for _, p := range g.Players {
		assert.Len(t, p.Hand, HandSize)
	}
	assert.Len(t, g.DiscardPile, 1)
	assert.Len(t, g.DrawPile, DeckSize-Seats*HandSize-1)
	assert.Equal(t, DeckSize, totalCards(g))
	assert.True(t, models.IsPlayableColor(g.CurrentColor), "starting color must be concrete even on a wild starter")
	assert.Equal(t, 1, rec.count())
}

func TestStartIgnoredOutsideLobby(t *testing.T) {
	g, rec := fixedGame(humanSeats())
	g.Start()
	assert.Equal(t, 0, rec.count())
	assert.Len(t, g.DiscardPile, 1)
}

func TestPlayNumberCardAdvancesTurn(t *testing.T) {
	g, rec := fixedGame(humanSeats())
	card := numCard(10, models.ColorRed, 3)
	g.Players[0].Hand = []models.Card{card, numCard(11, models.ColorGreen, 9), numCard(12, models.ColorBlue, 1)}

	g.HandlePlayCard(1, card.ID)

	assert.Equal(t, card.ID, g.DiscardPile[len(g.DiscardPile)-1].ID)
	assert.Len(t, g.Players[0].Hand, 2)
	assert.Equal(t, 1, g.CurrentPlayerIndex)
	assert.Equal(t, models.ColorRed, g.CurrentColor)
	assert.Equal(t, 1, g.Stats.Turns)
	assert.Equal(t, 1, rec.count())
}

func TestPlayCardOutOfTurnIgnored(t *testing.T) {
	g, rec := fixedGame(humanSeats())
	card := numCard(10, models.ColorRed, 3)
	g.Players[1].Hand = []models.Card{card}

	g.HandlePlayCard(2, card.ID) // seat 0 is current, not seat 1

	assert.Len(t, g.Players[1].Hand, 1)
	assert.Equal(t, 0, g.CurrentPlayerIndex)
	assert.Equal(t, 0, rec.count())
}

func TestPlayIllegalCardIgnored(t *testing.T) {
	g, rec := fixedGame(humanSeats())
	card := numCard(10, models.ColorGreen, 9) // no color or value match
	g.Players[0].Hand = []models.Card{card, numCard(11, models.ColorRed, 1)}

	g.HandlePlayCard(1, card.ID)

	assert.Len(t, g.Players[0].Hand, 2)
	assert.Equal(t, 0, g.CurrentPlayerIndex)
	assert.Equal(t, 0, rec.count())
}

func TestSkipSkipsNextSeat(t *testing.T) {
	g, _ := fixedGame(humanSeats())
	card := specialCard(10, models.ColorRed, models.TypeSkip)
	g.Players[0].Hand = []models.Card{card, numCard(11, models.ColorGreen, 9), numCard(12, models.ColorBlue, 1)}

	g.HandlePlayCard(1, card.ID)

	assert.Equal(t, 2, g.CurrentPlayerIndex)
}

func TestReverseFlipsDirection(t *testing.T) {
	g, _ := fixedGame(humanSeats())
	card := specialCard(10, models.ColorRed, models.TypeReverse)
	g.Players[0].Hand = []models.Card{card, numCard(11, models.ColorGreen, 9), numCard(12, models.ColorBlue, 1)}

	g.HandlePlayCard(1, card.ID)

	assert.Equal(t, -1, g.Direction)
	assert.Equal(t, 3, g.CurrentPlayerIndex)
}

func TestDraw2StackingAndSwallow(t *testing.T) {
	g, _ := fixedGame(humanSeats())
	first := specialCard(10, models.ColorRed, models.TypeDraw2)
	second := specialCard(11, models.ColorBlue, models.TypeDraw2)
	g.Players[0].Hand = []models.Card{first, numCard(12, models.ColorGreen, 9), numCard(16, models.ColorGreen, 4)}
	g.Players[1].Hand = []models.Card{second, numCard(13, models.ColorGreen, 9), numCard(17, models.ColorGreen, 6)}
	g.Players[2].Hand = []models.Card{numCard(14, models.ColorBlue, 2), numCard(15, models.ColorGreen, 9)}

	g.HandlePlayCard(1, first.ID)
	assert.Equal(t, 2, g.PendingDraw)
	assert.Equal(t, 1, g.CurrentPlayerIndex)

	g.HandlePlayCard(2, second.ID)
	assert.Equal(t, 4, g.PendingDraw)
	assert.Equal(t, models.ColorBlue, g.CurrentColor)
	assert.Equal(t, 2, g.CurrentPlayerIndex)

	// Seat 2 has no stacker; a matching blue number is still blocked.
	g.HandlePlayCard(3, 14)
	assert.Equal(t, 2, g.CurrentPlayerIndex)

	g.HandleDrawCard(3)
	assert.Equal(t, 0, g.PendingDraw)
	assert.Len(t, g.Players[2].Hand, 6)
	assert.Equal(t, 4, g.Stats.Drawn)
	assert.Equal(t, 3, g.CurrentPlayerIndex)
}

func TestWildEntersColorChoice(t *testing.T) {
	g, rec := fixedGame(humanSeats())
	card := wildCard(10, models.TypeWild)
	g.Players[0].Hand = []models.Card{card, numCard(11, models.ColorGreen, 9), numCard(12, models.ColorBlue, 1)}

	g.HandlePlayCard(1, card.ID)

	require.NotNil(t, g.AwaitingColorChoice)
	assert.Equal(t, 0, g.AwaitingColorChoice.PlayerIndex)
	assert.Equal(t, models.TypeWild, g.AwaitingColorChoice.CardType)
	assert.Equal(t, 0, g.CurrentPlayerIndex, "turn must not advance before the color is chosen")
	assert.Equal(t, 0, g.Stats.Turns)
	assert.Equal(t, 1, rec.count())

	// Everything but the owner's color choice is frozen.
	g.HandlePlayCard(1, 11)
	g.HandleDrawCard(1)
	assert.Len(t, g.Players[0].Hand, 2)
	assert.Equal(t, 0, g.CurrentPlayerIndex)

	g.HandleChooseColor(2, models.ColorBlue) // not the owner
	require.NotNil(t, g.AwaitingColorChoice)
	g.HandleChooseColor(1, models.ColorWild) // not a pickable color
	require.NotNil(t, g.AwaitingColorChoice)

	g.HandleChooseColor(1, models.ColorBlue)
	assert.Nil(t, g.AwaitingColorChoice)
	assert.Equal(t, models.ColorBlue, g.CurrentColor)
	assert.Equal(t, 1, g.CurrentPlayerIndex)
}

func TestWild4AddsPendingDraw(t *testing.T) {
	g, _ := fixedGame(humanSeats())
	card := wildCard(10, models.TypeWild4)
	g.Players[0].Hand = []models.Card{card, numCard(11, models.ColorGreen, 9), numCard(12, models.ColorBlue, 1)}

	g.HandlePlayCard(1, card.ID)
	g.HandleChooseColor(1, models.ColorGreen)

	assert.Equal(t, 4, g.PendingDraw)
	assert.Equal(t, models.ColorGreen, g.CurrentColor)
	assert.Equal(t, 1, g.CurrentPlayerIndex)
}

func TestMissedUnoPenalty(t *testing.T) {
	g, _ := fixedGame(humanSeats())
	card := numCard(10, models.ColorRed, 3)
	g.Players[0].Hand = []models.Card{card, numCard(11, models.ColorGreen, 9)}

	g.HandlePlayCard(1, card.ID)

	assert.Len(t, g.Players[0].Hand, 3, "down to one card without UNO draws two")
	assert.Equal(t, 2, g.Stats.Drawn)
	assert.Contains(t, g.Message, "missed UNO")
}

func TestSayUnoPreventsPenalty(t *testing.T) {
	g, _ := fixedGame(humanSeats())
	card := numCard(10, models.ColorRed, 3)
	g.Players[0].Hand = []models.Card{card, numCard(11, models.ColorGreen, 9)}

	g.HandleSayUno(1)
	require.True(t, g.Players[0].HasUno)

	g.HandlePlayCard(1, card.ID)

	assert.Len(t, g.Players[0].Hand, 1)
	assert.Equal(t, 0, g.Stats.Drawn)
	assert.True(t, g.Players[0].HasUno, "the flag survives while the hand stays at one card")
}

func TestSayUnoRequiresExactlyTwoCards(t *testing.T) {
	g, _ := fixedGame(humanSeats())
	g.Players[0].Hand = []models.Card{
		numCard(10, models.ColorRed, 3),
		numCard(11, models.ColorGreen, 9),
		numCard(12, models.ColorBlue, 1),
	}

	g.HandleSayUno(1)
	assert.False(t, g.Players[0].HasUno)

	g.HandleSayUno(2) // not the current seat
	assert.False(t, g.Players[1].HasUno)
}

func TestUnoFlagClearedOnTurnAdvance(t *testing.T) {
	g, _ := fixedGame(humanSeats())
	card := numCard(10, models.ColorRed, 3)
	g.Players[0].Hand = []models.Card{card, numCard(11, models.ColorGreen, 9), numCard(12, models.ColorBlue, 1)}
	g.Players[1].Hand = []models.Card{numCard(13, models.ColorGreen, 9), numCard(14, models.ColorBlue, 1)}
	g.Players[1].HasUno = true // stale declaration from an earlier turn
	g.Players[2].Hand = []models.Card{numCard(15, models.ColorGreen, 9)}
	g.Players[2].HasUno = true // legitimately sitting on one card

	g.HandlePlayCard(1, card.ID)

	assert.False(t, g.Players[1].HasUno)
	assert.True(t, g.Players[2].HasUno)
}

func TestWinEndsGameImmediately(t *testing.T) {
	g, rec := fixedGame(humanSeats())
	card := wildCard(10, models.TypeWild4)
	g.Players[0].Hand = []models.Card{card}
	g.Players[0].HasUno = true

	g.HandlePlayCard(1, card.ID)

	assert.Equal(t, PhaseEnded, g.Phase)
	assert.Equal(t, int64(1), g.WinnerID)
	assert.Nil(t, g.AwaitingColorChoice, "win precedes the color-choice sub-state")
	assert.Equal(t, 0, g.PendingDraw, "win precedes the +4 effect")

	st, ok := rec.last()
	require.True(t, ok)
	require.NotNil(t, st.WinnerID)
	assert.Equal(t, int64(1), *st.WinnerID)
	assert.Equal(t, PhaseEnded, st.GamePhase)

	// A finished game ignores further input.
	before := rec.count()
	g.HandleDrawCard(2)
	g.HandlePlayCard(2, 10)
	assert.Equal(t, before, rec.count())
}

func TestDrawReshufflesDiscardPile(t *testing.T) {
	g, _ := fixedGame(humanSeats())
	g.DrawPile = nil
	g.DiscardPile = []models.Card{
		numCard(20, models.ColorGreen, 1),
		numCard(21, models.ColorGreen, 2),
		numCard(22, models.ColorRed, 5), // top, must stay on the discard
	}
	g.Players[0].Hand = []models.Card{numCard(10, models.ColorGreen, 9), numCard(11, models.ColorBlue, 1)}
	before := totalCards(g)

	g.HandleDrawCard(1)

	assert.Equal(t, before, totalCards(g))
	require.Len(t, g.DiscardPile, 1)
	assert.Equal(t, 22, g.DiscardPile[0].ID)
	assert.Len(t, g.Players[0].Hand, 3)
	assert.Equal(t, 1, g.CurrentPlayerIndex)
}

func TestDrawOnExhaustedPilesStillAdvances(t *testing.T) {
	g, _ := fixedGame(humanSeats())
	g.DrawPile = nil
	g.DiscardPile = g.DiscardPile[:1] // only the top, nothing to reshuffle
	g.Players[0].Hand = []models.Card{numCard(10, models.ColorGreen, 9), numCard(11, models.ColorBlue, 1)}

	g.HandleDrawCard(1)

	assert.Len(t, g.Players[0].Hand, 2, "no cards exist to draw")
	assert.Equal(t, 1, g.Stats.Drawn, "the request is still counted")
	assert.Equal(t, 1, g.CurrentPlayerIndex)
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	g, _ := fixedGame(humanSeats())
	g.Players[0].Hand = []models.Card{numCard(10, models.ColorRed, 3)}

	st := g.Snapshot()
	st.Players[0].Hand[0].ID = 999
	st.DrawPile[0].ID = 999

	assert.Equal(t, 10, g.Players[0].Hand[0].ID)
	assert.NotEqual(t, 999, g.DrawPile[0].ID)
}
