// internal/game/game.go
package game

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pascal-fortunati/uno-server/internal/models"
)

// Phase is the lifecycle stage of a game: lobby -> playing -> ended.
type Phase string

const (
	PhaseLobby   Phase = "lobby"
	PhasePlaying Phase = "playing"
	PhaseEnded   Phase = "ended"
)

// Seats is the fixed number of players in a game.
const Seats = 4

// HandSize is the number of cards dealt to each seat.
const HandSize = 7

// ColorChoice marks the sub-state entered after a wild/wild4 play: the turn
// does not advance until the owning seat picks a color.
type ColorChoice struct {
	PlayerIndex int             `json:"playerIndex"`
	CardType    models.CardType `json:"cardType"`
}

// Stats carries running counters for the current game.
type Stats struct {
	Turns int `json:"turns"`
	Drawn int `json:"drawn"`
}

// UnoGame holds the entire state for one game instance. It is the single
// mutable shared resource in the room; every mutation happens under Mu, and
// turn ordering is whatever order the callers acquire the lock in.
type UnoGame struct {
	ID uuid.UUID

	Players             []*models.Player
	DrawPile            []models.Card
	DiscardPile         []models.Card // top of pile = last element
	CurrentPlayerIndex  int
	Direction           int
	CurrentColor        models.Color
	PendingDraw         int
	AwaitingColorChoice *ColorChoice
	Phase               Phase
	WinnerID            int64 // 0 until a seat wins
	Message             string
	Stats               Stats

	Mu sync.Mutex

	// BroadcastFn receives a full state snapshot after every mutation.
	// It is invoked while the game lock is held, so implementations must
	// not call back into the game.
	BroadcastFn func(st State)

	// BotDelay is how long a bot "thinks" before its scheduled move.
	BotDelay time.Duration

	turnSeq  int // increments on every turn advance; stale-timer guard
	botTimer *time.Timer
	stopped  bool

	rng    *rand.Rand
	logger *logrus.Logger
}

// NewUnoGame builds a game in the lobby phase for exactly four seats.
// Nothing is dealt until Start is called.
func NewUnoGame(seats []*models.Player, logger *logrus.Logger) *UnoGame {
	if logger == nil {
		logger = logrus.New()
	}
	return &UnoGame{
		ID:        uuid.New(),
		Players:   seats,
		Direction: 1,
		Phase:     PhaseLobby,
		BotDelay:  700 * time.Millisecond,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:    logger,
	}
}

// Start deals the opening hands, flips the starter card, and begins play.
func (g *UnoGame) Start() {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if g.Phase != PhaseLobby || len(g.Players) != Seats {
		g.logger.Warnf("game %s: Start called in phase %s with %d seats, ignoring", g.ID, g.Phase, len(g.Players))
		return
	}

	g.DrawPile = BuildDeck(g.rng)
	for round := 0; round < HandSize; round++ {
		for _, p := range g.Players {
			p.Hand = append(p.Hand, g.popDrawPileLocked())
		}
	}

	starter := g.popDrawPileLocked()
	g.DiscardPile = append(g.DiscardPile, starter)
	if starter.Color == models.ColorWild {
		g.CurrentColor = models.Colors[g.rng.Intn(len(models.Colors))]
	} else {
		g.CurrentColor = starter.Color
	}

	g.Phase = PhasePlaying
	g.Message = "The game begins!"
	g.logger.WithFields(logrus.Fields{
		"game":    g.ID,
		"starter": starter.ID,
		"color":   g.CurrentColor,
	}).Info("game started")

	g.broadcastStateLocked()
	g.scheduleBotTurnLocked()
}

// Stop cancels any scheduled bot move and marks the instance dead. Called on
// room reset; a timer that already fired becomes a no-op via the stopped flag.
func (g *UnoGame) Stop() {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	g.stopped = true
	g.cancelBotTimerLocked()
}

// Snapshot returns a copy of the full game state, e.g. for late-join sync.
func (g *UnoGame) Snapshot() State {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.snapshotLocked()
}

// HandlePlayCard processes a playCard request from a human seat. Illegal and
// out-of-turn requests are silent no-ops.
func (g *UnoGame) HandlePlayCard(playerID int64, cardID int) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if g.Phase != PhasePlaying || g.WinnerID != 0 {
		return
	}
	if g.AwaitingColorChoice != nil {
		// Engine is halted until the pending color is chosen.
		return
	}

	idx := g.CurrentPlayerIndex
	p := g.Players[idx]
	if p.ID != playerID {
		g.logger.Debugf("game %s: playCard from %d out of turn", g.ID, playerID)
		return
	}

	card, ok := p.FindCard(cardID)
	if !ok {
		return
	}
	if !CanPlayCard(card, g.discardTopLocked(), g.CurrentColor, g.PendingDraw) {
		g.logger.Debugf("game %s: illegal card %d from %s", g.ID, cardID, p.Name)
		return
	}

	if g.playLocked(idx, card) {
		return // hand emptied, game over
	}

	if card.IsWild() {
		g.AwaitingColorChoice = &ColorChoice{PlayerIndex: idx, CardType: card.Type}
		g.Message = fmt.Sprintf("%s is choosing a color.", p.Name)
		g.cancelBotTimerLocked()
		g.broadcastStateLocked()
		return
	}

	g.applyCardEffectLocked(idx, card)
}

// HandleDrawCard processes a drawCard request: the whole pending draw if one
// is outstanding, otherwise a single card; either way the turn advances.
func (g *UnoGame) HandleDrawCard(playerID int64) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if g.Phase != PhasePlaying || g.WinnerID != 0 || g.AwaitingColorChoice != nil {
		return
	}

	idx := g.CurrentPlayerIndex
	p := g.Players[idx]
	if p.IsBot || p.ID != playerID {
		return
	}

	if g.PendingDraw > 0 {
		amount := g.PendingDraw
		g.drawCardsLocked(idx, amount)
		g.Message = fmt.Sprintf("%s draws %d cards.", p.Name, amount)
		g.PendingDraw = 0
		g.finishTurnLocked(idx, 0)
		return
	}

	g.drawCardsLocked(idx, 1)
	g.Message = fmt.Sprintf("%s draws a card.", p.Name)
	g.finishTurnLocked(idx, 0)
}

// HandleSayUno marks the current seat as having declared UNO. Accepted only
// at hand size exactly two: the declaration happens before the play that
// brings the hand down to one.
func (g *UnoGame) HandleSayUno(playerID int64) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if g.Phase != PhasePlaying || g.WinnerID != 0 {
		return
	}
	p := g.Players[g.CurrentPlayerIndex]
	if p.IsBot || p.ID != playerID || len(p.Hand) != 2 {
		return
	}

	p.HasUno = true
	g.Message = fmt.Sprintf("%s shouts UNO!", p.Name)
	g.broadcastStateLocked()
}

// HandleChooseColor resolves a pending wild color choice owned by playerID.
func (g *UnoGame) HandleChooseColor(playerID int64, color models.Color) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if g.Phase != PhasePlaying || g.WinnerID != 0 || g.AwaitingColorChoice == nil {
		return
	}
	if !models.IsPlayableColor(color) {
		return
	}

	choice := *g.AwaitingColorChoice
	p := g.Players[choice.PlayerIndex]
	if p.IsBot || p.ID != playerID {
		return
	}

	g.resolveColorChoiceLocked(choice.PlayerIndex, choice.CardType, color)
}

// playLocked removes the card from the acting hand and pushes it onto the
// discard pile. If the play empties the hand the game ends immediately,
// before any color choice or pending draw would apply; returns true then.
// Assumes lock is held.
func (g *UnoGame) playLocked(idx int, card models.Card) bool {
	p := g.Players[idx]
	if _, ok := p.RemoveCard(card.ID); !ok {
		return false
	}
	g.DiscardPile = append(g.DiscardPile, card)

	if len(p.Hand) == 0 {
		g.Phase = PhaseEnded
		g.WinnerID = p.ID
		g.Message = fmt.Sprintf("%s wins the game!", p.Name)
		g.logger.WithFields(logrus.Fields{"game": g.ID, "winner": p.Name}).Info("game over")
		g.cancelBotTimerLocked()
		g.broadcastStateLocked()
		return true
	}
	return false
}

// applyCardEffectLocked applies the effect of a non-wild card that has
// already been moved to the discard pile, then finishes the turn.
// Assumes lock is held.
func (g *UnoGame) applyCardEffectLocked(idx int, card models.Card) {
	p := g.Players[idx]
	g.CurrentColor = card.Color
	skipped := 0

	switch card.Type {
	case models.TypeSkip:
		skipped = 1
		g.Message = fmt.Sprintf("%s played Skip.", p.Name)
	case models.TypeReverse:
		g.Direction = -g.Direction
		g.Message = fmt.Sprintf("%s played Reverse.", p.Name)
	case models.TypeDraw2:
		g.PendingDraw += 2
		g.Message = fmt.Sprintf("%s played +2.", p.Name)
	}

	g.finishTurnLocked(idx, skipped)
}

// resolveColorChoiceLocked completes a wild/wild4 play with the chosen color.
// Assumes lock is held.
func (g *UnoGame) resolveColorChoiceLocked(idx int, cardType models.CardType, color models.Color) {
	p := g.Players[idx]
	g.CurrentColor = color
	g.AwaitingColorChoice = nil

	if cardType == models.TypeWild4 {
		g.PendingDraw += 4
		g.Message = fmt.Sprintf("%s plays +4 and picks %s.", p.Name, color)
	} else {
		g.Message = fmt.Sprintf("%s picks %s.", p.Name, color)
	}

	g.finishTurnLocked(idx, 0)
}

// finishTurnLocked runs the shared tail of every turn-advancing event:
// UNO penalty check on the acting seat, turn advance, broadcast, bot re-arm.
// Assumes lock is held.
func (g *UnoGame) finishTurnLocked(actorIdx, skipped int) {
	g.enforceUnoPenaltyLocked(actorIdx)
	g.advanceTurnLocked(skipped)
	g.broadcastStateLocked()
	g.scheduleBotTurnLocked()
}

// enforceUnoPenaltyLocked forces a seat that reached one card without
// declaring UNO to draw two. Runs before every turn advance.
// Assumes lock is held.
func (g *UnoGame) enforceUnoPenaltyLocked(idx int) {
	p := g.Players[idx]
	if len(p.Hand) != 1 || p.HasUno {
		return
	}
	g.drawCardsLocked(idx, 2)
	g.Message = fmt.Sprintf("%s missed UNO, +2 cards!", p.Name)
	g.logger.Debugf("game %s: %s missed UNO", g.ID, p.Name)
}

// advanceTurnLocked moves play to the next seat, skipping `skipped` extra
// seats. Every seat not sitting on exactly one card loses its UNO flag at
// this boundary. Assumes lock is held.
func (g *UnoGame) advanceTurnLocked(skipped int) {
	g.Stats.Turns++
	g.turnSeq++

	for _, p := range g.Players {
		if len(p.Hand) != 1 {
			p.HasUno = false
		}
	}

	idx := g.CurrentPlayerIndex
	for i := 0; i <= skipped; i++ {
		idx = nextSeatIndex(idx, g.Direction, len(g.Players))
	}
	g.CurrentPlayerIndex = idx
}

// drawCardsLocked moves up to amount cards from the draw pile into the
// seat's hand, reshuffling the discard pile as needed. When both piles are
// exhausted the remaining draws silently yield nothing.
// Assumes lock is held.
func (g *UnoGame) drawCardsLocked(idx, amount int) {
	p := g.Players[idx]
	for i := 0; i < amount; i++ {
		g.reshuffleIfNeededLocked()
		if len(g.DrawPile) == 0 {
			break
		}
		p.Hand = append(p.Hand, g.popDrawPileLocked())
	}
	g.Stats.Drawn += amount
}

// reshuffleIfNeededLocked rebuilds the draw pile from the discard pile,
// keeping only the current discard top in place. Assumes lock is held.
func (g *UnoGame) reshuffleIfNeededLocked() {
	if len(g.DrawPile) > 0 || len(g.DiscardPile) <= 1 {
		return
	}
	top := g.DiscardPile[len(g.DiscardPile)-1]
	rest := make([]models.Card, len(g.DiscardPile)-1)
	copy(rest, g.DiscardPile[:len(g.DiscardPile)-1])
	shuffleCards(g.rng, rest)
	g.DrawPile = rest
	g.DiscardPile = []models.Card{top}
	g.logger.Debugf("game %s: reshuffled %d cards into the draw pile", g.ID, len(rest))
}

// popDrawPileLocked removes and returns the top (last) card of the draw
// pile. Callers must ensure the pile is non-empty. Assumes lock is held.
func (g *UnoGame) popDrawPileLocked() models.Card {
	card := g.DrawPile[len(g.DrawPile)-1]
	g.DrawPile = g.DrawPile[:len(g.DrawPile)-1]
	return card
}

// discardTopLocked returns the top discard, or nil before the first flip.
// Assumes lock is held.
func (g *UnoGame) discardTopLocked() *models.Card {
	if len(g.DiscardPile) == 0 {
		return nil
	}
	return &g.DiscardPile[len(g.DiscardPile)-1]
}

// broadcastStateLocked pushes a full snapshot to the broadcast hook.
// Assumes lock is held.
func (g *UnoGame) broadcastStateLocked() {
	if g.BroadcastFn != nil {
		g.BroadcastFn(g.snapshotLocked())
	}
}
