// internal/game/bot.go
package game

import (
	"fmt"
	"time"

	"github.com/pascal-fortunati/uno-server/internal/models"
)

// scheduleBotTurnLocked arms a single deferred move for the current seat if
// it is bot-controlled. Any previously scheduled move is cancelled first, so
// at most one timer exists at a time; it is re-armed after every
// state-changing event. Assumes lock is held.
func (g *UnoGame) scheduleBotTurnLocked() {
	g.cancelBotTimerLocked()

	if g.Phase != PhasePlaying || g.WinnerID != 0 || g.AwaitingColorChoice != nil {
		return
	}
	if !g.Players[g.CurrentPlayerIndex].IsBot {
		return
	}

	seq := g.turnSeq
	g.botTimer = time.AfterFunc(g.BotDelay, func() {
		g.Mu.Lock()
		defer g.Mu.Unlock()

		// A human action may have raced this timer: re-check everything
		// against the live state and treat a mismatch as a stale no-op.
		if g.stopped || g.Phase != PhasePlaying || g.WinnerID != 0 ||
			g.AwaitingColorChoice != nil || g.turnSeq != seq {
			g.logger.Debugf("game %s: stale bot timer (seq %d vs %d), ignoring", g.ID, seq, g.turnSeq)
			return
		}
		idx := g.CurrentPlayerIndex
		if !g.Players[idx].IsBot {
			return
		}
		g.botActLocked(idx)
	})
}

// cancelBotTimerLocked stops any scheduled bot move. Assumes lock is held.
func (g *UnoGame) cancelBotTimerLocked() {
	if g.botTimer != nil {
		g.botTimer.Stop()
		g.botTimer = nil
	}
}

// botActLocked performs one full bot move: counter a pending draw with a
// stacking card if possible (otherwise swallow the accumulated draw), else
// play a random legal card, pre-declaring UNO at two cards and resolving
// wild colors uniformly at random; with no legal play, draw one card.
// Assumes lock is held.
func (g *UnoGame) botActLocked(idx int) {
	p := g.Players[idx]
	top := g.discardTopLocked()

	if g.PendingDraw > 0 {
		for _, c := range p.Hand {
			if c.IsStacker() {
				g.botPlayLocked(idx, c)
				return
			}
		}
		amount := g.PendingDraw
		g.drawCardsLocked(idx, amount)
		g.Message = fmt.Sprintf("%s draws %d cards.", p.Name, amount)
		g.PendingDraw = 0
		g.finishTurnLocked(idx, 0)
		return
	}

	var playable []models.Card
	for _, c := range p.Hand {
		if CanPlayCard(c, top, g.CurrentColor, g.PendingDraw) {
			playable = append(playable, c)
		}
	}
	if len(playable) == 0 {
		g.drawCardsLocked(idx, 1)
		g.Message = fmt.Sprintf("%s draws a card.", p.Name)
		g.finishTurnLocked(idx, 0)
		return
	}

	card := playable[g.rng.Intn(len(playable))]
	if len(p.Hand) == 2 {
		p.HasUno = true
	}
	g.botPlayLocked(idx, card)
}

// botPlayLocked plays a card for a bot seat, resolving any wild color choice
// autonomously instead of entering the awaiting-color sub-state.
// Assumes lock is held.
func (g *UnoGame) botPlayLocked(idx int, card models.Card) {
	if g.playLocked(idx, card) {
		return // hand emptied, game over
	}

	if card.IsWild() {
		color := models.Colors[g.rng.Intn(len(models.Colors))]
		g.resolveColorChoiceLocked(idx, card.Type, color)
		return
	}

	g.applyCardEffectLocked(idx, card)
}
