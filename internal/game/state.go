// internal/game/state.go
package game

import (
	"github.com/google/uuid"

	"github.com/pascal-fortunati/uno-server/internal/models"
)

// State is the serializable snapshot pushed to every connection after each
// mutation. It is always the complete state, never a diff: clients re-render
// from scratch on every push. Hands are sent in full for every seat; hiding
// opponent hands is a rendering concern, the server re-validates every
// request regardless of what a client could see.
type State struct {
	GameID              uuid.UUID       `json:"gameId"`
	Players             []models.Player `json:"players"`
	DrawPile            []models.Card   `json:"drawPile"`
	DiscardPile         []models.Card   `json:"discardPile"`
	CurrentPlayerIndex  int             `json:"currentPlayerIndex"`
	Direction           int             `json:"direction"`
	CurrentColor        models.Color    `json:"currentColor"`
	PendingDraw         int             `json:"pendingDraw"`
	AwaitingColorChoice *ColorChoice    `json:"awaitingColorChoice"`
	GamePhase           Phase           `json:"gamePhase"`
	WinnerID            *int64          `json:"winnerId"`
	Message             string          `json:"message"`
	Stats               Stats           `json:"stats"`
}

// snapshotLocked deep-copies the mutable state into a State value.
// Assumes lock is held.
func (g *UnoGame) snapshotLocked() State {
	st := State{
		GameID:             g.ID,
		Players:            make([]models.Player, len(g.Players)),
		DrawPile:           append([]models.Card(nil), g.DrawPile...),
		DiscardPile:        append([]models.Card(nil), g.DiscardPile...),
		CurrentPlayerIndex: g.CurrentPlayerIndex,
		Direction:          g.Direction,
		CurrentColor:       g.CurrentColor,
		PendingDraw:        g.PendingDraw,
		GamePhase:          g.Phase,
		Message:            g.Message,
		Stats:              g.Stats,
	}

	for i, p := range g.Players {
		cp := *p
		cp.Hand = append([]models.Card(nil), p.Hand...)
		st.Players[i] = cp
	}
	if g.AwaitingColorChoice != nil {
		choice := *g.AwaitingColorChoice
		st.AwaitingColorChoice = &choice
	}
	if g.WinnerID != 0 {
		winner := g.WinnerID
		st.WinnerID = &winner
	}
	return st
}
