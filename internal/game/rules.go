// internal/game/rules.go
package game

import "github.com/pascal-fortunati/uno-server/internal/models"

// CanPlayCard decides whether a candidate card is legal against the current
// discard top, active color, and accumulated pending draw.
//
// With a pending draw outstanding, only another draw2 or wild4 keeps the
// stack going; everything else must wait until the draw is taken. Otherwise
// wilds are always legal, any card of the active color is legal, a number
// card matching the top card's value is legal, and a skip/reverse/draw2
// matching the top card's type is legal.
func CanPlayCard(card models.Card, top *models.Card, currentColor models.Color, pendingDraw int) bool {
	if top == nil {
		return true
	}

	if pendingDraw > 0 {
		return card.IsStacker()
	}

	if card.IsWild() {
		return true
	}

	if card.Color == currentColor {
		return true
	}

	if card.Type == models.TypeNumber && top.Type == models.TypeNumber &&
		card.Value != nil && top.Value != nil && *card.Value == *top.Value {
		return true
	}

	switch card.Type {
	case models.TypeSkip, models.TypeReverse, models.TypeDraw2:
		return card.Type == top.Type
	}

	return false
}

// nextSeatIndex advances index by one step in the given direction on a
// four-seat (or any) ring.
func nextSeatIndex(index, direction, seats int) int {
	return (index + direction + seats) % seats
}
