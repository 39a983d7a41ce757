// internal/models/player.go
package models

// Player is one of the four fixed seats in a game. A seat is either backed
// by a human connection (IsBot false, ID equal to the connection id) or
// driven by the bot scheduler. Seats never change for the lifetime of a game.
type Player struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	IsBot  bool   `json:"isBot"`
	Hand   []Card `json:"hand"`
	HasUno bool   `json:"hasUno"`
}

// RemoveCard deletes the card with the given id from the hand and returns it.
// The second return is false when the card is not held.
func (p *Player) RemoveCard(cardID int) (Card, bool) {
	for i, c := range p.Hand {
		if c.ID == cardID {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return c, true
		}
	}
	return Card{}, false
}

// FindCard returns the held card with the given id, or false if not held.
func (p *Player) FindCard(cardID int) (Card, bool) {
	for _, c := range p.Hand {
		if c.ID == cardID {
			return c, true
		}
	}
	return Card{}, false
}
