// internal/game/deck.go
package game

import (
	"math/rand"

	"github.com/pascal-fortunati/uno-server/internal/models"
)

// DeckSize is the fixed number of cards in play: 19 per color (one 0, two
// each of 1-9, two each of skip/reverse/draw2) plus 4 wild and 4 wild4.
const DeckSize = 108

// BuildDeck returns the complete 108-card set in a freshly shuffled order.
// Card ids are assigned sequentially before the shuffle, so the id space is
// stable across games while the order is not.
func BuildDeck(r *rand.Rand) []models.Card {
	cards := make([]models.Card, 0, DeckSize)
	id := 1

	numberCard := func(color models.Color, value int) models.Card {
		v := value
		c := models.Card{ID: id, Color: color, Type: models.TypeNumber, Value: &v}
		id++
		return c
	}
	specialCard := func(color models.Color, t models.CardType) models.Card {
		c := models.Card{ID: id, Color: color, Type: t}
		id++
		return c
	}

	for _, color := range models.Colors {
		cards = append(cards, numberCard(color, 0))
		for value := 1; value <= 9; value++ {
			cards = append(cards, numberCard(color, value))
			cards = append(cards, numberCard(color, value))
		}
		for _, t := range []models.CardType{models.TypeSkip, models.TypeReverse, models.TypeDraw2} {
			cards = append(cards, specialCard(color, t))
			cards = append(cards, specialCard(color, t))
		}
	}
	for i := 0; i < 4; i++ {
		cards = append(cards, specialCard(models.ColorWild, models.TypeWild))
	}
	for i := 0; i < 4; i++ {
		cards = append(cards, specialCard(models.ColorWild, models.TypeWild4))
	}

	shuffleCards(r, cards)
	return cards
}

// shuffleCards permutes cards in place (Fisher-Yates via rand.Shuffle).
func shuffleCards(r *rand.Rand, cards []models.Card) {
	r.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}
