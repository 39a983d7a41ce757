// internal/models/card.go
package models

// Color is a card color. Wild cards carry ColorWild until a color is chosen.
type Color string

const (
	ColorRed    Color = "red"
	ColorYellow Color = "yellow"
	ColorGreen  Color = "green"
	ColorBlue   Color = "blue"
	ColorWild   Color = "wild"
)

// Colors lists the four playable colors, i.e. every valid chooseColor value.
var Colors = []Color{ColorRed, ColorYellow, ColorGreen, ColorBlue}

// IsPlayableColor reports whether c is one of the four real colors.
func IsPlayableColor(c Color) bool {
	for _, pc := range Colors {
		if pc == c {
			return true
		}
	}
	return false
}

// CardType identifies the action a card performs when played.
type CardType string

const (
	TypeNumber  CardType = "number"
	TypeSkip    CardType = "skip"
	TypeReverse CardType = "reverse"
	TypeDraw2   CardType = "draw2"
	TypeWild    CardType = "wild"
	TypeWild4   CardType = "wild4"
)

// Card is an immutable card value. Value is set only for number cards and
// serializes as null otherwise, which is what renderers expect.
type Card struct {
	ID    int      `json:"id"`
	Color Color    `json:"color"`
	Type  CardType `json:"type"`
	Value *int     `json:"value"`
}

// IsWild reports whether the card requires a color choice when played.
func (c Card) IsWild() bool {
	return c.Type == TypeWild || c.Type == TypeWild4
}

// IsStacker reports whether the card may be played on top of a pending draw.
func (c Card) IsStacker() bool {
	return c.Type == TypeDraw2 || c.Type == TypeWild4
}
