// Package emoji provides the display content for answer options.
package emoji

import "github.com/samber/lo"

var emojis = []string{
	"😀", "😢", "😡", "😴", "🤔", "🤩", "😱", "🥶",
	"🎉", "🔥", "🌈", "🍕", "🍩", "🎸", "🚀", "🐙",
	"🦄", "🐸", "🍀", "⚽", "🎲", "👻", "🤖", "👑",
}

// Provider implements contract.LabelProvider by sampling a fixed
// emoji set. Repeats across one round's options are acceptable.
type Provider struct{}

func NewProvider() Provider { return Provider{} }

func (Provider) NextAnswerLabel() string {
	return lo.Sample(emojis)
}
