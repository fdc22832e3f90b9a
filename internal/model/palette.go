package model

// GroupColors are the color tokens the group editor offers.
var GroupColors = []string{
	"#f44336", "#e91e63", "#9c27b0", "#673ab7",
	"#3f51b5", "#2196f3", "#03a9f4", "#00bcd4",
	"#009688", "#4caf50", "#8bc34a", "#cddc39",
	"#ffeb3b", "#ffc107", "#ff9800", "#795548",
}

// GroupEmojis are the glyphs the group editor offers.
var GroupEmojis = []string{
	"🍔", "🛒", "🏠", "🚗",
	"💡", "🎬", "✈️", "🏥",
	"🎓", "👕", "🎁", "💼",
	"📱", "🐾", "💰", "📦",
}

// DefaultGroup is a new group before any field is set: first preset color
// and emoji, active.
func DefaultGroup() CategoryGroup {
	return CategoryGroup{
		Color:    GroupColors[0],
		Emoji:    GroupEmojis[0],
		IsActive: true,
	}
}

// DefaultCurrency is a new, active currency.
func DefaultCurrency() Currency {
	return Currency{IsActive: true}
}
