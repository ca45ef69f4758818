// Package achievements records student accomplishments, either tied to
// a campus event or earned at an external one.
package achievements

import "time"

// Badge grades an achievement.
type Badge string

const (
	BadgeGold   Badge = "Gold"
	BadgeSilver Badge = "Silver"
	BadgeBronze Badge = "Bronze"
)

// ValidBadge reports whether s names a known badge.
func ValidBadge(s string) bool {
	switch Badge(s) {
	case BadgeGold, BadgeSilver, BadgeBronze:
		return true
	}
	return false
}

// Achievement references exactly one of EventID (a campus event) or
// ExternalEventName. Category is derived from which one is set.
type Achievement struct {
	ID                string
	Title             string
	Description       string
	Category          string
	Badge             Badge
	StudentID         string
	EventID           string
	ExternalEventName string
	CreatedBy         string
	CreatedAt         time.Time
}

const (
	CategoryInternal = "Internal"
	CategoryExternal = "External"
)
