package keys

import (
	"sort"
	"strings"
)

// BattleKeyFromPlayers produces the canonical key for a participant pair.
// Behavior: trims ids, lower-cases, sorts the two parts and joins with an
// underscore, so both participants address the same record regardless of
// who initiated the challenge.
func BattleKeyFromPlayers(a, b string) string {
	parts := make([]string, 0, 2)
	for _, id := range []string{a, b} {
		s := strings.ToLower(strings.TrimSpace(id))
		if s == "" {
			continue
		}
		parts = append(parts, s)
	}
	sort.Strings(parts)
	return strings.Join(parts, "_")
}
