package api

import (
	"regexp"
	"strings"

	"github.com/leaugueofchoding/wooriban-league-sub000/internal/battle"
)

// Battle keys are two normalized player ids joined with an underscore,
// so a well-formed key has at least one separator and no spaces.
var battleKeyRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*_[a-z0-9._-]+$`)

func normalizeBattleKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (h *BattleHandler) pushUpdate(rec *battle.Record) {
	if rec == nil {
		return
	}
	h.hub.BroadcastRecord(rec)
}
