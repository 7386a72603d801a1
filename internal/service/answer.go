package service

import (
	"errors"
	"strings"

	"github.com/leaugueofchoding/wooriban-league-sub000/internal/applier"
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/battle"
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/engine"
)

var (
	ErrNotParticipant = errors.New("player not in this battle")
	ErrEmptyAnswer    = errors.New("answer text is empty")
)

// SubmitAnswer records a quiz attempt for the given participant. The
// returned bool reports whether the record changed; a false with nil error
// means another transition landed first (round over, battle advanced) and
// the caller should simply render the returned record.
func SubmitAnswer(repo BattleRepo, env *engine.Env, key, playerID, text string) (*battle.Record, bool, error) {
	if strings.TrimSpace(text) == "" {
		return nil, false, ErrEmptyAnswer
	}
	rec, err := repo.GetBattleByKey(key)
	if err != nil {
		return nil, false, lookupError(err)
	}
	if !rec.IsParticipant(playerID) {
		return nil, false, ErrNotParticipant
	}
	if rec.Status.Terminal() {
		// Events after a terminal status are no-ops.
		return rec, false, nil
	}
	return applier.Apply(repo, key, env.SubmitAnswer(playerID, text))
}
