package service

import (
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/applier"
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/battle"
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/engine"
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/logging"
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/progression"
)

// OutcomeReporter is the result-committer contract consumed once per
// terminal battle.
type OutcomeReporter interface {
	ReportOutcome(out progression.Outcome) error
}

// ReportIfFinished forwards a finished battle's outcome to the committer
// and marks the record reported. Only the caller whose terminal transition
// actually landed reaches this with an unreported record; the reported flag
// plus the committer's own dedupe keep the report at-most-once even under
// overlapping observers.
func ReportIfFinished(repo BattleRepo, env *engine.Env, committer OutcomeReporter, rec *battle.Record) {
	if committer == nil || rec == nil {
		return
	}
	if rec.Status != battle.PhaseFinished || rec.OutcomeReported {
		return
	}

	out := progression.Outcome{BattleKey: rec.BattleKey}
	switch rec.WinnerID {
	case rec.Challenger.PlayerID:
		out.WinnerID = rec.Challenger.PlayerID
		out.LoserID = rec.Opponent.PlayerID
		out.WinnerPetFinal = rec.Challenger.Pet
		out.LoserPetFinal = rec.Opponent.Pet
	case rec.Opponent.PlayerID:
		out.WinnerID = rec.Opponent.PlayerID
		out.LoserID = rec.Challenger.PlayerID
		out.WinnerPetFinal = rec.Opponent.Pet
		out.LoserPetFinal = rec.Challenger.Pet
	default:
		// No winner on a finished record means a forfeit, reported as a draw.
		out.IsDraw = true
		out.WinnerID = rec.Challenger.PlayerID
		out.LoserID = rec.Opponent.PlayerID
		out.WinnerPetFinal = rec.Challenger.Pet
		out.LoserPetFinal = rec.Opponent.Pet
	}

	if err := committer.ReportOutcome(out); err != nil {
		logging.Error("failed to commit battle outcome", err, logging.Fields{"battle_key": rec.BattleKey})
		return
	}
	if _, _, err := applier.Apply(repo, rec.BattleKey, env.MarkOutcomeReported()); err != nil {
		logging.Error("failed to mark outcome reported", err, logging.Fields{"battle_key": rec.BattleKey})
	}
}
