package service

import (
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/applier"
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/battle"
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/engine"
)

// HandleDueBattle drives the timer-owned transition for a battle whose
// phase deadline has passed: the intro hold, the quiz timeout, the action
// timeout or the post-resolution round advance. Every transition pins the
// Seq the caller observed (or is otherwise self-distinguishing), so the
// scanner and any client-polled timeout may both fire without harm — the
// first to land wins, the second observes a record that no longer matches
// and no-ops. Returns the freshest record and whether anything changed.
func HandleDueBattle(repo BattleRepo, env *engine.Env, committer OutcomeReporter, rec *battle.Record) (*battle.Record, bool, error) {
	var tr engine.Transition
	switch rec.Status {
	case battle.PhaseStarting:
		tr = env.BeginQuiz()
	case battle.PhaseQuiz:
		tr = env.QuizTimeout(rec.Seq)
	case battle.PhaseAction:
		if rec.AttackerAction != battle.ActionNone && rec.DefenderAction != battle.ActionNone {
			// Both actions arrived but no client drove the resolution
			// (e.g. both disconnected right after choosing).
			tr = env.Resolve()
		} else {
			tr = env.ActionTimeout(rec.Seq)
		}
	case battle.PhaseResolution:
		tr = env.AdvanceRound()
	default:
		return rec, false, nil
	}

	updated, applied, err := applier.Apply(repo, rec.BattleKey, tr)
	if err != nil {
		return rec, false, err
	}
	if applied && updated.Status == battle.PhaseFinished {
		ReportIfFinished(repo, env, committer, updated)
	}
	return updated, applied, nil
}
