package engine

import (
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/battle"
)

// AcceptChallenge moves a pending challenge into the starting hold. The
// opponent's pet snapshot is captured here, alongside the challenger's taken
// at creation, so nothing read later can change the fight's stats.
func (e *Env) AcceptChallenge(playerID string, pet battle.PetState) Transition {
	return Transition{
		Name: "accept_challenge",
		Precondition: func(r *battle.Record) bool {
			return r.Status == battle.PhasePending && r.Opponent.PlayerID == playerID
		},
		Transform: func(r *battle.Record) {
			r.Opponent.Pet = pet
			r.Status = battle.PhaseStarting
			r.TurnStartedAt = e.Now()
			r.Log = r.Opponent.Name + " accepted the challenge!"
		},
	}
}

// RejectChallenge lets the opponent decline before the battle starts.
func (e *Env) RejectChallenge(playerID string) Transition {
	return Transition{
		Name: "reject_challenge",
		Precondition: func(r *battle.Record) bool {
			return r.Status == battle.PhasePending && r.Opponent.PlayerID == playerID
		},
		Transform: func(r *battle.Record) {
			r.Status = battle.PhaseRejected
			r.Log = r.Opponent.Name + " declined the challenge."
		},
	}
}

// CancelChallenge lets the challenger withdraw before the battle starts.
func (e *Env) CancelChallenge(playerID string) Transition {
	return Transition{
		Name: "cancel_challenge",
		Precondition: func(r *battle.Record) bool {
			return r.Status == battle.PhasePending && r.Challenger.PlayerID == playerID
		},
		Transform: func(r *battle.Record) {
			r.Status = battle.PhaseCancelled
			r.Log = r.Challenger.Name + " withdrew the challenge."
		},
	}
}

// ResetChallenge reuses a terminal record for a rematch between the same
// pair: the deterministic battle key means both participants always address
// one row, so a fresh challenge overwrites the finished one.
func (e *Env) ResetChallenge(challenger, opponent battle.Combatant) Transition {
	return Transition{
		Name: "reset_challenge",
		Precondition: func(r *battle.Record) bool {
			return r.Status.Terminal()
		},
		Transform: func(r *battle.Record) {
			r.Status = battle.PhasePending
			r.Challenger = challenger
			r.Opponent = opponent
			r.TurnOwnerID = ""
			r.QuestionText = ""
			r.QuestionAnswer = ""
			r.AttackerAction = battle.ActionNone
			r.DefenderAction = battle.ActionNone
			r.Chat = battle.ChatLog{}
			r.WinnerID = ""
			r.OutcomeReported = false
			r.Log = challenger.Name + " challenged " + opponent.Name + " to a battle!"
		},
	}
}

// MarkOutcomeReported flags a finished battle after the result committer
// accepted its outcome, so the report happens at most once even if a client
// retries the read.
func (e *Env) MarkOutcomeReported() Transition {
	return Transition{
		Name: "mark_outcome_reported",
		Precondition: func(r *battle.Record) bool {
			return r.Status == battle.PhaseFinished && !r.OutcomeReported
		},
		Transform: func(r *battle.Record) {
			r.OutcomeReported = true
		},
	}
}
