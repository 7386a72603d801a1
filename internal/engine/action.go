package engine

import (
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/battle"
)

// ChooseAttack records the attacker's offensive action. If the defender's
// pet is stunned their action is pre-filled with the stunned sentinel so
// the exchange resolves without waiting for a defense that will never come.
// Skill equip/SP validation happens in the service layer before the applier;
// an invalid action reaching this transition degrades to the basic attack
// at resolution time.
func (e *Env) ChooseAttack(playerID string, action battle.ActionID) Transition {
	return Transition{
		Name: "choose_attack",
		Precondition: func(r *battle.Record) bool {
			return r.Status == battle.PhaseAction &&
				r.TurnOwnerID == playerID &&
				r.AttackerAction == battle.ActionNone
		},
		Transform: func(r *battle.Record) {
			r.AttackerAction = action
			defender := r.Defender()
			if defender.Pet.Stunned && r.DefenderAction == battle.ActionNone {
				r.DefenderAction = battle.ActionStunned
				r.Log = defender.Pet.Name + " is stunned and cannot defend!"
			}
		},
	}
}

// ChooseDefense records the defender's defensive action. A stunned pet
// never gets to choose: its defense is always the forced sentinel, set by
// ChooseAttack or the timeout default, so a stunned defender racing their
// pick in first is a no-op. Flee is resolved inside the transform: a
// successful escape roll ends the battle as a draw on the spot, a failed
// one is recorded as the flee_failed sentinel that resolution treats as
// "no mitigation".
func (e *Env) ChooseDefense(playerID string, action battle.ActionID) Transition {
	return Transition{
		Name: "choose_defense",
		Precondition: func(r *battle.Record) bool {
			return r.Status == battle.PhaseAction &&
				r.TurnOwnerID != "" &&
				r.TurnOwnerID != playerID &&
				r.IsParticipant(playerID) &&
				!r.CombatantByID(playerID).Pet.Stunned &&
				r.DefenderAction == battle.ActionNone &&
				action.Defensive()
		},
		Transform: func(r *battle.Record) {
			if action != battle.ActionFlee {
				r.DefenderAction = action
				return
			}
			defender := r.CombatantByID(playerID)
			if e.RNG.Float64() < fleeSuccessChance {
				r.Status = battle.PhaseFinished
				r.WinnerID = ""
				r.TurnOwnerID = ""
				r.AttackerAction = battle.ActionNone
				r.DefenderAction = battle.ActionNone
				r.Log = defender.Name + "'s " + defender.Pet.Name + " fled the battle!"
				return
			}
			r.DefenderAction = battle.ActionFleeFailed
			r.Log = defender.Pet.Name + " tried to flee but couldn't get away!"
		},
	}
}

// ActionTimeout fires when the action phase outlived its budget with one or
// both choices missing: the attacker defaults to the basic attack, the
// defender to brace (or the stunned sentinel when applicable), and the
// exchange resolves in the same atomic step so the record can never be left
// with defaults but no outcome.
func (e *Env) ActionTimeout(seenSeq uint) Transition {
	deadline := e.Timing.ActionBudget - e.Timing.ActionGrace
	return Transition{
		Name: "action_timeout",
		Precondition: func(r *battle.Record) bool {
			return r.Status == battle.PhaseAction &&
				r.Seq == seenSeq &&
				(r.AttackerAction == battle.ActionNone || r.DefenderAction == battle.ActionNone) &&
				!e.Now().Before(r.TurnStartedAt.Add(deadline))
		},
		Transform: func(r *battle.Record) {
			if r.AttackerAction == battle.ActionNone {
				r.AttackerAction = battle.ActionBasicAttack
			}
			if r.DefenderAction == battle.ActionNone {
				if r.Defender().Pet.Stunned {
					r.DefenderAction = battle.ActionStunned
				} else {
					r.DefenderAction = battle.ActionBrace
				}
			}
			e.resolveExchange(r)
		},
	}
}
