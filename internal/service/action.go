package service

import (
	"errors"

	"github.com/leaugueofchoding/wooriban-league-sub000/internal/applier"
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/battle"
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/engine"
)

var (
	ErrNotInActionPhase = errors.New("battle is not in the action phase")
	ErrSkillNotEquipped = errors.New("skill is not equipped on this pet")
	ErrInsufficientSP   = errors.New("not enough SP for this skill")
	ErrInvalidDefense   = errors.New("not a valid defensive action")
	ErrInvalidOffense   = errors.New("not a valid offensive action")
)

// ChooseAction records a participant's action for the current exchange.
// The attacker picks the basic attack or an equipped, affordable skill; the
// defender picks brace/evade/focus/flee. Once both actions are present the
// caller drives the resolution transition — intentionally a race between
// both participants' clients, settled by the applier.
func ChooseAction(repo BattleRepo, env *engine.Env, committer OutcomeReporter, key, playerID string, action battle.ActionID) (*battle.Record, bool, error) {
	rec, err := repo.GetBattleByKey(key)
	if err != nil {
		return nil, false, lookupError(err)
	}
	if !rec.IsParticipant(playerID) {
		return nil, false, ErrNotParticipant
	}
	if rec.Status.Terminal() {
		return rec, false, nil
	}
	if rec.Status != battle.PhaseAction {
		return nil, false, ErrNotInActionPhase
	}

	var tr engine.Transition
	if rec.TurnOwnerID == playerID {
		if err := validateOffense(env, rec, playerID, action); err != nil {
			return nil, false, err
		}
		tr = env.ChooseAttack(playerID, action)
	} else {
		if !action.Defensive() {
			return nil, false, ErrInvalidDefense
		}
		tr = env.ChooseDefense(playerID, action)
	}

	rec, applied, err := applier.Apply(repo, key, tr)
	if err != nil {
		return nil, false, err
	}
	if !applied {
		return rec, false, nil
	}

	if rec.Status == battle.PhaseFinished {
		// Flee succeeded; the battle is over without a resolution step.
		ReportIfFinished(repo, env, committer, rec)
		return rec, true, nil
	}
	if rec.AttackerAction != battle.ActionNone && rec.DefenderAction != battle.ActionNone {
		resolved, resolvedApplied, err := applier.Apply(repo, key, env.Resolve())
		if err != nil {
			return rec, true, nil
		}
		if resolvedApplied {
			rec = resolved
			if rec.Status == battle.PhaseFinished {
				ReportIfFinished(repo, env, committer, rec)
			}
		}
	}
	return rec, true, nil
}

// RequestFlee is the defender's early-termination path: a thin wrapper so
// callers have a dedicated entry point for the flee event.
func RequestFlee(repo BattleRepo, env *engine.Env, committer OutcomeReporter, key, playerID string) (*battle.Record, bool, error) {
	return ChooseAction(repo, env, committer, key, playerID, battle.ActionFlee)
}

// validateOffense rejects unaffordable or unequipped skills before they
// reach the applier; the engine itself would degrade them to the basic
// attack, but the participant should get a proper error instead.
func validateOffense(env *engine.Env, rec *battle.Record, playerID string, action battle.ActionID) error {
	if action == battle.ActionBasicAttack {
		return nil
	}
	if action.Defensive() || action == battle.ActionNone ||
		action == battle.ActionFleeFailed || action == battle.ActionStunned {
		return ErrInvalidOffense
	}
	skill, ok := env.Catalog.Skill(string(action))
	if !ok {
		return ErrInvalidOffense
	}
	pet := &rec.CombatantByID(playerID).Pet
	if !pet.EquippedSkills.Contains(skill.ID) {
		return ErrSkillNotEquipped
	}
	if pet.SP < skill.Cost {
		return ErrInsufficientSP
	}
	return nil
}
