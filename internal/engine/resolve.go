package engine

import (
	"math"
	"strconv"

	"github.com/leaugueofchoding/wooriban-league-sub000/internal/battle"
)

// Resolve turns a fully populated attacker/defender action pair into the
// exchange outcome. Any connected client that observes both actions set may
// drive this transition; the race is intentional and settled by the applier
// (the loser's precondition sees a record already past the action phase).
func (e *Env) Resolve() Transition {
	return Transition{
		Name: "resolve",
		Precondition: func(r *battle.Record) bool {
			return r.Status == battle.PhaseAction &&
				r.AttackerAction != battle.ActionNone &&
				r.DefenderAction != battle.ActionNone
		},
		Transform: func(r *battle.Record) {
			e.resolveExchange(r)
		},
	}
}

// AdvanceRound moves a resolved exchange into the next quiz round once the
// narration hold has elapsed.
func (e *Env) AdvanceRound() Transition {
	return Transition{
		Name: "advance_round",
		Precondition: func(r *battle.Record) bool {
			return r.Status == battle.PhaseResolution &&
				!e.Now().Before(r.TurnStartedAt.Add(e.Timing.NarrationHold))
		},
		Transform: func(r *battle.Record) {
			e.startQuizRound(r)
			r.Log = "A new question appears!"
		},
	}
}

// resolveExchange applies the attacker's skill against the defender's
// mitigation, consumes one-shot statuses and either finishes the battle on
// a knockout or parks it in the resolution phase for the narration hold.
func (e *Env) resolveExchange(r *battle.Record) {
	attacker := r.Attacker()
	defender := r.Defender()
	skill := e.Catalog.SkillOrBasic(r.AttackerAction)
	attacker.Pet.SpendSP(skill.Cost)

	focusMult := 1.0
	usedFocus := false
	if attacker.Pet.FocusCharge > 0 {
		focusMult += focusBonus
		attacker.Pet.FocusCharge = 0
		usedFocus = true
	}

	log := attacker.Pet.Name + " used " + skill.Name + "!"
	if usedFocus {
		log += " Focused power surges!"
	}

	if skill.Effect.DealsDamage() {
		mitigation := 1.0
		switch r.DefenderAction {
		case battle.ActionBrace:
			mitigation = braceMitigation
			log += " " + defender.Pet.Name + " braced for impact."
		case battle.ActionEvade:
			if e.RNG.Float64() < evadeNegateChance {
				mitigation = 0
				log += " " + defender.Pet.Name + " evaded completely!"
			} else {
				log += " " + defender.Pet.Name + " failed to evade."
			}
		case battle.ActionFocus:
			log += " " + defender.Pet.Name + " stood firm, gathering focus."
		case battle.ActionStunned:
			log += " " + defender.Pet.Name + " couldn't react!"
		}
		raw := float64(skill.Effect.DamageBase) + float64(attacker.Pet.Atk)*skill.Effect.DamageAtkScale
		dealt := defender.Pet.ApplyDamage(int(math.Round(raw * focusMult * mitigation)))
		log += " " + defender.Pet.Name + " took " + strconv.Itoa(dealt) + " damage."
	}

	if skill.Effect.SelfHeal > 0 {
		healed := attacker.Pet.Heal(skill.Effect.SelfHeal)
		log += " " + attacker.Pet.Name + " recovered " + strconv.Itoa(healed) + " HP."
	}
	if skill.Effect.RestoreSP > 0 {
		attacker.Pet.RestoreSP(skill.Effect.RestoreSP)
		log += " " + attacker.Pet.Name + " restored " + strconv.Itoa(skill.Effect.RestoreSP) + " SP."
	}
	if skill.Effect.StunChance > 0 && !defender.Pet.Fainted() {
		if e.RNG.Float64() < skill.Effect.StunChance {
			defender.Pet.Stunned = true
			log += " " + defender.Pet.Name + " is stunned!"
		}
	}
	if skill.Effect.SelfRecharge {
		attacker.Pet.Recharging = true
		log += " " + attacker.Pet.Name + " must recharge."
	}

	// Focus gained by the defender survives into their next attack.
	if r.DefenderAction == battle.ActionFocus {
		defender.Pet.FocusCharge = 1
	}
	// A consumed stun is cleared exactly once, after the one exchange the
	// bearer had to sit out.
	if r.DefenderAction == battle.ActionStunned {
		defender.Pet.Stunned = false
	}

	if defender.Pet.Fainted() {
		r.Status = battle.PhaseFinished
		r.WinnerID = attacker.PlayerID
		r.TurnOwnerID = ""
		r.AttackerAction = battle.ActionNone
		r.DefenderAction = battle.ActionNone
		r.Log = log + " " + defender.Pet.Name + " fainted! " + attacker.Name + " wins!"
		return
	}

	r.Status = battle.PhaseResolution
	r.TurnOwnerID = ""
	r.AttackerAction = battle.ActionNone
	r.DefenderAction = battle.ActionNone
	r.Chat = battle.ChatLog{}
	r.TurnStartedAt = e.Now()
	r.Log = log
}
