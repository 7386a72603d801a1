package engine

import (
	"math"
	"strconv"

	"github.com/leaugueofchoding/wooriban-league-sub000/internal/battle"
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/quiz"
)

// startQuizRound resets the record into a fresh quiz round: new question,
// fresh deadline anchor, cleared roles, actions and chat.
func (e *Env) startQuizRound(r *battle.Record) {
	q := e.Quiz.Sample(e.RNG)
	r.Status = battle.PhaseQuiz
	r.QuestionText = q.Question
	r.QuestionAnswer = q.Answer
	r.TurnOwnerID = ""
	r.AttackerAction = battle.ActionNone
	r.DefenderAction = battle.ActionNone
	r.Chat = battle.ChatLog{}
	r.TurnStartedAt = e.Now()
}

// BeginQuiz moves a freshly accepted battle into its first quiz round once
// the intro presentation hold has elapsed.
func (e *Env) BeginQuiz() Transition {
	return Transition{
		Name: "begin_quiz",
		Precondition: func(r *battle.Record) bool {
			return r.Status == battle.PhaseStarting &&
				!e.Now().Before(r.TurnStartedAt.Add(e.Timing.IntroDelay))
		},
		Transform: func(r *battle.Record) {
			e.startQuizRound(r)
			r.Log = "The battle begins! First to answer attacks."
		},
	}
}

// SubmitAnswer records a participant's quiz attempt. A correct answer makes
// the submitter the attacker, except that a recharging pet only consumes the
// penalty and a fresh round starts instead. Incorrect answers leave the
// round open for either side.
func (e *Env) SubmitAnswer(playerID, text string) Transition {
	return Transition{
		Name: "submit_answer",
		Precondition: func(r *battle.Record) bool {
			return r.Status == battle.PhaseQuiz && r.IsParticipant(playerID)
		},
		Transform: func(r *battle.Record) {
			correct := quiz.Matches(text, r.QuestionAnswer)
			if r.Chat == nil {
				r.Chat = battle.ChatLog{}
			}
			r.Chat[playerID] = battle.ChatAttempt{
				Text:      quiz.MaskProfanity(text),
				IsCorrect: correct,
			}
			if !correct {
				return
			}

			submitter := r.CombatantByID(playerID)
			if submitter.Pet.Recharging {
				// A correct answer while recharging clears the penalty but
				// grants no attack; a new round starts immediately.
				submitter.Pet.Recharging = false
				e.startQuizRound(r)
				r.Log = submitter.Name + "'s " + submitter.Pet.Name + " finished recharging. New question!"
				return
			}

			r.Status = battle.PhaseAction
			r.TurnOwnerID = playerID
			r.QuestionText = ""
			r.QuestionAnswer = ""
			r.AttackerAction = battle.ActionNone
			r.DefenderAction = battle.ActionNone
			r.TurnStartedAt = e.Now()
			r.Log = submitter.Name + " answered correctly and takes the attack!"
		},
	}
}

// QuizTimeout fires when a quiz round stayed unanswered for the full
// budget: both pets take chip damage and a new round starts, unless the
// chip knocked a pet out. On a mutual knockout the challenger wins; the
// tie-break is a deliberate, documented policy.
//
// The caller pins the Seq it observed so a duplicate driver whose read is
// stale no-ops instead of double-chipping.
func (e *Env) QuizTimeout(seenSeq uint) Transition {
	return Transition{
		Name: "quiz_timeout",
		Precondition: func(r *battle.Record) bool {
			return r.Status == battle.PhaseQuiz &&
				r.Seq == seenSeq &&
				!e.Now().Before(r.TurnStartedAt.Add(e.Timing.QuizBudget))
		},
		Transform: func(r *battle.Record) {
			chip := func(p *battle.PetState) int {
				dmg := int(math.Round(float64(p.MaxHP) * timeoutChipRatio))
				if dmg < 1 {
					dmg = 1
				}
				return p.ApplyDamage(dmg)
			}
			c := chip(&r.Challenger.Pet)
			o := chip(&r.Opponent.Pet)

			challengerDown := r.Challenger.Pet.Fainted()
			opponentDown := r.Opponent.Pet.Fainted()
			switch {
			case challengerDown || opponentDown:
				r.Status = battle.PhaseFinished
				r.TurnOwnerID = ""
				r.QuestionText = ""
				r.QuestionAnswer = ""
				if opponentDown {
					// Covers the mutual knockout: challenger wins the tie.
					r.WinnerID = r.Challenger.PlayerID
					r.Log = "Time's up! " + r.Opponent.Pet.Name + " collapsed from exhaustion. " + r.Challenger.Name + " wins!"
				} else {
					r.WinnerID = r.Opponent.PlayerID
					r.Log = "Time's up! " + r.Challenger.Pet.Name + " collapsed from exhaustion. " + r.Opponent.Name + " wins!"
				}
			default:
				e.startQuizRound(r)
				r.Log = narrateChip(r, c, o)
			}
		},
	}
}

func narrateChip(r *battle.Record, challengerChip, opponentChip int) string {
	return "Nobody answered in time! " + r.Challenger.Pet.Name + " and " +
		r.Opponent.Pet.Name + " each lose a little strength (-" +
		strconv.Itoa(challengerChip) + "/-" + strconv.Itoa(opponentChip) + " HP)."
}
