package engine

import (
	"time"

	"github.com/leaugueofchoding/wooriban-league-sub000/internal/battle"
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/catalog"
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/quiz"
)

// stubRand returns scripted rolls; when a script runs out it returns values
// that make every chance roll fail.
type stubRand struct {
	floats []float64
	ints   []int
}

func (s *stubRand) Float64() float64 {
	if len(s.floats) == 0 {
		return 0.99
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func (s *stubRand) Intn(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v % n
}

func testCatalog() *catalog.Catalog {
	skills := []catalog.Skill{
		{ID: "bite", Name: "Bite", Cost: 10, Effect: catalog.SkillEffect{DamageBase: 10, DamageAtkScale: 1}},
		{ID: "heal_pulse", Name: "Heal Pulse", Cost: 10, Effect: catalog.SkillEffect{SelfHeal: 15}},
		{ID: "thunder_fang", Name: "Thunder Fang", Cost: 15, Effect: catalog.SkillEffect{DamageBase: 5, DamageAtkScale: 1, StunChance: 1.0}},
		{ID: "hyper_beam", Name: "Hyper Beam", Cost: 20, Effect: catalog.SkillEffect{DamageBase: 40, DamageAtkScale: 2, SelfRecharge: true}},
	}
	species := []catalog.Species{
		{ID: "mongryong", Name: "Mongryong", BaseHP: 100, BaseSP: 50, BaseAtk: 10, DefaultSkills: []string{"bite"}},
	}
	return catalog.New(species, skills)
}

func testEnv(now time.Time, rng *stubRand) *Env {
	return &Env{
		Now:     func() time.Time { return now },
		RNG:     rng,
		Catalog: testCatalog(),
		Quiz:    quiz.NewBank([]quiz.Question{{Question: "3 x 4 = ?", Answer: "12"}}),
		Timing:  DefaultTiming(),
	}
}

func testPet(name string) battle.PetState {
	return battle.PetState{
		PetID:          name + "-pet",
		Name:           name,
		Level:          1,
		HP:             100,
		MaxHP:          100,
		SP:             50,
		MaxSP:          50,
		Atk:            10,
		EquippedSkills: battle.SkillList{"bite", "heal_pulse", "thunder_fang", "hyper_beam"},
	}
}

// quizRecord returns a battle sitting in an open quiz round.
func quizRecord(now time.Time) *battle.Record {
	return &battle.Record{
		BattleKey:      "p1_p2",
		Status:         battle.PhaseQuiz,
		Challenger:     battle.Combatant{PlayerID: "p1", Name: "Jimin", Pet: testPet("Choco")},
		Opponent:       battle.Combatant{PlayerID: "p2", Name: "Minjun", Pet: testPet("Byul")},
		QuestionText:   "3 x 4 = ?",
		QuestionAnswer: "12",
		TurnStartedAt:  now,
		Seq:            3,
	}
}

// actionRecord returns a battle in the action phase with p1 as attacker.
func actionRecord(now time.Time) *battle.Record {
	r := quizRecord(now)
	r.Status = battle.PhaseAction
	r.TurnOwnerID = "p1"
	r.QuestionText = ""
	r.QuestionAnswer = ""
	return r
}

// apply runs a transition the way the applier would, including the Seq
// bump, and reports whether it fired.
func apply(tr Transition, r *battle.Record) bool {
	if !tr.Precondition(r) {
		return false
	}
	tr.Transform(r)
	r.Seq++
	return true
}
