package service

import (
	"errors"
	"time"

	"github.com/leaugueofchoding/wooriban-league-sub000/internal/battle"
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/catalog"
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/engine"
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/progression"
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/quiz"
	"gorm.io/gorm"
)

var testNow = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

// memRepo is an in-memory BattleRepo backed by the same CAS semantics as
// the GORM repository. It yields the same not-found error the GORM layer
// does, and getErr/saveErr simulate storage outages.
type memRepo struct {
	recs    map[string]*battle.Record
	getErr  error
	saveErr error
}

func newMemRepo() *memRepo {
	return &memRepo{recs: make(map[string]*battle.Record)}
}

func (m *memRepo) GetBattleByKey(key string) (*battle.Record, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	rec, ok := m.recs[key]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *rec
	return &cp, nil
}

func (m *memRepo) SaveBattleCAS(r *battle.Record, expectedVersion uint) (bool, error) {
	if m.saveErr != nil {
		return false, m.saveErr
	}
	stored, ok := m.recs[r.BattleKey]
	if !ok || stored.Version != expectedVersion {
		return false, nil
	}
	cp := *r
	m.recs[r.BattleKey] = &cp
	return true, nil
}

func (m *memRepo) CreateBattle(r *battle.Record) error {
	if _, exists := m.recs[r.BattleKey]; exists {
		return errors.New("duplicate battle key")
	}
	cp := *r
	m.recs[r.BattleKey] = &cp
	return nil
}

func (m *memRepo) FindActiveBattleKeyForPlayer(playerID string) (string, error) {
	for key, rec := range m.recs {
		if rec.Status.Terminal() {
			continue
		}
		if rec.IsParticipant(playerID) {
			return key, nil
		}
	}
	return "", nil
}

type mockCommitter struct {
	outcomes []progression.Outcome
}

func (m *mockCommitter) ReportOutcome(out progression.Outcome) error {
	m.outcomes = append(m.outcomes, out)
	return nil
}

type scriptRand struct {
	floats []float64
}

func (s *scriptRand) Float64() float64 {
	if len(s.floats) == 0 {
		return 0.99
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func (s *scriptRand) Intn(n int) int { return 0 }

func testEnv(now time.Time, rng engine.Rand) *engine.Env {
	skills := []catalog.Skill{
		{ID: "bite", Name: "Bite", Cost: 10, Effect: catalog.SkillEffect{DamageBase: 10, DamageAtkScale: 1}},
	}
	species := []catalog.Species{
		{ID: "mongryong", Name: "Mongryong", BaseHP: 100, BaseSP: 50, BaseAtk: 10, DefaultSkills: []string{"bite"}},
	}
	if rng == nil {
		rng = &scriptRand{}
	}
	return &engine.Env{
		Now:     func() time.Time { return now },
		RNG:     rng,
		Catalog: catalog.New(species, skills),
		Quiz:    quiz.NewBank([]quiz.Question{{Question: "3 x 4 = ?", Answer: "12"}}),
		Timing:  engine.DefaultTiming(),
	}
}

func seedActionBattle(repo *memRepo, now time.Time) *battle.Record {
	env := testEnv(now, nil)
	pet1, _ := env.Catalog.BuildPet("pet-1", "Choco", "mongryong", 1, nil)
	pet2, _ := env.Catalog.BuildPet("pet-2", "Byul", "mongryong", 1, nil)
	rec := &battle.Record{
		BattleKey:     "p1_p2",
		Status:        battle.PhaseAction,
		Challenger:    battle.Combatant{PlayerID: "p1", Name: "Jimin", Pet: pet1},
		Opponent:      battle.Combatant{PlayerID: "p2", Name: "Minjun", Pet: pet2},
		TurnOwnerID:   "p1",
		TurnStartedAt: now,
		Seq:           5,
		Version:       5,
	}
	repo.recs[rec.BattleKey] = rec
	return rec
}

func seedQuizBattle(repo *memRepo, now time.Time) *battle.Record {
	rec := seedActionBattle(repo, now)
	rec.Status = battle.PhaseQuiz
	rec.TurnOwnerID = ""
	rec.QuestionText = "3 x 4 = ?"
	rec.QuestionAnswer = "12"
	return rec
}
