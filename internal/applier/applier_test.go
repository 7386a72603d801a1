package applier

import (
	"errors"
	"testing"

	"github.com/leaugueofchoding/wooriban-league-sub000/internal/battle"
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/engine"
)

// memStore is an in-memory RecordStore. conflicts makes the next N CAS
// writes lose, simulating a concurrent writer landing first.
type memStore struct {
	rec       *battle.Record
	conflicts int
	saves     int
}

func (m *memStore) GetBattleByKey(key string) (*battle.Record, error) {
	if m.rec == nil || m.rec.BattleKey != key {
		return nil, errors.New("record not found")
	}
	cp := *m.rec
	return &cp, nil
}

func (m *memStore) SaveBattleCAS(r *battle.Record, expectedVersion uint) (bool, error) {
	if m.conflicts > 0 {
		m.conflicts--
		m.rec.Version = expectedVersion + 1
		return false, nil
	}
	if m.rec.Version != expectedVersion {
		return false, nil
	}
	cp := *r
	m.rec = &cp
	m.saves++
	return true, nil
}

func bump() engine.Transition {
	return engine.Transition{
		Name:         "bump_log",
		Precondition: func(r *battle.Record) bool { return r.Status == battle.PhaseQuiz },
		Transform:    func(r *battle.Record) { r.Log = "bumped" },
	}
}

func TestApply_LandsTransition(t *testing.T) {
	store := &memStore{rec: &battle.Record{BattleKey: "a_b", Status: battle.PhaseQuiz, Seq: 4, Version: 9}}

	rec, applied, err := Apply(store, "a_b", bump())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !applied {
		t.Fatal("expected the transition to land")
	}
	if rec.Seq != 5 || rec.Version != 10 {
		t.Fatalf("expected seq/version bump, got seq=%d version=%d", rec.Seq, rec.Version)
	}
	if store.rec.Log != "bumped" {
		t.Fatal("expected the transform persisted")
	}
}

func TestApply_FailedPreconditionIsExpectedNoOp(t *testing.T) {
	store := &memStore{rec: &battle.Record{BattleKey: "a_b", Status: battle.PhaseFinished}}

	rec, applied, err := Apply(store, "a_b", bump())
	if err != nil {
		t.Fatalf("a failed precondition must not be an error, got %v", err)
	}
	if applied {
		t.Fatal("expected a no-op")
	}
	if rec.Status != battle.PhaseFinished {
		t.Fatal("expected the unmodified record back")
	}
	if store.saves != 0 {
		t.Fatal("expected no write on a failed precondition")
	}
}

func TestApply_LostCASReturnsWinningRecord(t *testing.T) {
	store := &memStore{
		rec:       &battle.Record{BattleKey: "a_b", Status: battle.PhaseQuiz, Version: 3},
		conflicts: 1,
	}

	rec, applied, err := Apply(store, "a_b", bump())
	if err != nil {
		t.Fatalf("losing a CAS race must not be an error, got %v", err)
	}
	if applied {
		t.Fatal("expected the lost race reported as not applied")
	}
	if rec.Version != 4 {
		t.Fatalf("expected the winner's record surfaced, got version=%d", rec.Version)
	}
}

func TestApply_AtMostOneOfRacingDrivers(t *testing.T) {
	store := &memStore{rec: &battle.Record{BattleKey: "a_b", Status: battle.PhaseQuiz, Version: 1}}

	tr := engine.Transition{
		Name:         "finish",
		Precondition: func(r *battle.Record) bool { return r.Status == battle.PhaseQuiz },
		Transform:    func(r *battle.Record) { r.Status = battle.PhaseFinished },
	}

	_, first, err := Apply(store, "a_b", tr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, second, err := Apply(store, "a_b", tr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !first || second {
		t.Fatalf("expected exactly one driver to land, got first=%v second=%v", first, second)
	}
	if store.saves != 1 {
		t.Fatalf("expected a single write, got %d", store.saves)
	}
}

func TestApply_UnknownKeyIsAnError(t *testing.T) {
	store := &memStore{}

	_, _, err := Apply(store, "missing", bump())
	if err == nil {
		t.Fatal("expected an error for an unknown record")
	}
}
