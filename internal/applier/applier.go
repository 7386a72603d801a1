// Package applier is the single mutation chokepoint for battle records.
// Every state-machine transition is a (precondition, transform) pair and is
// applied read-check-write under an optimistic compare-and-swap on the
// record's version, so two participants racing to drive the same transition
// can never both land it.
package applier

import (
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/battle"
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/engine"
)

// RecordStore is the narrow persistence surface the applier needs. The
// production implementation is the GORM repository; tests use an in-memory
// store.
type RecordStore interface {
	GetBattleByKey(key string) (*battle.Record, error)
	// SaveBattleCAS persists the record only if the stored version still
	// equals expectedVersion, reporting whether the write landed.
	SaveBattleCAS(r *battle.Record, expectedVersion uint) (bool, error)
}

// Apply reads the latest record, evaluates the transition's precondition
// and, only if it holds, atomically writes the transformed record. The
// returned bool reports whether the transition landed; false is the
// expected no-op when another writer got there first (either the
// precondition failed against the fresh read, or the CAS lost). It is never
// retried blindly: timer-driven transitions re-trigger on the next tick and
// re-validate against the state they then observe.
func Apply(store RecordStore, key string, tr engine.Transition) (*battle.Record, bool, error) {
	r, err := store.GetBattleByKey(key)
	if err != nil {
		return nil, false, err
	}
	if !tr.Precondition(r) {
		return r, false, nil
	}

	expected := r.Version
	tr.Transform(r)
	r.Seq++
	r.Version = expected + 1

	ok, err := store.SaveBattleCAS(r, expected)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		// Lost the race; surface the record that actually won.
		latest, err := store.GetBattleByKey(key)
		if err != nil {
			return nil, false, err
		}
		return latest, false, nil
	}
	return r, true, nil
}
