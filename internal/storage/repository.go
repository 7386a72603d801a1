package storage

import (
	"time"

	"github.com/leaugueofchoding/wooriban-league-sub000/internal/battle"
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/quiz"
)

type Repository interface {
	CreateBattle(r *battle.Record) error
	GetBattleByKey(key string) (*battle.Record, error)
	// SaveBattleCAS writes the record guarded by the stored version; a
	// false return means another writer landed first and the caller must
	// treat its transition as a no-op.
	SaveBattleCAS(r *battle.Record, expectedVersion uint) (bool, error)
	// FindDueBattles returns battles sitting in a timed phase whose
	// deadline is at or before now. The scanner re-reads each record
	// through the applier before acting, so a stale row here is harmless.
	FindDueBattles(now time.Time) ([]battle.Record, error)
	// FindActiveBattleKeyForPlayer returns the key of the player's
	// non-terminal battle, if any (a player fights at most one at a time).
	FindActiveBattleKeyForPlayer(playerID string) (string, error)

	GetProfileByPlayerID(playerID string) (*battle.Profile, error)
	SaveProfile(p *battle.Profile) error
	UpsertProfileName(playerID, name string) error
	GetTopProfiles(limit int) ([]battle.Profile, error)

	SavePetCarryOver(playerID string, pet battle.PetState) error

	// GetQuizQuestions returns the seeded question bank.
	GetQuizQuestions() ([]quiz.Question, error)
}
