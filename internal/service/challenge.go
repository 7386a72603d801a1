package service

import (
	"errors"

	"github.com/google/uuid"
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/applier"
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/battle"
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/engine"
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/keys"
	"gorm.io/gorm"
)

var (
	ErrBattleNotFound       = errors.New("battle not found")
	ErrSelfChallenge        = errors.New("cannot challenge yourself")
	ErrUnknownSpecies       = errors.New("unknown pet species")
	ErrPlayerBusy           = errors.New("player already has an active battle")
	ErrChallengeUnavailable = errors.New("challenge is no longer open")
)

// BattleRepo is the record-store surface the battle services need; it is a
// subset of storage.Repository so tests can use small in-memory fakes.
type BattleRepo interface {
	applier.RecordStore
	CreateBattle(r *battle.Record) error
	FindActiveBattleKeyForPlayer(playerID string) (string, error)
}

// PetSpec describes the pet a player brings into a challenge. The combat
// snapshot is built from the species catalog at this moment and never
// refreshed, so later shop purchases or level-ups cannot touch a running
// fight.
type PetSpec struct {
	PetID     string
	Name      string
	SpeciesID string
	Level     int
	Skills    []string
}

func buildPet(env *engine.Env, spec PetSpec) (battle.PetState, error) {
	petID := spec.PetID
	if petID == "" {
		petID = uuid.NewString()
	}
	pet, ok := env.Catalog.BuildPet(petID, spec.Name, spec.SpeciesID, spec.Level, spec.Skills)
	if !ok {
		return battle.PetState{}, ErrUnknownSpecies
	}
	return pet, nil
}

// CreateChallenge writes the initial pending record for a participant pair.
// The record key is deterministic for the sorted pair, so a rematch reuses
// the terminal row (reset back to pending) instead of accumulating rows.
func CreateChallenge(repo BattleRepo, env *engine.Env, challengerID, challengerName string, pet PetSpec, opponentID, opponentName string) (*battle.Record, error) {
	if challengerID == opponentID {
		return nil, ErrSelfChallenge
	}
	snapshot, err := buildPet(env, pet)
	if err != nil {
		return nil, err
	}
	for _, id := range []string{challengerID, opponentID} {
		key, err := repo.FindActiveBattleKeyForPlayer(id)
		if err != nil {
			return nil, err
		}
		if key != "" {
			return nil, ErrPlayerBusy
		}
	}

	key := keys.BattleKeyFromPlayers(challengerID, opponentID)
	challenger := battle.Combatant{PlayerID: challengerID, Name: challengerName, Pet: snapshot}
	opponent := battle.Combatant{PlayerID: opponentID, Name: opponentName}

	existing, err := repo.GetBattleByKey(key)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err != nil {
		rec := &battle.Record{
			BattleKey:  key,
			Status:     battle.PhasePending,
			Challenger: challenger,
			Opponent:   opponent,
			Chat:       battle.ChatLog{},
			Log:        challengerName + " challenged " + opponentName + " to a battle!",
		}
		if createErr := repo.CreateBattle(rec); createErr != nil {
			return nil, createErr
		}
		return rec, nil
	}

	if !existing.Status.Terminal() {
		return nil, ErrPlayerBusy
	}
	rec, applied, err := applier.Apply(repo, key, env.ResetChallenge(challenger, opponent))
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, ErrChallengeUnavailable
	}
	return rec, nil
}

// AcceptChallenge snapshots the opponent's pet and moves the record into
// the starting hold; the first quiz round follows after the intro delay.
func AcceptChallenge(repo BattleRepo, env *engine.Env, key, playerID string, pet PetSpec) (*battle.Record, error) {
	snapshot, err := buildPet(env, pet)
	if err != nil {
		return nil, err
	}
	rec, applied, err := applyToBattle(repo, key, env.AcceptChallenge(playerID, snapshot))
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, ErrChallengeUnavailable
	}
	return rec, nil
}

// RejectChallenge declines a pending challenge.
func RejectChallenge(repo BattleRepo, env *engine.Env, key, playerID string) (*battle.Record, error) {
	rec, applied, err := applyToBattle(repo, key, env.RejectChallenge(playerID))
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, ErrChallengeUnavailable
	}
	return rec, nil
}

// CancelChallenge withdraws a pending challenge.
func CancelChallenge(repo BattleRepo, env *engine.Env, key, playerID string) (*battle.Record, error) {
	rec, applied, err := applyToBattle(repo, key, env.CancelChallenge(playerID))
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, ErrChallengeUnavailable
	}
	return rec, nil
}

// lookupError keeps the not-found sentinel for missing rows and passes any
// other storage failure through, so callers never report a missing battle
// when the database itself is what broke.
func lookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrBattleNotFound
	}
	return err
}

func applyToBattle(repo BattleRepo, key string, tr engine.Transition) (*battle.Record, bool, error) {
	rec, applied, err := applier.Apply(repo, key, tr)
	if err != nil {
		return nil, false, lookupError(err)
	}
	return rec, applied, nil
}
