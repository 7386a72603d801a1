package storage

import (
	"errors"
	"time"

	"github.com/leaugueofchoding/wooriban-league-sub000/internal/battle"
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/quiz"
	"gorm.io/gorm"
)

type sqliteRepository struct {
	db     *gorm.DB
	timing DeadlineTiming
}

// DeadlineTiming mirrors the engine's phase budgets so FindDueBattles can
// compute cutoffs in SQL without importing the engine.
type DeadlineTiming struct {
	QuizBudget    time.Duration
	ActionBudget  time.Duration
	ActionGrace   time.Duration
	IntroDelay    time.Duration
	NarrationHold time.Duration
}

func NewSQLiteRepository(db *gorm.DB, timing DeadlineTiming) Repository {
	return &sqliteRepository{db: db, timing: timing}
}

func (r *sqliteRepository) CreateBattle(rec *battle.Record) error {
	return r.db.Create(rec).Error
}

func (r *sqliteRepository) GetBattleByKey(key string) (*battle.Record, error) {
	var rec battle.Record
	if err := r.db.Where("battle_key = ?", key).First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// SaveBattleCAS writes the whole row guarded by the previously read
// version. Select("*") forces zero values (cleared actions, empty winner)
// to be written too; RowsAffected tells us whether the swap landed.
func (r *sqliteRepository) SaveBattleCAS(rec *battle.Record, expectedVersion uint) (bool, error) {
	res := r.db.Model(&battle.Record{}).
		Where("battle_key = ? AND version = ?", rec.BattleKey, expectedVersion).
		Select("*").
		Omit("id", "created_at", "deleted_at").
		Updates(rec)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *sqliteRepository) FindDueBattles(now time.Time) ([]battle.Record, error) {
	var recs []battle.Record
	err := r.db.Where(
		"(status = ? AND turn_started_at <= ?) OR (status = ? AND turn_started_at <= ?) OR (status = ? AND turn_started_at <= ?) OR (status = ? AND turn_started_at <= ?)",
		battle.PhaseStarting, now.Add(-r.timing.IntroDelay),
		battle.PhaseQuiz, now.Add(-r.timing.QuizBudget),
		battle.PhaseAction, now.Add(-(r.timing.ActionBudget - r.timing.ActionGrace)),
		battle.PhaseResolution, now.Add(-r.timing.NarrationHold),
	).Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *sqliteRepository) FindActiveBattleKeyForPlayer(playerID string) (string, error) {
	var rec battle.Record
	err := r.db.Where(
		"status NOT IN ? AND (challenger_player_id = ? OR opponent_player_id = ?)",
		[]battle.Phase{battle.PhaseFinished, battle.PhaseRejected, battle.PhaseCancelled},
		playerID, playerID,
	).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return rec.BattleKey, nil
}

func (r *sqliteRepository) GetProfileByPlayerID(playerID string) (*battle.Profile, error) {
	var p battle.Profile
	if err := r.db.Where("player_id = ?", playerID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &battle.Profile{PlayerID: playerID, Level: 1}, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *sqliteRepository) SaveProfile(p *battle.Profile) error {
	return r.db.Save(p).Error
}

func (r *sqliteRepository) UpsertProfileName(playerID, name string) error {
	var p battle.Profile
	if err := r.db.Where("player_id = ?", playerID).First(&p).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		p = battle.Profile{PlayerID: playerID, Level: 1}
	}
	p.Name = name
	return r.db.Save(&p).Error
}

// GetTopProfiles returns the league board ordered by points, then wins.
func (r *sqliteRepository) GetTopProfiles(limit int) ([]battle.Profile, error) {
	if limit <= 0 {
		limit = 10
	}
	var profiles []battle.Profile
	if err := r.db.Model(&battle.Profile{}).
		Order("points DESC").
		Order("wins DESC").
		Limit(limit).
		Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *sqliteRepository) GetQuizQuestions() ([]quiz.Question, error) {
	var rows []battle.QuizQuestion
	if err := r.db.Find(&rows).Error; err != nil {
		return nil, err
	}
	questions := make([]quiz.Question, 0, len(rows))
	for _, row := range rows {
		questions = append(questions, quiz.Question{Question: row.Question, Answer: row.Answer})
	}
	return questions, nil
}

func (r *sqliteRepository) SavePetCarryOver(playerID string, pet battle.PetState) error {
	var row battle.PetCarryOver
	if err := r.db.Where("pet_id = ?", pet.PetID).First(&row).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		row = battle.PetCarryOver{PetID: pet.PetID, PlayerID: playerID}
	}
	row.HP = pet.HP
	row.SP = pet.SP
	return r.db.Save(&row).Error
}
