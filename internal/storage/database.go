package storage

import (
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/battle"
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/quiz"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// OpenAndMigrate opens the SQLite database and keeps the schema current via
// AutoMigrate. Battle rows are self-contained (pet snapshots embedded), so
// the schema is just the record plus the progression and question tables.
func OpenAndMigrate(dataSourceName string, questionsFromConfig []quiz.Question) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&battle.Record{}, &battle.Profile{}, &battle.PetCarryOver{}, &battle.QuizQuestion{}); err != nil {
		return nil, err
	}
	seedQuizQuestions(db, questionsFromConfig)
	return db, nil
}

// seedQuizQuestions fills an empty question table from the config file.
// A non-empty table is left alone so questions added directly in the DB
// survive restarts and config edits.
func seedQuizQuestions(db *gorm.DB, fromConfig []quiz.Question) {
	var count int64
	db.Model(&battle.QuizQuestion{}).Count(&count)
	if count > 0 {
		return
	}
	rows := make([]battle.QuizQuestion, 0, len(fromConfig))
	for _, q := range fromConfig {
		rows = append(rows, battle.QuizQuestion{Question: q.Question, Answer: q.Answer})
	}
	if len(rows) == 0 {
		return
	}
	db.Create(&rows)
}
