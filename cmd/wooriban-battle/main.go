package main

import (
	"math/rand"
	"os"
	"time"

	"github.com/leaugueofchoding/wooriban-league-sub000/internal/api"
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/catalog"
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/config"
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/constants"
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/engine"
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/logging"
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/progression"
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/quiz"
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/realtime"
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load the league configuration file (required). Path may be provided
	// via WOORIBAN_CONFIG or defaults to ./wooriban_config.json in the
	// current working directory.
	configPath := os.Getenv(constants.EnvConfigPath)
	if configPath == "" {
		configPath = "./wooriban_config.json"
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logging.Fatal("Missing or invalid wooriban configuration", err, logging.Fields{"config_path": configPath, "hint": "create a wooriban_config.json with 'species_list', 'skill_list' and 'quiz_list' arrays and optional keys: server.address, timing"})
	}

	// Allow the DB path to be configured via WOORIBAN_DB. Default to a
	// `data/` directory inside the module for local development.
	dbPath := os.Getenv(constants.EnvDBPath)
	if dbPath == "" {
		dbPath = "./data/wooriban.db"
	}
	db, err := storage.OpenAndMigrate(dbPath, cfg.Questions)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, nil)
	}

	repo := storage.NewSQLiteRepository(db, storage.DeadlineTiming{
		QuizBudget:    cfg.Timing.QuizBudget,
		ActionBudget:  cfg.Timing.ActionBudget,
		ActionGrace:   cfg.Timing.ActionGrace,
		IntroDelay:    cfg.Timing.IntroDelay,
		NarrationHold: cfg.Timing.NarrationHold,
	})

	// The bank samples from the seeded table, so questions added directly
	// in the DB take effect on the next restart without a config edit.
	questions, err := repo.GetQuizQuestions()
	if err != nil {
		logging.Error("Failed to load quiz questions, using config list", err, nil)
		questions = cfg.Questions
	}
	if len(questions) == 0 {
		questions = cfg.Questions
	}

	env := &engine.Env{
		Now:     time.Now,
		RNG:     rand.New(rand.NewSource(time.Now().UnixNano())),
		Catalog: catalog.New(cfg.Species, cfg.Skills),
		Quiz:    quiz.NewBank(questions),
		Timing:  cfg.Timing,
	}

	hub := realtime.NewHub()
	go hub.Run()

	committer := progression.NewCommitter(repo)
	handler := api.NewBattleHandler(repo, env, hub, committer)

	// Background scanner: drives the timed phases (intro countdown, quiz
	// and action timeouts, narration holds) for battles nobody is poking.
	go runDueScanner(repo, env, committer, hub)

	router := gin.Default()

	apiRoutes := router.Group(constants.RouteAPIPrefix)
	{
		// Public endpoints
		apiRoutes.GET(constants.RouteSkills, handler.ListSkills)
		apiRoutes.GET(constants.RouteLeaderboard, handler.ListLeaderboard)
		apiRoutes.GET(constants.RoutePlayerStats, handler.GetPlayerStats)
		apiRoutes.GET(constants.RouteVersion, api.Version)

		// Endpoints that require a resolved player identity
		protected := apiRoutes.Group("")
		protected.Use(api.PlayerRequired())

		protected.POST(constants.RouteBattles, handler.CreateChallenge)
		protected.GET(constants.RouteBattleByKey, handler.GetBattle)
		protected.POST(constants.RouteBattleAccept, handler.AcceptChallenge)
		protected.POST(constants.RouteBattleReject, handler.RejectChallenge)
		protected.POST(constants.RouteBattleCancel, handler.CancelChallenge)
		protected.POST(constants.RouteBattleAnswer, handler.SubmitAnswer)
		protected.POST(constants.RouteBattleAction, handler.ChooseAction)
		protected.POST(constants.RouteBattleFlee, handler.Flee)
	}

	// WebSocket dials carry identity themselves, so the route sits outside
	// the header middleware.
	router.GET(constants.RouteBattleSubscribe, handler.Subscribe)

	addr := cfg.ServerAddress
	logging.Info("Server started", logging.Fields{constants.LogFieldAddr: addr})
	if err := router.Run(addr); err != nil {
		logging.Fatal("Failed to start server", err, nil)
	}
}
