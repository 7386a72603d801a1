package main

import (
	"time"

	"github.com/leaugueofchoding/wooriban-league-sub000/internal/constants"
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/engine"
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/logging"
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/realtime"
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/service"
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/storage"
)

const scanInterval = 1 * time.Second

// runDueScanner periodically advances battles whose phase deadline has
// passed. Deadline transitions pin the sequence number they observed, so a
// client-driven transition racing the scanner (or a second scanner) makes
// the late write a no-op instead of a double fire.
func runDueScanner(repo storage.Repository, env *engine.Env, committer service.OutcomeReporter, hub *realtime.Hub) {
	ticker := time.NewTicker(scanInterval)
	defer ticker.Stop()
	for range ticker.C {
		due, err := repo.FindDueBattles(time.Now())
		if err != nil {
			logging.Error("due battle scan failed", err, nil)
			continue
		}
		for i := range due {
			rec, applied, err := service.HandleDueBattle(repo, env, committer, &due[i])
			if err != nil {
				logging.Error("failed to advance due battle", err, logging.Fields{constants.LogFieldBattleKey: due[i].BattleKey})
				continue
			}
			if applied {
				hub.BroadcastRecord(rec)
			}
		}
	}
}
