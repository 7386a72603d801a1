package api

import (
	"net/http"

	"github.com/leaugueofchoding/wooriban-league-sub000/internal/constants"
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/engine"
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/realtime"
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/service"
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/storage"

	"github.com/gin-gonic/gin"
)

// BattleHandler groups all battle-related HTTP handlers.
type BattleHandler struct {
	repo      storage.Repository
	env       *engine.Env
	hub       *realtime.Hub
	committer service.OutcomeReporter
}

// NewBattleHandler creates a new BattleHandler wired to the given
// repository, rule environment, realtime hub and outcome committer.
func NewBattleHandler(repo storage.Repository, env *engine.Env, hub *realtime.Hub, committer service.OutcomeReporter) *BattleHandler {
	return &BattleHandler{repo: repo, env: env, hub: hub, committer: committer}
}

// PlayerRequired ensures the caller carries a resolved player identity.
// Authentication is terminated upstream; this layer only consumes the
// forwarded headers.
func PlayerRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		playerID := c.GetHeader(constants.HeaderPlayerID)
		if playerID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrIdentityRequired})
			return
		}
		c.Set("playerID", playerID)
		c.Set("playerName", c.GetHeader(constants.HeaderPlayerName))
		c.Next()
	}
}

func callerIdentity(c *gin.Context) (string, string) {
	id, _ := c.Get("playerID")
	name, _ := c.Get("playerName")
	idStr, _ := id.(string)
	nameStr, _ := name.(string)
	if nameStr == "" {
		nameStr = idStr
	}
	return idStr, nameStr
}
