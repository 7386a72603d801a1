package api

import (
	"net/http"

	"github.com/leaugueofchoding/wooriban-league-sub000/internal/battle"
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/constants"
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/engine"
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/logging"
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

// PetRequest describes the pet a player brings into a challenge.
type PetRequest struct {
	PetID     string   `json:"pet_id"`
	Name      string   `json:"name"`
	SpeciesID string   `json:"species_id"`
	Level     int      `json:"level"`
	Skills    []string `json:"skills"`
}

type CreateChallengeRequest struct {
	OpponentID   string     `json:"opponent_id"`
	OpponentName string     `json:"opponent_name"`
	Pet          PetRequest `json:"pet"`
}

type AcceptChallengeRequest struct {
	Pet PetRequest `json:"pet"`
}

func petSpecFromRequest(req PetRequest) service.PetSpec {
	return service.PetSpec{
		PetID:     req.PetID,
		Name:      req.Name,
		SpeciesID: req.SpeciesID,
		Level:     req.Level,
		Skills:    req.Skills,
	}
}

// CreateChallenge opens a pending battle between the caller and the named
// opponent. A rematch against the same opponent reuses the finished row.
func (h *BattleHandler) CreateChallenge(c *gin.Context) {
	playerID, playerName := callerIdentity(c)

	var req CreateChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.OpponentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	rec, err := service.CreateChallenge(h.repo, h.env, playerID, playerName, petSpecFromRequest(req.Pet), req.OpponentID, req.OpponentName)
	if err != nil {
		switch err {
		case service.ErrSelfChallenge:
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrSelfChallenge})
		case service.ErrUnknownSpecies:
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrUnknownSpecies})
		case service.ErrPlayerBusy:
			c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrPlayerBusy})
		default:
			logging.Error("failed to create challenge", err, logging.Fields{constants.LogFieldPlayerID: playerID})
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedCreate})
		}
		return
	}

	if err := h.repo.UpsertProfileName(playerID, playerName); err != nil {
		logging.Error("failed to upsert profile name", err, logging.Fields{constants.LogFieldPlayerID: playerID})
	}

	h.pushUpdate(rec)
	c.JSON(http.StatusCreated, gin.H{constants.JSONKeyBattle: rec})
}

// AcceptChallenge moves a pending battle into the intro countdown. Only
// the challenged player may accept, and they must bring a pet of their own.
func (h *BattleHandler) AcceptChallenge(c *gin.Context) {
	playerID, playerName := callerIdentity(c)
	key := normalizeBattleKey(c.Param("battleKey"))
	if key == "" || !battleKeyRegex.MatchString(key) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidBattleKey})
		return
	}

	var req AcceptChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	rec, err := service.AcceptChallenge(h.repo, h.env, key, playerID, petSpecFromRequest(req.Pet))
	if err != nil {
		switch err {
		case service.ErrBattleNotFound:
			c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrBattleNotFound})
		case service.ErrUnknownSpecies:
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrUnknownSpecies})
		case service.ErrChallengeUnavailable:
			c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrChallengeClosed})
		default:
			logging.Error("failed to accept challenge", err, logging.Fields{constants.LogFieldBattleKey: key})
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedStoreEvent})
		}
		return
	}

	if err := h.repo.UpsertProfileName(playerID, playerName); err != nil {
		logging.Error("failed to upsert profile name", err, logging.Fields{constants.LogFieldPlayerID: playerID})
	}

	h.pushUpdate(rec)
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyBattle: rec})
}

// RejectChallenge declines a pending battle.
func (h *BattleHandler) RejectChallenge(c *gin.Context) {
	h.closeChallenge(c, service.RejectChallenge)
}

// CancelChallenge withdraws a pending battle; only the challenger may cancel.
func (h *BattleHandler) CancelChallenge(c *gin.Context) {
	h.closeChallenge(c, service.CancelChallenge)
}

func (h *BattleHandler) closeChallenge(c *gin.Context, op func(service.BattleRepo, *engine.Env, string, string) (*battle.Record, error)) {
	playerID, _ := callerIdentity(c)
	key := normalizeBattleKey(c.Param("battleKey"))
	if key == "" || !battleKeyRegex.MatchString(key) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidBattleKey})
		return
	}

	rec, err := op(h.repo, h.env, key, playerID)
	if err != nil {
		switch err {
		case service.ErrBattleNotFound:
			c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrBattleNotFound})
		case service.ErrChallengeUnavailable:
			c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrChallengeClosed})
		default:
			logging.Error("failed to close challenge", err, logging.Fields{constants.LogFieldBattleKey: key})
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedStoreEvent})
		}
		return
	}

	h.pushUpdate(rec)
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyBattle: rec})
}
