package api

import (
	"net/http"

	"github.com/leaugueofchoding/wooriban-league-sub000/internal/battle"
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/constants"
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/logging"
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type AnswerRequest struct {
	Text string `json:"text"`
}

type ActionRequest struct {
	Action string `json:"action"`
}

// SubmitAnswer records a quiz attempt for the current round. Wrong answers
// only append to the battle chat; the first correct answer claims the turn.
func (h *BattleHandler) SubmitAnswer(c *gin.Context) {
	playerID, _ := callerIdentity(c)
	key := normalizeBattleKey(c.Param("battleKey"))
	if key == "" || !battleKeyRegex.MatchString(key) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidBattleKey})
		return
	}

	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	rec, applied, err := service.SubmitAnswer(h.repo, h.env, key, playerID, req.Text)
	if err != nil {
		switch err {
		case service.ErrBattleNotFound:
			c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrBattleNotFound})
		case service.ErrNotParticipant:
			c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrNotInThisBattle})
		case service.ErrEmptyAnswer:
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrEmptyAnswer})
		default:
			logging.Error("failed to submit answer", err, logging.Fields{constants.LogFieldBattleKey: key})
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedStoreEvent})
		}
		return
	}

	if applied {
		h.pushUpdate(rec)
	}
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyBattle: rec})
}

// ChooseAction stores the caller's combat action for the current exchange.
// Once both sides have chosen, the exchange resolves in the same request.
func (h *BattleHandler) ChooseAction(c *gin.Context) {
	playerID, _ := callerIdentity(c)
	key := normalizeBattleKey(c.Param("battleKey"))
	if key == "" || !battleKeyRegex.MatchString(key) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidBattleKey})
		return
	}

	var req ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Action == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	rec, applied, err := service.ChooseAction(h.repo, h.env, h.committer, key, playerID, battle.ActionID(req.Action))
	if err != nil {
		h.respondActionError(c, key, err)
		return
	}

	if applied {
		h.pushUpdate(rec)
	}
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyBattle: rec})
}

// Flee attempts to run from the battle. Success ends the fight with no
// winner; failure locks the caller into a defenseless exchange.
func (h *BattleHandler) Flee(c *gin.Context) {
	playerID, _ := callerIdentity(c)
	key := normalizeBattleKey(c.Param("battleKey"))
	if key == "" || !battleKeyRegex.MatchString(key) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidBattleKey})
		return
	}

	rec, applied, err := service.RequestFlee(h.repo, h.env, h.committer, key, playerID)
	if err != nil {
		h.respondActionError(c, key, err)
		return
	}

	if applied {
		h.pushUpdate(rec)
	}
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyBattle: rec})
}

func (h *BattleHandler) respondActionError(c *gin.Context, key string, err error) {
	switch err {
	case service.ErrBattleNotFound:
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrBattleNotFound})
	case service.ErrNotParticipant:
		c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrNotInThisBattle})
	case service.ErrNotInActionPhase:
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrNotActionPhase})
	case service.ErrInvalidOffense, service.ErrInvalidDefense:
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidAction})
	case service.ErrSkillNotEquipped:
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrSkillNotEquipped})
	case service.ErrInsufficientSP:
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrInsufficientSP})
	default:
		logging.Error("failed to store action", err, logging.Fields{constants.LogFieldBattleKey: key})
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedStoreEvent})
	}
}
