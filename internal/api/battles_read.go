package api

import (
	"errors"
	"net/http"

	"github.com/leaugueofchoding/wooriban-league-sub000/internal/constants"
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/logging"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const leaderboardLimit = 10

// GetBattle returns the battle record for a participant. The pending quiz
// answer never serializes, so polling this endpoint leaks nothing.
func (h *BattleHandler) GetBattle(c *gin.Context) {
	playerID, _ := callerIdentity(c)
	key := normalizeBattleKey(c.Param("battleKey"))
	if key == "" || !battleKeyRegex.MatchString(key) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidBattleKey})
		return
	}

	rec, err := h.repo.GetBattleByKey(key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrBattleNotFound})
			return
		}
		logging.Error("failed to fetch battle", err, logging.Fields{constants.LogFieldBattleKey: key})
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedStoreEvent})
		return
	}
	if !rec.IsParticipant(playerID) {
		c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrNotInThisBattle})
		return
	}

	c.JSON(http.StatusOK, gin.H{constants.JSONKeyBattle: rec})
}

// ListSkills returns the full skill catalog so clients can render loadouts.
func (h *BattleHandler) ListSkills(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"skills": h.env.Catalog.Skills()})
}

// GetPlayerStats returns the progression profile for a player. Players who
// have never fought get a fresh level-one profile rather than an error.
func (h *BattleHandler) GetPlayerStats(c *gin.Context) {
	playerID := c.Param("playerID")
	if playerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	profile, err := h.repo.GetProfileByPlayerID(playerID)
	if err != nil {
		logging.Error("failed to fetch player stats", err, logging.Fields{constants.LogFieldPlayerID: playerID})
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchStats})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// ListLeaderboard returns the top profiles ordered by points.
func (h *BattleHandler) ListLeaderboard(c *gin.Context) {
	profiles, err := h.repo.GetTopProfiles(leaderboardLimit)
	if err != nil {
		logging.Error("failed to fetch leaderboard", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchBoard})
		return
	}

	c.JSON(http.StatusOK, gin.H{"leaderboard": profiles})
}
