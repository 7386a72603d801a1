package api

import (
	"errors"
	"net/http"

	"github.com/leaugueofchoding/wooriban-league-sub000/internal/constants"
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin checks are handled by the fronting proxy.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Subscribe upgrades the connection to a WebSocket and streams battle
// updates until the client disconnects. Browsers cannot set headers on
// WebSocket dials, so identity may also arrive as a query parameter.
func (h *BattleHandler) Subscribe(c *gin.Context) {
	playerID := c.GetHeader(constants.HeaderPlayerID)
	if playerID == "" {
		playerID = c.Query("player_id")
	}
	if playerID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrIdentityRequired})
		return
	}

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
		logging.Error("failed to fetch battle for subscription", err, logging.Fields{constants.LogFieldBattleKey: key})
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedSubscribe})
		return
	}
	if !rec.IsParticipant(playerID) {
		c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrNotInThisBattle})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logging.Error("websocket upgrade failed", err, logging.Fields{constants.LogFieldBattleKey: key})
		return
	}

	h.hub.Subscribe(conn, key, playerID)

	// Send the current record immediately so a reconnecting client does
	// not wait for the next transition.
	h.hub.BroadcastRecord(rec)
}
