package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"

	"github.com/LovationAdmin/expense-api/events"
	"github.com/LovationAdmin/expense-api/models"
	"github.com/LovationAdmin/expense-api/utils"
)

const sessionUserKey = "user_id"

// WSHandler pushes newly added expenses to websocket clients watching a user.
type WSHandler struct {
	M *melody.Melody
}

func NewWSHandler() *WSHandler {
	m := melody.New()

	m.Config.MaxMessageSize = 1024 * 1024

	// Keep-alive for hosts that drop idle connections.
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second

	m.HandleConnect(func(s *melody.Session) {
		userID, _ := s.Get(sessionUserKey)
		slog.Info("[WS] client connected", "user_id", utils.MaskID(toString(userID)))
	})

	m.HandleDisconnect(func(s *melody.Session) {
		userID, _ := s.Get(sessionUserKey)
		slog.Info("[WS] client disconnected", "user_id", utils.MaskID(toString(userID)))
	})

	m.HandleError(func(s *melody.Session, err error) {
		slog.Warn("[WS] websocket error", "error", err)
	})

	return &WSHandler{M: m}
}

// HandleWS upgrades GET /ws/expenses/:userId.
func (h *WSHandler) HandleWS(c *gin.Context) {
	userID := c.Param("userId")

	err := h.M.HandleRequestWithKeys(c.Writer, c.Request, map[string]any{sessionUserKey: userID})
	if err != nil {
		slog.Warn("[WS] failed to upgrade websocket", "error", err)
	}
}

// ExpenseAdded broadcasts the expense to every session of userID.
func (h *WSHandler) ExpenseAdded(_ context.Context, userID string, expense models.Expense) error {
	msg, err := events.NewExpenseAddedMessage(userID, expense).ToJSON()
	if err != nil {
		return err
	}

	return h.M.BroadcastFilter(msg, func(s *melody.Session) bool {
		id, exists := s.Get(sessionUserKey)
		return exists && id == userID
	})
}

func (h *WSHandler) Close() error {
	return h.M.Close()
}

func toString(v any) string {
	s, _ := v.(string)
	return s
}
