package live

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"kuralhub/internal/browse"
	"kuralhub/internal/web"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

// Handler upgrades /ws requests into live sessions.
type Handler struct {
	Hub      *Hub
	State    *browse.State
	Renderer *web.Renderer
	Debounce time.Duration
	Logger   *zap.Logger
}

func (h *Handler) WS() gin.HandlerFunc {
	logger := h.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Debug("ws upgrade failed", zap.Error(err))
			return
		}

		snap := h.State.Snapshot()
		initial := browse.FromParams(snap.Hierarchy, c.Query("q"), c.Query("division"), c.Query("section"), c.Query("chapter"))

		s := NewSession(ws, h.State, h.Renderer, initial, h.Debounce, logger)
		h.Hub.Add(s)
		logger.Debug("live session connected", zap.String("remote", c.Request.RemoteAddr))

		if err := s.Run(); err != nil {
			logger.Debug("live session ended", zap.Error(err))
		}

		h.Hub.Remove(s)
		s.Close()
		logger.Debug("live session disconnected", zap.String("remote", c.Request.RemoteAddr))
	}
}

// Register mounts the live endpoint at path and advertises it to pages.
func (h *Handler) Register(r *gin.Engine, path string, pages *web.Handler) {
	r.GET(path, h.WS())
	if pages != nil {
		pages.WSPath = path
	}
}
