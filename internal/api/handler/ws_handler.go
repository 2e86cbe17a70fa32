package handler

import (
	"Haven/internal/pkg/response"
	"Haven/internal/pkg/security"
	"Haven/internal/service"
	"context"
	log "log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ChangeFeed 按用户打开的变更事件流，返回的 close 可重复调用
type ChangeFeed interface {
	Open(ctx context.Context, userID string) (<-chan []byte, func(), error)
}

type WsHandler struct {
	feed ChangeFeed
}

func NewWsHandler(feed ChangeFeed) *WsHandler {
	return &WsHandler{feed: feed}
}

func (s *WsHandler) Connect(c *gin.Context) {
	// 鉴权
	token := c.Query("token")
	if token == "" {
		response.Error(c, service.UnauthorizedError)
		return
	}
	claims, err := security.ValidateToken(token)
	if err != nil {
		log.WarnContext(c.Request.Context(), "WS 鉴权失败", "err", err)
		response.Error(c, service.UnauthorizedError)
		return
	}
	userID := claims.UserID

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, closeFeed, err := s.feed.Open(ctx, userID)
	if err != nil {
		log.ErrorContext(c.Request.Context(), "订阅变更事件失败", "userID", userID, "err", err)
		response.Error(c, service.UnExpectedError)
		return
	}
	defer closeFeed()

	// 升级 Websocket
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WS 协议升级失败", "err", err)
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	log.Info("用户 WS 连接已建立", "userID", userID)

	stopChan := make(chan struct{})

	// 读循环：监听客户端主动断开
	go func() {
		defer close(stopChan)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// 写循环：推送变更事件
	for {
		select {
		case payload, ok := <-events:
			if !ok {
				log.Warn("变更事件流已关闭", "userID", userID)
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				log.Error("WS 推送失败", "userID", userID, "err", err)
				return
			}
		case <-stopChan:
			log.Info("用户 WS 连接已断开", "userID", userID)
			return
		}
	}
}
