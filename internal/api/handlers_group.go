package api

import "Haven/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	ConversationHandler *handler.ConversationHandler
	MessageHandler      *handler.MessageHandler
	ConnectionHandler   *handler.ConnectionHandler
	CommunityHandler    *handler.CommunityHandler
	WsHandler           *handler.WsHandler
}
