package api

import (
	"Haven/internal/api/dto"
	"Haven/internal/api/middleware"
	"Haven/internal/pkg/consts"
	"Haven/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware("/api/ws"))
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, dto.Response{Code: 200, Message: "pong"})
		})

		// 鉴权通过 query 参数完成
		apiGroup.GET("/ws", group.WsHandler.Connect)

		convGroup := apiGroup.Group("/conversations")
		convGroup.Use(middleware.AuthMiddleware())
		{
			convGroup.POST("", group.ConversationHandler.FindOrCreate)
			convGroup.GET("", group.ConversationHandler.List)
			convGroup.GET("/:conversation_id", group.ConversationHandler.Get)
			convGroup.DELETE("/:conversation_id", group.ConversationHandler.Delete)
			convGroup.POST("/:conversation_id/read", group.ConversationHandler.MarkRead)
			convGroup.POST("/:conversation_id/archive", group.ConversationHandler.Archive)
			convGroup.GET("/:conversation_id/messages", group.MessageHandler.History)
			convGroup.POST("/:conversation_id/messages", group.MessageHandler.Send)
		}

		connGroup := apiGroup.Group("/connections")
		connGroup.Use(middleware.AuthMiddleware())
		{
			connGroup.POST("", group.ConnectionHandler.Send)
			connGroup.GET("/pending", group.ConnectionHandler.ListPending)
			connGroup.GET("/sent", group.ConnectionHandler.ListSent)
			connGroup.GET("/status/:user_id", group.ConnectionHandler.StatusBetween)
			connGroup.POST("/:request_id/accept", group.ConnectionHandler.Accept)
			connGroup.POST("/:request_id/reject", group.ConnectionHandler.Reject)
		}

		communityGroup := apiGroup.Group("/communities")
		communityGroup.Use(middleware.AuthMiddleware())
		{
			communityGroup.POST("", group.CommunityHandler.Create)
			communityGroup.GET("", group.CommunityHandler.ListAll)
			communityGroup.GET("/:community_id", group.CommunityHandler.GetByID)
			communityGroup.POST("/:community_id/join", group.CommunityHandler.Join)
			communityGroup.POST("/:community_id/leave", group.CommunityHandler.Leave)
			communityGroup.POST("/:community_id/notifications", group.CommunityHandler.ToggleNotifications)

			adminGroup := communityGroup.Group("/catalog")
			adminGroup.Use(middleware.CheckRoles(consts.RoleAdmin))
			{
				adminGroup.POST("/reload", group.CommunityHandler.ReloadCatalog)
			}
		}
	}

	return r
}
