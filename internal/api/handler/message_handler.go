package handler

import (
	"Haven/internal/api/dto"
	"Haven/internal/pkg/consts"
	"Haven/internal/pkg/response"
	"Haven/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
)

type MessageHandler struct {
	messageService service.MessageService
}

func NewMessageHandler(messageService service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// Send 发送消息接口
func (s *MessageHandler) Send(c *gin.Context) {
	var req dto.SendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	msg, err := s.messageService.Send(c.Request.Context(), c.Param("conversation_id"), req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}
	res := &dto.MessageDTO{}
	if err = copier.Copy(res, msg); err != nil {
		response.Error(c, err)
		return
	}
	res.IsOwn = true
	response.Success(c, res)
}

// History 获取历史消息
func (s *MessageHandler) History(c *gin.Context) {
	msgs, err := s.messageService.History(c.Request.Context(), c.Param("conversation_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	res, err := toMessageDTOs(msgs, c.GetString(consts.UserIDKey))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}
