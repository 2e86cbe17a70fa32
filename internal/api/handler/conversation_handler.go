package handler

import (
	"Haven/internal/api/dto"
	"Haven/internal/pkg/consts"
	"Haven/internal/pkg/response"
	"Haven/internal/service"

	"github.com/gin-gonic/gin"
)

type ConversationHandler struct {
	conversationService service.ConversationService
}

func NewConversationHandler(conversationService service.ConversationService) *ConversationHandler {
	return &ConversationHandler{conversationService: conversationService}
}

// FindOrCreate 获取或创建与对方的会话
func (s *ConversationHandler) FindOrCreate(c *gin.Context) {
	var req dto.PeerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	conv, err := s.conversationService.FindOrCreate(c.Request.Context(), req.UserID, req.Name, req.AvatarURL)
	if err != nil {
		response.Error(c, err)
		return
	}
	res, err := toConversationDTO(conv, c.GetString(consts.UserIDKey))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// List 会话列表
func (s *ConversationHandler) List(c *gin.Context) {
	list, err := s.conversationService.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	res, err := toPreviewDTOs(list)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// Get 会话详情
func (s *ConversationHandler) Get(c *gin.Context) {
	conv, err := s.conversationService.Get(c.Request.Context(), c.Param("conversation_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	res, err := toConversationDTO(conv, c.GetString(consts.UserIDKey))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *ConversationHandler) MarkRead(c *gin.Context) {
	if err := s.conversationService.MarkRead(c.Request.Context(), c.Param("conversation_id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ConversationHandler) Archive(c *gin.Context) {
	if err := s.conversationService.Archive(c.Request.Context(), c.Param("conversation_id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ConversationHandler) Delete(c *gin.Context) {
	if err := s.conversationService.Delete(c.Request.Context(), c.Param("conversation_id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
