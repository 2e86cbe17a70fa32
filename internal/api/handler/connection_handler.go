package handler

import (
	"Haven/internal/api/dto"
	"Haven/internal/model"
	"Haven/internal/pkg/consts"
	"Haven/internal/pkg/response"
	"Haven/internal/service"
	"context"

	"github.com/gin-gonic/gin"
)

type ConnectionHandler struct {
	connectionService service.ConnectionService
}

func NewConnectionHandler(connectionService service.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{connectionService: connectionService}
}

// Send 发送好友请求
func (s *ConnectionHandler) Send(c *gin.Context) {
	var req dto.PeerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	r, err := s.connectionService.Send(c.Request.Context(), req.UserID, req.Name, req.AvatarURL)
	if err != nil {
		response.Error(c, err)
		return
	}
	res, err := toRequestDTO(r)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// Accept 通过请求，返回新建或已有的会话
func (s *ConnectionHandler) Accept(c *gin.Context) {
	conv, err := s.connectionService.Accept(c.Request.Context(), c.Param("request_id"))
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

func (s *ConnectionHandler) Reject(c *gin.Context) {
	if err := s.connectionService.Reject(c.Request.Context(), c.Param("request_id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ConnectionHandler) ListPending(c *gin.Context) {
	s.list(c, s.connectionService.ListPending)
}

func (s *ConnectionHandler) ListSent(c *gin.Context) {
	s.list(c, s.connectionService.ListSent)
}

func (s *ConnectionHandler) list(c *gin.Context, fn func(ctx context.Context) ([]*model.ConnectionRequest, error)) {
	list, err := fn(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	res, err := toRequestDTOs(list)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// StatusBetween 与对方的关系状态
func (s *ConnectionHandler) StatusBetween(c *gin.Context) {
	userID := c.Param("user_id")
	status, err := s.connectionService.StatusBetween(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.ConnectionStatusDTO{
		UserID:     userID,
		Status:     status,
		CanMessage: status == model.RequestAccepted,
	})
}
