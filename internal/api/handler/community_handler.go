package handler

import (
	"Haven/internal/api/dto"
	"Haven/internal/model"
	"Haven/internal/pkg/response"
	"Haven/internal/service"
	"context"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
)

type CommunityHandler struct {
	communityService service.CommunityService
}

func NewCommunityHandler(communityService service.CommunityService) *CommunityHandler {
	return &CommunityHandler{communityService: communityService}
}

// Create 创建社区
func (s *CommunityHandler) Create(c *gin.Context) {
	var req dto.CreateCommunityReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var draft model.CommunityDraft
	if err := copier.Copy(&draft, &req); err != nil {
		response.Error(c, err)
		return
	}
	community, err := s.communityService.Create(c.Request.Context(), draft)
	if err != nil {
		response.Error(c, err)
		return
	}
	res, err := s.annotate(c.Request.Context(), community)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// ListAll 社区列表，附带当前用户的成员与通知状态
func (s *CommunityHandler) ListAll(c *gin.Context) {
	ctx := c.Request.Context()
	list, err := s.communityService.ListAll(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}
	res := make([]*dto.CommunityDTO, 0, len(list))
	for _, community := range list {
		item, err := s.annotate(ctx, community)
		if err != nil {
			response.Error(c, err)
			return
		}
		res = append(res, item)
	}
	response.Success(c, res)
}

func (s *CommunityHandler) GetByID(c *gin.Context) {
	ctx := c.Request.Context()
	community, err := s.communityService.GetByID(ctx, c.Param("community_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	res, err := s.annotate(ctx, community)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *CommunityHandler) Join(c *gin.Context) {
	if err := s.communityService.Join(c.Request.Context(), c.Param("community_id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *CommunityHandler) Leave(c *gin.Context) {
	if err := s.communityService.Leave(c.Request.Context(), c.Param("community_id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// ToggleNotifications 切换通知开关
func (s *CommunityHandler) ToggleNotifications(c *gin.Context) {
	enabled, err := s.communityService.ToggleNotifications(c.Request.Context(), c.Param("community_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.NotificationToggleDTO{Enabled: enabled})
}

// ReloadCatalog 重新加载种子目录，仅管理员
func (s *CommunityHandler) ReloadCatalog(c *gin.Context) {
	if err := s.communityService.ReloadCatalog(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *CommunityHandler) annotate(ctx context.Context, community *model.Community) (*dto.CommunityDTO, error) {
	out := &dto.CommunityDTO{}
	if err := copier.Copy(out, community); err != nil {
		return nil, err
	}
	if out.Members == nil {
		out.Members = []dto.MemberDTO{}
	}

	var err error
	if out.IsMember, err = s.communityService.IsMember(ctx, community.ID); err != nil {
		return nil, err
	}
	if out.NotificationsEnabled, err = s.communityService.NotificationsEnabled(ctx, community.ID); err != nil {
		return nil, err
	}
	return out, nil
}
