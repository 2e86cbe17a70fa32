package handler

import (
	"Haven/internal/api/dto"
	"Haven/internal/model"

	"github.com/jinzhu/copier"
)

func toMessageDTOs(msgs []model.Message, me string) ([]dto.MessageDTO, error) {
	out := make([]dto.MessageDTO, 0, len(msgs))
	if err := copier.Copy(&out, &msgs); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].IsOwn = out[i].SenderID == me
	}
	return out, nil
}

func toConversationDTO(conv *model.Conversation, me string) (*dto.ConversationDTO, error) {
	msgs, err := toMessageDTOs(conv.Messages, me)
	if err != nil {
		return nil, err
	}
	out := &dto.ConversationDTO{
		ID:                  conv.ID,
		Participants:        make([]dto.ParticipantDTO, 0, len(conv.Participants)),
		Messages:            msgs,
		LastMessage:         conv.LastMessage,
		LastMessageAt:       conv.LastMessageAt,
		LastMessageSenderID: conv.LastMessageSenderID,
		UnreadCount:         conv.UnreadCount[me],
		Status:              conv.Status,
		CreatedAt:           conv.CreatedAt,
	}
	for i, id := range conv.Participants {
		out.Participants = append(out.Participants, dto.ParticipantDTO{
			UserID:    id,
			Name:      conv.ParticipantNames[i],
			AvatarURL: conv.ParticipantImages[i],
		})
	}
	return out, nil
}

func toPreviewDTOs(list []*model.ConversationPreview) ([]dto.ConversationPreviewDTO, error) {
	out := make([]dto.ConversationPreviewDTO, 0, len(list))
	if err := copier.Copy(&out, &list); err != nil {
		return nil, err
	}
	return out, nil
}

func toRequestDTO(req *model.ConnectionRequest) (*dto.ConnectionRequestDTO, error) {
	out := &dto.ConnectionRequestDTO{}
	if err := copier.Copy(out, req); err != nil {
		return nil, err
	}
	return out, nil
}

func toRequestDTOs(list []*model.ConnectionRequest) ([]dto.ConnectionRequestDTO, error) {
	out := make([]dto.ConnectionRequestDTO, 0, len(list))
	if err := copier.Copy(&out, &list); err != nil {
		return nil, err
	}
	return out, nil
}
