package kafka

import (
	"Haven/internal/model"
	"Haven/internal/pkg/consts"
	"Haven/internal/service"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ProfileHandler 消费用户资料表的 binlog，刷新各注册表中的名称与头像
type ProfileHandler struct {
	table    string
	profiles service.ProfileService
}

func NewProfileHandler(table string, profiles service.ProfileService) *ProfileHandler {
	if table == "" {
		table = "user_detail"
	}
	return &ProfileHandler{table: table, profiles: profiles}
}

func (s *ProfileHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("profile consumer setup")
	return nil
}

func (s *ProfileHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("profile consumer cleanup")
	return nil
}

func (s *ProfileHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-profile consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-profile process batch error", "err", err)
		return err
	}
	log.Info("topic-profile consume claim end")
	return nil
}

func (s *ProfileHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg)
	if err != nil {
		return err
	}
	for _, user := range s.toUsers(canalMsg) {
		if err = s.profiles.Refresh(ctx, user); err != nil {
			return err
		}
	}
	return nil
}

// toUsers 只处理目标表的 INSERT、UPDATE，其余返回空
func (s *ProfileHandler) toUsers(message *CanalMessage) []model.User {
	if message.IsDDL || message.Table != s.table {
		return nil
	}
	if message.Type != INSERT && message.Type != UPDATE {
		return nil
	}

	users := make([]model.User, 0, len(message.Data))
	for _, row := range message.Data {
		id := StrToString(row["user_id"])
		if id == "" {
			id = StrToString(row["id"])
		}
		if id == "" {
			continue
		}
		avatar := StrToString(row["avatar_url"])
		if avatar == "" {
			avatar = consts.DefaultAvatarURL
		}
		users = append(users, model.User{
			ID:        id,
			Name:      StrToString(row["nickname"]),
			AvatarURL: avatar,
		})
	}
	return users
}
