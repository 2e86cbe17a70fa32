package service

import (
	"Haven/internal/model"
	"context"
)

// ProfileService 用户资料变更后刷新各处缓存的名称与头像
type ProfileService interface {
	Refresh(ctx context.Context, user model.User) error
}

type profileServiceImpl struct {
	conversations *conversationServiceImpl
	connections   *connectionServiceImpl
	communities   *communityServiceImpl
	bus           *Bus
	now           Clock
}

func (s *profileServiceImpl) Refresh(_ context.Context, user model.User) error {
	if user.ID == "" {
		return ErrParamInvalid
	}

	seen := make(map[string]struct{})
	var affected []string
	collect := func(ids []string) {
		for _, id := range ids {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				affected = append(affected, id)
			}
		}
	}
	collect(s.conversations.refreshProfile(user))
	collect(s.connections.refreshProfile(user))
	collect(s.communities.refreshProfile(user))

	if len(affected) == 0 {
		return nil
	}
	s.bus.Notify(Event{Type: EventProfileUpdated, UserIDs: affected, At: s.now()})
	return nil
}
