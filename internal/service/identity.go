package service

import (
	"Haven/internal/model"
	"context"
	"time"
)

// Identity 当前用户来源，由鉴权中间件写入 ctx
type Identity interface {
	CurrentUser(ctx context.Context) (model.User, error)
}

// Scheduler 延时任务调度
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

// TimerScheduler 基于 time.AfterFunc 的调度实现
type TimerScheduler struct{}

func (TimerScheduler) AfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}

// Clock 时间来源
type Clock func() time.Time

func currentUser(ctx context.Context, identity Identity) (model.User, error) {
	u, err := identity.CurrentUser(ctx)
	if err != nil || u.ID == "" {
		return model.User{}, UnauthorizedError
	}
	return u, nil
}
