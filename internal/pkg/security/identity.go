package security

import (
	"Haven/internal/model"
	"context"
	"errors"
)

type identityKey struct{}

var ErrNoIdentity = errors.New("未登录")

// WithUser 将当前用户写入 ctx
func WithUser(ctx context.Context, user model.User) context.Context {
	return context.WithValue(ctx, identityKey{}, user)
}

// UserFromContext 读取当前用户
func UserFromContext(ctx context.Context) (model.User, bool) {
	u, ok := ctx.Value(identityKey{}).(model.User)
	return u, ok && u.ID != ""
}

// ContextIdentity 从 ctx 解析当前用户
type ContextIdentity struct{}

func (ContextIdentity) CurrentUser(ctx context.Context) (model.User, error) {
	u, ok := UserFromContext(ctx)
	if !ok {
		return model.User{}, ErrNoIdentity
	}
	return u, nil
}
