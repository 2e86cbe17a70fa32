package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	InternalServerError = 500
)

var (
	ErrParamInvalid         = errors.New("参数错误")
	ErrMessageEmpty         = errors.New("消息内容不能为空")
	ErrMessageTooLong       = errors.New("消息内容过长")
	ErrConversationSelf     = errors.New("不能与自己创建会话")
	ErrConversationNotFound = errors.New("会话不存在")
	ErrConnectionRequired   = errors.New("对方尚未通过好友请求")
	ErrRequestSelf          = errors.New("不能向自己发送请求")
	ErrRequestNotFound      = errors.New("请求不存在")
	ErrRequestForbidden     = errors.New("无权处理该请求")
	ErrRequestResolved      = errors.New("请求已处理")
	ErrCommunityNotFound    = errors.New("社区不存在")
	UnauthorizedError       = errors.New("权限不足")
	UnExpectedError         = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:         BadRequest,
	ErrMessageEmpty:         BadRequest,
	ErrMessageTooLong:       BadRequest,
	ErrConversationSelf:     BadRequest,
	ErrConversationNotFound: NotFound,
	ErrConnectionRequired:   Forbidden,
	ErrRequestSelf:          BadRequest,
	ErrRequestNotFound:      NotFound,
	ErrRequestForbidden:     Forbidden,
	ErrRequestResolved:      BadRequest,
	ErrCommunityNotFound:    NotFound,
	UnauthorizedError:       Unauthorized,
	UnExpectedError:         InternalServerError,
}

// CodeOf 查找错误对应的业务码，支持被包装的错误
func CodeOf(err error) (int, bool) {
	if code, ok := ErrorMap[err]; ok {
		return code, true
	}
	for e, code := range ErrorMap {
		if errors.Is(err, e) {
			return code, true
		}
	}
	return 0, false
}
