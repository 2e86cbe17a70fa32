package model

import "time"

type RequestStatus string

const (
	RequestNone     RequestStatus = "none"
	RequestPending  RequestStatus = "pending"
	RequestAccepted RequestStatus = "accepted"
	RequestRefused  RequestStatus = "refused"
)

// ConnectionRequest 好友请求，accepted 之后双方才能私聊
type ConnectionRequest struct {
	ID          string        `json:"id"`
	From        string        `json:"from"`
	FromName    string        `json:"fromName"`
	FromImage   string        `json:"fromImage"`
	To          string        `json:"to"`
	ToName      string        `json:"toName"`
	ToImage     string        `json:"toImage"`
	Status      RequestStatus `json:"status"`
	CreatedAt   time.Time     `json:"createdAt"`
	RespondedAt *time.Time    `json:"respondedAt"`
}

// Involves 判断请求是否属于这对用户，与方向无关
func (r *ConnectionRequest) Involves(a, b string) bool {
	return (r.From == a && r.To == b) || (r.From == b && r.To == a)
}

func (r *ConnectionRequest) Clone() *ConnectionRequest {
	cp := *r
	if r.RespondedAt != nil {
		t := *r.RespondedAt
		cp.RespondedAt = &t
	}
	return &cp
}
