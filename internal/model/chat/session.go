package chat

import "time"

// Session captures a transient anonymous conversation bound to a stage channel.
type Session struct {
	ID        string    `json:"id"`
	StageID   string    `json:"stageId"`
	CreatedAt time.Time `json:"createdAt"`
}
