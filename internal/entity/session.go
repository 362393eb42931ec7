package entity

import "time"

// AdminSession marks one authenticated dashboard session. It lives only in
// process memory: restarting the service logs every operator out.
type AdminSession struct {
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
	LastSeen  time.Time `json:"last_seen"`
}
