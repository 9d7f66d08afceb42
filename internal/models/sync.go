// internal/models/sync.go
package models

// SyncResult counts what one refresh did to a durable sink.
type SyncResult struct {
	Created     int `json:"created"`
	Updated     int `json:"updated"`
	Deactivated int `json:"deactivated"`
}
