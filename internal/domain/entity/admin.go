package entity

import "time"

// AdminSession catalog operator session
type AdminSession struct {
	UserID       int64
	IsAdmin      bool
	LoginTime    time.Time
	LastActivity time.Time
}

// AdminAction operator audit entry
type AdminAction struct {
	ID        string
	UserID    int64
	Action    string // "login", "upload_catalog", "clean_all"
	Details   string
	Timestamp time.Time
}
