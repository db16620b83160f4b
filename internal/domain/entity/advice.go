package entity

import "time"

// AdviceOutcome how an advisor request was resolved
type AdviceOutcome string

const (
	AdviceAnswered     AdviceOutcome = "answered"
	AdviceUnconfigured AdviceOutcome = "unconfigured"
	AdviceFailed       AdviceOutcome = "failed"
)

// Advice gateway result
type Advice struct {
	Text    string
	Outcome AdviceOutcome
}

// AdviceRecord stored assistant exchange
type AdviceRecord struct {
	ID        string
	UserID    int64
	Username  string
	Prompt    string
	Response  string
	Outcome   AdviceOutcome
	Timestamp time.Time
}
