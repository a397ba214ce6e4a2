package domain

import "time"

// SyncState is the state of the debounced writer.
type SyncState string

const (
	SyncIdle         SyncState = "idle"
	SyncPendingWrite SyncState = "pending_write"
	SyncWriting      SyncState = "writing"
)

// BootPhase tracks startup: cached or fetched content moves it to ready.
type BootPhase string

const (
	BootLoading BootPhase = "loading"
	BootReady   BootPhase = "ready"
	BootError   BootPhase = "error"
)

type BootState struct {
	Phase    BootPhase `json:"phase"`
	Message  string    `json:"message,omitempty"`
	TimedOut bool      `json:"timedOut"`
}

type NotificationKind string

const (
	NotifySuccess NotificationKind = "success"
	NotifyError   NotificationKind = "error"
	NotifyInfo    NotificationKind = "info"
)

// Notification is a short-lived user-visible message.
type Notification struct {
	Kind      NotificationKind `json:"kind"`
	Text      string           `json:"text"`
	CreatedAt time.Time        `json:"createdAt"`
}

// SyncStats holds statistics about one bootstrap or write cycle.
type SyncStats struct {
	Source      string
	FromCache   bool
	Fetched     bool
	Videos      int
	Shorts      int
	NewItems    int
	ViewsRaised int
	Duration    time.Duration
}
