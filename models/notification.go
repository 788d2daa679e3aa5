package models

import "fmt"

type NotificationKind string

const (
	NotifyStarting  NotificationKind = "starting"
	NotifyRetry     NotificationKind = "retry"
	NotifyConnected NotificationKind = "connected"
	NotifyGivingUp  NotificationKind = "giving-up"
)

// Notification is one user-facing message of a connect sequence.
type Notification struct {
	SessionID string           `json:"session_id"`
	Kind      NotificationKind `json:"kind"`
	Attempt   int              `json:"attempt"`
	Message   string           `json:"message"`
}

func StartingNotification(session string, attempt int) Notification {
	return Notification{
		SessionID: session,
		Kind:      NotifyStarting,
		Attempt:   attempt,
		Message:   "Try connection..",
	}
}

func ConnectedNotification(session string, attempt int) Notification {
	return Notification{
		SessionID: session,
		Kind:      NotifyConnected,
		Attempt:   attempt,
		Message:   "Connected!",
	}
}

// RetryNotification carries the retry ordinal (1 for the first retry).
func RetryNotification(session string, attempt, retry int) Notification {
	return Notification{
		SessionID: session,
		Kind:      NotifyRetry,
		Attempt:   attempt,
		Message:   fmt.Sprintf("Retrying connection. Try number %d", retry),
	}
}

func GivingUpNotification(session string, attempt int) Notification {
	return Notification{
		SessionID: session,
		Kind:      NotifyGivingUp,
		Attempt:   attempt,
		Message:   "Closing this application. Check if a CLAMIR system is connected to your network.",
	}
}
