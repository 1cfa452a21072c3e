// Package bot provides a wrapper for the Telegram bot to implement BotNotifier interface
package bot

import "qr-attendance/internal/services"

// Notifier wraps the package-level bot functions to implement services.BotNotifier interface
type Notifier struct{}

// NewNotifier creates a new bot notifier
func NewNotifier() *Notifier {
	return &Notifier{}
}

// SendNotification sends a notification to the admin chat
func (n *Notifier) SendNotification(message string) {
	SendNotification(message)
}

// Ensure Notifier implements the BotNotifier interface
var _ services.BotNotifier = (*Notifier)(nil)
