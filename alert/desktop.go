package alert

import (
	"fmt"

	"github.com/gen2brain/beeep"
)

// DesktopNotifier shows a system notification with the platform alert sound
type DesktopNotifier struct {
	Title   string
	Message string
	Icon    string

	alert func(title, message, icon string) error
}

func NewDesktopNotifier(title, message, icon string) *DesktopNotifier {
	return &DesktopNotifier{
		Title:   title,
		Message: message,
		Icon:    icon,
		alert:   beeepAlert,
	}
}

func beeepAlert(title, message, icon string) error {
	return beeep.Alert(title, message, icon)
}

func (n *DesktopNotifier) Notify() error {
	if err := n.alert(n.Title, n.Message, n.Icon); err != nil {
		return fmt.Errorf("desktop alert: %w", err)
	}
	return nil
}
