package chat

import (
	"fmt"
	"time"
)

// timestamp returns the wall clock in the hh:mm:ss AM/PM form used on
// every server-originated line.
func timestamp() string {
	return time.Now().Format("03:04:05 PM")
}

func formatChat(sender, text string) string {
	return fmt.Sprintf("[%s] %s: %s", timestamp(), sender, text)
}

func formatSystem(text string) string {
	return fmt.Sprintf("[%s] %s", timestamp(), text)
}
