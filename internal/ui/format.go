package ui

import (
	"fmt"
	"time"

	"github.com/fatih/color"
)

var (
	userColor      = color.New(color.FgGreen, color.Bold)
	assistantColor = color.New(color.FgBlue, color.Bold)
)

const timeLayout = "2006-01-02 15:04"

// ChatLine formats one row of the chat list.
func ChatLine(name string, active bool, lastSelected time.Time) string {
	mark := "  "
	if active {
		mark = markColor.Sprint("* ")
	}
	return fmt.Sprintf("%s%s %s", mark, name, dimColor.Sprint(lastSelected.Local().Format(timeLayout)))
}

// MessageLine formats the header of a history entry.
func MessageLine(role string, at time.Time) string {
	label := userColor.Sprint(role)
	if role == "assistant" {
		label = assistantColor.Sprint(role)
	}
	return fmt.Sprintf("%s %s", label, dimColor.Sprint(at.Local().Format(timeLayout)))
}

// Field formats a "key: value" line of a settings view.
func Field(key string, value any) string {
	return fmt.Sprintf("%s %v", promptColor.Sprintf("%-16s", key+":"), value)
}
