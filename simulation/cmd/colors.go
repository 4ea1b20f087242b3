package main

import (
	"strings"

	"github.com/fatih/color"
)

// Console colors. fatih/color turns them off when stderr is not a terminal or NO_COLOR is set.
var (
	successColor = color.New(color.FgHiGreen)
	errorColor   = color.New(color.FgHiRed)
	warningColor = color.New(color.FgHiYellow)
	infoColor    = color.New(color.FgHiCyan)
	debugColor   = color.New(color.FgHiBlack)
	headerColor  = color.New(color.FgHiCyan, color.Bold)
)

func Success(text string) string { return successColor.Sprint(text) }
func Error(text string) string   { return errorColor.Sprint(text) }
func Warning(text string) string { return warningColor.Sprint(text) }
func Info(text string) string    { return infoColor.Sprint(text) }
func Debug(text string) string   { return debugColor.Sprint(text) }

// Header renders a bold section header.
func Header(text string) string {
	return headerColor.Sprint(text)
}

// Separator renders a dimmed separator line.
func Separator(char string, length int) string {
	return Debug(strings.Repeat(char, length))
}

// StatusIcon returns a colored icon for a status word.
func StatusIcon(status string) string {
	switch strings.ToLower(status) {
	case "success", "ok", "done":
		return Success("✅")
	case "error", "failed":
		return Error("❌")
	case "warning", "warn":
		return Warning("⚠️")
	case "info":
		return Info("ℹ️")
	case "stats":
		return Info("📊")
	case "seats":
		return Info("💺")
	case "actors":
		return Info("👥")
	case "trace":
		return Debug("🔍")
	default:
		return status
	}
}
