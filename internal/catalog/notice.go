package catalog

import "fmt"

// Level classifies an inline dashboard message.
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice is a user-visible message produced by a catalog operation.  The
// HTML dashboard renders it inline and the JSON API returns it verbatim.
type Notice struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

func newNotice(level Level, format string, args ...any) Notice {
	return Notice{Level: level, Text: fmt.Sprintf(format, args...)}
}

// Success, Info, Warning and Error build notices of the matching level.
func Success(format string, args ...any) Notice { return newNotice(LevelSuccess, format, args...) }
func Info(format string, args ...any) Notice    { return newNotice(LevelInfo, format, args...) }
func Warning(format string, args ...any) Notice { return newNotice(LevelWarning, format, args...) }
func Error(format string, args ...any) Notice   { return newNotice(LevelError, format, args...) }
