package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wkelton/jellytrek/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgProgressUpdate MsgKind = iota
	MsgCheckComplete
)

type checkComplete struct {
	result *tasks.CheckResult
	err    error
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// checkCompleteMsg is the constructor for [MsgCheckComplete]
func checkCompleteMsg(result *tasks.CheckResult, err error) Msg {
	return Msg{kind: MsgCheckComplete, data: checkComplete{result: result, err: err}}
}
