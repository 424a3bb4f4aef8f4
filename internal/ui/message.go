package ui

import (
	tea "github.com/charmbracelet/bubbletea"
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
	MsgStageModeLoaded MsgKind = iota
	MsgStageModeSaved
)

// stageModeLoadedMsg is the constructor for [MsgStageModeLoaded]
func stageModeLoadedMsg(on bool, err error) Msg {
	return Msg{
		kind: MsgStageModeLoaded,
		data: struct {
			on  bool
			err error
		}{on, err},
	}
}

// stageModeSavedMsg is the constructor for [MsgStageModeSaved]
func stageModeSavedMsg(err error) Msg {
	return Msg{kind: MsgStageModeSaved, data: err}
}
