package tui

import "github.com/ezbooks/ezb/internal/controller"

// Data loading messages.
type receiptsLoadedMsg struct {
	err error
}

type referencesLoadedMsg struct {
	err error
}

// Mutation completion messages.
type fieldSavedMsg struct {
	err error
}

type deleteDoneMsg struct {
	err   error
	count int
}

type rangeCommittedMsg struct {
	err error
}

type uploadDoneMsg struct {
	err    error
	report controller.UploadReport
}

// statusMsg sets the transient status line.
type statusMsg struct {
	text    string
	isError bool
}
