package tui

type state int

const (
	eventsState state = iota + 1
	detailState
	summaryState
)
