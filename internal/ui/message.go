package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/mcat/internal/models"
	"github.com/desertthunder/mcat/internal/pipeline"
	"github.com/desertthunder/mcat/internal/search"
	"github.com/desertthunder/mcat/internal/services"
	"github.com/desertthunder/mcat/internal/session"
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
	MsgSessionVerified MsgKind = iota
	MsgTopFetched
	MsgSearchDone
	MsgDetailFetched
	MsgSignal
)

type sessionVerified struct {
	state session.State
	err   error
}

type topFetched struct {
	ticket    *search.Ticket
	playlists []models.Playlist
	err       error
}

type searchDone struct {
	ticket  *search.Ticket
	results *services.Results
	err     error
}

type detailFetched struct {
	ticket *search.Ticket
	detail *models.PlaylistDetail
	err    error
}

type signalEvent struct {
	sig   pipeline.Signal
	actor session.ActorKind
}

// sessionVerifiedMsg is the constructor for [MsgSessionVerified]
func sessionVerifiedMsg(state session.State, err error) Msg {
	return Msg{kind: MsgSessionVerified, data: sessionVerified{state, err}}
}

// topFetchedMsg is the constructor for [MsgTopFetched]
func topFetchedMsg(ticket *search.Ticket, playlists []models.Playlist, err error) Msg {
	return Msg{kind: MsgTopFetched, data: topFetched{ticket, playlists, err}}
}

// searchDoneMsg is the constructor for [MsgSearchDone]
func searchDoneMsg(ticket *search.Ticket, results *services.Results, err error) Msg {
	return Msg{kind: MsgSearchDone, data: searchDone{ticket, results, err}}
}

// detailFetchedMsg is the constructor for [MsgDetailFetched]
func detailFetchedMsg(ticket *search.Ticket, detail *models.PlaylistDetail, err error) Msg {
	return Msg{kind: MsgDetailFetched, data: detailFetched{ticket, detail, err}}
}

// signalMsg is the constructor for [MsgSignal]
func signalMsg(ev signalEvent) Msg {
	return Msg{kind: MsgSignal, data: ev}
}

// Signals forwards pipeline signals to the running program. It implements [pipeline.Notifier].
type Signals chan signalEvent

// NewSignals creates a buffered [Signals].
func NewSignals() Signals {
	return make(Signals, 8)
}

// Notify queues sig without blocking. Signals beyond the buffer are dropped.
func (s Signals) Notify(sig pipeline.Signal, actor session.ActorKind) {
	select {
	case s <- signalEvent{sig: sig, actor: actor}:
	default:
	}
}
