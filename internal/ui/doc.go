// Package ui implements an interactive catalog browser using bubbletea's Elm architecture.
//
// The browser moves through a small set of views:
//  1. [VerifyingView] : checks the stored end-user session with the server before anything is shown
//  2. [HomeView] : lists the top playlists
//  3. [SearchView] : edits a song, playlist or artist filter
//  4. [ResultsView] : lists the hits of the latest search
//  5. [DetailView] : shows one playlist with its songs
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Search forms are compiled locally, so a rejected form is reported inline and never reaches the network. Each
// submission takes a ticket from a search.Tracker; a response whose ticket is no longer current is dropped, and
// leaving the search screen cancels whatever is still in flight. Home and detail loads follow the same rule through
// a second tracker: a load applies only while its view is still showing and no newer load has started.
//
// Request pipeline signals arrive through [Signals] and are rendered as a banner above every view.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, /, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
