// Package models defines the entities exchanged with the music-catalog service and the records kept locally.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): plain structs decoded from API responses
//   - [Song] : catalog track with length in seconds and release date
//   - [Playlist] / [PlaylistDetail] : playlist summary and its song list
//   - [Artist], [Provider], [SongRequest] : catalog and management entities
//   - [Comment], [User] : account data
//   - [Page] : one page of search results with the total match count
//
// 2. Persistent Entities: records stored in the local SQLite database
//   - [SessionEvent] : audit trail of logins, logouts and server invalidations
//
// Persistent entities implement the [Model] interface.
package models
