// Package search turns raw search-form input into validated filter payloads for the catalog search endpoints.
//
// # Forms
//
// A [Form] is the raw state of one search screen: one [Value] per field of a [Schema]. Forms are immutable;
// [Form.With] returns a new form, so a screen replaces its form wholesale on every change.
//
// # Schemas
//
// The three search domains share one rule engine. Each domain is described by a [Schema], a tagged list of
// fields ([KeywordField], [NumberRangeField], [DurationRangeField], [DateRangeField], [EnumField],
// [MultiEnumField]) that carries the mapping from form field names to wire names:
//   - [SongSchema] : POST /songs/search
//   - [PlaylistSchema] : POST /playlists/search
//   - [ArtistSchema] : POST /artists/search
//
// # Compiling
//
// [Compile] validates a form and, only if validation passes, builds the [Filter] sent to the server.
// Validation reports exactly one [ValidationError] (the first violation). Building drops blank keywords,
// absent or non-positive range bounds and unselected enums, so a filter never carries stale or empty keys.
//
// Composite inputs (hours/minutes/seconds, year/month/day) go through the codec: [DurationToSeconds],
// [IsValidCalendarDate], [DateKey] and [FormatISODate].
//
// # Ordering
//
// A [Tracker] tags each submission with a sequence number. Only the latest [Ticket] may apply its response,
// and [Tracker.Leave] cancels everything in flight when a screen is abandoned.
package search
