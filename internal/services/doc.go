// Package services exposes the catalog API endpoints on top of the request pipeline.
//
// # API
//
// Every call goes through an [API] (normally *pipeline.Pipeline), so credentials, failure classification and
// rate limiting are applied uniformly. Services only shape request bodies and unwrap the {success, data, message}
// [Envelope] of the response.
//
// # Services
//
//   - [AuthService] signs either actor in and out and verifies the end-user session. It implements
//     session.Authenticator and session.Verifier.
//   - [CatalogService] sends compiled search filters and reads ranked and single playlists.
//   - [AccountService] covers the signed-in user's playlists, comments, password, nickname and account deletion.
//   - [ManagerService] covers the administrator endpoints for artists, providers and song requests.
//
// # Error Handling
//
// Errors come from the pipeline already classified:
//   - [shared.ErrAuthExpired] : the server rejected the credential, which has been invalidated
//   - [shared.ErrAuthFailed] : a sign-in was refused; no stored credential is touched
//   - [shared.ErrForbidden] : the actor lacks permission
//   - [shared.ErrServer] : 5xx response
//   - [shared.ErrAPIRequest] : any other failed request, including a 2xx envelope with success set to false
//
// Lookups by ID additionally wrap [shared.ErrNotFound].
package services
