// Package client contains the transport side of the backup CLI.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface) for the two
//     calls of the backup service: ListCollections and GenerateBackup.
//  2. An HTTP implementation (see HTTPClient) that submits the credential as
//     a multipart form, tags every call with an X-Request-ID and maps
//     responses to models and classified errors.
//  3. Bootstrap of the local save-history database (InitDatabase,
//     RunMigrations) backed by SQLite and embedded goose migrations.
//
// # Error Handling
//
// Transport failures wrap ErrUnavailable, success responses of the wrong
// shape wrap ErrMalformedResponse, and non-success statuses are returned as
// *RemoteError carrying the service message. Match them with errors.Is and
// errors.As. Calls are never retried.
package client
