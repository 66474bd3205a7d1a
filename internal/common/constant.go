// Package common contains constants and helpers shared by the transport,
// session and CLI layers of the backup client.
package common

// Endpoints of the remote backup service, relative to the configured base URL.
const (
	ListCollectionsPath = "/api/list-collections"
	GenerateBackupPath  = "/api/generate-backup"
)

// Multipart form fields understood by the backup service.
const (
	FieldServiceAccountKey = "serviceAccountKey"
	FieldCollections       = "collections"
)

// RequestIDHeaderName carries the per-call correlation id on outbound requests.
const RequestIDHeaderName = "X-Request-ID"

// CollectionSeparator joins selected collection names in the generate-backup
// form field. Names containing it are not escaped.
const CollectionSeparator = ","
