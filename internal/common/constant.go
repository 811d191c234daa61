package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// Sync operation tags accepted on the wire. Deletion itself is carried by
// the payload's deleted_at, the tag is informational.
const (
	OpUpsert = "upsert"
	OpDelete = "delete"
)
