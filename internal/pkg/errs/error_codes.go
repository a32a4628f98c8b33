/*
Package errs provides custom error types and application-level error code constants.

These error codes identify specific business or system errors both internally
within the server and in responses sent to clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect.
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1005
)

// 2xxx: Room Business Logic Errors
const (
	// ErrRoomNotFound indicates that the requested room identifier is not registered.
	ErrRoomNotFound = 2001

	// ErrRoomIsFull indicates that the room being joined has reached its maximum member capacity.
	ErrRoomIsFull = 2002
)

// 3xxx: User, Session, and Security Errors
const (
	// ErrNameTaken indicates that the requested display name is already registered.
	ErrNameTaken = 3001

	// ErrEmailExists indicates that the requested email address is already registered.
	ErrEmailExists = 3002

	// ErrInvalidCredentials indicates that the supplied email/password pair did not match a user.
	ErrInvalidCredentials = 3003

	// ErrUnauthorized indicates a missing, malformed, or expired authentication token.
	ErrUnauthorized = 3004
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000
)
