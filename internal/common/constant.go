// Package common contains shared constants and sentinel errors used across
// MyLibrary components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// session token on outbound requests.
const AccessTokenHeaderName = "access_token"

// SignInFailedMessage is the only failure text a caller ever sees from the
// sign-in entry points, whatever the underlying reason was.
const SignInFailedMessage = "Invalid ID or Password"
