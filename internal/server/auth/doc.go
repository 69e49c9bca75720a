// Package auth holds the authentication core of the library server.
//
// A Verifier checks an identifier/secret pair against a UserStore and yields an
// Identity. A SessionIssuer turns that Identity into a signed, expiring token
// and decodes tokens back into identities on later requests; nothing about a
// session is kept on the server. Authorize decides whether an identity (or its
// absence) may enter an area with a given Requirement.
//
// The role of an identity is always computed by ComputeRole, both for the
// built-in admin account and for store-backed accounts, and is frozen into the
// token at issuance.
package auth
