// Package cli is the interactive MyLibrary command-line client.
//
// The REPL started by App.Run signs a user in against the gRPC API, keeps the
// session token in memory and exposes admin commands (writers, addwriter,
// rmwriter) and library commands (books, search, author, publish, download).
// Logging out only forgets the token.
package cli
