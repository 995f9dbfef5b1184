// Package cli provides the interactive nuudash command-line client.
//
// The App holds the session (access token and membership) for the lifetime
// of the process; nothing is kept in package state. Commands sign in or up
// against the identity provider, enroll OTP, and fetch the dashboard from
// the server, which is rendered as text for either tier. A background
// watcher pings the server and reports when it goes offline or comes back.
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
package cli
