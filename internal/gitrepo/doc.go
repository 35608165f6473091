// Package gitrepo contains helpers for interrogating git repositories without mutating them.
//
// It parses remote URLs in their SSH and HTTPS forms into protocol-independent
// owner/repository identities, matches those identities against a SearchPattern,
// and enumerates the remotes configured in a repository through either the
// go-git library or the git command-line client.
package gitrepo
