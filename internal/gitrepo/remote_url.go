package gitrepo

import (
	"fmt"
	"strings"
)

const (
	schemeSeparatorConstant             = "://"
	userInfoDelimiterConstant           = "@"
	scpPathDelimiterConstant            = ":"
	pathSeparatorConstant               = "/"
	gitSuffixConstant                   = ".git"
	remoteURLParseErrorTemplateConstant = "%s: %s"
	invalidRemoteURLMessageConstant     = "invalid remote url"
	missingOwnerMessageConstant         = "remote url does not name an owner and repository"
	requiredValueMessageConstant        = "value required"
	minimumPathSegmentCountConstant     = 2
)

var supportedSchemePrefixes = []string{"ssh://", "git://", "https://", "http://"}

// RepositoryIdentity is the protocol-independent owner/repository pair a remote URL points to.
type RepositoryIdentity struct {
	Owner      string
	Repository string
}

// String renders the identity in owner/repo form.
func (identity RepositoryIdentity) String() string {
	return identity.Owner + pathSeparatorConstant + identity.Repository
}

// RemoteURLParseError indicates a remote string could not be parsed.
type RemoteURLParseError struct {
	Input   string
	Message string
}

// Error describes the parse failure.
func (parseError RemoteURLParseError) Error() string {
	return fmt.Sprintf(remoteURLParseErrorTemplateConstant, parseError.Input, parseError.Message)
}

// NormalizeRemoteURL extracts the owner/repository identity from an SSH or HTTPS remote.
// The boolean is false for anything that is not a recognized remote shape.
func NormalizeRemoteURL(remote string) (RepositoryIdentity, bool) {
	identity, parseError := ParseRemoteURL(remote)
	if parseError != nil {
		return RepositoryIdentity{}, false
	}
	return identity, true
}

// ParseRemoteURL extracts the owner/repository pair from a textual remote URL.
func ParseRemoteURL(remote string) (RepositoryIdentity, error) {
	trimmedRemote := strings.TrimSpace(remote)
	if len(trimmedRemote) == 0 {
		return RepositoryIdentity{}, RemoteURLParseError{Input: remote, Message: requiredValueMessageConstant}
	}

	for _, schemePrefix := range supportedSchemePrefixes {
		if hasPrefixFold(trimmedRemote, schemePrefix) {
			return parseSchemeRemote(remote, trimmedRemote[len(schemePrefix):])
		}
	}

	if strings.Contains(trimmedRemote, schemeSeparatorConstant) {
		return RepositoryIdentity{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}

	return parseSCPRemote(remote, trimmedRemote)
}

// parseSchemeRemote handles scheme://[userinfo@]host[:port]/path remotes.
func parseSchemeRemote(original string, remainder string) (RepositoryIdentity, error) {
	hostAndPath := strings.SplitN(remainder, pathSeparatorConstant, 2)
	if len(hostAndPath) != 2 {
		return RepositoryIdentity{}, RemoteURLParseError{Input: original, Message: invalidRemoteURLMessageConstant}
	}

	if len(stripUserInfo(hostAndPath[0])) == 0 {
		return RepositoryIdentity{}, RemoteURLParseError{Input: original, Message: invalidRemoteURLMessageConstant}
	}

	owner, repository, splitError := splitOwnerAndRepository(original, hostAndPath[1])
	if splitError != nil {
		return RepositoryIdentity{}, splitError
	}

	return RepositoryIdentity{Owner: owner, Repository: repository}, nil
}

// parseSCPRemote handles the scp-like [user@]host:owner/repo syntax git accepts for SSH.
// A slash before the first colon makes the remote a local path instead.
func parseSCPRemote(original string, remote string) (RepositoryIdentity, error) {
	pathSplitIndex := strings.Index(remote, scpPathDelimiterConstant)
	if pathSplitIndex <= 0 {
		return RepositoryIdentity{}, RemoteURLParseError{Input: original, Message: invalidRemoteURLMessageConstant}
	}

	authority := remote[:pathSplitIndex]
	if strings.Contains(authority, pathSeparatorConstant) || len(stripUserInfo(authority)) == 0 {
		return RepositoryIdentity{}, RemoteURLParseError{Input: original, Message: invalidRemoteURLMessageConstant}
	}

	owner, repository, splitError := splitOwnerAndRepository(original, remote[pathSplitIndex+1:])
	if splitError != nil {
		return RepositoryIdentity{}, splitError
	}

	return RepositoryIdentity{Owner: owner, Repository: repository}, nil
}

func splitOwnerAndRepository(original string, path string) (string, string, error) {
	trimmedPath := strings.TrimPrefix(path, pathSeparatorConstant)
	trimmedPath = strings.TrimSuffix(trimmedPath, pathSeparatorConstant)

	segments := strings.Split(trimmedPath, pathSeparatorConstant)
	if len(segments) < minimumPathSegmentCountConstant {
		return "", "", RemoteURLParseError{Input: original, Message: missingOwnerMessageConstant}
	}
	for _, segment := range segments {
		if len(segment) == 0 {
			return "", "", RemoteURLParseError{Input: original, Message: invalidRemoteURLMessageConstant}
		}
	}

	repository, normalizeError := normalizeRepositoryName(original, segments[len(segments)-1])
	if normalizeError != nil {
		return "", "", normalizeError
	}

	owner := strings.Join(segments[:len(segments)-1], pathSeparatorConstant)
	return owner, repository, nil
}

func normalizeRepositoryName(original string, repository string) (string, error) {
	trimmed := strings.TrimSuffix(repository, gitSuffixConstant)
	if len(trimmed) == 0 {
		return "", RemoteURLParseError{Input: original, Message: invalidRemoteURLMessageConstant}
	}
	return trimmed, nil
}

func stripUserInfo(authority string) string {
	userSplitIndex := strings.LastIndex(authority, userInfoDelimiterConstant)
	if userSplitIndex == -1 {
		return authority
	}
	return authority[userSplitIndex+1:]
}

func hasPrefixFold(value string, prefix string) bool {
	return len(value) >= len(prefix) && strings.EqualFold(value[:len(prefix)], prefix)
}
