package gitrepo

import (
	"fmt"
	"strings"
)

const (
	searchPatternSeparatorConstant     = "/"
	searchPatternSegmentCountConstant  = 2
	searchPatternErrorTemplateConstant = "invalid search pattern %q: %s"
	searchPatternFormatMessageConstant = "expected format owner/repo"
	searchPatternOwnerMessageConstant  = "owner must not be empty"
	searchPatternRepoMessageConstant   = "repository must not be empty"
)

// SearchPattern identifies the owner/repository pair a scan is looking for.
type SearchPattern struct {
	owner      string
	repository string
}

// InvalidSearchPatternError reports a pattern that is not of the owner/repo form.
type InvalidSearchPatternError struct {
	Input   string
	Message string
}

// Error describes the invalid pattern.
func (patternError InvalidSearchPatternError) Error() string {
	return fmt.Sprintf(searchPatternErrorTemplateConstant, patternError.Input, patternError.Message)
}

// ParseSearchPattern splits an owner/repo string into a SearchPattern.
func ParseSearchPattern(raw string) (SearchPattern, error) {
	segments := strings.Split(strings.TrimSpace(raw), searchPatternSeparatorConstant)
	if len(segments) != searchPatternSegmentCountConstant {
		return SearchPattern{}, InvalidSearchPatternError{Input: raw, Message: searchPatternFormatMessageConstant}
	}

	owner := strings.TrimSpace(segments[0])
	if len(owner) == 0 {
		return SearchPattern{}, InvalidSearchPatternError{Input: raw, Message: searchPatternOwnerMessageConstant}
	}

	repository := strings.TrimSpace(segments[1])
	if len(repository) == 0 {
		return SearchPattern{}, InvalidSearchPatternError{Input: raw, Message: searchPatternRepoMessageConstant}
	}

	return SearchPattern{owner: owner, repository: repository}, nil
}

// Owner returns the owner segment as supplied.
func (pattern SearchPattern) Owner() string {
	return pattern.owner
}

// Repository returns the repository segment as supplied.
func (pattern SearchPattern) Repository() string {
	return pattern.repository
}

// String renders the pattern in owner/repo form.
func (pattern SearchPattern) String() string {
	return pattern.owner + searchPatternSeparatorConstant + pattern.repository
}

// Matches reports whether the identity names the same owner and repository, ignoring case.
func (pattern SearchPattern) Matches(identity RepositoryIdentity) bool {
	return strings.EqualFold(pattern.owner, identity.Owner) && strings.EqualFold(pattern.repository, identity.Repository)
}

// MatchesURL normalizes the remote URL and matches it. Unrecognized URLs never match.
func (pattern SearchPattern) MatchesURL(remote string) bool {
	identity, recognized := NormalizeRemoteURL(remote)
	if !recognized {
		return false
	}
	return pattern.Matches(identity)
}

// MatchesAny reports whether at least one remote matches.
func (pattern SearchPattern) MatchesAny(remotes []RemoteReference) bool {
	for _, remote := range remotes {
		if pattern.MatchesURL(remote.URL) {
			return true
		}
	}
	return false
}
