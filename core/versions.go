package core

import (
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// pep440PreRe captures a trailing PEP 440 pre/dev/post segment such as
// "2.0.0a1", "1.2.0rc2", "1.0.0.dev3" or "1.2.0.post1" so it can be rewritten
// into semver syntax for ordering.
var pep440PreRe = regexp.MustCompile(`^(\d+(?:\.\d+)*)[._-]?(a|b|c|rc|alpha|beta|dev|post|preview)[._-]?(\d*)$`)

// normalizeVersion rewrites a Python package version into a form the semver
// parser understands. Pre and dev segments become semver prereleases, which
// sort below the bare version. PEP 440 post-releases sort ABOVE the bare
// version, which semver cannot express, so the segment is stripped and
// reported via the second return value; callers break ties in its favor.
// The returned string is only used for comparison; raw version strings are
// what get pinned and persisted.
func normalizeVersion(raw string) (string, bool) {
	v := strings.ToLower(strings.TrimSpace(raw))
	v = strings.TrimPrefix(v, "v")
	if m := pep440PreRe.FindStringSubmatch(v); m != nil {
		if m[2] == "post" {
			return m[1], true
		}
		num := m[3]
		if num == "" {
			num = "0"
		}
		return m[1] + "-" + m[2] + "." + num, false
	}
	return v, false
}

// parseVersion parses a Python package version for ordering purposes. The
// boolean reports whether the raw string carried a post-release segment.
func parseVersion(raw string) (*semver.Version, bool, error) {
	norm, post := normalizeVersion(raw)
	ver, err := semver.NewVersion(norm)
	return ver, post, err
}

// ResolveLatestVersion picks the higher of the GA and preview version strings
// under semantic-version ordering. Missing or unparseable fields fall back to
// whichever side is usable; when both sides compare equal, a post-release
// outranks its base version; the raw winning string is returned unchanged.
func ResolveLatestVersion(ga, preview string) string {
	ga = strings.TrimSpace(ga)
	preview = strings.TrimSpace(preview)

	if ga == "" && preview == "" {
		return ""
	}
	if ga == "" {
		return preview
	}
	if preview == "" {
		return ga
	}

	gaVer, gaPost, gaErr := parseVersion(ga)
	prevVer, prevPost, prevErr := parseVersion(preview)
	if gaErr != nil && prevErr != nil {
		// Neither side parses; prefer the GA field
		return ga
	}
	if gaErr != nil {
		return preview
	}
	if prevErr != nil {
		return ga
	}

	if prevVer.GreaterThan(gaVer) {
		return preview
	}
	if prevVer.Equal(gaVer) && prevPost && !gaPost {
		return preview
	}
	return ga
}
