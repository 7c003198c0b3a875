package pkgrepo

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/localstash/localstash/internal/messages"
)

// Version is a package version: dot-separated tokens ordered numerically where
// a token is all digits and lexically otherwise. "1.1.2.beta" sorts above
// "1.1.2" because an extra token on an equal prefix ranks higher.
type Version struct {
	raw    string
	tokens []versionToken
}

type versionToken struct {
	num     int64
	str     string
	numeric bool
}

// ParseVersion parses s into a Version. Tokens must be non-empty.
func ParseVersion(s string) (Version, error) {
	if s == "" {
		return Version{}, fmt.Errorf(messages.RepoInvalidVersionFmt, s, messages.RepoEmptyVersionToken)
	}
	parts := strings.Split(s, ".")
	tokens := make([]versionToken, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			return Version{}, fmt.Errorf(messages.RepoInvalidVersionFmt, s, messages.RepoEmptyVersionToken)
		}
		tokens = append(tokens, parseVersionToken(part))
	}
	return Version{raw: s, tokens: tokens}, nil
}

func parseVersionToken(s string) versionToken {
	if num, err := strconv.ParseInt(s, 10, 64); err == nil {
		return versionToken{num: num, numeric: true}
	}
	return versionToken{str: s}
}

// String returns the version exactly as parsed.
func (v Version) String() string {
	return v.raw
}

// IsZero reports whether v is the zero Version.
func (v Version) IsZero() bool {
	return v.raw == ""
}

// Compare returns -1, 0, or 1 when v sorts below, equal to, or above o.
// Numeric tokens sort below lexical ones so "1.2" < "1.beta".
func (v Version) Compare(o Version) int {
	n := len(v.tokens)
	if len(o.tokens) < n {
		n = len(o.tokens)
	}
	for i := 0; i < n; i++ {
		if c := v.tokens[i].compare(o.tokens[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(v.tokens) < len(o.tokens):
		return -1
	case len(v.tokens) > len(o.tokens):
		return 1
	}
	return 0
}

func (t versionToken) compare(o versionToken) int {
	switch {
	case t.numeric && o.numeric:
		switch {
		case t.num < o.num:
			return -1
		case t.num > o.num:
			return 1
		}
		return 0
	case t.numeric:
		return -1
	case o.numeric:
		return 1
	}
	return strings.Compare(t.str, o.str)
}

// Range is a version prefix: "1" matches every 1.x version, "1.12" every
// 1.12.x version, and the empty range matches anything.
type Range struct {
	raw    string
	tokens []versionToken
}

// ParseRange parses s into a Range. The empty string is the any-version range.
func ParseRange(s string) (Range, error) {
	if s == "" {
		return Range{}, nil
	}
	v, err := ParseVersion(s)
	if err != nil {
		return Range{}, err
	}
	return Range{raw: s, tokens: v.tokens}, nil
}

// IsAny reports whether r matches every version.
func (r Range) IsAny() bool {
	return len(r.tokens) == 0
}

// String returns the range exactly as parsed.
func (r Range) String() string {
	return r.raw
}

// Matches reports whether v falls inside r: every range token must equal the
// corresponding leading version token.
func (r Range) Matches(v Version) bool {
	if len(r.tokens) > len(v.tokens) {
		return false
	}
	for i, t := range r.tokens {
		if t.compare(v.tokens[i]) != 0 {
			return false
		}
	}
	return true
}

// Compatible reports whether some version could satisfy both r and o.
// Prefix ranges intersect exactly when one is a prefix of the other.
func (r Range) Compatible(o Range) bool {
	n := len(r.tokens)
	if len(o.tokens) < n {
		n = len(o.tokens)
	}
	for i := 0; i < n; i++ {
		if r.tokens[i].compare(o.tokens[i]) != 0 {
			return false
		}
	}
	return true
}
