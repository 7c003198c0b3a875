package pkgrepo

import (
	"errors"

	"github.com/localstash/localstash/internal/messages"
)

// Request is a parsed package request: a family name plus an optional version
// range, written "name-range" or bare "name".
type Request struct {
	Name  string
	Range Range
}

// ParseRequest splits s into name and range at the rightmost hyphen whose
// suffix starts with a digit, so "my-pkg-1.2" parses as (my-pkg, 1.2) and
// "doesnotexist" as a name-only request.
func ParseRequest(s string) (Request, error) {
	if s == "" {
		return Request{}, errors.New(messages.RepoEmptyRequest)
	}
	for i := len(s) - 1; i > 0; i-- {
		if s[i] != '-' {
			continue
		}
		if i+1 >= len(s) || !isDigit(s[i+1]) {
			continue
		}
		rng, err := ParseRange(s[i+1:])
		if err != nil {
			return Request{}, err
		}
		return Request{Name: s[:i], Range: rng}, nil
	}
	return Request{Name: s}, nil
}

// ParseRequests parses each entry of specs, preserving order.
func ParseRequests(specs []string) ([]Request, error) {
	out := make([]Request, 0, len(specs))
	for _, spec := range specs {
		req, err := ParseRequest(spec)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, nil
}

// String returns the request in its "name-range" form.
func (r Request) String() string {
	if r.Range.IsAny() {
		return r.Name
	}
	return r.Name + "-" + r.Range.String()
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
