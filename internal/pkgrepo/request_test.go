package pkgrepo

import "testing"

func TestParseRequest(t *testing.T) {
	cases := []struct {
		in       string
		wantName string
		wantRng  string
	}{
		{"six-1", "six", "1"},
		{"six", "six", ""},
		{"maya-2018", "maya", "2018"},
		{"python-3.7", "python", "3.7"},
		{"my-pkg-1.2", "my-pkg", "1.2"},
		{"my-pkg", "my-pkg", ""},
		{"doesnotexist", "doesnotexist", ""},
	}
	for _, tc := range cases {
		req, err := ParseRequest(tc.in)
		if err != nil {
			t.Fatalf("ParseRequest(%q): %v", tc.in, err)
		}
		if req.Name != tc.wantName {
			t.Fatalf("ParseRequest(%q) name = %q, want %q", tc.in, req.Name, tc.wantName)
		}
		if req.Range.String() != tc.wantRng {
			t.Fatalf("ParseRequest(%q) range = %q, want %q", tc.in, req.Range.String(), tc.wantRng)
		}
	}
}

func TestParseRequestEmpty(t *testing.T) {
	if _, err := ParseRequest(""); err == nil {
		t.Fatal("expected error for empty request")
	}
}

func TestRequestString(t *testing.T) {
	req, err := ParseRequest("six-1.2")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := req.String(); got != "six-1.2" {
		t.Fatalf("String() = %q", got)
	}

	req, err = ParseRequest("six")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := req.String(); got != "six" {
		t.Fatalf("String() = %q", got)
	}
}

func TestParseRequests(t *testing.T) {
	reqs, err := ParseRequests([]string{"six-1", "maya"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(reqs) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(reqs))
	}
	if _, err := ParseRequests([]string{"six", ""}); err == nil {
		t.Fatal("expected error for empty entry")
	}
}
