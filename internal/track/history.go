package track

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"slices"

	expmaps "golang.org/x/exp/maps"

	"github.com/localstash/localstash/internal/messages"
)

// Entry is the usage record of one package by one user on one host.
// Timestamps are epoch seconds taken from the resolve event.
type Entry struct {
	FirstUsed int64 `json:"firstUsed"`
	LastUsed  int64 `json:"lastUsed"`
}

// History maps host, then user, then "name-version", to a usage entry.
type History map[string]map[string]map[string]Entry

// Record folds one usage observation into the history. The first
// observation of a package sets FirstUsed; every observation updates
// LastUsed.
func (h History) Record(host, user, pkg string, ts int64) Entry {
	users, ok := h[host]
	if !ok {
		users = make(map[string]map[string]Entry)
		h[host] = users
	}
	packages, ok := users[user]
	if !ok {
		packages = make(map[string]Entry)
		users[user] = packages
	}
	entry, ok := packages[pkg]
	if !ok {
		entry.FirstUsed = ts
	}
	entry.LastUsed = ts
	packages[pkg] = entry
	return entry
}

// Clone returns a deep copy, safe to read while the original keeps
// changing.
func (h History) Clone() History {
	out := make(History, len(h))
	for host, users := range h {
		outUsers := make(map[string]map[string]Entry, len(users))
		for user, packages := range users {
			outUsers[user] = maps.Clone(packages)
		}
		out[host] = outUsers
	}
	return out
}

// Dump writes one line per recorded package, sorted for stable output.
func (h History) Dump(w io.Writer) {
	hosts := expmaps.Keys(h)
	slices.Sort(hosts)
	for _, host := range hosts {
		users := expmaps.Keys(h[host])
		slices.Sort(users)
		for _, user := range users {
			h.DumpUser(w, host, user)
		}
	}
}

// DumpUser writes the records of one host/user pair, sorted for stable
// output.
func (h History) DumpUser(w io.Writer, host, user string) {
	pkgs := expmaps.Keys(h[host][user])
	slices.Sort(pkgs)
	for _, pkg := range pkgs {
		e := h[host][user][pkg]
		_, _ = fmt.Fprintf(w, messages.TrackHistoryLineFmt, host, user, pkg, e.FirstUsed, e.LastUsed)
	}
}

// LoadHistory reads the persisted history. A missing file is an empty
// history, not an error.
func LoadHistory(path string) (History, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(History), nil
	}
	if err != nil {
		return nil, fmt.Errorf(messages.TrackReadHistoryFmt, path, err)
	}
	var h History
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf(messages.TrackParseHistoryFmt, path, err)
	}
	if h == nil {
		h = make(History)
	}
	return h, nil
}
