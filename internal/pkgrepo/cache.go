package pkgrepo

import (
	"sync"
	"time"
)

// FindCache memoizes repository scans and loaded definitions for a TTL.
// It deliberately has no invalidation protocol for out-of-band deletions:
// a positive entry can outlive the directory it describes, so existence
// decisions taken from a cached result must re-check the disk.
type FindCache struct {
	ttl time.Duration
	now func() time.Time

	mu       sync.Mutex
	packages map[string]packageEntry
	scans    map[string]versionsEntry
}

type packageEntry struct {
	pkg     *Package
	expires time.Time
}

type versionsEntry struct {
	versions []Version
	expires  time.Time
}

// NewFindCache returns a cache whose entries expire after ttl.
func NewFindCache(ttl time.Duration) *FindCache {
	return &FindCache{
		ttl:      ttl,
		now:      time.Now,
		packages: make(map[string]packageEntry),
		scans:    make(map[string]versionsEntry),
	}
}

func (c *FindCache) pkg(root, name, version string) (*Package, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.packages[root+"\x00"+name+"\x00"+version]
	if !ok || c.now().After(entry.expires) {
		return nil, false
	}
	return entry.pkg, true
}

func (c *FindCache) putPkg(root, name, version string, pkg *Package) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.packages[root+"\x00"+name+"\x00"+version] = packageEntry{
		pkg:     pkg,
		expires: c.now().Add(c.ttl),
	}
}

func (c *FindCache) versions(root, name string) ([]Version, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.scans[root+"\x00"+name]
	if !ok || c.now().After(entry.expires) {
		return nil, false
	}
	return entry.versions, true
}

func (c *FindCache) putVersions(root, name string, versions []Version) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scans[root+"\x00"+name] = versionsEntry{
		versions: versions,
		expires:  c.now().Add(c.ttl),
	}
}
