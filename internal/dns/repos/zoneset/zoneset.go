// Package zoneset answers which compiled zone owns a given name.
// Lookups run a bloom prefilter over the apex set, then a decision
// cache, then an authoritative scan of the loaded apexes.
package zoneset

import (
	"sync"

	"github.com/nameplane/dnswire/internal/dns/common/utils"
	"github.com/nameplane/dnswire/internal/dns/domain"
)

// Decision is what the index remembers about a name: the zone that owns
// it, if any.
type Decision struct {
	Zone  domain.Name
	Found bool
}

// Stats reports index size and cache counters.
type Stats struct {
	Apexes    int
	CacheSize int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// ZoneSet is the zone membership index. mu guards the apex list and the
// bloom filter, which Load swaps as a unit; the cache handle itself is
// immutable and safe for concurrent use.
type ZoneSet struct {
	mu     sync.RWMutex
	apexes []domain.Name
	bloom  *filter
	cache  decisionCache
	fpRate float64
}

// New builds an empty ZoneSet. cacheSize <= 0 disables the decision
// cache; fpRate is the bloom target false-positive rate applied on
// Load.
func New(cacheSize int, fpRate float64) (*ZoneSet, error) {
	cache, err := newCache(cacheSize)
	if err != nil {
		return nil, err
	}
	return &ZoneSet{cache: cache, fpRate: fpRate}, nil
}

// Load replaces the served apex set. The bloom filter is rebuilt for
// the new capacity and the decision cache is purged. Root apexes are
// ignored.
func (z *ZoneSet) Load(apexes []domain.Name) {
	bf := newFilter(uint64(len(apexes)), z.fpRate)
	kept := make([]domain.Name, 0, len(apexes))
	for _, apex := range apexes {
		if apex.IsRoot() {
			continue
		}
		kept = append(kept, apex)
		bf.Add([]byte(utils.CanonicalText(apex.String())))
	}

	z.mu.Lock()
	z.apexes = kept
	z.bloom = bf
	z.cache.Purge()
	z.mu.Unlock()
}

// Resolve returns the deepest loaded apex containing name, or the root
// name and false when no loaded zone owns it. Matching is
// case-insensitive.
func (z *ZoneSet) Resolve(name domain.Name) (domain.Name, bool) {
	cn := utils.CanonicalText(name.String())
	canonical, err := domain.ParseName(cn+".", nil)
	if err != nil {
		return domain.NewName(), false
	}

	// A definitive bloom negative means no suffix of the name can be a
	// served apex; skip the cache and the scan entirely.
	if !z.checkBloom(canonical) {
		return domain.NewName(), false
	}
	if d, ok := z.cache.Get(cn); ok {
		return d.Zone, d.Found
	}

	zone, found := z.lookup(canonical)
	z.cache.Put(cn, Decision{Zone: zone, Found: found})
	return zone, found
}

// Stats snapshots index and cache counters.
func (z *ZoneSet) Stats() Stats {
	hits, misses, evictions := z.cache.Stats()
	z.mu.RLock()
	apexes := len(z.apexes)
	z.mu.RUnlock()
	return Stats{
		Apexes:    apexes,
		CacheSize: z.cache.Len(),
		Hits:      hits,
		Misses:    misses,
		Evictions: evictions,
	}
}

// checkBloom reports whether any suffix of name might be a served apex.
// The root suffix is never probed: Load drops root apexes, so its key is
// never in the filter. An unloaded set returns true so lookup stays
// authoritative.
func (z *ZoneSet) checkBloom(name domain.Name) bool {
	z.mu.RLock()
	bf := z.bloom
	z.mu.RUnlock()
	if bf == nil {
		return true
	}
	for n := name; !n.IsRoot(); {
		if bf.MightContain([]byte(utils.CanonicalText(n.String()))) {
			return true
		}
		n, _ = n.BaseName()
	}
	return false
}

// lookup scans the loaded apexes and returns the deepest one whose zone
// contains the name.
func (z *ZoneSet) lookup(name domain.Name) (domain.Name, bool) {
	z.mu.RLock()
	defer z.mu.RUnlock()

	var best domain.Name
	found := false
	for _, apex := range z.apexes {
		if apex.ZoneOf(name) && (!found || apex.LabelCount() > best.LabelCount()) {
			best = apex
			found = true
		}
	}
	return best, found
}
