package crawler

import (
	"sync"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/bananos/webcrawl/internal/model"
)

// VisitedSet tracks canonical URLs that have been claimed for processing.
// Membership grows monotonically for the lifetime of a run.
type VisitedSet struct {
	set mapset.Set[string]
}

// NewVisitedSet creates an empty, concurrency-safe VisitedSet.
func NewVisitedSet() *VisitedSet {
	return &VisitedSet{set: mapset.NewSet[string]()}
}

// Reserve atomically claims url and reports whether this caller won the
// claim. The check and the insert are one step: two workers holding the
// same URL can never both see "absent", so no URL is fetched twice.
func (v *VisitedSet) Reserve(url string) bool {
	return v.set.Add(url)
}

// Contains reports whether url has already been claimed. Used as a cheap
// pre-filter before enqueueing; Reserve remains the authoritative gate.
func (v *VisitedSet) Contains(url string) bool {
	return v.set.Contains(url)
}

// Len returns the number of claimed URLs.
func (v *VisitedSet) Len() int {
	return v.set.Cardinality()
}

// ImageIndex collects (content hash, URL) pairs for fetched images and
// derives the duplicate groups at shutdown. Appends happen concurrently
// from workers; DuplicateGroups is called once, after the frontier drains.
type ImageIndex struct {
	mu      sync.Mutex
	records []model.ImageRecord
}

// NewImageIndex creates an empty ImageIndex.
func NewImageIndex() *ImageIndex {
	return &ImageIndex{}
}

// Append records that url served content with the given hash.
func (x *ImageIndex) Append(hash, url string) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.records = append(x.records, model.ImageRecord{Hash: hash, URL: url})
}

// Len returns the number of image records collected.
func (x *ImageIndex) Len() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return len(x.records)
}

// DuplicateGroups groups records by hash and returns only hashes recorded
// at two or more URLs. Groups and their URLs keep first-appended order so
// the report is stable for a given record sequence. URLs are distinct by
// construction: the visited set guarantees each URL is fetched at most
// once, so a hash cannot record the same URL twice.
func (x *ImageIndex) DuplicateGroups() []model.DuplicateGroup {
	x.mu.Lock()
	defer x.mu.Unlock()

	byHash := make(map[string][]string)
	order := make([]string, 0)
	for _, rec := range x.records {
		if _, ok := byHash[rec.Hash]; !ok {
			order = append(order, rec.Hash)
		}
		byHash[rec.Hash] = append(byHash[rec.Hash], rec.URL)
	}

	groups := make([]model.DuplicateGroup, 0)
	for _, hash := range order {
		if urls := byHash[hash]; len(urls) > 1 {
			groups = append(groups, model.DuplicateGroup{Hash: hash, URLs: urls})
		}
	}
	return groups
}
