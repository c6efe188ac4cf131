package content

import "sort"

// Store is the in-memory index of one scanned content tree. Lookups are by
// document id; iteration order is the deterministic scan order.
type Store struct {
	docs   map[string]*Document
	order  []string
	assets map[string]Asset
}

// NewStore indexes a scan result.
func NewStore(res *ScanResult) *Store {
	s := &Store{
		docs:   make(map[string]*Document, len(res.Documents)),
		order:  make([]string, 0, len(res.Documents)),
		assets: make(map[string]Asset, len(res.Assets)),
	}
	for _, doc := range res.Documents {
		s.docs[doc.ID] = doc
		s.order = append(s.order, doc.ID)
	}
	for _, a := range res.Assets {
		s.assets[a.RelPath] = a
	}
	return s
}

// Get returns the document with the given id.
func (s *Store) Get(id string) (*Document, bool) {
	d, ok := s.docs[id]
	return d, ok
}

// All returns documents in scan order. The slice is fresh; the documents are shared.
func (s *Store) All() []*Document {
	out := make([]*Document, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.docs[id])
	}
	return out
}

// Len is the number of documents.
func (s *Store) Len() int {
	return len(s.order)
}

// IDs returns all document ids, sorted.
func (s *Store) IDs() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	sort.Strings(out)
	return out
}

// HasAsset reports whether an asset exists at the content-dir-relative path.
func (s *Store) HasAsset(relPath string) bool {
	_, ok := s.assets[relPath]
	return ok
}

// Sections returns document ids grouped by section.
func (s *Store) Sections() map[string][]string {
	out := make(map[string][]string)
	for _, id := range s.order {
		doc := s.docs[id]
		out[doc.Section] = append(out[doc.Section], id)
	}
	return out
}
