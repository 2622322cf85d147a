package api

import (
	"sync"
	"time"
)

// DefaultStoreSize is how many inspect reports are retained when no size is
// configured.
const DefaultStoreSize = 256

// ReportStore keeps recent inspect reports by id. Once full, the oldest
// report is evicted.
type ReportStore struct {
	mu      sync.Mutex
	max     int
	order   []string
	reports map[string]InspectResponse
}

func NewReportStore(size int) *ReportStore {
	if size <= 0 {
		size = DefaultStoreSize
	}
	return &ReportStore{
		max:     size,
		reports: make(map[string]InspectResponse),
	}
}

// Put stamps r with now and stores it under r.ID, replacing any earlier
// report with the same id. It returns the stored report.
func (s *ReportStore) Put(r InspectResponse, now time.Time) InspectResponse {
	r.CreatedAt = now.Unix()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reports[r.ID]; !ok {
		s.order = append(s.order, r.ID)
	}
	s.reports[r.ID] = r

	for len(s.order) > s.max {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.reports, oldest)
	}
	return r
}

func (s *ReportStore) Get(id string) (InspectResponse, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reports[id]
	return r, ok
}

func (s *ReportStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reports[id]; !ok {
		return false
	}
	delete(s.reports, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

func (s *ReportStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reports)
}
