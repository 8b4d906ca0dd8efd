package search

import (
	"context"
	"errors"
	"sync"

	"github.com/rccc/rccc-search/internal/locale"
	"github.com/rccc/rccc-search/internal/models"
	"github.com/rccc/rccc-search/internal/pager"
)

// ErrStale is returned by SetQuery when a newer query superseded the call
// before its results arrived. Nothing was committed.
var ErrStale = errors.New("search: superseded by a newer query")

// Snapshot is a point-in-time copy of a Session.
type Snapshot struct {
	Seq        uint64
	Query      string
	Normalized string
	Results    models.ResultSet
	Page       int
	PageSize   int
}

// PageCount returns the number of pages in the snapshot's results.
func (s Snapshot) PageCount() int {
	return pager.PageCount(len(s.Results), s.PageSize)
}

// Visible returns the records on the selected page.
func (s Snapshot) Visible() []models.Record {
	return pager.Slice(s.Results, s.Page, s.PageSize)
}

// Session is the search state of one page view: the query, its result set
// and the selected page. Only the response to the latest query is ever
// committed; earlier in-flight requests are cancelled.
type Session struct {
	fetcher    Fetcher
	normalizer locale.Normalizer
	pageSize   int

	mu         sync.Mutex
	seq        uint64
	cancel     context.CancelFunc
	query      string
	normalized string
	results    models.ResultSet
	page       int
}

// NewSession creates an empty Session on page 1.
func NewSession(fetcher Fetcher, normalizer locale.Normalizer, pageSize int) *Session {
	if normalizer == nil {
		normalizer = locale.Identity{}
	}
	if pageSize <= 0 {
		pageSize = pager.DefaultSize
	}
	return &Session{
		fetcher:    fetcher,
		normalizer: normalizer,
		pageSize:   pageSize,
		results:    models.ResultSet{},
		page:       1,
	}
}

// SetQuery replaces the query, resets the page to 1 and fetches the
// normalized query. An empty query clears the results without fetching.
//
// If another SetQuery starts before this one's fetch returns, this call's
// context is cancelled and it returns ErrStale. On a fetch error the previous
// results stay in place and the error is returned.
func (s *Session) SetQuery(ctx context.Context, q string) (Snapshot, error) {
	normalized := s.normalizer.Normalize(q)

	s.mu.Lock()
	s.seq++
	seq := s.seq
	if s.cancel != nil {
		s.cancel()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.query = q
	s.normalized = normalized
	s.page = 1
	s.mu.Unlock()
	defer cancel()

	var (
		results models.ResultSet
		err     error
	)
	if normalized == "" {
		results = models.ResultSet{}
	} else {
		results, err = s.fetcher.Fetch(fetchCtx, normalized)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return Snapshot{}, ErrStale
	}
	s.cancel = nil
	s.page = 1
	if err != nil {
		return s.snapshotLocked(), err
	}
	s.results = results
	return s.snapshotLocked(), nil
}

// SetPage selects page p, clamped to the available pages. It reports false
// and leaves the page alone while a query is being fetched.
func (s *Session) SetPage(p int) (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return s.snapshotLocked(), false
	}

	count := pager.PageCount(len(s.results), s.pageSize)
	switch {
	case p < 1 || count == 0:
		p = 1
	case p > count:
		p = count
	}
	s.page = p
	return s.snapshotLocked(), true
}

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Close cancels any in-flight fetch.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		Seq:        s.seq,
		Query:      s.query,
		Normalized: s.normalized,
		Results:    s.results,
		Page:       s.page,
		PageSize:   s.pageSize,
	}
}
