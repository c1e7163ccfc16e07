package transfers

import (
	"context"
	"sync"
	"time"

	"partnerportal/internal/crm"
	"partnerportal/pkg/dates"
	"partnerportal/pkg/models"

	"go.uber.org/zap"
)

// PageSize is the fixed number of transfers per page.
const PageSize = 25

// fetchErrMessage is the user-facing banner text for a failed records fetch.
const fetchErrMessage = "Unable to load transfers. Please refresh to try again."

// Source is the remote record source the session fetches from. *crm.Client
// satisfies it.
type Source interface {
	Records(ctx context.Context, credential, status string, start, end *time.Time) ([]crm.Record, error)
	Summary(ctx context.Context, credential, status string, start, end *time.Time) (crm.Summary, error)
}

// FetchState is the single-slot request state of the session's main fetch.
type FetchState string

const (
	StateIdle     FetchState = "idle"
	StateFetching FetchState = "fetching"
	StateReady    FetchState = "ready"
	StateFailed   FetchState = "failed"
)

// Session holds one partner's portal state: the full record set from the
// last successful fetch, the filter selection, and the derived paginated
// view. All mutation goes through the session mutex.
type Session struct {
	mu         sync.Mutex
	source     Source
	normalizer *Normalizer
	log        *zap.Logger

	accountID  string
	credential string

	state    FetchState
	fetchErr string

	summaryFetching bool
	summaryLoading  bool
	summary         models.Summary
	hasSummary      bool

	full    []models.Transfer
	visible []models.Transfer

	filters models.FilterState

	page       int
	selected   *models.Transfer
	drawerOpen bool

	lastSeen time.Time
}

// NewSession builds an idle session with the configured initial status and a
// today-through-tomorrow date window.
func NewSession(accountID string, source Source, defaultStatus string, log *zap.Logger) *Session {
	now := time.Now()
	start := dates.StartOfDay(now)
	end := dates.StartOfDay(now.AddDate(0, 0, 1))

	return &Session{
		source:     source,
		normalizer: NewNormalizer(log),
		log:        log,
		accountID:  accountID,
		state:      StateIdle,
		filters: models.FilterState{
			Status: defaultStatus,
			Range:  models.DateRange{Start: &start, End: &end},
		},
		page:     1,
		lastSeen: now,
	}
}

// SetCredential stores the CRM bearer credential. Until one is present every
// fetch trigger is a silent no-op rather than an error.
func (s *Session) SetCredential(credential string) {
	s.mu.Lock()
	s.credential = credential
	s.mu.Unlock()
}

// EnsureLoaded performs the initial fetch once a credential is available.
// Later triggers come from filter changes and Refresh.
func (s *Session) EnsureLoaded(ctx context.Context) {
	s.mu.Lock()
	idle := s.state == StateIdle
	s.mu.Unlock()

	if idle {
		s.fetch(ctx)
		s.fetchSummary(ctx)
	}
}

// Refresh unconditionally re-fetches records and summary. It is also the
// only recovery path out of a failed fetch.
func (s *Session) Refresh(ctx context.Context) {
	s.fetch(ctx)
	s.fetchSummary(ctx)
}

// SetSearch updates the free-text term. Search is purely client-side, so no
// remote fetch is triggered.
func (s *Session) SetSearch(term string) {
	s.mu.Lock()
	s.filters.Search = term
	s.recomputeLocked()
	s.mu.Unlock()
}

// SetStatus updates the status filter and re-fetches records and summary.
func (s *Session) SetStatus(ctx context.Context, status string) {
	s.mu.Lock()
	s.filters.Status = status
	s.mu.Unlock()

	s.fetch(ctx)
	s.fetchSummary(ctx)
}

// SetDateRange updates the pickup-date window and re-fetches records and
// summary. An incomplete range still narrows the visible set immediately;
// only a complete one reaches the CRM.
func (s *Session) SetDateRange(ctx context.Context, start, end *time.Time) {
	s.mu.Lock()
	s.filters.Range = models.DateRange{Start: start, End: end}
	s.recomputeLocked()
	s.mu.Unlock()

	s.fetch(ctx)
	s.fetchSummary(ctx)
}

// fetch runs the main records fetch through the single-slot state machine:
// idle|ready|failed -> fetching -> ready|failed. A trigger arriving while a
// fetch is in flight is dropped, not queued; the filter change that caused
// it is picked up by the next natural trigger. There is no generation token,
// so a stale response that lands after newer filters were applied overwrites
// the set with its results.
func (s *Session) fetch(ctx context.Context) {
	s.mu.Lock()
	if s.credential == "" {
		s.mu.Unlock()
		return
	}
	if s.state == StateFetching {
		s.mu.Unlock()
		return
	}
	s.state = StateFetching
	credential := s.credential
	status := s.filters.Status
	start, end := s.windowLocked()
	s.mu.Unlock()

	// Release the fetching slot even if the source panics, otherwise the
	// session deadlocks in StateFetching forever.
	defer func() {
		if p := recover(); p != nil {
			s.mu.Lock()
			s.state = StateFailed
			s.fetchErr = fetchErrMessage
			s.mu.Unlock()
			panic(p)
		}
	}()

	records, err := s.source.Records(ctx, credential, status, start, end)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		// Keep the last-known-good set; only the banner changes.
		s.state = StateFailed
		s.fetchErr = fetchErrMessage
		s.log.Warn("records fetch failed",
			zap.String("account", s.accountID),
			zap.Error(err),
		)
		return
	}

	full := make([]models.Transfer, 0, len(records))
	for _, record := range records {
		full = append(full, s.normalizer.Normalize(record))
	}

	s.full = full
	s.fetchErr = ""
	s.state = StateReady
	s.recomputeLocked()
}

// fetchSummary mirrors fetch for the aggregate endpoint, with one deliberate
// asymmetry: on failure the summary is cleared instead of kept, since a
// stale aggregate misleads where an absent one merely looks unloaded.
func (s *Session) fetchSummary(ctx context.Context) {
	s.mu.Lock()
	if s.credential == "" {
		s.mu.Unlock()
		return
	}
	if s.summaryFetching {
		s.mu.Unlock()
		return
	}
	s.summaryFetching = true
	s.summaryLoading = true
	credential := s.credential
	status := s.filters.Status
	start, end := s.windowLocked()
	s.mu.Unlock()

	defer func() {
		if p := recover(); p != nil {
			s.mu.Lock()
			s.summaryFetching = false
			s.summaryLoading = false
			s.mu.Unlock()
			panic(p)
		}
	}()

	aggregate, err := s.source.Summary(ctx, credential, status, start, end)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.summaryFetching = false
	s.summaryLoading = false

	if err != nil {
		s.summary = models.Summary{}
		s.hasSummary = false
		s.log.Warn("summary fetch failed",
			zap.String("account", s.accountID),
			zap.Error(err),
		)
		return
	}

	s.summary = models.NewSummary(aggregate.TotalRecords, aggregate.TotalRevenue, aggregate.AccountName)
	s.hasSummary = true
}

// windowLocked returns the date window to send to the CRM: both bounds, or
// neither. A one-sided range stays client-side so the CRM cannot silently
// assume a bound on the missing side.
func (s *Session) windowLocked() (start, end *time.Time) {
	if !s.filters.Range.Complete() {
		return nil, nil
	}
	return s.filters.Range.Start, s.filters.Range.End
}

// recomputeLocked re-derives the visible set and clamps the current page
// back into range when the set shrinks.
func (s *Session) recomputeLocked() {
	s.visible = filterTransfers(s.full, s.filters.Range, s.filters.Search, s.log)

	if s.page < 1 {
		s.page = 1
	}
	if last := s.pageCountLocked(); s.page > last {
		s.page = last
	}
}

func (s *Session) pageCountLocked() int {
	if len(s.visible) == 0 {
		return 1
	}
	return (len(s.visible) + PageSize - 1) / PageSize
}

// NextPage advances one page; past the last page it is a no-op.
func (s *Session) NextPage() {
	s.mu.Lock()
	if s.page < s.pageCountLocked() {
		s.page++
	}
	s.mu.Unlock()
}

// PreviousPage goes back one page; before page 1 it is a no-op.
func (s *Session) PreviousPage() {
	s.mu.Lock()
	if s.page > 1 {
		s.page--
	}
	s.mu.Unlock()
}

// ViewTransfer selects a transfer by id for the detail drawer. Lookup runs
// against the full set, so the detail view survives the record being
// filtered off the visible page.
func (s *Session) ViewTransfer(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, transfer := range s.full {
		if transfer.ID == id {
			selected := transfer
			s.selected = &selected
			s.drawerOpen = true
			return true
		}
	}
	return false
}

// CloseDrawer hides the detail drawer; the selection itself is kept.
func (s *Session) CloseDrawer() {
	s.mu.Lock()
	s.drawerOpen = false
	s.mu.Unlock()
}

// MarkCompleted flips a transfer to completed in the full set and mirrors
// the change into the current selection. This is a local optimistic update
// only; nothing is written back to the CRM here.
func (s *Session) MarkCompleted(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for i := range s.full {
		if s.full[i].ID == id {
			s.full[i].Status = models.StatusCompleted
			found = true
			break
		}
	}
	if !found {
		return false
	}

	if s.selected != nil && s.selected.ID == id {
		s.selected.Status = models.StatusCompleted
	}

	s.recomputeLocked()
	return true
}

// View is the snapshot handed to the presentation layer.
type View struct {
	Transfers     []models.Transfer  `json:"transfers"`
	TotalFiltered int                `json:"total_filtered"`
	Page          int                `json:"page"`
	PageSize      int                `json:"page_size"`
	TotalPages    int                `json:"total_pages"`
	IsLoading     bool               `json:"is_loading"`
	Error         string             `json:"error,omitempty"`
	Filters       models.FilterState `json:"filters"`
	Selected      *models.Transfer   `json:"selected,omitempty"`
	DrawerOpen    bool               `json:"drawer_open"`
}

// SummaryView is the aggregate section's snapshot. Summary failures never
// surface an error; the section degrades to its empty state.
type SummaryView struct {
	Summary   *models.Summary `json:"summary,omitempty"`
	IsLoading bool            `json:"is_loading"`
}

// View returns the current page of the filtered set plus the session state
// the UI renders from.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	first := (s.page - 1) * PageSize
	if first > len(s.visible) {
		first = len(s.visible)
	}
	last := first + PageSize
	if last > len(s.visible) {
		last = len(s.visible)
	}

	pageSlice := make([]models.Transfer, last-first)
	copy(pageSlice, s.visible[first:last])

	view := View{
		Transfers:     pageSlice,
		TotalFiltered: len(s.visible),
		Page:          s.page,
		PageSize:      PageSize,
		TotalPages:    s.pageCountLocked(),
		IsLoading:     s.state == StateFetching,
		Error:         s.fetchErr,
		Filters:       s.filters,
		DrawerOpen:    s.drawerOpen,
	}
	if s.selected != nil {
		selected := *s.selected
		view.Selected = &selected
	}
	return view
}

// SummarySnapshot returns the aggregate section state.
func (s *Session) SummarySnapshot() SummaryView {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := SummaryView{IsLoading: s.summaryLoading}
	if s.hasSummary {
		summary := s.summary
		view.Summary = &summary
	}
	return view
}

// Filters returns a copy of the current filter selection.
func (s *Session) Filters() models.FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

func (s *Session) idleSince(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen.Before(cutoff)
}
