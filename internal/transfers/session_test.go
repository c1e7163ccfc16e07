package transfers

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"partnerportal/internal/crm"
	"partnerportal/pkg/dates"
	"partnerportal/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockSource struct {
	mock.Mock
}

func (m *MockSource) Records(ctx context.Context, credential, status string, start, end *time.Time) ([]crm.Record, error) {
	args := m.Called(ctx, credential, status, start, end)
	var records []crm.Record
	if v := args.Get(0); v != nil {
		records = v.([]crm.Record)
	}
	return records, args.Error(1)
}

func (m *MockSource) Summary(ctx context.Context, credential, status string, start, end *time.Time) (crm.Summary, error) {
	args := m.Called(ctx, credential, status, start, end)
	return args.Get(0).(crm.Summary), args.Error(1)
}

// todayRecord builds a raw record whose pickup falls inside the session's
// default today-through-tomorrow window.
func todayRecord(id string) crm.Record {
	pickup := time.Now().Format(time.RFC3339)
	status := "Planned"
	return crm.Record{
		ID:             &id,
		BookingRef:     strPtr("TR-" + id),
		PickupDateTime: &pickup,
		JourneyStatus:  &status,
	}
}

func newTestSession(source Source) *Session {
	session := NewSession("acc1", source, "Planned", zap.NewNop())
	session.SetCredential("crm-token")
	return session
}

func TestFetchWithoutCredentialIsSilentNoOp(t *testing.T) {
	source := new(MockSource)

	session := NewSession("acc1", source, "Planned", zap.NewNop())
	session.Refresh(context.Background())

	view := session.View()
	assert.Empty(t, view.Error)
	assert.False(t, view.IsLoading)
	assert.Empty(t, view.Transfers)
	source.AssertNumberOfCalls(t, "Records", 0)
	source.AssertNumberOfCalls(t, "Summary", 0)
}

func TestRefreshReplacesFullSet(t *testing.T) {
	source := new(MockSource)
	source.On("Records", mock.Anything, "crm-token", "Planned", mock.Anything, mock.Anything).
		Return([]crm.Record{todayRecord("t1"), todayRecord("t2")}, nil)
	source.On("Summary", mock.Anything, "crm-token", "Planned", mock.Anything, mock.Anything).
		Return(crm.Summary{TotalRecords: 2, TotalRevenue: 140, AccountName: "Riviera"}, nil)

	session := newTestSession(source)
	session.Refresh(context.Background())

	view := session.View()
	assert.Empty(t, view.Error)
	assert.Len(t, view.Transfers, 2)
	assert.Equal(t, "t1", view.Transfers[0].ID)

	summary := session.SummarySnapshot()
	assert.NotNil(t, summary.Summary)
	assert.Equal(t, 2, summary.Summary.TotalRecords)
	assert.Equal(t, "€140.00", summary.Summary.FormattedRevenue)
}

func TestEnsureLoadedFetchesOnlyOnce(t *testing.T) {
	source := new(MockSource)
	source.On("Records", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]crm.Record{todayRecord("t1")}, nil)
	source.On("Summary", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(crm.Summary{}, nil)

	session := newTestSession(source)
	session.EnsureLoaded(context.Background())
	session.EnsureLoaded(context.Background())

	source.AssertNumberOfCalls(t, "Records", 1)
}

func TestFetchFailureKeepsPreviousSet(t *testing.T) {
	source := new(MockSource)
	source.On("Records", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]crm.Record{todayRecord("t1")}, nil).Once()
	source.On("Summary", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(crm.Summary{TotalRecords: 1, TotalRevenue: 70}, nil).Once()
	source.On("Records", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, assert.AnError).Once()
	source.On("Summary", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(crm.Summary{}, assert.AnError).Once()

	session := newTestSession(source)
	session.Refresh(context.Background())
	session.Refresh(context.Background())

	view := session.View()
	assert.NotEmpty(t, view.Error, "failed fetch must surface a banner message")
	assert.Len(t, view.Transfers, 1, "failed fetch must keep the last-known-good set")

	// The aggregate is the asymmetric case: failure clears it.
	summary := session.SummarySnapshot()
	assert.Nil(t, summary.Summary)
	assert.False(t, summary.IsLoading)
}

func TestRefreshRecoversFromFailure(t *testing.T) {
	source := new(MockSource)
	source.On("Records", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, assert.AnError).Once()
	source.On("Records", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]crm.Record{todayRecord("t1")}, nil).Once()
	source.On("Summary", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(crm.Summary{}, nil)

	session := newTestSession(source)
	session.Refresh(context.Background())
	assert.NotEmpty(t, session.View().Error)

	session.Refresh(context.Background())
	view := session.View()
	assert.Empty(t, view.Error)
	assert.Len(t, view.Transfers, 1)
}

func TestConcurrentFetchIsDropped(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	source := new(MockSource)
	source.On("Records", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			close(started)
			<-release
		}).
		Return([]crm.Record{}, nil)
	source.On("Summary", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(crm.Summary{}, nil)

	session := newTestSession(source)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		session.Refresh(context.Background())
	}()

	<-started
	assert.True(t, session.View().IsLoading)

	// Second trigger while the first fetch is outstanding must be dropped,
	// not queued.
	session.Refresh(context.Background())

	close(release)
	wg.Wait()

	source.AssertNumberOfCalls(t, "Records", 1)
}

func TestSetStatusTriggersRefetch(t *testing.T) {
	source := new(MockSource)
	source.On("Records", mock.Anything, "crm-token", "Completed", mock.Anything, mock.Anything).
		Return([]crm.Record{}, nil).Once()
	source.On("Summary", mock.Anything, "crm-token", "Completed", mock.Anything, mock.Anything).
		Return(crm.Summary{}, nil).Once()

	session := newTestSession(source)
	session.SetStatus(context.Background(), "Completed")

	source.AssertExpectations(t)
}

func TestSetSearchDoesNotRefetch(t *testing.T) {
	source := new(MockSource)

	session := newTestSession(source)
	session.SetSearch("smith")

	source.AssertNumberOfCalls(t, "Records", 0)
	assert.Equal(t, "smith", session.Filters().Search)
}

func TestIncompleteRangeIsNotSentToSource(t *testing.T) {
	source := new(MockSource)
	source.On("Records", mock.Anything, mock.Anything, mock.Anything, (*time.Time)(nil), (*time.Time)(nil)).
		Return([]crm.Record{}, nil).Once()
	source.On("Summary", mock.Anything, mock.Anything, mock.Anything, (*time.Time)(nil), (*time.Time)(nil)).
		Return(crm.Summary{}, nil).Once()

	session := newTestSession(source)
	start := dates.StartOfDay(time.Now())
	session.SetDateRange(context.Background(), &start, nil)

	source.AssertExpectations(t)
}

func seedSession(session *Session, transfers ...models.Transfer) {
	session.mu.Lock()
	session.full = transfers
	session.recomputeLocked()
	session.mu.Unlock()
}

func visibleToday(id string) models.Transfer {
	return models.Transfer{
		ID:     id,
		Date:   dates.FormatDisplayDate(time.Now(), dates.InvalidDateFallback),
		Status: models.StatusPlanned,
	}
}

func TestPaginationClamps(t *testing.T) {
	session := newTestSession(new(MockSource))

	transfers := make([]models.Transfer, 0, PageSize+5)
	for i := 0; i < PageSize+5; i++ {
		transfers = append(transfers, visibleToday(fmt.Sprintf("t%d", i)))
	}
	seedSession(session, transfers...)

	view := session.View()
	assert.Equal(t, 1, view.Page)
	assert.Equal(t, 2, view.TotalPages)
	assert.Len(t, view.Transfers, PageSize)

	session.PreviousPage()
	assert.Equal(t, 1, session.View().Page, "previous at page 1 must be a no-op")

	session.NextPage()
	assert.Equal(t, 2, session.View().Page)
	assert.Len(t, session.View().Transfers, 5)

	session.NextPage()
	assert.Equal(t, 2, session.View().Page, "next at the last page must be a no-op")
}

func TestPageClampedWhenSetShrinks(t *testing.T) {
	session := newTestSession(new(MockSource))

	transfers := make([]models.Transfer, 0, PageSize+1)
	for i := 0; i < PageSize+1; i++ {
		transfers = append(transfers, visibleToday(fmt.Sprintf("t%d", i)))
	}
	seedSession(session, transfers...)
	session.NextPage()
	assert.Equal(t, 2, session.View().Page)

	seedSession(session, transfers[0])
	assert.Equal(t, 1, session.View().Page)
}

func TestViewTransferSelectsFromFullSet(t *testing.T) {
	session := newTestSession(new(MockSource))

	// Dated outside the default window, so it is filtered off the page but
	// still selectable for the detail drawer.
	old := models.Transfer{ID: "t-old", Date: "Jan 2, 1999", Status: models.StatusPlanned}
	seedSession(session, old)

	assert.Empty(t, session.View().Transfers)
	assert.True(t, session.ViewTransfer("t-old"))

	view := session.View()
	assert.NotNil(t, view.Selected)
	assert.Equal(t, "t-old", view.Selected.ID)
	assert.True(t, view.DrawerOpen)
}

func TestViewTransferUnknownID(t *testing.T) {
	session := newTestSession(new(MockSource))
	seedSession(session, visibleToday("t1"))

	assert.False(t, session.ViewTransfer("nope"))
	assert.False(t, session.View().DrawerOpen)
}

func TestMarkCompletedMirrorsIntoSelection(t *testing.T) {
	session := newTestSession(new(MockSource))
	transfer := visibleToday("t1")
	seedSession(session, transfer)

	session.ViewTransfer("t1")
	assert.True(t, session.MarkCompleted("t1"))

	view := session.View()
	assert.Equal(t, models.StatusCompleted, view.Selected.Status)
	assert.Equal(t, models.StatusCompleted, view.Transfers[0].Status)
}

func TestMarkCompletedUnknownID(t *testing.T) {
	session := newTestSession(new(MockSource))
	seedSession(session, visibleToday("t1"))

	assert.False(t, session.MarkCompleted("nope"))
	assert.Equal(t, models.StatusPlanned, session.View().Transfers[0].Status)
}

func TestCloseDrawerKeepsSelection(t *testing.T) {
	session := newTestSession(new(MockSource))
	seedSession(session, visibleToday("t1"))

	session.ViewTransfer("t1")
	session.CloseDrawer()

	view := session.View()
	assert.False(t, view.DrawerOpen)
	assert.NotNil(t, view.Selected)
}
