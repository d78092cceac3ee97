package throttle

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/fjod/pos_terminal/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSalesAPI struct {
	m          sync.Mutex
	sales      []domain.Sale
	listErr    error
	confirmed  []string
	confirmErr map[string]error
}

func (m *mockSalesAPI) ListSales(context.Context, string) ([]domain.Sale, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]domain.Sale(nil), m.sales...), nil
}

func (m *mockSalesAPI) ConfirmSale(_ context.Context, saleID string) error {
	m.m.Lock()
	defer m.m.Unlock()
	if err, ok := m.confirmErr[saleID]; ok {
		return err
	}
	m.confirmed = append(m.confirmed, saleID)
	// confirmed drafts disappear from the next listing
	for i := range m.sales {
		if m.sales[i].ID == saleID {
			m.sales[i].InvoiceStatus = domain.InvoiceStatusConfirmed
		}
	}
	return nil
}

func (m *mockSalesAPI) confirmedIDs() []string {
	m.m.Lock()
	defer m.m.Unlock()
	return append([]string(nil), m.confirmed...)
}

func draft(id string) domain.Sale {
	return domain.Sale{ID: id, InvoiceStatus: domain.InvoiceStatusDraft}
}

func confirmed(id string) domain.Sale {
	return domain.Sale{ID: id, InvoiceStatus: domain.InvoiceStatusConfirmed}
}

func TestRefresh_NoDrafts_StaysIdle(t *testing.T) {
	api := &mockSalesAPI{sales: []domain.Sale{confirmed("s1"), confirmed("s2")}}
	sut := New(api, "store-1", 0)

	sales, err := sut.Refresh(context.Background())
	require.NoError(t, err)
	assert.Len(t, sales, 2)
	assert.Equal(t, StateIdle, sut.State())
	assert.Empty(t, api.confirmedIDs())
}

func TestRefresh_AtThreshold_ConfirmsAllInOrder(t *testing.T) {
	// exactly 2 drafts: both auto-confirmed, back to idle
	api := &mockSalesAPI{sales: []domain.Sale{draft("d1"), confirmed("s1"), draft("d2")}}
	sut := New(api, "store-1", 0)

	sales, err := sut.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"d1", "d2"}, api.confirmedIDs(), "fetched list order must be preserved")
	assert.Equal(t, StateIdle, sut.State())
	assert.Equal(t, 0, sut.DraftCount())

	// the returned list is the post-confirmation refresh
	for _, s := range sales {
		assert.False(t, s.IsDraft())
	}

	results := sut.LastResults()
	require.Len(t, results, 2)
	for _, r := range results {
		assert.NoError(t, r.Err)
	}
}

func TestRefresh_AboveThreshold_SuspendsWithoutCalls(t *testing.T) {
	// exactly 3 drafts: suspended, zero confirmation calls
	api := &mockSalesAPI{sales: []domain.Sale{draft("d1"), draft("d2"), draft("d3")}}
	sut := New(api, "store-1", 0)

	_, err := sut.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateSuspended, sut.State())
	assert.Equal(t, 3, sut.DraftCount())
	assert.Empty(t, api.confirmedIDs())

	warning, ok := sut.Warning()
	require.True(t, ok)
	assert.Contains(t, warning, "3 draft sales")
}

func TestRefresh_SuspensionLiftsWhenCountDrops(t *testing.T) {
	api := &mockSalesAPI{sales: []domain.Sale{draft("d1"), draft("d2"), draft("d3")}}
	sut := New(api, "store-1", 0)

	_, err := sut.Refresh(context.Background())
	require.NoError(t, err)
	require.Equal(t, StateSuspended, sut.State())

	// user confirms one draft manually; the next refresh is back at the
	// threshold and auto-confirms the rest
	require.NoError(t, sut.ConfirmManual(context.Background(), "d1"))

	_, err = sut.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateIdle, sut.State())
	assert.ElementsMatch(t, []string{"d1", "d2", "d3"}, api.confirmedIDs())

	_, ok := sut.Warning()
	assert.False(t, ok)
}

func TestRefresh_BatchFailureIsBestEffort(t *testing.T) {
	api := &mockSalesAPI{
		sales:      []domain.Sale{draft("d1"), draft("d2")},
		confirmErr: map[string]error{"d1": fmt.Errorf("rate limited")},
	}
	sut := New(api, "store-1", 0)

	_, err := sut.Refresh(context.Background())
	require.NoError(t, err)

	// d1 failed but d2 was still attempted
	assert.Equal(t, []string{"d2"}, api.confirmedIDs())
	results := sut.LastResults()
	require.Len(t, results, 2)
	assert.ErrorContains(t, results[0].Err, "rate limited")
	assert.NoError(t, results[1].Err)
	assert.Equal(t, StateIdle, sut.State())
}

func TestRefresh_ListError_LeavesStateAlone(t *testing.T) {
	api := &mockSalesAPI{listErr: fmt.Errorf("backend down")}
	sut := New(api, "store-1", 0)

	_, err := sut.Refresh(context.Background())
	require.ErrorContains(t, err, "backend down")
	assert.Equal(t, StateIdle, sut.State())
}

func TestConfirmManual_AllowedWhileSuspended(t *testing.T) {
	api := &mockSalesAPI{sales: []domain.Sale{draft("d1"), draft("d2"), draft("d3")}}
	sut := New(api, "store-1", 0)

	_, err := sut.Refresh(context.Background())
	require.NoError(t, err)
	require.Equal(t, StateSuspended, sut.State())

	require.NoError(t, sut.ConfirmManual(context.Background(), "d2"))
	assert.Equal(t, []string{"d2"}, api.confirmedIDs())
}

func TestRun_PollsUntilCancelled(t *testing.T) {
	api := &mockSalesAPI{sales: []domain.Sale{draft("d1")}}
	sut := New(api, "store-1", 0)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sut.Run(ctx, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		return len(api.confirmedIDs()) == 1
	}, time.Second, 10*time.Millisecond, "poller did not confirm the draft")
	cancel()
}
