package http

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/fjod/pos_terminal/internal/backend"
	"github.com/fjod/pos_terminal/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRefundsAPI struct {
	created     *domain.RefundReturn
	createErr   error
	transitions []string
}

func (f *fakeRefundsAPI) CreateRefundReturn(_ context.Context, req domain.RefundReturnRequest) (*domain.RefundReturn, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.created, nil
}

func (f *fakeRefundsAPI) TransitionRefundReturn(_ context.Context, id, action string) error {
	switch action {
	case "approve", "reject", "process", "cancel":
	default:
		return backend.ErrUnknownTransition
	}
	f.transitions = append(f.transitions, id+":"+action)
	return nil
}

func refundsRouter(api RefundsAPI) http.Handler {
	return NewRouter(RouterConfig{
		Refunds:        api,
		RequestTimeout: 5 * time.Second,
	})
}

func refundRequest() domain.RefundReturnRequest {
	return domain.RefundReturnRequest{
		SaleID:          "s-1",
		TransactionType: domain.TransactionReturn,
		ReasonCategory:  "defective",
		Items:           []domain.RefundReturnItem{{SaleItemID: "i-1", QuantityReturned: 1, ItemCondition: "damaged"}},
		RestockingFee:   500,
	}
}

func TestCreateRefundReturn(t *testing.T) {
	api := &fakeRefundsAPI{created: &domain.RefundReturn{ID: "rr-1", Status: "pending"}}
	router := refundsRouter(api)

	recorder := doJSON(t, router, http.MethodPost, "/api/v1/refund-returns/", refundRequest())
	require.Equal(t, http.StatusCreated, recorder.Code)

	var created domain.RefundReturn
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&created))
	assert.Equal(t, "rr-1", created.ID)
}

func TestCreateRefundReturn_Invalid(t *testing.T) {
	router := refundsRouter(&fakeRefundsAPI{})

	missing := refundRequest()
	missing.SaleID = ""
	recorder := doJSON(t, router, http.MethodPost, "/api/v1/refund-returns/", missing)
	require.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "invalid_sale_id", decodeError(t, recorder).Code)

	noItems := refundRequest()
	noItems.Items = nil
	recorder = doJSON(t, router, http.MethodPost, "/api/v1/refund-returns/", noItems)
	require.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "invalid_items", decodeError(t, recorder).Code)

	negativeFee := refundRequest()
	negativeFee.RestockingFee = -1
	recorder = doJSON(t, router, http.MethodPost, "/api/v1/refund-returns/", negativeFee)
	require.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "invalid_restocking_fee", decodeError(t, recorder).Code)
}

func TestTransitionRefundReturn(t *testing.T) {
	api := &fakeRefundsAPI{}
	router := refundsRouter(api)

	recorder := doJSON(t, router, http.MethodPut, "/api/v1/refund-returns/rr-1/approve", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, []string{"rr-1:approve"}, api.transitions)

	recorder = doJSON(t, router, http.MethodPut, "/api/v1/refund-returns/rr-1/escalate", nil)
	require.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "unknown_transition", decodeError(t, recorder).Code)
}
