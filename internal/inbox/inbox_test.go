package inbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"txmirror/internal/domain"
	"txmirror/internal/process"
	"txmirror/internal/process/purchase"
)

func newTestFilter(t *testing.T) *Filter {
	t.Helper()
	reg, err := process.NewRegistry(purchase.Process)
	require.NoError(t, err)
	return New(reg)
}

func txWith(id string, alias domain.ProcessAlias, last domain.Transition) *domain.Transaction {
	tx := domain.NewTransaction(id, alias)
	if last != "" {
		tx.Record(last, "", "")
	}
	return tx
}

func TestStandardQuery(t *testing.T) {
	f := newTestFilter(t)

	q, err := f.StandardQuery(StatusAll)
	require.NoError(t, err)
	assert.Len(t, q.LastTransitions, len(purchase.Process.Transitions()))

	q, err = f.StandardQuery(StatusInquiries)
	require.NoError(t, err)
	assert.Equal(t, []domain.Transition{purchase.Inquire}, q.LastTransitions)

	q, err = f.StandardQuery(StatusFulfilled)
	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.Transition{
		purchase.Complete,
		purchase.CompleteAfterReportAProblem,
		purchase.Review1ByCustomer,
		purchase.ExpireReviewPeriod,
	}, q.LastTransitions)

	q, err = f.StandardQuery(StatusPaymentExpired)
	require.NoError(t, err)
	assert.Equal(t, []domain.Transition{purchase.ExpirePayment}, q.LastTransitions)

	q, err = f.StandardQuery(StatusUnfulfilled)
	require.NoError(t, err)
	assert.Len(t, q.LastTransitions, len(purchase.Process.Transitions())-5)
	assert.NotContains(t, q.LastTransitions, purchase.Inquire)
	assert.NotContains(t, q.LastTransitions, purchase.Complete)
	assert.Contains(t, q.LastTransitions, purchase.Accept)

	q, err = f.StandardQuery(StatusAttention)
	require.NoError(t, err)
	assert.True(t, q.NeedsProviderAttention)

	_, err = f.StandardQuery("archived")
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestUnfulfilledDoesNotMutateFulfilled(t *testing.T) {
	f := newTestFilter(t)
	before := append([]domain.Transition(nil), purchase.FulfilledTransitions...)

	_, err := f.StandardQuery(StatusUnfulfilled)
	require.NoError(t, err)
	assert.Equal(t, before, purchase.FulfilledTransitions)
}

func TestHotelQuery(t *testing.T) {
	f := newTestFilter(t)

	q, err := f.HotelQuery(StatusApplications)
	require.NoError(t, err)
	assert.Equal(t, []string{NegotiationProcessName}, q.ProcessNames)

	q, err = f.HotelQuery(StatusCreatorOutreach)
	require.NoError(t, err)
	assert.Equal(t, []string{PurchaseProcessName}, q.ProcessNames)

	_, err = f.HotelQuery(StatusAll)
	assert.Error(t, err)
}

func TestQuery_EveryStatus(t *testing.T) {
	f := newTestFilter(t)
	for _, status := range Statuses() {
		_, err := f.Query(status)
		assert.NoError(t, err, status)
	}
	_, err := f.Query("nope")
	assert.Error(t, err)
}

func TestMatch(t *testing.T) {
	f := newTestFilter(t)

	purchased := txWith("T1", purchase.Alias, purchase.ConfirmPayment)
	inquiry := txWith("T2", purchase.Alias, purchase.Inquire)
	done := txWith("T3", purchase.Alias, purchase.Review1ByCustomer)
	negotiation := txWith("T4", "default-negotiation/release-1", "transition/make-offer")
	drifted := txWith("T5", purchase.Alias, "transition/refund-by-operator")

	tests := []struct {
		status string
		tx     *domain.Transaction
		want   bool
	}{
		{StatusAll, purchased, true},
		{StatusAll, drifted, false},
		{StatusInquiries, inquiry, true},
		{StatusInquiries, purchased, false},
		{StatusFulfilled, done, true},
		{StatusFulfilled, purchased, false},
		{StatusUnfulfilled, purchased, true},
		{StatusUnfulfilled, inquiry, false},
		{StatusUnfulfilled, done, false},
		{StatusAttention, purchased, true},
		{StatusAttention, inquiry, false},
		{StatusAttention, negotiation, false},
		{StatusAttention, drifted, false},
		{StatusApplications, negotiation, true},
		{StatusApplications, purchased, false},
		{StatusCreatorOutreach, purchased, true},
		{StatusCreatorOutreach, negotiation, false},
	}

	for _, tt := range tests {
		t.Run(tt.status+"/"+tt.tx.ID, func(t *testing.T) {
			q, err := f.Query(tt.status)
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Match(q, tt.tx))
		})
	}
}

func TestSelect(t *testing.T) {
	f := newTestFilter(t)

	txs := []*domain.Transaction{
		txWith("T1", purchase.Alias, purchase.ConfirmPayment),
		txWith("T2", purchase.Alias, purchase.Accept),
		txWith("T3", purchase.Alias, purchase.ConfirmPayment),
	}
	q, err := f.Query(StatusAttention)
	require.NoError(t, err)

	got := f.Select(q, txs)
	require.Len(t, got, 2)
	assert.Equal(t, "T1", got[0].ID)
	assert.Equal(t, "T3", got[1].ID)
}
