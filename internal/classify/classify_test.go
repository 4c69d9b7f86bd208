package classify

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"txmirror/internal/domain"
	"txmirror/internal/process/purchase"
)

type mockMetrics struct {
	mock.Mock
}

func (m *mockMetrics) TransitionRecorded(process, transition string) {
	m.Called(process, transition)
}

func (m *mockMetrics) UnknownTransition(process, transition string) {
	m.Called(process, transition)
}

func (m *mockMetrics) InvalidTransition(process, state, transition string) {
	m.Called(process, state, transition)
}

const unknown domain.Transition = "transition/refund-by-operator"

func TestClassify_Known(t *testing.T) {
	c := New(purchase.Process, slogt.New(t), nil)

	got, err := c.Classify(purchase.ConfirmPayment)
	require.NoError(t, err)
	assert.Equal(t, Classification{
		Transition:             purchase.ConfirmPayment,
		State:                  purchase.StatePurchased,
		Relevant:               true,
		NeedsProviderAttention: true,
	}, got)

	got, err = c.Classify(purchase.Decline)
	require.NoError(t, err)
	assert.Equal(t, purchase.StateDeclined, got.State)
	assert.True(t, got.Refunded)
	assert.True(t, got.Relevant)
	assert.False(t, got.Completed)

	got, err = c.Classify(purchase.Review1ByCustomer)
	require.NoError(t, err)
	assert.True(t, got.CustomerReview)
	assert.True(t, got.Completed)
	assert.False(t, got.ProviderReview)
}

func TestClassify_TotalOverVocabulary(t *testing.T) {
	m := new(mockMetrics)
	c := New(purchase.Process, slogt.New(t), m)

	for _, tr := range purchase.Process.Transitions() {
		got, err := c.Classify(tr)
		require.NoError(t, err, "%s", tr)
		assert.NotEmpty(t, got.State, "%s", tr)
	}
	// No unknown reports for the vocabulary itself.
	m.AssertNotCalled(t, "UnknownTransition", mock.Anything, mock.Anything)
}

func TestClassify_UnknownIsReported(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	m := new(mockMetrics)
	m.On("UnknownTransition", string(purchase.Alias), string(unknown)).Return()

	c := New(purchase.Process, logger, m)

	got, err := c.Classify(unknown)
	var unknownErr *domain.UnknownTransitionError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, unknown, unknownErr.Transition)
	assert.Equal(t, Classification{Transition: unknown}, got)

	m.AssertNumberOfCalls(t, "UnknownTransition", 1)
	assert.Contains(t, buf.String(), "unknown transition")
	assert.Contains(t, buf.String(), string(unknown))
	assert.Contains(t, buf.String(), string(purchase.Alias))
}

func TestPredicates_SafeDefaults(t *testing.T) {
	m := new(mockMetrics)
	m.On("UnknownTransition", string(purchase.Alias), string(unknown)).Return()
	c := New(purchase.Process, slogt.New(t), m)

	assert.False(t, c.IsRelevantPastTransition(unknown))
	assert.False(t, c.IsCustomerReview(unknown))
	assert.False(t, c.IsProviderReview(unknown))
	assert.False(t, c.IsPrivileged(unknown))
	assert.False(t, c.IsCompleted(unknown))
	assert.False(t, c.IsRefunded(unknown))

	m.AssertNumberOfCalls(t, "UnknownTransition", 6)
}

func TestPredicates_Known(t *testing.T) {
	c := New(purchase.Process, slogt.New(t), nil)

	assert.True(t, c.IsCompleted(purchase.Review1ByCustomer))
	assert.False(t, c.IsCompleted(purchase.Decline))
	assert.True(t, c.IsRefunded(purchase.ExpirePayment))
	assert.False(t, c.IsRefunded(purchase.Complete))
	assert.True(t, c.IsPrivileged(purchase.RequestPayment))
	assert.False(t, c.IsPrivileged(purchase.Accept))
	assert.True(t, c.IsCustomerReview(purchase.Review1ByCustomer))
	assert.False(t, c.IsProviderReview(purchase.Review1ByCustomer))
	assert.True(t, c.IsRelevantPastTransition(purchase.Accept))
	assert.False(t, c.IsRelevantPastTransition(purchase.Expire))
}

func TestRoute(t *testing.T) {
	c := New(purchase.Process, nil, nil)

	route, err := c.Route(purchase.RequestPayment)
	require.NoError(t, err)
	assert.Equal(t, RoutePrivileged, route)

	route, err = c.Route(purchase.RequestPaymentAfterInquiry)
	require.NoError(t, err)
	assert.Equal(t, RoutePrivileged, route)

	route, err = c.Route(purchase.Accept)
	require.NoError(t, err)
	assert.Equal(t, RouteSDK, route)

	_, err = c.Route(unknown)
	assert.Error(t, err)
}

func TestRelevantHistory(t *testing.T) {
	c := New(purchase.Process, slogt.New(t), nil)

	tx := domain.NewTransaction("T1", purchase.Alias)
	tx.Record(purchase.RequestPayment, purchase.StateInitial, purchase.StatePendingPayment)
	tx.Record(purchase.ConfirmPayment, purchase.StatePendingPayment, purchase.StatePurchased)
	tx.Record(purchase.Accept, purchase.StatePurchased, purchase.StateAccepted)
	tx.Record(unknown, purchase.StateAccepted, "")

	got := c.RelevantHistory(tx)
	require.Len(t, got, 2)
	assert.Equal(t, purchase.ConfirmPayment, got[0].Transition)
	assert.Equal(t, purchase.Accept, got[1].Transition)
}
