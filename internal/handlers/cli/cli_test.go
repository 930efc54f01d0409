package cli

import (
	"context"
	"os"
	"testing"

	"github.com/openloot/packtrace/internal/mintresolve"
	"github.com/openloot/packtrace/internal/pkg/logger"
	"github.com/openloot/packtrace/internal/purchase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	// Initialize logger for tests to prevent nil pointer dereference
	_ = logger.Init(logger.WithLevel("error"))
}

type serviceMock struct {
	mock.Mock

	machine *purchase.Machine
}

var _ purchase.Service = (*serviceMock)(nil)

func newServiceMock() *serviceMock {
	return &serviceMock{machine: purchase.NewMachine()}
}

func (m *serviceMock) Buy(ctx context.Context, method purchase.PaymentMethod) ([]mintresolve.CatalogItem, error) {
	args := m.Called(ctx, method)
	if items := args.Get(0); items != nil {
		return items.([]mintresolve.CatalogItem), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *serviceMock) ResolveTransaction(ctx context.Context, txHash string) ([]mintresolve.CatalogItem, error) {
	args := m.Called(ctx, txHash)
	if items := args.Get(0); items != nil {
		return items.([]mintresolve.CatalogItem), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *serviceMock) Acknowledge(ctx context.Context) bool {
	return m.Called(ctx).Bool(0)
}

func (m *serviceMock) History(ctx context.Context, limit int) ([]purchase.AttemptRecord, error) {
	args := m.Called(ctx, limit)
	if records := args.Get(0); records != nil {
		return records.([]purchase.AttemptRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *serviceMock) Machine() *purchase.Machine {
	return m.machine
}

func TestRun(t *testing.T) {
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
	}()

	t.Run("help runs without touching the service", func(t *testing.T) {
		svc := newServiceMock()

		os.Args = []string{"packtrace", "--help"}

		err := Run(t.Context(), svc)

		assert.NoError(t, err)
		svc.AssertNotCalled(t, "Buy", mock.Anything, mock.Anything)
	})

	t.Run("buy defaults to the primary payment method", func(t *testing.T) {
		svc := newServiceMock()
		svc.On("Buy", mock.Anything, purchase.PaymentPrimary).
			Return([]mintresolve.CatalogItem{{ID: 101, DisplayName: "emberling"}}, nil).
			Once()
		svc.On("Acknowledge", mock.Anything).Return(true).Once()

		os.Args = []string{"packtrace", "buy"}

		err := Run(t.Context(), svc)

		assert.NoError(t, err)
		svc.AssertExpectations(t)
	})

	t.Run("buy forwards the selected payment method", func(t *testing.T) {
		svc := newServiceMock()
		svc.On("Buy", mock.Anything, purchase.PaymentSecondary).
			Return([]mintresolve.CatalogItem{{ID: 101, DisplayName: "emberling"}}, nil).
			Once()
		svc.On("Acknowledge", mock.Anything).Return(true).Once()

		os.Args = []string{"packtrace", "buy", "--payment", "secondary"}

		err := Run(t.Context(), svc)

		assert.NoError(t, err)
		svc.AssertExpectations(t)
	})

	t.Run("buy surfaces purchase failures and still acknowledges", func(t *testing.T) {
		svc := newServiceMock()
		svc.On("Buy", mock.Anything, purchase.PaymentPrimary).
			Return(nil, purchase.ErrWalletRejected).
			Once()
		svc.On("Acknowledge", mock.Anything).Return(true).Once()

		os.Args = []string{"packtrace", "buy"}

		err := Run(t.Context(), svc)

		require.Error(t, err)
		assert.ErrorIs(t, err, purchase.ErrWalletRejected)
		svc.AssertExpectations(t)
	})

	t.Run("resolve requires the transaction hash flag", func(t *testing.T) {
		svc := newServiceMock()

		os.Args = []string{"packtrace", "resolve"}

		err := Run(t.Context(), svc)

		assert.Error(t, err)
		svc.AssertNotCalled(t, "ResolveTransaction", mock.Anything, mock.Anything)
	})

	t.Run("resolve forwards the transaction hash", func(t *testing.T) {
		svc := newServiceMock()
		svc.On("ResolveTransaction", mock.Anything, "0xabc123").
			Return([]mintresolve.CatalogItem{{ID: 42, DisplayName: "sproutling"}}, nil).
			Once()

		os.Args = []string{"packtrace", "resolve", "--tx", "0xabc123"}

		err := Run(t.Context(), svc)

		assert.NoError(t, err)
		svc.AssertExpectations(t)
	})

	t.Run("resolve surfaces resolution failures", func(t *testing.T) {
		svc := newServiceMock()
		svc.On("ResolveTransaction", mock.Anything, "0xabc123").
			Return(nil, mintresolve.ErrResolutionFailed).
			Once()

		os.Args = []string{"packtrace", "resolve", "--tx", "0xabc123"}

		err := Run(t.Context(), svc)

		assert.ErrorIs(t, err, mintresolve.ErrResolutionFailed)
	})

	t.Run("history uses the default limit", func(t *testing.T) {
		svc := newServiceMock()
		svc.On("History", mock.Anything, 10).
			Return([]purchase.AttemptRecord{}, nil).
			Once()

		os.Args = []string{"packtrace", "history"}

		err := Run(t.Context(), svc)

		assert.NoError(t, err)
		svc.AssertExpectations(t)
	})

	t.Run("history forwards a custom limit", func(t *testing.T) {
		svc := newServiceMock()
		svc.On("History", mock.Anything, 3).
			Return([]purchase.AttemptRecord{
				{AttemptID: "a1", Outcome: "succeeded", TxHash: "0xabc", ItemIDs: []int64{101}},
				{AttemptID: "a2", Outcome: "failed", FailureReason: "wallet rejected the transaction"},
			}, nil).
			Once()

		os.Args = []string{"packtrace", "history", "--limit", "3"}

		err := Run(t.Context(), svc)

		assert.NoError(t, err)
		svc.AssertExpectations(t)
	})
}
