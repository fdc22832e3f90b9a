package admin

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockDeleter struct {
	mock.Mock
}

func (m *mockDeleter) Delete(ctx context.Context, kind EntityKind, id string) error {
	args := m.Called(ctx, kind, id)
	return args.Error(0)
}

func TestDeleteWorkflow_RequestAndCancel(t *testing.T) {
	deleter := &mockDeleter{}
	w := NewDeleteWorkflow(deleter)

	_, ok := w.Pending()
	assert.False(t, ok)

	w.Request(KindGroup, "g1", "🍔 Food")
	pending, ok := w.Pending()
	require.True(t, ok)
	assert.Equal(t, PendingDelete{Kind: KindGroup, ID: "g1", Label: "🍔 Food"}, pending)

	w.Cancel()
	_, ok = w.Pending()
	assert.False(t, ok)
	deleter.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteWorkflow_SecondRequestReplacesFirst(t *testing.T) {
	deleter := &mockDeleter{}
	deleter.On("Delete", mock.Anything, KindCategory, "y").Return(nil).Once()

	w := NewDeleteWorkflow(deleter)
	w.Request(KindCategory, "x", "X")
	w.Request(KindCategory, "y", "Y")

	deleted, err := w.Confirm(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PendingDelete{Kind: KindCategory, ID: "y", Label: "Y"}, deleted)
	deleter.AssertExpectations(t)
	deleter.AssertNotCalled(t, "Delete", mock.Anything, KindCategory, "x")
}

func TestDeleteWorkflow_FailureStillReturnsToIdle(t *testing.T) {
	deleter := &mockDeleter{}
	deleter.On("Delete", mock.Anything, KindCurrency, "c1").Return(errors.New("conflict")).Once()

	w := NewDeleteWorkflow(deleter)
	w.Request(KindCurrency, "c1", "USD")

	target, err := w.Confirm(context.Background())
	assert.EqualError(t, err, "conflict")
	assert.Equal(t, "c1", target.ID)
	_, ok := w.Pending()
	assert.False(t, ok)
}

func TestDeleteWorkflow_ConfirmWhenIdle(t *testing.T) {
	w := NewDeleteWorkflow(&mockDeleter{})
	_, err := w.Confirm(context.Background())
	assert.ErrorIs(t, err, ErrNothingPending)
}

func TestDeleteWorkflow_ConfirmReportsConsumedTarget(t *testing.T) {
	deleter := &mockDeleter{}
	started := make(chan struct{})
	release := make(chan struct{})
	deleter.On("Delete", mock.Anything, KindGroup, "g1").
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(nil).Once()

	w := NewDeleteWorkflow(deleter)
	w.Request(KindGroup, "g1", "🍔 Food")

	type result struct {
		target PendingDelete
		err    error
	}
	done := make(chan result, 1)
	go func() {
		target, err := w.Confirm(context.Background())
		done <- result{target, err}
	}()

	<-started
	w.Request(KindGroup, "g2", "🏠 Home")
	close(release)

	res := <-done
	require.NoError(t, res.err)
	assert.Equal(t, PendingDelete{Kind: KindGroup, ID: "g1", Label: "🍔 Food"}, res.target)

	pending, ok := w.Pending()
	require.True(t, ok)
	assert.Equal(t, "g2", pending.ID)
	deleter.AssertNotCalled(t, "Delete", mock.Anything, KindGroup, "g2")
}
