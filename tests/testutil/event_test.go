package testutil

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEventHandler_RecordsEvents(t *testing.T) {
	handler := NewMockEventHandler("occurrence.went_live")

	evt := NewTestEvent("occurrence.went_live")
	require.NoError(t, handler.Handle(context.Background(), evt))

	assert.Equal(t, 1, handler.HandledCount())
	assert.Equal(t, evt.EventID(), handler.Handled()[0].EventID())
}

func TestMockEventHandler_ReturnsConfiguredError(t *testing.T) {
	handler := NewMockEventHandler()
	handler.SetError(errors.New("broker down"))

	err := handler.Handle(context.Background(), NewTestEvent("event.created"))
	assert.Error(t, err)

	handler.Reset()
	assert.Equal(t, 0, handler.HandledCount())
	assert.NoError(t, handler.Handle(context.Background(), NewTestEvent("event.created")))
}

func TestWaitForEventCount(t *testing.T) {
	handler := NewMockEventHandler()

	go func() {
		time.Sleep(10 * time.Millisecond)
		handler.Handle(context.Background(), NewTestEvent("vote.cast"))
		handler.Handle(context.Background(), NewTestEvent("vote.cast"))
	}()

	assert.True(t, WaitForEventCount(t, handler, 2, time.Second))
}
