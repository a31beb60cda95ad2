package store

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/november7/message-search/internal/model"
)

type fakeSource struct {
	msgs []model.Message
	err  error
}

func (f *fakeSource) FetchAll(ctx context.Context) ([]model.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.msgs, nil
}

func testMessages(t *testing.T, n int) []model.Message {
	t.Helper()
	msgs := make([]model.Message, n)
	for i := range msgs {
		raw := fmt.Sprintf(`{"id":%d,"message":"hello %d","timestamp":"2024-01-01T00:00:0%dZ"}`, i+1, i+1, i%10)
		require.NoError(t, json.Unmarshal([]byte(raw), &msgs[i]))
	}
	return msgs
}

func TestLoad_PublishesSnapshotInOrder(t *testing.T) {
	st := New(zerolog.Nop())
	msgs := testMessages(t, 3)

	require.NoError(t, st.Load(context.Background(), &fakeSource{msgs: msgs}))

	assert.True(t, st.Ready())
	assert.Equal(t, 3, st.Len())

	got, err := st.All()
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, m := range got {
		assert.Equal(t, int64(i+1), m.ID)
	}
}

func TestAll_BeforeLoadReturnsNotReady(t *testing.T) {
	st := New(zerolog.Nop())

	_, err := st.All()
	assert.ErrorIs(t, err, model.ErrNotReady)
	assert.False(t, st.Ready())
	assert.Equal(t, 0, st.Len())
}

func TestLoad_FailureLeavesStoreEmpty(t *testing.T) {
	st := New(zerolog.Nop())

	err := st.Load(context.Background(), &fakeSource{err: model.ErrSourceUnavailable})
	require.ErrorIs(t, err, model.ErrSourceUnavailable)

	assert.False(t, st.Ready())
	_, err = st.All()
	assert.ErrorIs(t, err, model.ErrNotReady)
}

func TestLoad_SecondCallRejected(t *testing.T) {
	st := New(zerolog.Nop())
	msgs := testMessages(t, 1)

	require.NoError(t, st.Load(context.Background(), &fakeSource{msgs: msgs}))
	err := st.Load(context.Background(), &fakeSource{msgs: msgs})
	assert.Error(t, err)
	assert.Equal(t, 1, st.Len())
}

func TestLoad_FailureThenSuccessRecovers(t *testing.T) {
	// A failed load leaves the store usable for a later bootstrap retry.
	st := New(zerolog.Nop())

	require.Error(t, st.Load(context.Background(), &fakeSource{err: model.ErrSourceUnavailable}))
	require.NoError(t, st.Load(context.Background(), &fakeSource{msgs: testMessages(t, 2)}))
	assert.Equal(t, 2, st.Len())
}
