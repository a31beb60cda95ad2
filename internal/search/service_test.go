package search

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/november7/message-search/internal/model"
	"github.com/november7/message-search/internal/store"
)

type sliceSource struct {
	msgs []model.Message
}

func (s *sliceSource) FetchAll(ctx context.Context) ([]model.Message, error) {
	return s.msgs, nil
}

func decodeMessage(t *testing.T, raw string) model.Message {
	t.Helper()
	var m model.Message
	require.NoError(t, json.Unmarshal([]byte(raw), &m))
	return m
}

func loadedService(t *testing.T, msgs []model.Message) *Service {
	t.Helper()
	st := store.New(zerolog.Nop())
	require.NoError(t, st.Load(context.Background(), &sliceSource{msgs: msgs}))
	return New(st, 100, zerolog.Nop())
}

// fillerMessages produces n messages whose text avoids the letters used by
// the test queries.
func fillerMessages(t *testing.T, n int) []model.Message {
	t.Helper()
	msgs := make([]model.Message, 0, n)
	for i := 0; i < n; i++ {
		raw := fmt.Sprintf(`{"id":%d,"message":"lorem ipsum","timestamp":"2024-06-01T10:00:00Z"}`, i+1)
		msgs = append(msgs, decodeMessage(t, raw))
	}
	return msgs
}

func TestSearch_EmptyQueryMatchesAll(t *testing.T) {
	svc := loadedService(t, fillerMessages(t, 7))

	page, err := svc.Search("", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 7, page.Total)
	assert.Equal(t, 1, page.TotalPages)
	assert.Len(t, page.Results, 7)
}

func TestSearch_SingleMatchScenario(t *testing.T) {
	msgs := fillerMessages(t, 41)
	msgs = append(msgs, decodeMessage(t, `{"id":42,"message":"This is a test message","timestamp":"2024-06-02T08:30:00Z"}`))
	svc := loadedService(t, msgs)

	page, err := svc.Search("test", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, 1, page.TotalPages)
	require.Len(t, page.Results, 1)
	assert.Equal(t, int64(42), page.Results[0].ID)
	assert.Equal(t, "This is a test message", page.Results[0].Message)
}

func TestSearch_LastPartialPage(t *testing.T) {
	msgs := make([]model.Message, 0, 45)
	for i := 0; i < 45; i++ {
		raw := fmt.Sprintf(`{"id":%d,"message":"all match here","timestamp":"2024-06-01T00:00:00Z"}`, i+1)
		msgs = append(msgs, decodeMessage(t, raw))
	}
	svc := loadedService(t, msgs)

	page, err := svc.Search("a", 3, 20)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Page)
	assert.Equal(t, 45, page.Total)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Results, 5)
	assert.Equal(t, int64(41), page.Results[0].ID)
	assert.Equal(t, int64(45), page.Results[4].ID)
}

func TestSearch_CaseInsensitive(t *testing.T) {
	msgs := fillerMessages(t, 10)
	msgs = append(msgs, decodeMessage(t, `{"id":11,"message":"Deployment FINISHED at dawn","timestamp":"2024-06-03T00:00:00Z"}`))
	svc := loadedService(t, msgs)

	upper, err := svc.Search("FINISHED", 1, 20)
	require.NoError(t, err)
	lower, err := svc.Search("finished", 1, 20)
	require.NoError(t, err)

	assert.Equal(t, upper.Total, lower.Total)
	assert.Equal(t, 1, upper.Total)
	assert.Equal(t, upper.Results[0].ID, lower.Results[0].ID)
}

func TestSearch_MatchesNonMessageFields(t *testing.T) {
	msgs := fillerMessages(t, 3)
	msgs = append(msgs, decodeMessage(t, `{"id":4,"message":"lorem ipsum","timestamp":"2024-06-01T00:00:00Z","sender":"Quartz"}`))
	svc := loadedService(t, msgs)

	page, err := svc.Search("quartz", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, int64(4), page.Results[0].ID)
}

func TestSearch_PaginationCompleteness(t *testing.T) {
	svc := loadedService(t, fillerMessages(t, 53))

	full, err := svc.Search("lorem", 1, 100)
	require.NoError(t, err)
	require.Equal(t, 53, full.Total)

	var collected []int64
	first, err := svc.Search("lorem", 1, 7)
	require.NoError(t, err)
	for p := 1; p <= first.TotalPages; p++ {
		page, err := svc.Search("lorem", p, 7)
		require.NoError(t, err)
		for _, m := range page.Results {
			collected = append(collected, m.ID)
		}
	}

	require.Len(t, collected, 53)
	for i, m := range full.Results {
		assert.Equal(t, m.ID, collected[i])
	}
}

func TestSearch_PageBeyondLastIsEmptyNotError(t *testing.T) {
	svc := loadedService(t, fillerMessages(t, 5))

	page, err := svc.Search("lorem", 4, 20)
	require.NoError(t, err)
	assert.Empty(t, page.Results)
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, 1, page.TotalPages)
}

func TestSearch_NoMatchesZeroTotalPages(t *testing.T) {
	svc := loadedService(t, fillerMessages(t, 5))

	page, err := svc.Search("zzz-no-such-token", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 0, page.Total)
	assert.Equal(t, 0, page.TotalPages)
	assert.Empty(t, page.Results)
}

func TestSearch_Deterministic(t *testing.T) {
	svc := loadedService(t, fillerMessages(t, 30))

	a, err := svc.Search("lorem", 2, 10)
	require.NoError(t, err)
	b, err := svc.Search("lorem", 2, 10)
	require.NoError(t, err)

	aJSON, err := json.Marshal(a)
	require.NoError(t, err)
	bJSON, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Equal(t, aJSON, bJSON)
}

func TestSearch_InvalidParameters(t *testing.T) {
	svc := loadedService(t, fillerMessages(t, 5))

	_, err := svc.Search("x", 0, 20)
	assert.ErrorIs(t, err, model.ErrInvalidParameter)

	_, err = svc.Search("x", -3, 20)
	assert.ErrorIs(t, err, model.ErrInvalidParameter)

	_, err = svc.Search("x", 1, 0)
	assert.ErrorIs(t, err, model.ErrInvalidParameter)
}

func TestSearch_PageSizeClampedToMax(t *testing.T) {
	svc := loadedService(t, fillerMessages(t, 5))

	page, err := svc.Search("", 1, 5000)
	require.NoError(t, err)
	assert.Equal(t, 100, page.PageSize)
	assert.Len(t, page.Results, 5)
}

func TestSearch_NotReadyStore(t *testing.T) {
	st := store.New(zerolog.Nop())
	svc := New(st, 100, zerolog.Nop())

	_, err := svc.Search("x", 1, 20)
	assert.ErrorIs(t, err, model.ErrNotReady)
}
