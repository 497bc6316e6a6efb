package testfixtures

import (
	"context"
	"testing"

	"github.com/reportu/reportu/internal/intake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockLoader(t *testing.T) {
	feed := FeedWithReports()
	loader := NewMockLoader(feed)

	got, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Same(t, feed, got)

	loader.SetError(ErrFeedUnavailable)
	_, err = loader.Load(context.Background())
	assert.ErrorIs(t, err, ErrFeedUnavailable)

	loader.SetError(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = loader.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, 3, loader.Calls())
}

func TestFeedWithReports(t *testing.T) {
	feed := FeedWithReports()

	recent := feed.Recent(0)
	require.Len(t, recent, 3)
	assert.Equal(t, "REP-000003", recent[0].Reference)
	assert.Equal(t, intake.StatusPending, recent[0].Status)

	successes := feed.Successes(0)
	require.Len(t, successes, 1)
	assert.Equal(t, "REP-000001", successes[0].Reference)
	assert.Equal(t, "Goods seized, vendor fined", successes[0].Outcome)
}
