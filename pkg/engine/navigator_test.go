package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvanceUsesNextWeekArrow(t *testing.T) {
	cfg := testConfig()
	page := newFakePage(cfg,
		fakeView{nextEnabled: true},
		fakeView{},
	)
	navigator := NewWeekNavigator(page.sel, 0, 3)

	advanced, err := navigator.Advance(context.Background(), page)
	require.NoError(t, err)
	assert.True(t, advanced)
	assert.Equal(t, 1, navigator.Week())
	assert.Equal(t, 1, page.viewIndex)
	assert.False(t, navigator.Exhausted())
}

func TestAdvanceFallsBackToPreviousWeekArrow(t *testing.T) {
	cfg := testConfig()
	page := newFakePage(cfg,
		fakeView{prevEnabled: true},
		fakeView{},
	)
	navigator := NewWeekNavigator(page.sel, 0, 3)

	advanced, err := navigator.Advance(context.Background(), page)
	require.NoError(t, err)
	assert.True(t, advanced)
	// the week counter counts attempts, not calendar direction
	assert.Equal(t, 1, navigator.Week())
}

func TestAdvanceFallsBackToMonthPicker(t *testing.T) {
	cfg := testConfig()
	page := newFakePage(cfg,
		fakeView{monthPresent: true, monthNext: true},
		fakeView{},
	)
	navigator := NewWeekNavigator(page.sel, 0, 3)

	advanced, err := navigator.Advance(context.Background(), page)
	require.NoError(t, err)
	assert.True(t, advanced)
	assert.Equal(t, 1, page.viewIndex)
}

func TestAdvanceDeadEndExhausts(t *testing.T) {
	cfg := testConfig()
	page := newFakePage(cfg, fakeView{monthPresent: true, monthNext: false})
	navigator := NewWeekNavigator(page.sel, 0, 3)

	advanced, err := navigator.Advance(context.Background(), page)
	require.NoError(t, err)
	assert.False(t, advanced)
	assert.True(t, navigator.Exhausted())

	// exhausted is terminal even if the widget changes its mind
	page.views[0].nextEnabled = true
	advanced, err = navigator.Advance(context.Background(), page)
	require.NoError(t, err)
	assert.False(t, advanced)
}

func TestAdvanceCeilingForcesExhaustion(t *testing.T) {
	cfg := testConfig()
	// a cyclic calendar whose next arrow always claims to be enabled
	page := newFakePage(cfg, fakeView{nextEnabled: true})
	navigator := NewWeekNavigator(page.sel, 0, 3)

	advances := 0
	for {
		advanced, err := navigator.Advance(context.Background(), page)
		require.NoError(t, err)
		if !advanced {
			break
		}
		advances++
		require.LessOrEqual(t, advances, 10, "navigator failed to terminate")
	}
	assert.Equal(t, 2, advances)
	assert.Equal(t, 3, navigator.WeeksVisited())
	assert.True(t, navigator.Exhausted())
}

func TestAdvancePropagatesCancellation(t *testing.T) {
	cfg := testConfig()
	page := newFakePage(cfg, fakeView{nextEnabled: true}, fakeView{})
	navigator := NewWeekNavigator(page.sel, 0, 5)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := navigator.Advance(ctx, page)
	assert.ErrorIs(t, err, context.Canceled)
}
