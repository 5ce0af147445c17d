package coordinator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arenarium/mapmarkers/internal/engine"
	"github.com/arenarium/mapmarkers/internal/engine/headless"
	"github.com/arenarium/mapmarkers/internal/geo"
	"github.com/arenarium/mapmarkers/internal/marker"
	"github.com/arenarium/mapmarkers/internal/selection"
)

func newHeadless(t *testing.T, settings Settings) (Coordinator, *headless.Engine) {
	t.Helper()

	eng := headless.New(headless.WithPuller(
		engine.NewBodyPuller(engine.WithRetry(time.Millisecond, 5*time.Millisecond, time.Second)),
	))
	c, err := New(eng, settings)
	require.NoError(t, err)
	return c, eng
}

func settle(t *testing.T, eng *headless.Engine) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, eng.Settle(ctx))
}

func TestScenario_TooltipThenBackground(t *testing.T) {
	t.Parallel()

	c, eng := newHeadless(t, testSettings(4, 4))

	res, err := c.TriggerUpdate(context.Background())
	require.NoError(t, err)
	require.Equal(t, 4, res.Markers)
	settle(t, eng)

	snap := eng.Snapshot()
	require.Len(t, snap.Markers, 4)
	for _, m := range snap.Markers {
		assert.True(t, m.Ready, "marker %s not fully resolved", m.ID)
		assert.Equal(t, m.ID, m.Tooltip)
	}

	eng.ResetCommands()
	require.NoError(t, eng.ClickTooltip(context.Background(), "2"))
	assert.Equal(t, selection.Shown("2"), c.Selection())
	assert.Equal(t, "2", eng.Snapshot().Popup)

	eng.ClickBackground(context.Background())
	assert.Equal(t, selection.Hidden, c.Selection())

	assert.Equal(t, []engine.Command{
		{Name: engine.CommandShowPopup, MarkerID: "2"},
		{Name: engine.CommandHidePopup},
	}, eng.Commands())
}

func TestScenario_RepeatedTooltipClicksAttachOnce(t *testing.T) {
	t.Parallel()

	c, eng := newHeadless(t, testSettings(4, 4))
	_, err := c.TriggerUpdate(context.Background())
	require.NoError(t, err)
	settle(t, eng)

	eng.ResetCommands()
	require.NoError(t, eng.ClickTooltip(context.Background(), "1"))
	require.NoError(t, eng.ClickTooltip(context.Background(), "1"))

	// one show per click, never two from duplicated listeners
	assert.Equal(t, []engine.Command{
		{Name: engine.CommandShowPopup, MarkerID: "1"},
		{Name: engine.CommandShowPopup, MarkerID: "1"},
	}, eng.Commands())
}

func TestScenario_UpdateRemoveUpdate(t *testing.T) {
	t.Parallel()

	c, eng := newHeadless(t, testSettings(64, 64))

	first, err := c.TriggerUpdate(context.Background())
	require.NoError(t, err)
	settle(t, eng)
	_, firstMarkers := c.Markers()

	require.NoError(t, eng.ClickTooltip(context.Background(), firstMarkers[0].ID))

	_, err = c.TriggerRemove(context.Background())
	require.NoError(t, err)
	assert.Equal(t, selection.Hidden, c.Selection())
	assert.Empty(t, eng.Snapshot().Markers)

	// accessors of the first generation are dead after the remove
	_, err = firstMarkers[0].Pin.Body.Body(context.Background(), firstMarkers[0].ID)
	assert.ErrorIs(t, err, marker.ErrStaleGeneration)

	second, err := c.TriggerUpdate(context.Background())
	require.NoError(t, err)
	settle(t, eng)
	assert.Greater(t, second.Generation, first.Generation)

	_, secondMarkers := c.Markers()
	assert.Equal(t, len(firstMarkers), len(secondMarkers))
	for i := range firstMarkers {
		assert.Equal(t, firstMarkers[i].ID, secondMarkers[i].ID)
		assert.Equal(t, firstMarkers[i].Lat, secondMarkers[i].Lat)
		assert.Equal(t, firstMarkers[i].Lng, secondMarkers[i].Lng)
	}
}

func TestScenario_ViewportRespected(t *testing.T) {
	t.Parallel()

	settings := testSettings(64, 10)
	settings.Sampler.Centers = append(settings.Sampler.Centers,
		geo.LatLng{Lat: 45, Lng: 22},
		geo.LatLng{Lat: 52.52, Lng: 13.409},
		geo.LatLng{Lat: 48.8566, Lng: 2.3522},
	)
	c, eng := newHeadless(t, settings)

	bounds := geo.Bounds{
		SouthWest: geo.LatLng{Lat: 45, Lng: -5},
		NorthEast: geo.LatLng{Lat: 55, Lng: 15},
	}
	require.NoError(t, eng.SetViewport(bounds))

	res, err := c.TriggerUpdate(context.Background())
	require.NoError(t, err)
	assert.LessOrEqual(t, res.Markers, 10)

	_, markers := c.Markers()
	for _, m := range markers {
		assert.True(t, bounds.Contains(m.Position()), "marker %s outside viewport", m.ID)
	}
}

func TestScenario_UnknownTooltip(t *testing.T) {
	t.Parallel()

	c, eng := newHeadless(t, testSettings(4, 4))
	_, err := c.TriggerUpdate(context.Background())
	require.NoError(t, err)
	settle(t, eng)

	err = eng.ClickTooltip(context.Background(), "404")
	assert.ErrorIs(t, err, marker.ErrUnknownMarkerID)
	assert.Equal(t, selection.Hidden, c.Selection())
}

func TestScenario_ClickOnReplacedTooltip(t *testing.T) {
	t.Parallel()

	c, eng := newHeadless(t, testSettings(4, 4))
	_, err := c.TriggerUpdate(context.Background())
	require.NoError(t, err)
	settle(t, eng)

	_, markers := c.Markers()
	old, err := markers[2].Tooltip.Body.Body(context.Background(), markers[2].ID)
	require.NoError(t, err)

	_, err = c.TriggerUpdate(context.Background())
	require.NoError(t, err)
	settle(t, eng)
	eng.ResetCommands()

	// the new generation has a marker with the same id, but the old tooltip must not select it
	ev := marker.NewClickEvent(context.Background(), old)
	old.DispatchClick(ev)

	assert.ErrorIs(t, ev.Err(), marker.ErrStaleGeneration)
	assert.Equal(t, selection.Hidden, c.Selection())
	assert.Empty(t, eng.Commands())
	assert.Empty(t, eng.Snapshot().Popup)
}
