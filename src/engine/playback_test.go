package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallplay/src/media"
)

func newTestEngine(t *testing.T) (*Engine, *FakeSurface) {
	t.Helper()
	surface := NewFakeSurface()
	e := New(surface)
	e.guardRelease = 30 * time.Millisecond
	return e, surface
}

func addVideo(e *Engine, id string) {
	e.AddMedia(&media.Item{
		ID:          id,
		Name:        id,
		Type:        media.TypeVideo,
		MimeType:    "video/mp4",
		PlayableRef: "blob:" + id,
	})
}

func addImage(e *Engine, id string) {
	e.AddMedia(&media.Item{
		ID:          id,
		Name:        id,
		Type:        media.TypeImage,
		MimeType:    "image/png",
		PlayableRef: "blob:" + id,
	})
}

func TestSelectMediaLoop(t *testing.T) {
	e, surface := newTestEngine(t)
	addVideo(e, "a")

	e.SelectMedia("a", true)

	st := e.Status()
	assert.Equal(t, StateSingle, st.State)
	assert.Equal(t, Highlight{MediaID: "a", Source: SourceLibrary}, st.Highlight)
	assert.Equal(t, []string{"a"}, surface.MountedIDs())
	assert.True(t, surface.LastElement().Playing())
}

func TestSelectMediaLoopRestartsOnEnd(t *testing.T) {
	e, surface := newTestEngine(t)
	addVideo(e, "a")
	e.SelectMedia("a", true)

	e.OnMediaEnded()

	assert.Equal(t, StateSingle, e.Status().State)
	assert.Equal(t, []float64{0}, surface.LastElement().Seeks())
	assert.True(t, surface.LastElement().Playing())
}

func TestSelectMediaOneShotStopsOnEnd(t *testing.T) {
	e, surface := newTestEngine(t)
	addVideo(e, "a")
	e.SelectMedia("a", false)
	require.Equal(t, StateSingle, e.Status().State)

	e.OnMediaEnded()

	st := e.Status()
	assert.Equal(t, StateIdle, st.State)
	assert.Equal(t, Highlight{}, st.Highlight)
	assert.True(t, surface.LastElement().Halted())
}

func TestSelectMediaSnapsToPlaylist(t *testing.T) {
	e, _ := newTestEngine(t)
	addVideo(e, "a")
	addVideo(e, "b")
	e.AddToPlaylist("a", -1)
	e.AddToPlaylist("b", -1)

	e.SelectMedia("b", false)

	st := e.Status()
	assert.Equal(t, StatePlaylist, st.State)
	assert.Equal(t, 1, st.Current)
	assert.Equal(t, Highlight{MediaID: "b", Source: SourcePlaylist}, st.Highlight)
}

func TestSelectMediaUnknownIsNoop(t *testing.T) {
	e, surface := newTestEngine(t)
	e.SelectMedia("ghost", true)
	assert.Equal(t, StateIdle, e.Status().State)
	assert.Equal(t, 0, surface.MountCount())
}

func TestPlayPauseToggle(t *testing.T) {
	e, surface := newTestEngine(t)
	addVideo(e, "a")
	e.AddToPlaylist("a", -1)

	e.TogglePlaylist()
	require.Equal(t, StatePlaylist, e.Status().State)
	require.True(t, surface.LastElement().Playing())

	e.TogglePlaylist()
	assert.Equal(t, StatePaused, e.Status().State)
	assert.False(t, surface.LastElement().Playing())
	assert.Equal(t, 0, e.Status().Current, "pause retains the position")

	e.TogglePlaylist()
	assert.Equal(t, StatePlaylist, e.Status().State)
	assert.True(t, surface.LastElement().Playing())
	assert.Equal(t, 1, surface.MountCount(), "resume must not remount")
}

func TestStopResetsCursorAndDisplay(t *testing.T) {
	e, _ := newTestEngine(t)
	addVideo(e, "a")
	e.AddToPlaylist("a", -1)
	e.PlayPlaylist()

	e.StopPlaylist(true)

	st := e.Status()
	assert.Equal(t, StateIdle, st.State)
	assert.Equal(t, -1, st.Current)
	assert.Equal(t, Highlight{}, st.Highlight)
}

func TestPlayByIndexWrapsOverflow(t *testing.T) {
	e, _ := newTestEngine(t)
	addVideo(e, "a")
	addVideo(e, "b")
	e.AddToPlaylist("a", -1)
	e.AddToPlaylist("b", -1)

	e.PlayByIndex(17)
	assert.Equal(t, 0, e.Status().Current)
	assert.Equal(t, StatePlaylist, e.Status().State)
}

func TestPlayByIndexHealsDanglingEntries(t *testing.T) {
	e, surface := newTestEngine(t)
	addVideo(e, "a")
	e.AddToPlaylist("a", -1)
	// Sneak in an entry whose media was never imported.
	e.playlist.Insert("ghost", 0, false)

	e.PlayByIndex(0)

	assert.Equal(t, []string{"a"}, e.PlaylistItems())
	assert.Equal(t, []string{"a"}, surface.MountedIDs())
	assert.Equal(t, StatePlaylist, e.Status().State)
}

func TestNaturalEndAdvances(t *testing.T) {
	e, surface := newTestEngine(t)
	for _, id := range []string{"x", "y", "z"} {
		addVideo(e, id)
		e.AddToPlaylist(id, -1)
	}
	e.PlayByIndex(0)
	require.Equal(t, 0, e.Status().Current)

	e.OnMediaEnded()

	assert.Equal(t, 1, e.Status().Current)
	assert.Equal(t, []string{"x", "y"}, surface.MountedIDs())
}

func TestRemoveBeforePlayingCursorKeepsPlayback(t *testing.T) {
	// Playlist [X,Y,Z], playing Y after X ended; removing X must leave
	// [Y,Z] with the cursor on 0 and Y playing uninterrupted.
	e, surface := newTestEngine(t)
	for _, id := range []string{"x", "y", "z"} {
		addVideo(e, id)
		e.AddToPlaylist(id, -1)
	}
	e.PlayByIndex(0)
	e.OnMediaEnded()
	require.Equal(t, 1, e.Status().Current)
	mounts := surface.MountCount()

	require.True(t, e.RemoveFromPlaylist(0))

	st := e.Status()
	assert.Equal(t, []string{"y", "z"}, e.PlaylistItems())
	assert.Equal(t, 0, st.Current)
	assert.Equal(t, StatePlaylist, st.State)
	assert.Equal(t, mounts, surface.MountCount(), "playback must not be interrupted")
	assert.True(t, surface.LastElement().Playing())
}

func TestRemovePlayingEntryTransitions(t *testing.T) {
	e, surface := newTestEngine(t)
	for _, id := range []string{"a", "b"} {
		addVideo(e, id)
		e.AddToPlaylist(id, -1)
	}
	e.PlayByIndex(0)

	require.True(t, e.RemoveFromPlaylist(0))

	st := e.Status()
	assert.Equal(t, 0, st.Current)
	assert.Equal(t, "b", surface.MountedIDs()[len(surface.MountedIDs())-1])
	assert.Equal(t, StatePlaylist, st.State)
}

func TestRemoveLastPlayingEntryStops(t *testing.T) {
	e, _ := newTestEngine(t)
	addVideo(e, "a")
	e.AddToPlaylist("a", -1)
	e.PlayByIndex(0)

	require.True(t, e.RemoveFromPlaylist(0))

	st := e.Status()
	assert.Equal(t, StateIdle, st.State)
	assert.Equal(t, -1, st.Current)
}

func TestNoDoubleAdvance(t *testing.T) {
	e, _ := newTestEngine(t)
	for _, id := range []string{"a", "b", "c"} {
		addVideo(e, id)
		e.AddToPlaylist(id, -1)
	}
	e.PlayByIndex(0)

	// A trim-boundary watch and a natural end event firing back to back.
	e.AdvanceToNext()
	e.AdvanceToNext()

	assert.Equal(t, 1, e.Status().Current, "exactly one transition must occur")
}

func TestAdvanceGuardReleases(t *testing.T) {
	e, _ := newTestEngine(t)
	for _, id := range []string{"a", "b", "c"} {
		addVideo(e, id)
		e.AddToPlaylist(id, -1)
	}
	e.PlayByIndex(0)

	e.AdvanceToNext()
	require.Equal(t, 1, e.Status().Current)

	require.Eventually(t, func() bool {
		e.AdvanceToNext()
		return e.Status().Current == 2
	}, time.Second, 10*time.Millisecond)
}

func TestImageTimerAdvances(t *testing.T) {
	e, _ := newTestEngine(t)
	e.SetImageDuration(25 * time.Millisecond)
	addImage(e, "img1")
	addImage(e, "img2")
	e.AddToPlaylist("img1", -1)
	e.AddToPlaylist("img2", -1)

	e.PlayByIndex(0)
	require.Equal(t, 0, e.Status().Current)

	require.Eventually(t, func() bool {
		return e.Status().Current == 1
	}, time.Second, 5*time.Millisecond)
}

func TestImageTimerCanceledByPause(t *testing.T) {
	e, _ := newTestEngine(t)
	e.SetImageDuration(25 * time.Millisecond)
	addImage(e, "img1")
	addImage(e, "img2")
	e.AddToPlaylist("img1", -1)
	e.AddToPlaylist("img2", -1)
	e.PlayByIndex(0)

	e.PausePlaylist()
	time.Sleep(80 * time.Millisecond)

	assert.Equal(t, 0, e.Status().Current, "pause must cancel the advance timer")
	assert.Equal(t, StatePaused, e.Status().State)
}

func TestTrimBoundaryAdvancesInPlaylist(t *testing.T) {
	e, surface := newTestEngine(t)
	end := 20.0
	e.AddMedia(&media.Item{
		ID: "a", Name: "a", Type: media.TypeVideo, PlayableRef: "blob:a",
		Settings: media.Settings{
			Volume: 1, PlaybackRate: 1,
			Trim: media.TrimWindow{Enabled: true, StartTime: 10, EndTime: &end},
		},
	})
	addVideo(e, "b")
	e.AddToPlaylist("a", -1)
	e.AddToPlaylist("b", -1)
	e.PlayByIndex(0)
	assert.Equal(t, []float64{10}, surface.LastElement().Seeks(), "mount seeks to the trim start")

	e.OnMediaPosition(15)
	require.Equal(t, 0, e.Status().Current, "positions inside the window do nothing")

	e.OnMediaPosition(20)
	assert.Equal(t, 1, e.Status().Current)
}

func TestTrimSeekBackGuard(t *testing.T) {
	e, surface := newTestEngine(t)
	end := 20.0
	e.AddMedia(&media.Item{
		ID: "a", Name: "a", Type: media.TypeVideo, PlayableRef: "blob:a",
		Settings: media.Settings{
			Volume: 1, PlaybackRate: 1,
			Trim: media.TrimWindow{Enabled: true, StartTime: 10, EndTime: &end},
		},
	})
	e.AddToPlaylist("a", -1)
	e.PlayByIndex(0)

	e.OnMediaPosition(3)
	assert.Equal(t, []float64{10, 10}, surface.LastElement().Seeks())
}

func TestTrimBoundaryLoopsInSingleContext(t *testing.T) {
	e, surface := newTestEngine(t)
	end := 20.0
	e.AddMedia(&media.Item{
		ID: "a", Name: "a", Type: media.TypeVideo, PlayableRef: "blob:a",
		Settings: media.Settings{
			Volume: 1, PlaybackRate: 1,
			Trim: media.TrimWindow{Enabled: true, StartTime: 10, EndTime: &end},
		},
	})
	e.SelectMedia("a", true)

	e.OnMediaPosition(21)

	assert.Equal(t, StateSingle, e.Status().State)
	assert.Equal(t, []float64{10, 10}, surface.LastElement().Seeks())
	assert.True(t, surface.LastElement().Playing())
}

func TestPlaybackErrorAdvances(t *testing.T) {
	e, surface := newTestEngine(t)
	for _, id := range []string{"bad", "good"} {
		addVideo(e, id)
		e.AddToPlaylist(id, -1)
	}
	surface.FailFor("bad")

	e.PlayByIndex(0)

	require.Eventually(t, func() bool {
		st := e.Status()
		return st.State == StatePlaylist && st.MediaID == "good"
	}, 2*time.Second, 20*time.Millisecond)
}

func TestAllItemsFailingStops(t *testing.T) {
	e, surface := newTestEngine(t)
	for _, id := range []string{"bad1", "bad2"} {
		addVideo(e, id)
		e.AddToPlaylist(id, -1)
	}
	surface.FailFor("bad1")
	surface.FailFor("bad2")

	e.PlayByIndex(0)

	require.Eventually(t, func() bool {
		return e.Status().State == StateIdle
	}, 2*time.Second, 20*time.Millisecond)
}

func TestCascadeDeleteRecoversOnce(t *testing.T) {
	e, surface := newTestEngine(t)
	addVideo(e, "A")
	addVideo(e, "B")
	addVideo(e, "C")
	for _, id := range []string{"A", "B", "A", "C"} {
		e.AddToPlaylist(id, -1)
	}
	e.PlayByIndex(2) // the second A
	mounts := surface.MountCount()

	require.True(t, e.DeleteMedia("A"))

	st := e.Status()
	assert.Equal(t, []string{"B", "C"}, e.PlaylistItems())
	assert.Equal(t, StatePlaylist, st.State)
	require.GreaterOrEqual(t, st.Current, 0)
	require.Less(t, st.Current, 2)
	assert.Equal(t, mounts+1, surface.MountCount(), "exactly one recovery transition")
	assert.Nil(t, e.FindMedia("A"))
}

func TestDeleteMediaWhilePlayingSingle(t *testing.T) {
	e, surface := newTestEngine(t)
	addVideo(e, "a")
	e.SelectMedia("a", true)

	require.True(t, e.DeleteMedia("a"))

	st := e.Status()
	assert.Equal(t, StateIdle, st.State)
	assert.Equal(t, Highlight{}, st.Highlight)
	assert.True(t, surface.LastElement().Halted())
}
