package surface

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallplay/src/media"
)

func collectCommands(t *testing.T, listener <-chan interface{}, n int) []Command {
	t.Helper()
	commands := make([]Command, 0, n)
	for len(commands) < n {
		select {
		case event := <-listener:
			if cmd, ok := event.(Command); ok {
				commands = append(commands, cmd)
			}
		case <-time.After(time.Second):
			t.Fatalf("timeout waiting for command %d of %d", len(commands)+1, n)
		}
	}
	return commands
}

func TestMountBroadcastsItemParameters(t *testing.T) {
	rs := NewRemote()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	listener := rs.Listen(ctx)

	item := &media.Item{
		ID:          "vid-1",
		Type:        media.TypeVideo,
		PlayableRef: "blob:vid-1",
		Settings:    media.Settings{Volume: 0.5, PlaybackRate: 1.5},
	}
	el, err := rs.Mount(item)
	require.NoError(t, err)
	require.NoError(t, el.Play())

	commands := collectCommands(t, listener, 2)
	assert.Equal(t, Command{
		Action:       ActionMount,
		MediaID:      "vid-1",
		Ref:          "blob:vid-1",
		Type:         media.TypeVideo,
		Volume:       0.5,
		PlaybackRate: 1.5,
	}, commands[0])
	assert.Equal(t, Command{Action: ActionPlay, MediaID: "vid-1"}, commands[1])
}

func TestElementCommandsCarryMediaID(t *testing.T) {
	rs := NewRemote()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	listener := rs.Listen(ctx)

	el, err := rs.Mount(&media.Item{ID: "img-1", Type: media.TypeImage})
	require.NoError(t, err)
	el.Seek(3.5)
	el.Pause()
	el.Halt()
	rs.Clear()

	commands := collectCommands(t, listener, 5)
	assert.Equal(t, ActionMount, commands[0].Action)
	assert.Equal(t, Command{Action: ActionSeek, MediaID: "img-1", Seconds: 3.5}, commands[1])
	assert.Equal(t, Command{Action: ActionPause, MediaID: "img-1"}, commands[2])
	assert.Equal(t, Command{Action: ActionHalt, MediaID: "img-1"}, commands[3])
	assert.Equal(t, Command{Action: ActionClear}, commands[4])
}
