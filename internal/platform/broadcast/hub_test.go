// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package broadcast_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/sakura/internal/platform/broadcast"
)

/*
TestHub_Fanout checks every subscriber receives a published change.
*/
func TestHub_Fanout(t *testing.T) {
	hub := broadcast.NewHub[broadcast.Change]()

	first, cancelFirst := hub.Subscribe(1)
	defer cancelFirst()
	second, cancelSecond := hub.Subscribe(1)
	defer cancelSecond()

	change := broadcast.Change{Store: broadcast.StoreContent, Op: "comic_created", ID: "c1", At: time.Now()}
	hub.Publish(change)

	assert.Equal(t, change, <-first)
	assert.Equal(t, change, <-second)
}

/*
TestHub_SlowSubscriberDrops verifies Publish does not block on a full buffer.
*/
func TestHub_SlowSubscriberDrops(t *testing.T) {
	hub := broadcast.NewHub[int]()
	events, cancel := hub.Subscribe(1)
	defer cancel()

	hub.Publish(1)
	hub.Publish(2)

	assert.Equal(t, 1, <-events)
	select {
	case v := <-events:
		t.Fatalf("unexpected event %d", v)
	default:
	}
}

/*
TestHub_Cancel verifies cancel closes the channel and is idempotent.
*/
func TestHub_Cancel(t *testing.T) {
	hub := broadcast.NewHub[int]()
	events, cancel := hub.Subscribe(0)
	require.Equal(t, 1, hub.Subscribers())

	cancel()
	cancel()

	_, open := <-events
	assert.False(t, open)
	assert.Zero(t, hub.Subscribers())

	hub.Close()
	late, _ := hub.Subscribe(1)
	_, open = <-late
	assert.False(t, open)
}
