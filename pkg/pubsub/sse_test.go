package pubsub

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, sub Subscription) Event {
	t.Helper()
	select {
	case event := <-sub.Events():
		return event
	case <-time.After(100 * time.Millisecond):
		require.FailNow(t, "timeout waiting for event")
		return Event{}
	}
}

func expectNothing(t *testing.T, sub Subscription) {
	t.Helper()
	select {
	case event := <-sub.Events():
		assert.Fail(t, "unexpected event", "version %d", event.Version)
	case <-time.After(30 * time.Millisecond):
	}
}

func TestReplayAllKeepsBufferSize(t *testing.T) {
	pub := NewSSEPublisher()
	defer pub.Close()
	pub.ConfigureTopic("test", TopicConfig{BufferSize: 3, ReplayAll: true})

	for i := 1; i <= 5; i++ {
		require.NoError(t, pub.Publish("test", "event", map[string]int{"num": i}))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sub, err := pub.Subscribe(ctx, "test")
	require.NoError(t, err)

	for want := 3; want <= 5; want++ {
		assert.Equal(t, want, receive(t, sub).Version)
	}
	expectNothing(t, sub)
}

func TestCatalogReplaysLatestChange(t *testing.T) {
	pub := NewCatalogPublisher()
	defer pub.Close()

	require.NoError(t, pub.Publish(CatalogTopic, EventGraphSaved, CatalogChange{GraphID: 1, Name: "a"}))
	require.NoError(t, pub.Publish(CatalogTopic, EventSourceReloaded, CatalogChange{GraphID: 2, Name: "b", Nodes: 25, Edges: 30}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sub, err := pub.Subscribe(ctx, CatalogTopic)
	require.NoError(t, err)

	event := receive(t, sub)
	assert.Equal(t, EventSourceReloaded, event.Type)
	assert.Equal(t, 2, event.Version)

	var change CatalogChange
	require.NoError(t, json.Unmarshal(event.Data, &change))
	assert.Equal(t, CatalogChange{GraphID: 2, Name: "b", Nodes: 25, Edges: 30}, change)
	expectNothing(t, sub)
}

func TestNoBufferDeliversOnlyLiveEvents(t *testing.T) {
	pub := NewSSEPublisher()
	defer pub.Close()

	require.NoError(t, pub.Publish("test", "event", 1))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sub, err := pub.Subscribe(ctx, "test")
	require.NoError(t, err)
	expectNothing(t, sub)

	require.NoError(t, pub.Publish("test", "event", 2))
	assert.Equal(t, 2, receive(t, sub).Version)
}

func TestContextCancelUnsubscribes(t *testing.T) {
	pub := NewSSEPublisher()
	defer pub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	_, err := pub.Subscribe(ctx, "test")
	require.NoError(t, err)
	require.Equal(t, 1, pub.Subscribers("test"))

	cancel()
	assert.Eventually(t, func() bool {
		return pub.Subscribers("test") == 0
	}, time.Second, 5*time.Millisecond, "subscription was not removed after cancel")
}

func TestClosedPublisher(t *testing.T) {
	pub := NewSSEPublisher()
	sub, err := pub.Subscribe(context.Background(), "test")
	require.NoError(t, err)

	require.NoError(t, pub.Close())
	_, ok := <-sub.Events()
	assert.False(t, ok, "subscription channel should be closed")

	assert.ErrorIs(t, pub.Publish("test", "event", 1), ErrClosed)
	_, err = pub.Subscribe(context.Background(), "test")
	assert.ErrorIs(t, err, ErrClosed)
	assert.NoError(t, sub.Close(), "closing a subscription after the publisher")
}

func TestPublishRejectsUnencodablePayload(t *testing.T) {
	pub := NewSSEPublisher()
	defer pub.Close()

	assert.Error(t, pub.Publish("test", "event", make(chan int)))
}

func TestWriteSSE(t *testing.T) {
	var buf bytes.Buffer
	event := Event{Topic: CatalogTopic, Type: EventGraphSaved, Data: json.RawMessage(`{"graphId":7}`), Version: 3}
	require.NoError(t, WriteSSE(&buf, event))

	out := buf.String()
	assert.Regexp(t, `^id: 3\ndata: \{.*\}\n\n$`, out)
	assert.Contains(t, out, `"type":"graph_saved"`)
	assert.Contains(t, out, `"graphId":7`)
}
