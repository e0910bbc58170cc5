package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubPublish(t *testing.T) {
	hub := NewHub(nil)

	hub.Publish("ledger_update", map[string]interface{}{"action": "sale", "type": "ignored"})

	select {
	case msg := <-hub.Broadcast:
		var decoded map[string]interface{}
		require.NoError(t, json.Unmarshal(msg, &decoded))
		assert.Equal(t, "ledger_update", decoded["type"])
		assert.Equal(t, "sale", decoded["action"])
	case <-time.After(time.Second):
		t.Fatal("no broadcast received")
	}
	assert.Zero(t, hub.ClientCount())
}

func TestHubPublishKeepsOrder(t *testing.T) {
	hub := NewHub(nil)

	for i := 1; i <= 50; i++ {
		hub.Publish("ledger_update", map[string]interface{}{"transaction_id": i})
	}

	for want := 1; want <= 50; want++ {
		var decoded map[string]interface{}
		require.NoError(t, json.Unmarshal(<-hub.Broadcast, &decoded))
		assert.EqualValues(t, want, decoded["transaction_id"])
	}
}

func TestHubPublishDropsWhenQueueFull(t *testing.T) {
	hub := NewHub(nil)

	for i := 0; i < broadcastBuffer+10; i++ {
		hub.Publish("ledger_update", map[string]interface{}{"transaction_id": i})
	}

	assert.Len(t, hub.Broadcast, broadcastBuffer)
}
