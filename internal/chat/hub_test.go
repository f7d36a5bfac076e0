package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)
	return hub
}

func waitForCount(t *testing.T, hub *Hub, want int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return hub.ClientCount() == want
	}, 2*time.Second, 5*time.Millisecond, "presence count never reached %d", want)
}

func TestHubCountsRegistrations(t *testing.T) {
	hub := startHub(t)

	var clients []*Client
	for i := 0; i < 3; i++ {
		c := newClient(hub, nil, "tester")
		clients = append(clients, c)
		hub.register <- c
		waitForCount(t, hub, i+1)
	}

	hub.unregister <- clients[0]
	waitForCount(t, hub, 2)
}

func TestHubIgnoresUnregisteredDisconnect(t *testing.T) {
	hub := startHub(t)

	// a connection that was never counted must not decrement
	ghost := newClient(hub, nil, "ghost")
	hub.unregister <- ghost

	counted := newClient(hub, nil, "tester")
	hub.register <- counted
	waitForCount(t, hub, 1)

	hub.unregister <- counted
	waitForCount(t, hub, 0)

	// second disconnect of the same connection is a no-op, not -1
	hub.unregister <- counted
	hub.register <- newClient(hub, nil, "tester")
	waitForCount(t, hub, 1)
}

func TestHubFinalCountAfterInterleaving(t *testing.T) {
	hub := startHub(t)

	const k = 20
	const m = 7

	clients := make([]*Client, k)
	for i := range clients {
		clients[i] = newClient(hub, nil, "tester")
	}

	for _, c := range clients {
		go func(c *Client) { hub.register <- c }(c)
	}
	waitForCount(t, hub, k)

	for _, c := range clients[:m] {
		go func(c *Client) { hub.unregister <- c }(c)
	}
	waitForCount(t, hub, k-m)

	assert.GreaterOrEqual(t, hub.ClientCount(), 0)
}

func TestHubStopHangsUpAllClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	c := newClient(hub, nil, "tester")
	hub.register <- c
	waitForCount(t, hub, 1)

	hub.Stop()
	waitForCount(t, hub, 0)

	_, open := <-c.send
	for open {
		_, open = <-c.send
	}
}
