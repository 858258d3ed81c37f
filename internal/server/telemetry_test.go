package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/curvemotion/internal/core/agent"
	"github.com/zeusync/curvemotion/internal/core/motion"
	"github.com/zeusync/curvemotion/internal/core/system"
)

func frame(n int64, velocity float64) system.Frame {
	snap := agent.Snapshot{ID: "id-1", Name: "pawn"}
	snap.State = motion.StateAccelerating
	snap.Velocity = velocity
	return system.Frame{Frame: n, Time: float64(n) * 0.1, Agents: []agent.Snapshot{snap}}
}

func TestWebSocketStreamsFrames(t *testing.T) {
	srv := NewTelemetryServer(nil)
	s := httptest.NewServer(srv.Handler())
	defer s.Close()

	require.NoError(t, srv.Broadcast(frame(1, 5)))

	u := "ws" + strings.TrimPrefix(s.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	defer conn.Close()

	// the latest frame is replayed on connect
	var got map[string]any
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, float64(1), got["frame"])

	require.Eventually(t, func() bool { return srv.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
	require.NoError(t, srv.Broadcast(frame(2, 10)))

	var next system.Frame
	require.NoError(t, conn.ReadJSON(&next))
	assert.Equal(t, int64(2), next.Frame)
	require.Len(t, next.Agents, 1)
	assert.Equal(t, "pawn", next.Agents[0].Name)
	assert.Equal(t, motion.StateAccelerating, next.Agents[0].State)
	assert.Equal(t, 10.0, next.Agents[0].Velocity)

	conn.Close()
	assert.Eventually(t, func() bool { return srv.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
}

func TestSnapshotEndpoint(t *testing.T) {
	srv := NewTelemetryServer(nil)
	s := httptest.NewServer(srv.Handler())
	defer s.Close()

	resp, err := http.Get(s.URL + "/snapshot")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	require.NoError(t, srv.Broadcast(frame(3, 15)))
	resp, err = http.Get(s.URL + "/snapshot")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var f system.Frame
	require.NoError(t, json.Unmarshal(body, &f))
	assert.Equal(t, int64(3), f.Frame)

	resp2, err := http.Post(s.URL+"/snapshot", "application/json", nil)
	require.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp2.StatusCode)
}

func TestStartStop(t *testing.T) {
	srv := NewTelemetryServer(nil)
	require.NoError(t, srv.Start(context.Background(), "127.0.0.1:0"))
	assert.ErrorIs(t, srv.Start(context.Background(), "127.0.0.1:0"), ErrServerAlreadyRunning)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Stop(ctx))
	assert.ErrorIs(t, srv.Stop(ctx), ErrServerNotRunning)
}
