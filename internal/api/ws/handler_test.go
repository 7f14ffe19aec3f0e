package ws

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coredevice "github.com/tamaos/tamaos/internal/device"
	"github.com/tamaos/tamaos/internal/logging"
	"github.com/tamaos/tamaos/internal/monitoring"
)

func dialTest(t *testing.T) (*websocket.Conn, *coredevice.Device) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dev := coredevice.New()
	h := NewHandler(dev, monitoring.NewMetrics(), logging.NewNop())

	r := gin.New()
	r.GET("/stream", h.HandleConnection)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	// Consume the welcome message.
	var welcome map[string]interface{}
	require.NoError(t, conn.ReadJSON(&welcome))
	require.Equal(t, "system", welcome["type"])
	return conn, dev
}

func TestWelcomeCarriesConnID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dev := coredevice.New()
	h := NewHandler(dev, monitoring.NewMetrics(), logging.NewNop())

	r := gin.New()
	r.GET("/stream", h.HandleConnection)
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	var welcome map[string]interface{}
	require.NoError(t, conn.ReadJSON(&welcome))
	assert.True(t, strings.HasPrefix(welcome["conn_id"].(string), "conn_"))
}

func TestTickMessage(t *testing.T) {
	conn, _ := dialTest(t)

	require.NoError(t, conn.WriteJSON(map[string]interface{}{"type": "tick", "dt": 2.0}))

	var resp map[string]interface{}
	require.NoError(t, conn.ReadJSON(&resp))
	require.Equal(t, "snapshot", resp["type"])
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, 2.0, data["age"])
	assert.Equal(t, coredevice.StageNeonate, data["stage"])
	assert.NotEmpty(t, resp["event_id"])
}

func TestSnapshotMessage(t *testing.T) {
	conn, dev := dialTest(t)
	dev.Tick(7)

	require.NoError(t, conn.WriteJSON(map[string]interface{}{"type": "snapshot"}))

	var resp map[string]interface{}
	require.NoError(t, conn.ReadJSON(&resp))
	assert.Equal(t, 7.0, resp["data"].(map[string]interface{})["age"])
}

func TestSubscribePushesTicks(t *testing.T) {
	conn, dev := dialTest(t)

	require.NoError(t, conn.WriteJSON(map[string]interface{}{"type": "subscribe"}))
	var ack map[string]interface{}
	require.NoError(t, conn.ReadJSON(&ack))
	require.Equal(t, "subscribed", ack["type"])

	dev.Tick(3)

	var push map[string]interface{}
	require.NoError(t, conn.ReadJSON(&push))
	assert.Equal(t, "snapshot", push["type"])
	assert.Equal(t, 3.0, push["data"].(map[string]interface{})["age"])
}

func TestPingPong(t *testing.T) {
	conn, _ := dialTest(t)

	require.NoError(t, conn.WriteJSON(map[string]interface{}{"type": "ping"}))

	var resp map[string]interface{}
	require.NoError(t, conn.ReadJSON(&resp))
	assert.Equal(t, "pong", resp["type"])
}

func TestUnknownType(t *testing.T) {
	conn, _ := dialTest(t)

	require.NoError(t, conn.WriteJSON(map[string]interface{}{"type": "evolve"}))

	var resp map[string]interface{}
	require.NoError(t, conn.ReadJSON(&resp))
	assert.Equal(t, "error", resp["type"])
}
