package monitoring

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordTick(t *testing.T) {
	m := NewMetrics()

	m.RecordTick(1.5)
	m.RecordTick(3.0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.DeviceTicks))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.DeviceAge))
}

func TestRecordHTTPRequest(t *testing.T) {
	m := NewMetrics()

	m.RecordHTTPRequest("GET", "/device", "200", 5*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/device", "200")))
}

func TestTimerRecordsServiceCall(t *testing.T) {
	m := NewMetrics()

	timer := NewTimer(m, "state", "state.save")
	timer.Stop("success")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ServiceCalls.WithLabelValues("state", "state.save", "success")))
}

func TestIndependentRegistries(t *testing.T) {
	// Two collectors must not clash on registration.
	a := NewMetrics()
	b := NewMetrics()

	a.RecordTick(1)
	assert.Equal(t, 0.0, testutil.ToFloat64(b.DeviceTicks))
}
