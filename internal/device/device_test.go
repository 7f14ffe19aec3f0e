package device

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStartsAtZeroNeonate(t *testing.T) {
	d := New()

	snap := d.Snapshot()
	assert.Equal(t, 0.0, snap.Age)
	assert.Equal(t, StageNeonate, snap.Stage)
}

func TestTickAccumulates(t *testing.T) {
	d := New()

	for _, dt := range []float64{0.5, 2.5, 1.0} {
		d.Tick(dt)
	}

	assert.InDelta(t, 4.0, d.Snapshot().Age, 1e-9)
}

func TestRepeatedTicksLinear(t *testing.T) {
	const n = 1000
	const dt = 0.3

	d := New()
	var last Snapshot
	for i := 0; i < n; i++ {
		last = d.Tick(dt)
	}

	assert.InDelta(t, n*dt, last.Age, 1e-9*n)
	assert.Equal(t, StageNeonate, last.Stage)
}

func TestStepEqualsTickOne(t *testing.T) {
	a, b := New(), New()

	sa := a.Step()
	sb := b.Tick(1.0)

	assert.Equal(t, sb.Age, sa.Age)
	assert.Equal(t, sb.Stage, sa.Stage)
}

func TestNegativeDeltaApplied(t *testing.T) {
	d := New()
	d.Tick(5)
	snap := d.Tick(-2)

	assert.InDelta(t, 3.0, snap.Age, 1e-9)
}

func TestStageNeverChanges(t *testing.T) {
	d := New()
	for i := 0; i < 10000; i++ {
		require.Equal(t, StageNeonate, d.Tick(100).Stage)
	}
}

func TestConcurrentTicks(t *testing.T) {
	const workers = 8
	const perWorker = 500

	d := New()
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				d.Tick(1)
			}
		}()
	}
	wg.Wait()

	assert.InDelta(t, float64(workers*perWorker), d.Snapshot().Age, 1e-6)
}

func TestResetKeepsIdentity(t *testing.T) {
	d := New()
	before := d.State().ID
	d.Tick(7)

	snap := d.Reset()

	assert.Equal(t, 0.0, snap.Age)
	assert.Equal(t, before, d.State().ID)
	assert.Equal(t, uint64(0), d.State().Ticks)
}

func TestRestore(t *testing.T) {
	d := New()
	d.Restore(Snapshot{Age: 42.5, Stage: StageNeonate}, 17)

	snap := d.Snapshot()
	assert.Equal(t, 42.5, snap.Age)
	assert.Equal(t, StageNeonate, snap.Stage)
	assert.Equal(t, uint64(17), d.State().Ticks)
}

func TestRestoreOverwritesTickCounter(t *testing.T) {
	d := New()
	for i := 0; i < 5; i++ {
		d.Tick(1)
	}

	d.Restore(Snapshot{Age: 2.0, Stage: StageNeonate}, 2)

	st := d.State()
	assert.Equal(t, 2.0, st.Age)
	assert.Equal(t, uint64(2), st.Ticks)
}

func TestSubscribeReceivesTicks(t *testing.T) {
	d := New()
	ch, cancel := d.Subscribe()
	defer cancel()

	d.Tick(2)

	snap := <-ch
	assert.InDelta(t, 2.0, snap.Age, 1e-9)
}

func TestSubscriberStreamMonotonic(t *testing.T) {
	const workers = 4
	const perWorker = 200

	d := New()
	ch, cancel := d.Subscribe()

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				d.Tick(1)
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		cancel()
		close(done)
	}()

	// A full buffer drops snapshots but must never reorder them.
	prev := -1.0
	for snap := range ch {
		require.Greater(t, snap.Age, prev)
		prev = snap.Age
	}
	<-done
}

func TestCancelStopsDelivery(t *testing.T) {
	d := New()
	ch, cancel := d.Subscribe()
	cancel()

	d.Tick(1)

	_, open := <-ch
	assert.False(t, open)
}

func TestStatsWindow(t *testing.T) {
	d := New()
	for _, dt := range []float64{1, 2, 3, 4} {
		d.Tick(dt)
	}

	s := d.Stats()
	assert.Equal(t, uint64(4), s.Ticks)
	assert.Equal(t, 4, s.WindowSize)
	assert.InDelta(t, 2.5, s.MeanDelta, 1e-9)
	assert.InDelta(t, 1.0, s.MinDelta, 1e-9)
	assert.InDelta(t, 4.0, s.MaxDelta, 1e-9)
	assert.False(t, math.IsNaN(s.StdDevDelta))
}

func TestStatsEmpty(t *testing.T) {
	s := New().Stats()

	assert.Equal(t, uint64(0), s.Ticks)
	assert.Equal(t, 0, s.WindowSize)
	assert.Equal(t, 0.0, s.MeanDelta)
}

func TestHistoryBounded(t *testing.T) {
	d := New()
	for i := 0; i < historyCap*3; i++ {
		d.Tick(1)
	}

	assert.Equal(t, historyCap, d.Stats().WindowSize)
}
