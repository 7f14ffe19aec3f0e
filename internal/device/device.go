// Package device implements the century-life device: the aging unit the
// rest of the system observes.
//
// The device currently accretes age only. Stage transitions and the
// burst/stasis resource mechanics hinted at by the configuration keys are
// an unspecified extension point: Stage stays at StageNeonate until that
// model is defined.
package device

import (
	"sync"
	"time"

	"github.com/tamaos/tamaos/internal/shared/id"
)

// StageNeonate is the only life stage the device reports today.
const StageNeonate = "Neonate"

// historyCap bounds the retained tick deltas used for stats reporting.
const historyCap = 256

// Snapshot is the observable device state returned by every tick.
type Snapshot struct {
	Age   float64 `json:"age"`
	Stage string  `json:"stage"`
}

// State is the full device description served over the API and persisted
// by the state provider.
type State struct {
	ID     id.DeviceID `json:"id"`
	BornAt time.Time   `json:"born_at"`
	Ticks  uint64      `json:"ticks"`
	Snapshot
}

// Device is a century-life device instance. Safe for concurrent use.
type Device struct {
	mu      sync.RWMutex
	devID   id.DeviceID
	bornAt  time.Time
	age     float64
	stage   string
	ticks   uint64
	history []float64

	subMu sync.Mutex
	subs  map[int]chan Snapshot
	nextS int
}

// New creates a device with age zero.
func New() *Device {
	return &Device{
		devID:  id.NewDeviceID(),
		bornAt: time.Now(),
		stage:  StageNeonate,
		subs:   make(map[int]chan Snapshot),
	}
}

// Tick advances age by dt and returns the resulting snapshot. dt is not
// range-checked; negative and zero deltas are applied as given.
func (d *Device) Tick(dt float64) Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.age += dt
	d.ticks++
	d.history = append(d.history, dt)
	if len(d.history) > historyCap {
		d.history = d.history[len(d.history)-historyCap:]
	}
	snap := Snapshot{Age: d.age, Stage: d.stage}
	d.publish(snap)
	return snap
}

// Step is Tick with the default delta of 1.0.
func (d *Device) Step() Snapshot {
	return d.Tick(1.0)
}

// Snapshot returns the current state without advancing age.
func (d *Device) Snapshot() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return Snapshot{Age: d.age, Stage: d.stage}
}

// State returns the full device description.
func (d *Device) State() State {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return State{
		ID:       d.devID,
		BornAt:   d.bornAt,
		Ticks:    d.ticks,
		Snapshot: Snapshot{Age: d.age, Stage: d.stage},
	}
}

// Restore overwrites age, stage, and the tick counter from a persisted
// state. The delta history is cleared since the deltas that produced the
// restored age are unknown.
func (d *Device) Restore(snap Snapshot, ticks uint64) {
	d.mu.Lock()
	d.age = snap.Age
	if snap.Stage != "" {
		d.stage = snap.Stage
	}
	d.ticks = ticks
	d.history = nil
	d.mu.Unlock()
}

// Reset returns the device to age zero, keeping its identity.
func (d *Device) Reset() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.age = 0
	d.ticks = 0
	d.history = nil
	snap := Snapshot{Age: d.age, Stage: d.stage}
	d.publish(snap)
	return snap
}

// Subscribe registers an observer that receives a snapshot after every
// tick. The returned cancel func must be called to release the channel.
// Slow observers miss snapshots rather than stalling the device.
func (d *Device) Subscribe() (<-chan Snapshot, func()) {
	d.subMu.Lock()
	defer d.subMu.Unlock()

	key := d.nextS
	d.nextS++
	ch := make(chan Snapshot, 16)
	d.subs[key] = ch

	cancel := func() {
		d.subMu.Lock()
		defer d.subMu.Unlock()
		if _, ok := d.subs[key]; ok {
			delete(d.subs, key)
			close(ch)
		}
	}
	return ch, cancel
}

// publish fans a snapshot out to subscribers. Callers hold d.mu, which
// serializes sends: a subscriber sees ages in the order they were
// produced, skipping (never reordering) when its buffer is full.
func (d *Device) publish(snap Snapshot) {
	d.subMu.Lock()
	defer d.subMu.Unlock()
	for _, ch := range d.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}
