/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package clock

import (
	"sync"
	"time"
)

const (
	missionWindow = 60
	missionAdmit  = 500 * time.Millisecond
)

// Mission tracks mission elapsed time. Every report pins a base estimate
// b = sys - elapsed; the tracked base is the minimum over a window of
// recent estimates, which absorbs transport delay since delay only ever
// pushes an estimate later.
type Mission struct {
	mu     sync.Mutex
	window []time.Time
	base   time.Time
	set    bool
}

func NewMission() *Mission {
	return &Mission{window: make([]time.Time, 0, missionWindow)}
}

// Submit feeds one elapsed-time report received at sys. It reports whether
// the sample was admitted into the current window; an out-of-band sample
// restarts the window around itself.
func (m *Mission) Submit(sys time.Time, elapsed time.Duration) bool {
	b := sys.Add(-elapsed)
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.set {
		m.restart(b)
		m.set = true
		return true
	}

	delta := b.Sub(m.base)
	if delta < 0 {
		delta = -delta
	}
	if delta >= missionAdmit {
		m.restart(b)
		return false
	}

	m.window = append(m.window, b)
	if len(m.window) > missionWindow {
		copy(m.window, m.window[1:])
		m.window = m.window[:missionWindow]
	}
	m.base = minTime(m.window)
	return true
}

// Elapsed returns the mission time at now. Elapsed past 24h advances the
// base a day, matching the rollover of the reporting side.
func (m *Mission) Elapsed(now time.Time) (time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.set {
		return 0, ErrNotRunning{Clock: "mission"}
	}
	elapsed := now.Sub(m.base)
	for elapsed >= day {
		m.base = m.base.Add(day)
		for i := range m.window {
			m.window[i] = m.window[i].Add(day)
		}
		elapsed -= day
	}
	return elapsed, nil
}

// Base returns the current base estimate.
func (m *Mission) Base() (time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.base, m.set
}

func (m *Mission) restart(b time.Time) {
	m.window = append(m.window[:0], b)
	m.base = b
}

func minTime(ts []time.Time) time.Time {
	min := ts[0]
	for _, t := range ts[1:] {
		if t.Before(min) {
			min = t
		}
	}
	return min
}
