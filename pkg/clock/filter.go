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
	"fmt"
	"sync"
	"time"
)

const day = 24 * time.Hour

// Sample filter bands. Prediction errors below the jitter band leave the
// offset alone, errors past the reject band are discarded, and three
// discards in a row throw the filter back to its unseeded state.
const (
	jitterBand = time.Millisecond
	rejectBand = 100 * time.Millisecond
	maxMisses  = 3
)

// Verdict is the outcome of one filter submission.
type Verdict int

const (
	VerdictSeed Verdict = iota
	VerdictSteady
	VerdictAdjust
	VerdictReject
	VerdictReset
)

var verdictNames = map[Verdict]string{
	VerdictSeed:   "seed",
	VerdictSteady: "steady",
	VerdictAdjust: "adjust",
	VerdictReject: "reject",
	VerdictReset:  "reset",
}

func (v Verdict) String() string {
	name, ok := verdictNames[v]
	if !ok {
		return fmt.Sprintf("verdict(%d)", int(v))
	}
	return name
}

// SampleFilter smooths terminal time-of-day reports into an Offset clock.
// Each sample is compared against a prediction from the last accepted one;
// small errors are jitter, moderate errors adjust the offset, large errors
// are rejected outright.
type SampleFilter struct {
	mu     sync.Mutex
	target *Offset

	seeded  bool
	lastSys time.Time
	lastRep time.Duration
	misses  int
}

func NewSampleFilter(target *Offset) *SampleFilter {
	return &SampleFilter{target: target}
}

// Submit feeds one time-of-day report received at sys.
func (f *SampleFilter) Submit(sys time.Time, reported time.Duration) Verdict {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.seeded {
		f.accept(sys, reported)
		f.seeded = true
		return VerdictSeed
	}

	predicted := f.lastRep + sys.Sub(f.lastSys)
	err := wrapDay(predicted - reported)
	if err < 0 {
		err = -err
	}
	switch {
	case err < jitterBand:
		f.lastSys = sys
		f.lastRep = reported
		f.misses = 0
		return VerdictSteady
	case err < rejectBand:
		f.accept(sys, reported)
		return VerdictAdjust
	}

	f.misses++
	if f.misses >= maxMisses {
		f.seeded = false
		f.misses = 0
		f.target.Clear()
		return VerdictReset
	}
	return VerdictReject
}

func (f *SampleFilter) accept(sys time.Time, reported time.Duration) {
	f.lastSys = sys
	f.lastRep = reported
	f.misses = 0
	f.target.SetOffset(wrapDay(reported - sinceMidnight(sys)))
}

// sinceMidnight returns the UTC time of day of t.
func sinceMidnight(t time.Time) time.Duration {
	u := t.UTC()
	midnight := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return u.Sub(midnight)
}

// wrapDay normalizes a day-relative difference into (-12h, 12h], so
// comparisons behave across the midnight rollover.
func wrapDay(d time.Duration) time.Duration {
	d %= day
	if d > day/2 {
		d -= day
	}
	if d <= -day/2 {
		d += day
	}
	return d
}
