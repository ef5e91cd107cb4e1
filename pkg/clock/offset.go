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

// Offset shifts a base clock by a terminal-minus-system offset. It is not
// running until the first offset has been set.
type Offset struct {
	mu     sync.Mutex
	base   Clock
	offset time.Duration
	set    bool
}

func NewOffset(base Clock) *Offset {
	return &Offset{base: base}
}

func (c *Offset) Now() (time.Time, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.set {
		return time.Time{}, ErrNotRunning{Clock: "offset"}
	}
	now, err := c.base.Now()
	if err != nil {
		return time.Time{}, err
	}
	return now.Add(c.offset), nil
}

func (c *Offset) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.set && c.base.Running()
}

func (c *Offset) SetOffset(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.offset = d
	c.set = true
}

// Clear drops the offset, stopping the clock until the next SetOffset.
func (c *Offset) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.offset = 0
	c.set = false
}

func (c *Offset) Offset() (time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.offset, c.set
}
