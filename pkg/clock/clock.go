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

// Package clock provides the time sources and terminal time filters.
package clock

import (
	"time"
)

// Clock is a queryable time source. Now fails while the clock is not
// running. Consumers take a Clock handle instead of calling time.Now, so
// replays and tests can substitute their own source.
type Clock interface {
	Now() (time.Time, error)
	Running() bool
}

// System is the wall clock. It is always running.
type System struct{}

func NewSystem() *System {
	return &System{}
}

func (c *System) Now() (time.Time, error) {
	return time.Now(), nil
}

func (c *System) Running() bool {
	return true
}
