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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() (time.Time, error) {
	return c.now, nil
}

func (c fixedClock) Running() bool {
	return true
}

func TestSystemClock(t *testing.T) {
	c := NewSystem()
	assert.True(t, c.Running())
	now, err := c.Now()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), now, time.Second)
}

func TestOffsetClock(t *testing.T) {
	at := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	c := NewOffset(fixedClock{now: at})

	assert.False(t, c.Running())
	_, err := c.Now()
	var notRunning ErrNotRunning
	assert.ErrorAs(t, err, &notRunning)
	_, ok := c.Offset()
	assert.False(t, ok)

	c.SetOffset(-90 * time.Second)
	assert.True(t, c.Running())
	now, err := c.Now()
	require.NoError(t, err)
	assert.Equal(t, at.Add(-90*time.Second), now)
	off, ok := c.Offset()
	assert.True(t, ok)
	assert.Equal(t, -90*time.Second, off)

	c.Clear()
	assert.False(t, c.Running())
	_, err = c.Now()
	assert.Error(t, err)
}
