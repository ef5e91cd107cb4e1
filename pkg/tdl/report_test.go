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

package tdl

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tdl-lab/go-tdl/pkg/codec"
	"github.com/tdl-lab/go-tdl/pkg/layers"
)

func readOne(t *testing.T, family Family, frames ...*layers.Frame) *Assembly {
	t.Helper()
	r := NewReader(family, NewSliceSource(frames...))
	a, err := r.Next()
	require.NoError(t, err)
	return a
}

func readErr(t *testing.T, family Family, frames ...*layers.Frame) error {
	t.Helper()
	r := NewReader(family, NewSliceSource(frames...))
	_, err := r.Next()
	require.Error(t, err)
	return err
}

func setField(t *testing.T, b Block, name string, v codec.Value) {
	t.Helper()
	f, ok := b.Field(name)
	require.True(t, ok, "field %s", name)
	require.NoError(t, f.SetValue(v))
}

func fieldValue(t *testing.T, b Block, name string) codec.Value {
	t.Helper()
	f, ok := b.Field(name)
	require.True(t, ok, "field %s", name)
	return f.Value()
}

func TestSystemAlertRoundTrip(t *testing.T) {
	b := NewSystemAlert()
	alertTime := 12*time.Hour + 34*time.Minute + 56*time.Second + 30*codec.Tick
	setField(t, b, FieldAlertCode, codec.UintValue(0xA5))
	setField(t, b, FieldSeverity, codec.EnumValue("warning"))
	setField(t, b, FieldParameter, codec.UintValue(0xDEADBEEF))
	setField(t, b, FieldAlertTime, codec.DurationValue(alertTime))

	frames, err := b.Frames()
	require.NoError(t, err)
	require.Len(t, frames, 1)
	assert.Equal(t, BlockSystemAlert, frames[0].BlockID())
	assert.False(t, frames[0].Wrap())

	a := readOne(t, FamilyReport, frames...)
	require.Equal(t, KindSystemAlert, a.Block.Kind())
	assert.Equal(t, FamilyReport, a.Block.Family())
	assert.Equal(t, codec.UintValue(0xA5), fieldValue(t, a.Block, FieldAlertCode))
	assert.Equal(t, codec.EnumValue("warning"), fieldValue(t, a.Block, FieldSeverity))
	assert.Equal(t, codec.UintValue(0xDEADBEEF), fieldValue(t, a.Block, FieldParameter))
	assert.Equal(t, codec.DurationValue(alertTime), fieldValue(t, a.Block, FieldAlertTime))

	_, ok := a.Block.Field("nope")
	assert.False(t, ok)
}

func TestTimeOfDayRoundTrip(t *testing.T) {
	b := NewTimeOfDay()
	tod := 23*time.Hour + 59*time.Minute + 59*time.Second + 63*codec.Tick
	setField(t, b, FieldTimeSource, codec.EnumValue("external"))
	setField(t, b, FieldFigureOfMerit, codec.UintValue(9))
	setField(t, b, FieldTimeOfDay, codec.DurationValue(tod))

	frames, err := b.Frames()
	require.NoError(t, err)
	a := readOne(t, FamilyReport, frames...)
	require.Equal(t, KindTimeOfDay, a.Block.Kind())
	decoded, ok := a.Block.(*TimeOfDay)
	require.True(t, ok)
	assert.Equal(t, tod, decoded.Time())
	assert.Equal(t, codec.EnumValue("external"), fieldValue(t, decoded, FieldTimeSource))
}

func TestTimeOfDayOutOfRange(t *testing.T) {
	f := layers.NewFrame()
	f.SetBlockID(BlockTimeOfDay)
	f.Words[1] = 86400 << 6

	err := readErr(t, FamilyReport, f)
	var rangeErr codec.ErrRange
	assert.ErrorAs(t, err, &rangeErr)
}

func TestStatusSummaryRoundTrip(t *testing.T) {
	b := NewStatusSummary()
	setField(t, b, FieldMode, codec.EnumValue("silent"))
	setField(t, b, FieldSyncState, codec.EnumValue("fine"))
	setField(t, b, FieldActiveTracks, codec.UintValue(17))
	setField(t, b, FieldNetEntry, codec.BoolValue(true))
	setField(t, b, FieldUptimeMinutes, codec.UintValue(1440))
	setField(t, b, FieldLoadPercent, codec.UintValue(83))
	setField(t, b, FieldLastError, codec.UintValue(0x0404))

	frames, err := b.Frames()
	require.NoError(t, err)
	a := readOne(t, FamilyReport, frames...)
	require.Equal(t, KindStatusSummary, a.Block.Kind())
	assert.Equal(t, codec.EnumValue("silent"), fieldValue(t, a.Block, FieldMode))
	assert.Equal(t, codec.EnumValue("fine"), fieldValue(t, a.Block, FieldSyncState))
	assert.Equal(t, codec.UintValue(17), fieldValue(t, a.Block, FieldActiveTracks))
	assert.Equal(t, codec.BoolValue(true), fieldValue(t, a.Block, FieldNetEntry))
	assert.Equal(t, codec.UintValue(1440), fieldValue(t, a.Block, FieldUptimeMinutes))
	assert.Equal(t, codec.UintValue(83), fieldValue(t, a.Block, FieldLoadPercent))
	assert.Equal(t, codec.UintValue(0x0404), fieldValue(t, a.Block, FieldLastError))
}

// Every declared field must sit in a valid window clear of the wrap and
// block id bits.
func TestFieldWindows(t *testing.T) {
	track, err := NewTrackReport(MaxTrackGroups)
	require.NoError(t, err)
	blocks := []Block{
		NewSystemAlert(),
		NewTimeOfDay(),
		NewStatusSummary(),
		NewModeSelect(),
		NewInitStatus(true),
		track,
	}
	for _, b := range blocks {
		for _, f := range b.Fields() {
			assert.NoError(t, layers.CheckWindow(f.Word, f.Bit, f.Codec().Bits()), "%s %s", b.Kind(), f.Name)
			if f.Word == 0 {
				assert.GreaterOrEqual(t, f.Bit, 6, "%s %s overlaps the frame header", b.Kind(), f.Name)
			}
		}
	}
}
