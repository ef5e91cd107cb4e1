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

package busmon

import (
	"context"
	"encoding/hex"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tdl-lab/go-tdl/pkg/config"
	"github.com/tdl-lab/go-tdl/pkg/layers"
	"github.com/tdl-lab/go-tdl/pkg/monitor"
	"github.com/tdl-lab/go-tdl/pkg/tdl"
)

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.NewDefaultConfig()
	cfg.SetPath(filepath.Join(dir, config.ConfigFile))
	cfg.CapturePath = filepath.Join(dir, config.CaptureDir)
	return cfg
}

func message(t *testing.T, seq uint64, block tdl.Block) *monitor.Received {
	t.Helper()
	frames, err := block.Frames()
	require.NoError(t, err)
	stamped := make([]*tdl.StampedFrame, len(frames))
	for i, frame := range frames {
		stamped[i] = &tdl.StampedFrame{Frame: frame, Received: time.Now(), Seq: uint64(i)}
	}
	return &monitor.Received{
		Family:    block.Family(),
		Seq:       seq,
		Completed: time.Now().UTC(),
		Assembly:  &tdl.Assembly{Block: block, Frames: stamped},
	}
}

func TestJournalAppendLast(t *testing.T) {
	journal, err := NewJournal(context.Background(), newTestConfig(t))
	require.NoError(t, err)
	defer journal.Close()

	require.NoError(t, journal.Append(message(t, 1, tdl.NewSystemAlert())))
	require.NoError(t, journal.Append(message(t, 2, tdl.NewTimeOfDay())))
	require.NoError(t, journal.Append(message(t, 3, tdl.NewStatusSummary())))
	require.NoError(t, journal.Append(message(t, 1, tdl.NewModeSelect())))

	entries, err := journal.Last(tdl.FamilyReport, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, uint64(2), entries[0].Seq)
	assert.Equal(t, "time-of-day", entries[0].Kind)
	assert.Equal(t, uint64(3), entries[1].Seq)
	assert.Equal(t, "status-summary", entries[1].Kind)

	entries, err = journal.Last(tdl.FamilyReport, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, uint64(1), entries[0].Seq)
	assert.Equal(t, "system-alert", entries[0].Kind)

	entries, err = journal.Last(tdl.FamilyCommand, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "mode-select", entries[0].Kind)
	assert.Equal(t, tdl.BlockModeSelect, entries[0].BlockID)

	entries, err = journal.Last(tdl.FamilyReport, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestJournalEntryFrames(t *testing.T) {
	journal, err := NewJournal(context.Background(), newTestConfig(t))
	require.NoError(t, err)
	defer journal.Close()

	report, err := tdl.NewTrackReport(4)
	require.NoError(t, err)
	msg := message(t, 7, report)
	require.NoError(t, journal.Append(msg))

	entries, err := journal.Last(tdl.FamilyReport, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Equal(t, uint64(7), entry.Seq)
	assert.Equal(t, "track-report", entry.Kind)
	assert.True(t, entry.Completed.Equal(msg.Completed))
	require.Len(t, entry.Frames, len(msg.Assembly.Frames))
	for i, encoded := range entry.Frames {
		data, decodeErr := hex.DecodeString(encoded)
		require.NoError(t, decodeErr)
		frame, frameErr := layers.FrameFromBytes(data)
		require.NoError(t, frameErr)
		assert.Equal(t, msg.Assembly.Frames[i].Words, frame.Words)
	}
}

func TestJournalReopen(t *testing.T) {
	cfg := newTestConfig(t)

	journal, err := NewJournal(context.Background(), cfg)
	require.NoError(t, err)
	require.NoError(t, journal.Append(message(t, 1, tdl.NewSystemAlert())))
	journal.Close()

	journal, err = NewJournal(context.Background(), cfg)
	require.NoError(t, err)
	defer journal.Close()

	entries, err := journal.Last(tdl.FamilyReport, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "system-alert", entries[0].Kind)
}
