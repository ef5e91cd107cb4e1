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

package command

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tdl-lab/go-tdl/pkg/capture"
	"github.com/tdl-lab/go-tdl/pkg/layers"
	"github.com/tdl-lab/go-tdl/pkg/tdl"
)

func writeRecord(t *testing.T, w *capture.Writer, frame *layers.Frame, transmit bool) {
	t.Helper()
	rec := &layers.BusRecord{
		StatusWord: 0x2800,
		Channel:    1,
		HostSec:    1700000100,
		HostMicro:  250000,
		Data:       frame.DataWords(),
	}
	rec.SetCommandWord(5, transmit, 12, layers.FrameDataWords)
	require.NoError(t, w.Write(rec))
}

func TestDecodeCapture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "decode.cap")
	w, err := capture.NewWriter(path)
	require.NoError(t, err)

	report, err := tdl.NewTrackReport(4)
	require.NoError(t, err)
	frames, err := report.Frames()
	require.NoError(t, err)
	require.Len(t, frames, 2)
	for _, frame := range frames {
		writeRecord(t, w, frame, true)
	}

	mode := tdl.NewModeSelect()
	modeFrames, err := mode.Frames()
	require.NoError(t, err)
	writeRecord(t, w, modeFrames[0], false)

	require.NoError(t, w.Flush())

	var out bytes.Buffer
	require.NoError(t, DecodeCapture(path, tdl.FamilyReport, &out))
	text := out.String()
	assert.Contains(t, text, "track-report(4 tracks)")
	assert.Contains(t, text, "frames=2")
	assert.Contains(t, text, "track1.number")
	assert.Contains(t, text, "track4.identity = pending")
	assert.NotContains(t, text, "mode-select")

	out.Reset()
	require.NoError(t, DecodeCapture(path, tdl.FamilyCommand, &out))
	text = out.String()
	assert.Contains(t, text, "mode-select")
	assert.Contains(t, text, "requestedMode = off")
	assert.NotContains(t, text, "track-report")
}

func TestDecodeCaptureMissingFile(t *testing.T) {
	var out bytes.Buffer
	err := DecodeCapture(filepath.Join(t.TempDir(), "nope.cap"), tdl.FamilyReport, &out)
	assert.Error(t, err)
	assert.Zero(t, out.Len())
}
