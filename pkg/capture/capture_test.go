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

package capture

import (
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tdl-lab/go-tdl/pkg/layers"
	"github.com/tdl-lab/go-tdl/pkg/tdl"
)

func frameRecord(f *layers.Frame, transmit bool) *layers.BusRecord {
	r := &layers.BusRecord{
		StatusWord: 0x2800,
		Channel:    1,
		HostSec:    1700000100,
		HostMicro:  250000,
		HwTicks:    77,
	}
	r.SetCommandWord(5, transmit, 12, layers.FrameDataWords)
	r.Data = f.DataWords()
	return r
}

func TestDefaultName(t *testing.T) {
	at := time.Date(2026, 3, 14, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, "bus-20260314-150405.cap", DefaultName("bus", at))
}

func TestCaptureRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bus.cap")
	w, err := NewWriter(path)
	require.NoError(t, err)

	frame := layers.NewFrame()
	frame.SetBlockID(0x03)
	records := []*layers.BusRecord{
		frameRecord(frame, true),
		frameRecord(frame, false),
		{Empty: true, Channel: 2, HostSec: 1700000200},
	}
	for _, r := range records {
		require.NoError(t, w.Write(r))
	}
	assert.Equal(t, uint64(3), w.Records())
	require.NoError(t, w.Flush())

	err = w.Write(records[0])
	var closedErr ErrWriterClosed
	assert.ErrorAs(t, err, &closedErr)

	r, err := NewReader(path)
	require.NoError(t, err)
	defer r.Close()
	for i, want := range records {
		got, err := r.Next()
		require.NoError(t, err, "record %d", i)
		assert.Equal(t, want, got, "record %d", i)
	}
	_, err = r.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestCaptureTruncated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cut.cap")
	data, err := (&layers.BusRecord{Empty: true}).Bytes()
	require.NoError(t, err)

	var prefix [lengthPrefixSize]byte
	binary.LittleEndian.PutUint16(prefix[:], uint16(len(data)))
	var buf []byte
	buf = append(buf, prefix[:]...)
	buf = append(buf, data...)
	// the second record promises more bytes than the file holds
	buf = append(buf, prefix[:]...)
	buf = append(buf, data[:10]...)
	require.NoError(t, os.WriteFile(path, buf, 0644))

	r, err := NewReader(path)
	require.NoError(t, err)
	defer r.Close()
	_, err = r.Next()
	require.NoError(t, err)
	_, err = r.Next()
	var truncErr ErrCaptureTruncated
	assert.ErrorAs(t, err, &truncErr)
}

func TestCaptureLengthMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.cap")
	data, err := (&layers.BusRecord{Empty: true}).Bytes()
	require.NoError(t, err)

	var prefix [lengthPrefixSize]byte
	binary.LittleEndian.PutUint16(prefix[:], uint16(len(data)+4))
	var buf []byte
	buf = append(buf, prefix[:]...)
	buf = append(buf, data...)
	buf = append(buf, 0xff, 0xff, 0xff, 0xff)
	require.NoError(t, os.WriteFile(path, buf, 0644))

	r, err := NewReader(path)
	require.NoError(t, err)
	defer r.Close()
	_, err = r.Next()
	var lenErr ErrLengthMismatch
	assert.ErrorAs(t, err, &lenErr)
}

func TestCaptureSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "replay.cap")
	w, err := NewWriter(path)
	require.NoError(t, err)

	track, err := tdl.NewTrackReport(4)
	require.NoError(t, err)
	frames, err := track.Frames()
	require.NoError(t, err)
	for _, f := range frames {
		require.NoError(t, w.Write(frameRecord(f, true)))
	}
	// interleaved command traffic and noise records must not disturb the
	// report replay
	cmdFrame := layers.NewFrame()
	cmdFrame.SetBlockID(tdl.BlockModeSelect)
	require.NoError(t, w.Write(frameRecord(cmdFrame, false)))
	short := &layers.BusRecord{}
	short.SetCommandWord(5, true, 12, 4)
	short.Data = []uint16{1, 2, 3, 4}
	require.NoError(t, w.Write(short))
	require.NoError(t, w.Flush())

	r, err := NewReader(path)
	require.NoError(t, err)
	defer r.Close()
	reader := tdl.NewReader(tdl.FamilyReport, NewSource(tdl.FamilyReport, r))
	a, err := reader.Next()
	require.NoError(t, err)
	assert.Equal(t, tdl.KindTrackReport, a.Block.Kind())
	require.Len(t, a.Frames, 2)
	assert.Equal(t, time.Unix(1700000100, 250000000), a.Frames[0].Received)
	assert.Equal(t, uint64(0), a.Frames[0].Seq)
	_, err = reader.Next()
	assert.ErrorIs(t, err, io.EOF)

	r2, err := NewReader(path)
	require.NoError(t, err)
	defer r2.Close()
	cmdReader := tdl.NewReader(tdl.FamilyCommand, NewSource(tdl.FamilyCommand, r2))
	a, err = cmdReader.Next()
	require.NoError(t, err)
	assert.Equal(t, tdl.KindModeSelect, a.Block.Kind())
	_, err = cmdReader.Next()
	assert.ErrorIs(t, err, io.EOF)
}
