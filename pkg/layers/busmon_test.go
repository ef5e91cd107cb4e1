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

package layers

import (
	"testing"
	"time"

	"github.com/google/gopacket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord(count int) *BusRecord {
	r := &BusRecord{
		StatusWord: 0x2800,
		Channel:    1,
		Core:       2,
		Card:       3,
		ErrorCode:  0,
		Activity:   42,
		HostSec:    1700000000,
		HostMicro:  123400,
		HwTicks:    987654,
	}
	r.SetCommandWord(5, true, 12, count)
	r.Data = make([]uint16, count)
	for i := range r.Data {
		r.Data[i] = uint16(0xa000 + i)
	}
	return r
}

func TestCommandWord(t *testing.T) {
	r := &BusRecord{}
	r.SetCommandWord(5, true, 12, 18)

	assert.Equal(t, uint8(5), r.RT())
	assert.True(t, r.Transmit())
	assert.Equal(t, uint8(12), r.SubAddress())
	assert.Equal(t, 18, r.WordCount())

	// a count of 32 is stored as zero
	r.SetCommandWord(31, false, 1, 32)
	assert.Equal(t, uint16(0), r.CommandWord&0x1f)
	assert.Equal(t, 32, r.WordCount())
	assert.False(t, r.Transmit())
}

func TestBusRecordRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		rec  *BusRecord
		size int
	}{
		{"frame sized", testRecord(18), RecordHeaderSize + 36},
		{"full", testRecord(32), RecordMaxSize},
		{"single word", testRecord(1), RecordHeaderSize + 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.size, tt.rec.Size())

			buf, err := tt.rec.Bytes()
			require.NoError(t, err)
			require.Len(t, buf, tt.size)

			back, consumed, err := DecodeBusRecord(buf)
			require.NoError(t, err)
			assert.Equal(t, tt.size, consumed)
			assert.Equal(t, tt.rec, back)
		})
	}
}

func TestBusRecordEmpty(t *testing.T) {
	r := testRecord(18)
	r.Empty = true
	r.Data = nil

	buf, err := r.Bytes()
	require.NoError(t, err)
	require.Len(t, buf, RecordHeaderSize)

	back, consumed, err := DecodeBusRecord(buf)
	require.NoError(t, err)
	assert.Equal(t, RecordHeaderSize, consumed)
	assert.True(t, back.Empty)
	assert.Nil(t, back.Data)
	// the command word still declares a count, the payload is just absent
	assert.Equal(t, 18, back.WordCount())
}

func TestBusRecordCountMismatch(t *testing.T) {
	r := testRecord(18)
	r.Data = r.Data[:10]

	_, err := r.Bytes()
	var countErr ErrRecordCount
	require.ErrorAs(t, err, &countErr)
	assert.Equal(t, 10, countErr.Have)
	assert.Equal(t, 18, countErr.Want)
}

func TestBusRecordTruncated(t *testing.T) {
	buf, err := testRecord(18).Bytes()
	require.NoError(t, err)

	var truncErr ErrRecordTruncated
	_, _, err = DecodeBusRecord(buf[:RecordHeaderSize-1])
	assert.ErrorAs(t, err, &truncErr)
	_, _, err = DecodeBusRecord(buf[:len(buf)-1])
	assert.ErrorAs(t, err, &truncErr)
}

func TestBusRecordHostTime(t *testing.T) {
	r := testRecord(1)
	want := time.Unix(1700000000, 123400000)
	assert.Equal(t, want, r.HostTime())
}

func TestBusRecordFrame(t *testing.T) {
	f := NewFrame()
	f.SetBlockID(0x03)
	f.Words[1] = 0xdeadbeef

	r := testRecord(18)
	r.Data = f.DataWords()

	got := r.Frame()
	require.NotNil(t, got)
	assert.Equal(t, f.Words, got.Words)

	r.Empty = true
	assert.Nil(t, r.Frame())

	short := testRecord(4)
	assert.Nil(t, short.Frame())
}

func TestBusMonLayerRoundTrip(t *testing.T) {
	bm := &BusMonLayer{Records: []*BusRecord{testRecord(18), testRecord(2)}}

	buf := gopacket.NewSerializeBuffer()
	require.NoError(t, bm.SerializeTo(buf, gopacket.SerializeOptions{}))

	back := &BusMonLayer{}
	require.NoError(t, back.DecodeFromBytes(buf.Bytes(), gopacket.NilDecodeFeedback))
	require.Len(t, back.Records, 2)
	assert.Equal(t, bm.Records[0], back.Records[0])
	assert.Equal(t, bm.Records[1], back.Records[1])
}

func TestBusMonLayerTruncated(t *testing.T) {
	bm := &BusMonLayer{Records: []*BusRecord{testRecord(18)}}

	buf := gopacket.NewSerializeBuffer()
	require.NoError(t, bm.SerializeTo(buf, gopacket.SerializeOptions{}))

	back := &BusMonLayer{}
	err := back.DecodeFromBytes(buf.Bytes()[:len(buf.Bytes())-3], gopacket.NilDecodeFeedback)
	var truncErr ErrRecordTruncated
	assert.ErrorAs(t, err, &truncErr)
}

func TestTdlLayerRoundTrip(t *testing.T) {
	first := NewFrame()
	first.SetBlockID(0x01)
	second := NewFrame()
	second.SetBlockID(0x04)
	second.Words[8] = 0x12345678

	tl := &TdlLayer{Frames: []*Frame{first, second}}

	buf := gopacket.NewSerializeBuffer()
	require.NoError(t, tl.SerializeTo(buf, gopacket.SerializeOptions{}))
	require.Len(t, buf.Bytes(), 2*FrameSize)

	back := &TdlLayer{}
	require.NoError(t, back.DecodeFromBytes(buf.Bytes(), gopacket.NilDecodeFeedback))
	require.Len(t, back.Frames, 2)
	assert.Equal(t, first.Words, back.Frames[0].Words)
	assert.Equal(t, second.Words, back.Frames[1].Words)

	err := back.DecodeFromBytes(buf.Bytes()[:FrameSize+3], gopacket.NilDecodeFeedback)
	assert.Error(t, err)
}
