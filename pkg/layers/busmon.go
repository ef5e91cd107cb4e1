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
	"errors"
	"time"

	"encoding/binary"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

const (
	// BusMonLayerNum identifies the layer
	BusMonLayerNum = 2101
)

const (
	// RecordHeaderSize is the size of the six header words of a bus record
	RecordHeaderSize = 24
	// RecordMaxDataWords is the largest bus transaction payload, 16-bit words
	RecordMaxDataWords = 32
	// RecordMaxSize is the largest serialized bus record
	RecordMaxSize = RecordHeaderSize + 2*RecordMaxDataWords
)

// BusRecord is one captured bus transaction as emitted by the monitor card.
// Six 32-bit header words, then the transaction data words.
//
// Word 0 packs the bus command word and the terminal status word. Word 1
// packs the capture path: channel, core, card, a 7-bit error code and the
// empty flag in the top bit. Words 2-5 carry the card activity counter, the
// host timestamp (seconds and microseconds/100) and the hardware tick
// counter. The data word count is not stored separately, it comes from the
// command word; an empty record carries no data words at all.
type BusRecord struct {
	CommandWord uint16
	StatusWord  uint16
	Channel     uint8
	Core        uint8
	Card        uint8
	ErrorCode   uint8 // 7 bits
	Empty       bool
	Activity    uint32
	HostSec     uint32
	HostMicro   uint32 // microseconds, stored on the wire divided by 100
	HwTicks     uint32
	Data        []uint16
}

// Command word accessors, standard 1553 command word layout.

func (r *BusRecord) RT() uint8 {
	return uint8(r.CommandWord >> 11 & 0x1f)
}

func (r *BusRecord) Transmit() bool {
	return r.CommandWord>>10&1 == 1
}

func (r *BusRecord) SubAddress() uint8 {
	return uint8(r.CommandWord >> 5 & 0x1f)
}

// WordCount returns the data word count from the command word. The field is
// five bits wide and zero means 32.
func (r *BusRecord) WordCount() int {
	n := int(r.CommandWord & 0x1f)
	if n == 0 {
		n = 32
	}
	return n
}

// SetCommandWord packs rt, transmit, sub-address and word count into the
// command word. A count of 32 is stored as zero.
func (r *BusRecord) SetCommandWord(rt uint8, transmit bool, sa uint8, count int) {
	w := uint16(rt&0x1f) << 11
	if transmit {
		w |= 1 << 10
	}
	w |= uint16(sa&0x1f) << 5
	w |= uint16(count & 0x1f)
	r.CommandWord = w
}

// HostTime returns the host timestamp of the record.
func (r *BusRecord) HostTime() time.Time {
	return time.Unix(int64(r.HostSec), int64(r.HostMicro)*1000)
}

// Size returns the serialized size of the record in bytes.
func (r *BusRecord) Size() int {
	if r.Empty {
		return RecordHeaderSize
	}
	return RecordHeaderSize + 2*r.WordCount()
}

// Frame extracts the link frame carried in the record data, or nil if the
// record cannot carry one.
func (r *BusRecord) Frame() *Frame {
	if r.Empty || len(r.Data) < FrameDataWords {
		return nil
	}
	f, err := FrameFromDataWords(r.Data)
	if err != nil {
		return nil
	}
	return f
}

// Serialize writes the record to buf which must hold at least Size() bytes.
func (r *BusRecord) Serialize(buf []byte) error {
	if len(buf) < r.Size() {
		return ErrRecordSize{Have: len(buf), Want: r.Size()}
	}
	binary.LittleEndian.PutUint16(buf[0:2], r.CommandWord)
	binary.LittleEndian.PutUint16(buf[2:4], r.StatusWord)
	word1 := uint32(r.Channel) | uint32(r.Core)<<8 | uint32(r.Card)<<16 | uint32(r.ErrorCode&0x7f)<<24
	if r.Empty {
		word1 |= 1 << 31
	}
	binary.LittleEndian.PutUint32(buf[4:8], word1)
	binary.LittleEndian.PutUint32(buf[8:12], r.Activity)
	binary.LittleEndian.PutUint32(buf[12:16], r.HostSec)
	binary.LittleEndian.PutUint32(buf[16:20], r.HostMicro/100)
	binary.LittleEndian.PutUint32(buf[20:24], r.HwTicks)
	if r.Empty {
		return nil
	}
	if len(r.Data) != r.WordCount() {
		return ErrRecordCount{Have: len(r.Data), Want: r.WordCount()}
	}
	for i, w := range r.Data {
		binary.LittleEndian.PutUint16(buf[RecordHeaderSize+2*i:RecordHeaderSize+2*i+2], w)
	}
	return nil
}

// Bytes returns the wire form of the record.
func (r *BusRecord) Bytes() ([]byte, error) {
	buf := make([]byte, r.Size())
	if err := r.Serialize(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// DecodeBusRecord decodes one record from the head of data and returns it
// together with the number of bytes consumed.
func DecodeBusRecord(data []byte) (*BusRecord, int, error) {
	if len(data) < RecordHeaderSize {
		return nil, 0, ErrRecordTruncated{Have: len(data), Want: RecordHeaderSize}
	}
	r := &BusRecord{}
	r.CommandWord = binary.LittleEndian.Uint16(data[0:2])
	r.StatusWord = binary.LittleEndian.Uint16(data[2:4])
	word1 := binary.LittleEndian.Uint32(data[4:8])
	r.Channel = uint8(word1)
	r.Core = uint8(word1 >> 8)
	r.Card = uint8(word1 >> 16)
	r.ErrorCode = uint8(word1>>24) & 0x7f
	r.Empty = word1>>31 == 1
	r.Activity = binary.LittleEndian.Uint32(data[8:12])
	r.HostSec = binary.LittleEndian.Uint32(data[12:16])
	r.HostMicro = binary.LittleEndian.Uint32(data[16:20]) * 100
	r.HwTicks = binary.LittleEndian.Uint32(data[20:24])

	size := RecordHeaderSize
	if !r.Empty {
		count := r.WordCount()
		size += 2 * count
		if len(data) < size {
			return nil, 0, ErrRecordTruncated{Have: len(data), Want: size}
		}
		r.Data = make([]uint16, count)
		for i := range r.Data {
			r.Data[i] = binary.LittleEndian.Uint16(data[RecordHeaderSize+2*i : RecordHeaderSize+2*i+2])
		}
	}
	return r, size, nil
}

// BusMonLayer is a datagram holding consecutive bus records.
type BusMonLayer struct {
	layers.BaseLayer
	Records []*BusRecord
}

var BusMonLayerType = gopacket.RegisterLayerType(BusMonLayerNum,
	gopacket.LayerTypeMetadata{Name: "BusMonLayerType", Decoder: gopacket.DecodeFunc(DecodeBusMonLayer)})

// LayerType returns the type of the BusMon layer in the layer catalog
func (bm *BusMonLayer) LayerType() gopacket.LayerType {
	return BusMonLayerType
}

// SerializeTo serializes the layer into bytes and writes the bytes to the SerializeBuffer
func (bm *BusMonLayer) SerializeTo(b gopacket.SerializeBuffer, opts gopacket.SerializeOptions) error {
	total := 0
	for _, r := range bm.Records {
		total += r.Size()
	}
	buf, err := b.AppendBytes(total)
	if err != nil {
		return err
	}
	offset := 0
	for _, r := range bm.Records {
		if err := r.Serialize(buf[offset:]); err != nil {
			return err
		}
		offset += r.Size()
	}
	return nil
}

// DecodeFromBytes attempts to decode the byte slice as a sequence of bus records
func (bm *BusMonLayer) DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error {
	if len(data) < RecordHeaderSize {
		df.SetTruncated()
		return errors.New("BusMon packet too short")
	}

	bm.BaseLayer = layers.BaseLayer{
		Contents: data,
		Payload:  []byte{},
	}

	bm.Records = nil
	offset := 0
	for offset < len(data) {
		r, size, err := DecodeBusRecord(data[offset:])
		if err != nil {
			var truncated ErrRecordTruncated
			if errors.As(err, &truncated) {
				df.SetTruncated()
			}
			return err
		}
		bm.Records = append(bm.Records, r)
		offset += size
	}
	return nil
}

func DecodeBusMonLayer(data []byte, p gopacket.PacketBuilder) error {
	bm := &BusMonLayer{}
	err := bm.DecodeFromBytes(data, p)
	if err != nil {
		return err
	}
	p.AddLayer(bm)
	return nil
}
