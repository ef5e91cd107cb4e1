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
	"encoding/binary"
	"fmt"
)

const (
	// FrameWords is the fixed number of 32-bit words in a link frame
	FrameWords = 9
	// FrameSize is the wire size of a link frame in bytes
	FrameSize = FrameWords * 4
	// FrameDataWords is the number of 16-bit bus words a link frame occupies
	// in a bus transaction payload
	FrameDataWords = FrameWords * 2
)

// Word 0 carries the frame discriminator: bit 0 is the wrap-around
// indicator, bits 1-5 hold the block id.
const (
	wrapBit     = 0
	blockIDBit  = 1
	blockIDBits = 5
)

// Frame is one link frame, nine 32-bit words. Words go on the wire in order,
// each word little-endian.
type Frame struct {
	Words [FrameWords]uint32
}

func NewFrame() *Frame {
	return &Frame{}
}

// FrameFromBytes decodes a link frame from exactly FrameSize bytes.
func FrameFromBytes(data []byte) (*Frame, error) {
	if len(data) != FrameSize {
		return nil, ErrFrameSize{Size: len(data)}
	}
	f := &Frame{}
	for i := 0; i < FrameWords; i++ {
		f.Words[i] = binary.LittleEndian.Uint32(data[i*4 : i*4+4])
	}
	return f, nil
}

// Bytes returns the wire form of the frame.
func (f *Frame) Bytes() []byte {
	buf := make([]byte, FrameSize)
	for i, w := range f.Words {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], w)
	}
	return buf
}

// DataWords returns the frame as 16-bit bus words, low half of each word
// first.
func (f *Frame) DataWords() []uint16 {
	words := make([]uint16, FrameDataWords)
	for i, w := range f.Words {
		words[2*i] = uint16(w)
		words[2*i+1] = uint16(w >> 16)
	}
	return words
}

// FrameFromDataWords builds a frame from at least FrameDataWords 16-bit bus
// words.
func FrameFromDataWords(words []uint16) (*Frame, error) {
	if len(words) < FrameDataWords {
		return nil, ErrFrameSize{Size: 2 * len(words)}
	}
	f := &Frame{}
	for i := 0; i < FrameWords; i++ {
		f.Words[i] = uint32(words[2*i]) | uint32(words[2*i+1])<<16
	}
	return f, nil
}

func windowMask(nbits int) uint32 {
	return uint32(uint64(1)<<uint(nbits) - 1)
}

// CheckWindow reports whether a bit window addresses a valid frame location.
// A window never crosses a word boundary.
func CheckWindow(word, bit, nbits int) error {
	if word < 0 || word >= FrameWords {
		return ErrFrameWindow{Word: word, Bit: bit, NBits: nbits}
	}
	if nbits < 1 || nbits > 32 || bit < 0 || bit+nbits > 32 {
		return ErrFrameWindow{Word: word, Bit: bit, NBits: nbits}
	}
	return nil
}

// Code extracts the nbits wide window at the given word and bit offset.
// Bit 0 is the least significant bit of the word. The window must have been
// validated with CheckWindow.
func (f *Frame) Code(word, bit, nbits int) uint32 {
	return f.Words[word] >> uint(bit) & windowMask(nbits)
}

// SetCode writes the window, masking code to nbits and leaving the other
// bits of the word intact.
func (f *Frame) SetCode(word, bit, nbits int, code uint32) {
	mask := windowMask(nbits) << uint(bit)
	f.Words[word] = f.Words[word]&^mask | code<<uint(bit)&mask
}

func (f *Frame) Wrap() bool {
	return f.Code(0, wrapBit, 1) == 1
}

func (f *Frame) SetWrap(wrap bool) {
	if wrap {
		f.SetCode(0, wrapBit, 1, 1)
		return
	}
	f.SetCode(0, wrapBit, 1, 0)
}

func (f *Frame) BlockID() uint8 {
	return uint8(f.Code(0, blockIDBit, blockIDBits))
}

func (f *Frame) SetBlockID(id uint8) {
	f.SetCode(0, blockIDBit, blockIDBits, uint32(id))
}

func (f *Frame) String() string {
	return fmt.Sprintf("frame{wrap: %t, block: 0x%02x}", f.Wrap(), f.BlockID())
}
