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
	"fmt"

	"github.com/tdl-lab/go-tdl/pkg/codec"
	"github.com/tdl-lab/go-tdl/pkg/layers"
)

// Init data blocks ride in words 1-8 of a single frame. Each block is a
// control word (locator, request type, payload word count), a data control
// word (target block, start word, load count) and the payload words. An
// all-zero control word ends the sequence early.

const (
	RequestTypeNone     = "none"
	RequestTypeInit     = "initialization"
	RequestTypeReadback = "readback"
	RequestTypeErase    = "erase"
)

var requestTypeCodec = codec.Enum(4, RequestTypeNone, RequestTypeInit, RequestTypeReadback, RequestTypeErase)

// DataBlock is one initialization load carried by an InitData message.
type DataBlock struct {
	Locator     uint16
	RequestType string
	TargetBlock uint8 // 5 bits
	StartWord   uint8
	Count       uint8 // 6 bits, words to load at the target
	Payload     []uint32
}

// InitData loads initialization data blocks into the terminal.
type InitData struct {
	blocks []DataBlock
}

func NewInitData(blocks ...DataBlock) (*InitData, error) {
	words := 0
	for i, db := range blocks {
		if db.RequestType != RequestTypeInit {
			return nil, ErrRequestType{Got: db.RequestType}
		}
		if db.TargetBlock > 0x1f {
			return nil, fmt.Errorf("data block %d: target block out of range: %d", i, db.TargetBlock)
		}
		if db.Count > 0x3f {
			return nil, fmt.Errorf("data block %d: load count out of range: %d", i, db.Count)
		}
		if len(db.Payload) > 0x3f {
			return nil, fmt.Errorf("data block %d: payload too long: %d words", i, len(db.Payload))
		}
		words += 2 + len(db.Payload)
	}
	if words > layers.FrameWords-1 {
		return nil, ErrDataCapacity{Words: words}
	}
	return &InitData{blocks: blocks}, nil
}

func (b *InitData) Kind() Kind {
	return KindInitData
}

func (b *InitData) Family() Family {
	return FamilyCommand
}

func (b *InitData) BlockID() uint8 {
	return BlockInitData
}

func (b *InitData) Fields() []*Field {
	return nil
}

func (b *InitData) Field(name string) (*Field, bool) {
	return nil, false
}

func (b *InitData) Blocks() []DataBlock {
	return b.blocks
}

func (b *InitData) Frames() ([]*layers.Frame, error) {
	frame := layers.NewFrame()
	frame.SetBlockID(BlockInitData)
	w := 1
	for _, db := range b.blocks {
		rtCode, err := requestTypeCodec.Encode(codec.EnumValue(db.RequestType))
		if err != nil {
			return nil, err
		}
		frame.Words[w] = uint32(db.Locator) | rtCode<<16 | uint32(len(db.Payload))<<20
		frame.Words[w+1] = uint32(db.TargetBlock) | uint32(db.StartWord)<<5 | uint32(db.Count)<<13
		copy(frame.Words[w+2:], db.Payload)
		w += 2 + len(db.Payload)
	}
	// any remaining word is zero and reads back as the terminator
	return []*layers.Frame{frame}, nil
}

func (b *InitData) String() string {
	return fmt.Sprintf("%s(%d blocks)", KindInitData, len(b.blocks))
}

func decodeInitData(frame *layers.Frame) (*InitData, error) {
	b := &InitData{}
	w := 1
	for w < layers.FrameWords {
		ctl := frame.Words[w]
		if ctl == 0 {
			break
		}
		rtVal, err := requestTypeCodec.Decode(ctl >> 16 & 0xf)
		if err != nil {
			return nil, err
		}
		if rtVal.Enum != RequestTypeInit {
			return nil, ErrRequestType{Got: rtVal.Enum}
		}
		payloadLen := int(ctl >> 20 & 0x3f)
		if w+2+payloadLen > layers.FrameWords {
			return nil, ErrBlockTruncated{Kind: KindInitData, SubBlock: 1}
		}
		dctl := frame.Words[w+1]
		db := DataBlock{
			Locator:     uint16(ctl),
			RequestType: rtVal.Enum,
			TargetBlock: uint8(dctl & 0x1f),
			StartWord:   uint8(dctl >> 5 & 0xff),
			Count:       uint8(dctl >> 13 & 0x3f),
		}
		if payloadLen > 0 {
			db.Payload = make([]uint32, payloadLen)
			copy(db.Payload, frame.Words[w+2:w+2+payloadLen])
		}
		b.blocks = append(b.blocks, db)
		w += 2 + payloadLen
	}
	return b, nil
}
