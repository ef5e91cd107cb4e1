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
	"errors"
	"io"

	"github.com/tdl-lab/go-tdl/pkg/codec"
	"github.com/tdl-lab/go-tdl/pkg/layers"
)

const (
	FieldRequestedMode = "requestedMode"
	FieldRadiateEnable = "radiateEnable"
	FieldChannel       = "channel"
	FieldPowerLevel    = "powerLevel"

	FieldContinuation  = "continuation"
	FieldTerminalState = "terminalState"
	FieldBitFault      = "bitFault"
	FieldStatusTime    = "statusTime"
	FieldLoadedBlocks  = "loadedBlocks"
	FieldCrcErrors     = "crcErrors"
)

var (
	requestedModeNames = []string{"off", "standby", "normal", "silent", "maintenance", "test", "reset", "shutdown"}
	powerLevelNames    = []string{"low", "medium", "high", "max"}
	terminalStateNames = []string{"off", "initializing", "ready", "active", "degraded", "failed", "loading", "standby"}
)

var modeSelectDefs = []fieldDef{
	{FieldRequestedMode, 0, 6, codec.Enum(3, requestedModeNames...)},
	{FieldRadiateEnable, 0, 9, codec.Bool()},
	{FieldChannel, 1, 0, codec.UInt(7)},
	{FieldPowerLevel, 1, 16, codec.Enum(2, powerLevelNames...)},
}

// ModeSelect orders the terminal into an operating mode.
type ModeSelect struct {
	singleBlock
}

func NewModeSelect() *ModeSelect {
	return &ModeSelect{singleBlock{
		family: FamilyCommand,
		kind:   KindModeSelect,
		id:     BlockModeSelect,
		set:    newFieldSet(modeSelectDefs),
	}}
}

// continuationBit flags a second init-status sub-block. Unlike the track
// report there is no count, the message is one or two sub-blocks.
const continuationBit = 9

var initStatusFirstDefs = []fieldDef{
	{FieldContinuation, 0, continuationBit, codec.Bool()},
	{FieldTerminalState, 0, 10, codec.Enum(3, terminalStateNames...)},
	{FieldBitFault, 0, 13, codec.UInt(4)},
	{FieldStatusTime, 1, 0, codec.TimeOfDay()},
}

var initStatusSecondDefs = []fieldDef{
	{FieldLoadedBlocks, 1, 0, codec.UInt(16)},
	{FieldCrcErrors, 1, 16, codec.UInt(16)},
}

// InitStatus acknowledges an initialization exchange. The continuation bit
// of the first sub-block announces exactly one more sub-block with id 2.
type InitStatus struct {
	first  *fieldSet
	second *fieldSet
	all    *fieldSet
}

func NewInitStatus(continued bool) *InitStatus {
	b := &InitStatus{first: newFieldSet(initStatusFirstDefs)}
	cont, _ := b.first.field(FieldContinuation)
	_ = cont.SetValue(codec.BoolValue(continued))
	if continued {
		b.second = newFieldSet(initStatusSecondDefs)
		b.all = mergeFieldSets(b.first, b.second)
	} else {
		b.all = mergeFieldSets(b.first)
	}
	return b
}

func (b *InitStatus) Kind() Kind {
	return KindInitStatus
}

func (b *InitStatus) Family() Family {
	return FamilyCommand
}

func (b *InitStatus) BlockID() uint8 {
	return BlockInitStatus
}

func (b *InitStatus) Fields() []*Field {
	return b.all.fields()
}

func (b *InitStatus) Field(name string) (*Field, bool) {
	return b.all.field(name)
}

func (b *InitStatus) Continued() bool {
	cont, _ := b.first.field(FieldContinuation)
	return cont.Value().Bool
}

func (b *InitStatus) Frames() ([]*layers.Frame, error) {
	first := layers.NewFrame()
	first.SetBlockID(BlockInitStatus)
	setSubBlockID(first, 1)
	b.first.writeTo(first)
	if b.second == nil {
		return []*layers.Frame{first}, nil
	}
	second := layers.NewFrame()
	second.SetBlockID(BlockInitStatus)
	setSubBlockID(second, 2)
	b.second.writeTo(second)
	return []*layers.Frame{first, second}, nil
}

func (b *InitStatus) String() string {
	return KindInitStatus.String()
}

func decodeInitStatus(first *layers.Frame, next func() (*StampedFrame, error)) (*InitStatus, error) {
	if sid := subBlockID(first); sid != 1 {
		return nil, ErrSubBlockOrder{Want: 1, Got: sid}
	}
	continued := first.Code(0, continuationBit, 1) == 1
	b := NewInitStatus(continued)
	if err := b.first.readFrom(first); err != nil {
		return nil, err
	}
	if !continued {
		return b, nil
	}

	sf, err := next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrBlockTruncated{Kind: KindInitStatus, SubBlock: 2}
		}
		return nil, err
	}
	if sf.Wrap() || sf.BlockID() != BlockInitStatus {
		return nil, ErrUnexpectedBlock{Family: FamilyCommand, Want: BlockInitStatus, Got: sf.BlockID()}
	}
	if sid := subBlockID(sf.Frame); sid != 2 {
		return nil, ErrSubBlockOrder{Want: 2, Got: sid}
	}
	if err := b.second.readFrom(sf.Frame); err != nil {
		return nil, err
	}
	return b, nil
}
