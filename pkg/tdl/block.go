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

	"github.com/tdl-lab/go-tdl/pkg/layers"
)

// Block is one decoded link message of either family.
type Block interface {
	Kind() Kind
	Family() Family
	BlockID() uint8
	// Fields returns the message fields in encode order.
	Fields() []*Field
	// Field looks a field up by name.
	Field(name string) (*Field, bool)
	// Frames re-encodes the message into its wire frames.
	Frames() ([]*layers.Frame, error)
	String() string
}

// singleBlock is the shared shape of the message kinds that fit one frame.
type singleBlock struct {
	family Family
	kind   Kind
	id     uint8
	set    *fieldSet
}

func (b *singleBlock) Kind() Kind {
	return b.kind
}

func (b *singleBlock) Family() Family {
	return b.family
}

func (b *singleBlock) BlockID() uint8 {
	return b.id
}

func (b *singleBlock) Fields() []*Field {
	return b.set.fields()
}

func (b *singleBlock) Field(name string) (*Field, bool) {
	return b.set.field(name)
}

func (b *singleBlock) Frames() ([]*layers.Frame, error) {
	frame := layers.NewFrame()
	frame.SetBlockID(b.id)
	b.set.writeTo(frame)
	return []*layers.Frame{frame}, nil
}

func (b *singleBlock) decode(frame *layers.Frame) error {
	return b.set.readFrom(frame)
}

func (b *singleBlock) String() string {
	return b.kind.String()
}

// Unknown retains a frame whose block id has no registered variant. It can
// be inspected and re-encoded byte-identically but has no fields.
type Unknown struct {
	family Family
	raw    *layers.Frame
}

func NewUnknown(family Family, raw *layers.Frame) *Unknown {
	return &Unknown{family: family, raw: raw}
}

func (b *Unknown) Kind() Kind {
	return KindUnknown
}

func (b *Unknown) Family() Family {
	return b.family
}

func (b *Unknown) BlockID() uint8 {
	return b.raw.BlockID()
}

func (b *Unknown) Fields() []*Field {
	return nil
}

func (b *Unknown) Field(name string) (*Field, bool) {
	return nil, false
}

func (b *Unknown) Raw() *layers.Frame {
	return b.raw
}

func (b *Unknown) Frames() ([]*layers.Frame, error) {
	return []*layers.Frame{b.raw}, nil
}

func (b *Unknown) String() string {
	return fmt.Sprintf("unknown(0x%02x)", b.BlockID())
}

// WrapAround is the fixed sentinel the terminal emits when its transmit
// buffer wraps. The wrap indicator overrides the rest of the frame.
type WrapAround struct {
	family Family
	raw    *layers.Frame
}

func NewWrapAround(family Family) *WrapAround {
	frame := layers.NewFrame()
	frame.SetWrap(true)
	return &WrapAround{family: family, raw: frame}
}

func wrapAroundFrom(family Family, raw *layers.Frame) *WrapAround {
	return &WrapAround{family: family, raw: raw}
}

func (b *WrapAround) Kind() Kind {
	return KindWrapAround
}

func (b *WrapAround) Family() Family {
	return b.family
}

func (b *WrapAround) BlockID() uint8 {
	return b.raw.BlockID()
}

func (b *WrapAround) Fields() []*Field {
	return nil
}

func (b *WrapAround) Field(name string) (*Field, bool) {
	return nil, false
}

func (b *WrapAround) Frames() ([]*layers.Frame, error) {
	return []*layers.Frame{b.raw}, nil
}

func (b *WrapAround) String() string {
	return KindWrapAround.String()
}
