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

// Field is one named bit window of a message, bound to a codec and to its
// position within a frame. It carries both the raw wire code and the
// decoded value; the two are kept consistent by SetCode and SetValue.
type Field struct {
	Name string
	Word int
	Bit  int

	codec codec.Codec
	code  uint32
	value codec.Value
}

func (f *Field) Codec() codec.Codec {
	return f.codec
}

func (f *Field) Code() uint32 {
	return f.code
}

func (f *Field) Value() codec.Value {
	return f.value
}

// SetCode stores a wire code and its decoded value. The code is masked to
// the window width first.
func (f *Field) SetCode(code uint32) error {
	code &= uint32(uint64(1)<<uint(f.codec.Bits()) - 1)
	value, err := f.codec.Decode(code)
	if err != nil {
		return fmt.Errorf("field %s: %w", f.Name, err)
	}
	f.code = code
	f.value = value
	return nil
}

// SetValue stores a value and its encoded wire code.
func (f *Field) SetValue(value codec.Value) error {
	code, err := f.codec.Encode(value)
	if err != nil {
		return fmt.Errorf("field %s: %w", f.Name, err)
	}
	f.code = code
	f.value = value
	return nil
}

// ReadFrom extracts the field's window from a frame.
func (f *Field) ReadFrom(frame *layers.Frame) error {
	return f.SetCode(frame.Code(f.Word, f.Bit, f.codec.Bits()))
}

// WriteTo places the field's code back at its window.
func (f *Field) WriteTo(frame *layers.Frame) {
	frame.SetCode(f.Word, f.Bit, f.codec.Bits(), f.code)
}

func (f *Field) String() string {
	return fmt.Sprintf("%s=%s", f.Name, f.value)
}

type fieldDef struct {
	name  string
	word  int
	bit   int
	codec codec.Codec
}

// fieldSet keeps the ordered field list and the by-name index over the same
// Field values, so the two views cannot diverge.
type fieldSet struct {
	list  []*Field
	index map[string]*Field
}

func newFieldSet(defs []fieldDef) *fieldSet {
	fs := &fieldSet{index: make(map[string]*Field, len(defs))}
	for _, def := range defs {
		f := &Field{Name: def.name, Word: def.word, Bit: def.bit, codec: def.codec}
		fs.list = append(fs.list, f)
		fs.index[def.name] = f
	}
	return fs
}

func mergeFieldSets(sets ...*fieldSet) *fieldSet {
	merged := &fieldSet{index: make(map[string]*Field)}
	for _, fs := range sets {
		merged.list = append(merged.list, fs.list...)
		for name, f := range fs.index {
			merged.index[name] = f
		}
	}
	return merged
}

func (fs *fieldSet) fields() []*Field {
	return fs.list
}

func (fs *fieldSet) field(name string) (*Field, bool) {
	f, ok := fs.index[name]
	return f, ok
}

func (fs *fieldSet) readFrom(frame *layers.Frame) error {
	for _, f := range fs.list {
		if err := f.ReadFrom(frame); err != nil {
			return err
		}
	}
	return nil
}

func (fs *fieldSet) writeTo(frame *layers.Frame) {
	for _, f := range fs.list {
		f.WriteTo(frame)
	}
}
