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
	"time"

	"github.com/tdl-lab/go-tdl/pkg/layers"
)

// StampedFrame couples a frame with its arrival metadata.
type StampedFrame struct {
	*layers.Frame
	Received time.Time
	Seq      uint64
}

// FrameSource yields stamped frames in arrival order. Implementations
// return io.EOF once no more frames will arrive.
type FrameSource interface {
	ReadFrame() (*StampedFrame, error)
}

// Assembly is one decoded message together with the frames it was
// assembled from.
type Assembly struct {
	Block  Block
	Frames []*StampedFrame
}

// Reader assembles messages of a single family from a frame source.
// Multi-frame messages consume their continuation frames inside Next,
// so consecutive calls never interleave.
type Reader struct {
	family Family
	src    FrameSource
}

func NewReader(family Family, src FrameSource) *Reader {
	return &Reader{family: family, src: src}
}

// Next reads frames until a complete message is assembled. Source
// errors, io.EOF included, pass through untouched.
func (r *Reader) Next() (*Assembly, error) {
	first, err := r.src.ReadFrame()
	if err != nil {
		return nil, err
	}
	frames := []*StampedFrame{first}
	next := func() (*StampedFrame, error) {
		sf, err := r.src.ReadFrame()
		if err != nil {
			return nil, err
		}
		frames = append(frames, sf)
		return sf, nil
	}
	block, err := r.decode(first, next)
	if err != nil {
		return nil, err
	}
	return &Assembly{Block: block, Frames: frames}, nil
}

func (r *Reader) decode(first *StampedFrame, next func() (*StampedFrame, error)) (Block, error) {
	if first.Wrap() {
		return wrapAroundFrom(r.family, first.Frame), nil
	}
	id := first.BlockID()
	// continuation kinds claim their block id ahead of the single-frame table
	switch {
	case r.family == FamilyReport && id == BlockTrackReport:
		return decodeTrackReport(first.Frame, next)
	case r.family == FamilyCommand && id == BlockInitStatus:
		return decodeInitStatus(first.Frame, next)
	}
	switch r.family {
	case FamilyReport:
		switch id {
		case BlockSystemAlert:
			b := NewSystemAlert()
			if err := b.decode(first.Frame); err != nil {
				return nil, err
			}
			return b, nil
		case BlockTimeOfDay:
			b := NewTimeOfDay()
			if err := b.decode(first.Frame); err != nil {
				return nil, err
			}
			return b, nil
		case BlockStatusSummary:
			b := NewStatusSummary()
			if err := b.decode(first.Frame); err != nil {
				return nil, err
			}
			return b, nil
		}
	case FamilyCommand:
		switch id {
		case BlockModeSelect:
			b := NewModeSelect()
			if err := b.decode(first.Frame); err != nil {
				return nil, err
			}
			return b, nil
		case BlockInitData:
			return decodeInitData(first.Frame)
		}
	}
	return NewUnknown(r.family, first.Frame), nil
}
