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
	"fmt"
	"io"

	"github.com/tdl-lab/go-tdl/pkg/codec"
	"github.com/tdl-lab/go-tdl/pkg/layers"
)

// Sub-block structure in word 0, shared by the continued message kinds.
// The id is 1-based; the count appears only in the first sub-block.
const (
	subBlockIDBit     = 6
	subBlockIDBits    = 3
	subBlockCountBit  = 9
	subBlockCountBits = 3

	// MaxSubBlocks caps the declared sub-block count
	MaxSubBlocks = 7
)

func subBlockID(f *layers.Frame) uint8 {
	return uint8(f.Code(0, subBlockIDBit, subBlockIDBits))
}

func setSubBlockID(f *layers.Frame, id uint8) {
	f.SetCode(0, subBlockIDBit, subBlockIDBits, uint32(id))
}

func subBlockCount(f *layers.Frame) int {
	return int(f.Code(0, subBlockCountBit, subBlockCountBits))
}

func setSubBlockCount(f *layers.Frame, n int) {
	f.SetCode(0, subBlockCountBit, subBlockCountBits, uint32(n))
}

// Track report geometry. The first sub-block holds the header and two track
// groups, each continuation holds three more.
const (
	trackTotalBit  = 12
	trackTotalBits = 5

	firstFrameGroups = 2
	contFrameGroups  = 3

	// MaxTrackGroups is the largest track count a single report can carry
	MaxTrackGroups = firstFrameGroups + (MaxSubBlocks-1)*contFrameGroups
)

const (
	FieldReportTime = "reportTime"
	FieldTrackTotal = "trackTotal"

	FieldTrackNumber = "number"
	FieldAzimuth     = "azimuth"
	FieldElevation   = "elevation"
	FieldRange       = "range"
	FieldQuality     = "quality"
	FieldIdentity    = "identity"
)

var identityNames = []string{"pending", "unknown", "assumed-friend", "friend", "neutral", "suspect", "hostile", "undefined"}

var trackHeaderDefs = []fieldDef{
	{FieldTrackTotal, 0, trackTotalBit, codec.UInt(trackTotalBits)},
	{FieldReportTime, 1, 0, codec.TimeOfDay()},
}

// TrackFrameCount returns the number of frames a report with n track groups
// occupies.
func TrackFrameCount(n int) int {
	if n <= firstFrameGroups {
		return 1
	}
	return 1 + (n-firstFrameGroups+contFrameGroups-1)/contFrameGroups
}

// trackGroupSlot returns the frame index and base word of group i.
func trackGroupSlot(i int) (frame, word int) {
	if i < firstFrameGroups {
		return 0, 2 + 2*i
	}
	j := i - firstFrameGroups
	return 1 + j/contFrameGroups, 1 + 2*(j%contFrameGroups)
}

// TrackGroup is one two-word track entry of a report. The exported field
// pointers alias the entries of the report's field list.
type TrackGroup struct {
	Number    *Field
	Azimuth   *Field
	Elevation *Field
	Range     *Field
	Quality   *Field
	Identity  *Field

	frame int
	set   *fieldSet
}

func newTrackGroup(i int) *TrackGroup {
	frame, word := trackGroupSlot(i)
	prefix := fmt.Sprintf("track%d.", i+1)
	set := newFieldSet([]fieldDef{
		{prefix + FieldTrackNumber, word, 0, codec.UInt(16)},
		{prefix + FieldAzimuth, word, 16, codec.Angle(16, 180)},
		{prefix + FieldElevation, word + 1, 0, codec.Angle(16, 90)},
		{prefix + FieldRange, word + 1, 16, codec.Scaled(10, 0.5)},
		{prefix + FieldQuality, word + 1, 26, codec.UInt(3)},
		{prefix + FieldIdentity, word + 1, 29, codec.Enum(3, identityNames...)},
	})
	g := &TrackGroup{frame: frame, set: set}
	g.Number = set.list[0]
	g.Azimuth = set.list[1]
	g.Elevation = set.list[2]
	g.Range = set.list[3]
	g.Quality = set.list[4]
	g.Identity = set.list[5]
	return g
}

// TrackReport carries up to MaxTrackGroups surveillance tracks split over
// continuation sub-blocks consumed in ascending sub-block id order.
type TrackReport struct {
	header *fieldSet
	groups []*TrackGroup
	all    *fieldSet
}

func NewTrackReport(total int) (*TrackReport, error) {
	if total < 1 || total > MaxTrackGroups {
		return nil, ErrTrackTotal{Total: total}
	}
	b := &TrackReport{header: newFieldSet(trackHeaderDefs)}
	sets := []*fieldSet{b.header}
	for i := 0; i < total; i++ {
		g := newTrackGroup(i)
		b.groups = append(b.groups, g)
		sets = append(sets, g.set)
	}
	b.all = mergeFieldSets(sets...)

	total1, _ := b.header.field(FieldTrackTotal)
	if err := total1.SetValue(codec.UintValue(uint64(total))); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *TrackReport) Kind() Kind {
	return KindTrackReport
}

func (b *TrackReport) Family() Family {
	return FamilyReport
}

func (b *TrackReport) BlockID() uint8 {
	return BlockTrackReport
}

func (b *TrackReport) Fields() []*Field {
	return b.all.fields()
}

func (b *TrackReport) Field(name string) (*Field, bool) {
	return b.all.field(name)
}

func (b *TrackReport) Groups() []*TrackGroup {
	return b.groups
}

// SubBlocks returns the number of frames the report encodes to.
func (b *TrackReport) SubBlocks() int {
	return TrackFrameCount(len(b.groups))
}

func (b *TrackReport) Frames() ([]*layers.Frame, error) {
	count := TrackFrameCount(len(b.groups))
	frames := make([]*layers.Frame, count)
	for i := range frames {
		frame := layers.NewFrame()
		frame.SetBlockID(BlockTrackReport)
		setSubBlockID(frame, uint8(i+1))
		frames[i] = frame
	}
	setSubBlockCount(frames[0], count)
	b.header.writeTo(frames[0])
	for _, g := range b.groups {
		g.set.writeTo(frames[g.frame])
	}
	return frames, nil
}

func (b *TrackReport) String() string {
	return fmt.Sprintf("%s(%d tracks)", KindTrackReport, len(b.groups))
}

func (b *TrackReport) readGroups(frameIndex int, frame *layers.Frame) error {
	for _, g := range b.groups {
		if g.frame != frameIndex {
			continue
		}
		if err := g.set.readFrom(frame); err != nil {
			return err
		}
	}
	return nil
}

func decodeTrackReport(first *layers.Frame, next func() (*StampedFrame, error)) (*TrackReport, error) {
	if sid := subBlockID(first); sid != 1 {
		return nil, ErrSubBlockOrder{Want: 1, Got: sid}
	}
	declared := subBlockCount(first)
	total := int(first.Code(0, trackTotalBit, trackTotalBits))
	if total < 1 || total > MaxTrackGroups {
		return nil, ErrTrackTotal{Total: total}
	}
	if declared != TrackFrameCount(total) {
		return nil, ErrSubBlockCount{Declared: declared, Want: TrackFrameCount(total)}
	}

	b, err := NewTrackReport(total)
	if err != nil {
		return nil, err
	}
	if err := b.header.readFrom(first); err != nil {
		return nil, err
	}
	if err := b.readGroups(0, first); err != nil {
		return nil, err
	}

	for fi := 1; fi < declared; fi++ {
		sf, err := next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, ErrBlockTruncated{Kind: KindTrackReport, SubBlock: fi + 1}
			}
			return nil, err
		}
		if sf.Wrap() || sf.BlockID() != BlockTrackReport {
			return nil, ErrUnexpectedBlock{Family: FamilyReport, Want: BlockTrackReport, Got: sf.BlockID()}
		}
		if sid := subBlockID(sf.Frame); sid != uint8(fi+1) {
			return nil, ErrSubBlockOrder{Want: uint8(fi + 1), Got: sid}
		}
		if err := b.readGroups(fi, sf.Frame); err != nil {
			return nil, err
		}
	}
	return b, nil
}
