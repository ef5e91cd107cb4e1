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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tdl-lab/go-tdl/pkg/codec"
	"github.com/tdl-lab/go-tdl/pkg/layers"
)

func TestInitDataRoundTrip(t *testing.T) {
	blocks := []DataBlock{
		{Locator: 0x1234, RequestType: RequestTypeInit, TargetBlock: 3, StartWord: 200, Count: 2, Payload: []uint32{0xAABBCCDD, 0x11223344}},
		{Locator: 0xFFFF, RequestType: RequestTypeInit, TargetBlock: 31, StartWord: 255, Count: 63},
	}
	b, err := NewInitData(blocks...)
	require.NoError(t, err)

	frames, err := b.Frames()
	require.NoError(t, err)
	require.Len(t, frames, 1)
	assert.Equal(t, BlockInitData, frames[0].BlockID())

	a := readOne(t, FamilyCommand, frames...)
	require.Equal(t, KindInitData, a.Block.Kind())
	decoded, ok := a.Block.(*InitData)
	require.True(t, ok)
	assert.Equal(t, blocks, decoded.Blocks())
	assert.Nil(t, decoded.Fields())
}

func TestInitDataEmpty(t *testing.T) {
	b, err := NewInitData()
	require.NoError(t, err)
	frames, err := b.Frames()
	require.NoError(t, err)

	a := readOne(t, FamilyCommand, frames...)
	decoded, ok := a.Block.(*InitData)
	require.True(t, ok)
	assert.Empty(t, decoded.Blocks())
}

// Words after the zero terminator are padding and must not be decoded.
func TestInitDataTerminator(t *testing.T) {
	b, err := NewInitData(DataBlock{Locator: 7, RequestType: RequestTypeInit, TargetBlock: 1, Count: 1, Payload: []uint32{42}})
	require.NoError(t, err)
	frames, err := b.Frames()
	require.NoError(t, err)
	for w := 5; w < layers.FrameWords; w++ {
		frames[0].Words[w] = 0xDEADBEEF
	}

	a := readOne(t, FamilyCommand, frames...)
	decoded, ok := a.Block.(*InitData)
	require.True(t, ok)
	require.Len(t, decoded.Blocks(), 1)
	assert.Equal(t, uint16(7), decoded.Blocks()[0].Locator)
	assert.Equal(t, []uint32{42}, decoded.Blocks()[0].Payload)
}

func TestInitDataValidation(t *testing.T) {
	t.Run("capacity", func(t *testing.T) {
		_, err := NewInitData(
			DataBlock{RequestType: RequestTypeInit, Payload: make([]uint32, 4)},
			DataBlock{RequestType: RequestTypeInit, Payload: make([]uint32, 3)},
		)
		var capErr ErrDataCapacity
		require.ErrorAs(t, err, &capErr)
		assert.Equal(t, 11, capErr.Words)
	})

	t.Run("request type", func(t *testing.T) {
		_, err := NewInitData(DataBlock{RequestType: RequestTypeReadback})
		var rtErr ErrRequestType
		require.ErrorAs(t, err, &rtErr)
		assert.Equal(t, RequestTypeReadback, rtErr.Got)
	})

	t.Run("target block range", func(t *testing.T) {
		_, err := NewInitData(DataBlock{RequestType: RequestTypeInit, TargetBlock: 32})
		assert.Error(t, err)
	})

	t.Run("count range", func(t *testing.T) {
		_, err := NewInitData(DataBlock{RequestType: RequestTypeInit, Count: 64})
		assert.Error(t, err)
	})
}

func TestInitDataDecodeErrors(t *testing.T) {
	t.Run("wrong request type", func(t *testing.T) {
		f := layers.NewFrame()
		f.SetBlockID(BlockInitData)
		f.Words[1] = 1 | 2<<16 // readback

		err := readErr(t, FamilyCommand, f)
		var rtErr ErrRequestType
		require.ErrorAs(t, err, &rtErr)
		assert.Equal(t, RequestTypeReadback, rtErr.Got)
	})

	t.Run("unmapped request type", func(t *testing.T) {
		f := layers.NewFrame()
		f.SetBlockID(BlockInitData)
		f.Words[1] = 1 | 7<<16

		err := readErr(t, FamilyCommand, f)
		var rangeErr codec.ErrRange
		assert.ErrorAs(t, err, &rangeErr)
	})

	t.Run("payload runs off the frame", func(t *testing.T) {
		f := layers.NewFrame()
		f.SetBlockID(BlockInitData)
		f.Words[1] = 1 | 1<<16 | 9<<20

		err := readErr(t, FamilyCommand, f)
		var truncErr ErrBlockTruncated
		assert.ErrorAs(t, err, &truncErr)
	})
}
