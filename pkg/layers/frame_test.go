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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestFrameBytesRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		f := NewFrame()
		for i := range f.Words {
			f.Words[i] = rapid.Uint32().Draw(t, "word")
		}
		back, err := FrameFromBytes(f.Bytes())
		require.NoError(t, err)
		assert.Equal(t, f.Words, back.Words)
	})
}

func TestFrameBytesLittleEndian(t *testing.T) {
	f := NewFrame()
	f.Words[0] = 0x04030201
	f.Words[8] = 0xaabbccdd

	buf := f.Bytes()
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, buf[0:4])
	assert.Equal(t, []byte{0xdd, 0xcc, 0xbb, 0xaa}, buf[32:36])
}

func TestFrameFromBytesSize(t *testing.T) {
	var sizeErr ErrFrameSize

	_, err := FrameFromBytes(make([]byte, FrameSize-1))
	require.ErrorAs(t, err, &sizeErr)
	assert.Equal(t, FrameSize-1, sizeErr.Size)

	_, err = FrameFromBytes(make([]byte, FrameSize+1))
	assert.ErrorAs(t, err, &sizeErr)
}

func TestFrameCodeWindow(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		f := NewFrame()
		for i := range f.Words {
			f.Words[i] = rapid.Uint32().Draw(t, "word")
		}
		word := rapid.IntRange(0, FrameWords-1).Draw(t, "windowWord")
		nbits := rapid.IntRange(1, 32).Draw(t, "nbits")
		bit := rapid.IntRange(0, 32-nbits).Draw(t, "bit")
		code := uint32(rapid.Uint64Range(0, uint64(1)<<uint(nbits)-1).Draw(t, "code"))

		require.NoError(t, CheckWindow(word, bit, nbits))

		before := f.Words
		f.SetCode(word, bit, nbits, code)
		assert.Equal(t, code, f.Code(word, bit, nbits))

		// bits outside the window stay put
		mask := windowMask(nbits) << uint(bit)
		assert.Equal(t, before[word]&^mask, f.Words[word]&^mask)
		for i := range f.Words {
			if i != word {
				assert.Equal(t, before[i], f.Words[i])
			}
		}
	})
}

func TestCheckWindow(t *testing.T) {
	tests := []struct {
		name  string
		word  int
		bit   int
		nbits int
		ok    bool
	}{
		{"full word", 0, 0, 32, true},
		{"top bit", 8, 31, 1, true},
		{"word out of range", 9, 0, 1, false},
		{"negative word", -1, 0, 1, false},
		{"crosses word boundary", 0, 30, 4, false},
		{"zero width", 0, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckWindow(tt.word, tt.bit, tt.nbits)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				var windowErr ErrFrameWindow
				assert.ErrorAs(t, err, &windowErr)
			}
		})
	}
}

func TestFrameWrapAndBlockID(t *testing.T) {
	f := NewFrame()
	f.SetBlockID(0x15)
	f.SetWrap(true)

	assert.True(t, f.Wrap())
	assert.Equal(t, uint8(0x15), f.BlockID())

	f.SetWrap(false)
	assert.False(t, f.Wrap())
	assert.Equal(t, uint8(0x15), f.BlockID())
}

func TestFrameDataWordsRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		f := NewFrame()
		for i := range f.Words {
			f.Words[i] = rapid.Uint32().Draw(t, "word")
		}
		back, err := FrameFromDataWords(f.DataWords())
		require.NoError(t, err)
		assert.Equal(t, f.Words, back.Words)
	})
}
