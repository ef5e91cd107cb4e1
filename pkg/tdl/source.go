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
	"io"
	"time"

	"github.com/tdl-lab/go-tdl/pkg/layers"
)

// SourceFunc adapts a function to the FrameSource interface.
type SourceFunc func() (*StampedFrame, error)

func (f SourceFunc) ReadFrame() (*StampedFrame, error) {
	return f()
}

// SliceSource serves a fixed sequence of frames, stamping each with an
// increasing sequence number. Used for replay and in tests.
type SliceSource struct {
	frames []*layers.Frame
	next   int
	seq    uint64
}

func NewSliceSource(frames ...*layers.Frame) *SliceSource {
	return &SliceSource{frames: frames}
}

func (s *SliceSource) ReadFrame() (*StampedFrame, error) {
	if s.next >= len(s.frames) {
		return nil, io.EOF
	}
	sf := &StampedFrame{
		Frame:    s.frames[s.next],
		Received: time.Now(),
		Seq:      s.seq,
	}
	s.next++
	s.seq++
	return sf, nil
}
