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

package capture

import (
	"github.com/tdl-lab/go-tdl/pkg/layers"
	"github.com/tdl-lab/go-tdl/pkg/tdl"
)

// RecordFamily maps the 1553 transfer direction to the message family:
// the terminal transmits reports, the controller sends commands.
func RecordFamily(r *layers.BusRecord) tdl.Family {
	if r.Transmit() {
		return tdl.FamilyReport
	}
	return tdl.FamilyCommand
}

// Source replays one family's link frames out of a capture file, stamped
// with the record host time. Records of the other family and records too
// short to carry a frame are skipped.
type Source struct {
	family tdl.Family
	r      *Reader
	seq    uint64
}

func NewSource(family tdl.Family, r *Reader) *Source {
	return &Source{family: family, r: r}
}

func (s *Source) ReadFrame() (*tdl.StampedFrame, error) {
	for {
		rec, err := s.r.Next()
		if err != nil {
			return nil, err
		}
		if RecordFamily(rec) != s.family {
			continue
		}
		frame := rec.Frame()
		if frame == nil {
			continue
		}
		sf := &tdl.StampedFrame{Frame: frame, Received: rec.HostTime(), Seq: s.seq}
		s.seq++
		return sf, nil
	}
}
