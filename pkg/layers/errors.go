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
	"fmt"
)

type ErrFrameSize struct {
	Size int
}

func (e ErrFrameSize) Error() string {
	return fmt.Sprintf("Wrong frame size: %d. Must be %d bytes", e.Size, FrameSize)
}

type ErrFrameWindow struct {
	Word  int
	Bit   int
	NBits int
}

func (e ErrFrameWindow) Error() string {
	return fmt.Sprintf("Bit window outside the frame: word %d bit %d width %d", e.Word, e.Bit, e.NBits)
}

type ErrRecordSize struct {
	Have int
	Want int
}

func (e ErrRecordSize) Error() string {
	return fmt.Sprintf("Buffer too small for bus record: have %d bytes, want %d", e.Have, e.Want)
}

type ErrRecordCount struct {
	Have int
	Want int
}

func (e ErrRecordCount) Error() string {
	return fmt.Sprintf("Bus record data does not match its command word count: have %d words, want %d", e.Have, e.Want)
}

type ErrRecordTruncated struct {
	Have int
	Want int
}

func (e ErrRecordTruncated) Error() string {
	return fmt.Sprintf("Bus record truncated: have %d bytes, want %d", e.Have, e.Want)
}
