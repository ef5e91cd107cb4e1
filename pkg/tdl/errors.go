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
)

// ErrUnexpectedBlock reports a frame with the wrong block id arriving in
// the middle of a continued message.
type ErrUnexpectedBlock struct {
	Family Family
	Want   uint8
	Got    uint8
}

func (e ErrUnexpectedBlock) Error() string {
	return fmt.Sprintf("Unexpected %s block in continued message: want 0x%02x, got 0x%02x", e.Family, e.Want, e.Got)
}

// ErrSubBlockOrder reports a continuation sub-block arriving out of
// ascending order.
type ErrSubBlockOrder struct {
	Want uint8
	Got  uint8
}

func (e ErrSubBlockOrder) Error() string {
	return fmt.Sprintf("Sub-block out of order: want %d, got %d", e.Want, e.Got)
}

// ErrSubBlockCount reports a declared sub-block count that does not match
// the message structure.
type ErrSubBlockCount struct {
	Declared int
	Want     int
}

func (e ErrSubBlockCount) Error() string {
	return fmt.Sprintf("Wrong sub-block count: declared %d, structure needs %d", e.Declared, e.Want)
}

// ErrBlockTruncated reports a message cut short, either by end of stream
// between sub-blocks or by running off the end of a frame.
type ErrBlockTruncated struct {
	Kind     Kind
	SubBlock int
}

func (e ErrBlockTruncated) Error() string {
	return fmt.Sprintf("Truncated %s message at sub-block %d", e.Kind, e.SubBlock)
}

type ErrTrackTotal struct {
	Total int
}

func (e ErrTrackTotal) Error() string {
	return fmt.Sprintf("Track total out of range: %d. Must be 1..%d", e.Total, MaxTrackGroups)
}

// ErrRequestType reports a data block whose request type is not the
// initialization load the terminal accepts.
type ErrRequestType struct {
	Got string
}

func (e ErrRequestType) Error() string {
	return fmt.Sprintf("Wrong data block request type: %s. Must be %s", e.Got, RequestTypeInit)
}

// ErrDataCapacity reports an init-data message that does not fit a frame.
type ErrDataCapacity struct {
	Words int
}

func (e ErrDataCapacity) Error() string {
	return fmt.Sprintf("Init data blocks do not fit a frame: %d words", e.Words)
}
