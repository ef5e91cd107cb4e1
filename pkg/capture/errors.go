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
	"fmt"
)

// ErrWriterClosed reports a write into a flushed capture.
type ErrWriterClosed struct {
	Path string
}

func (e ErrWriterClosed) Error() string {
	return fmt.Sprintf("Capture %s is already flushed", e.Path)
}

// ErrCaptureTruncated reports a capture file cut mid-record.
type ErrCaptureTruncated struct {
	Path string
}

func (e ErrCaptureTruncated) Error() string {
	return fmt.Sprintf("Capture %s is truncated", e.Path)
}

// ErrLengthMismatch reports a length prefix that disagrees with the record
// it frames.
type ErrLengthMismatch struct {
	Prefix int
	Record int
}

func (e ErrLengthMismatch) Error() string {
	return fmt.Sprintf("Record length mismatch: prefix says %d bytes, record is %d", e.Prefix, e.Record)
}
