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

package busmon

import (
	"fmt"
)

// ErrCaptureActive returned when persist is requested while a capture file is open
type ErrCaptureActive struct {
	Path string
}

func (e ErrCaptureActive) Error() string {
	return fmt.Sprintf("Capture is already active: %s", e.Path)
}

// ErrNoCapture returned when flush is requested with no capture file open
type ErrNoCapture struct{}

func (e ErrNoCapture) Error() string {
	return "No active capture"
}

// ErrBucketNotFound ...
type ErrBucketNotFound struct {
	Name string
}

func (e ErrBucketNotFound) Error() string {
	return fmt.Sprintf("Bucket not found: %s", e.Name)
}
