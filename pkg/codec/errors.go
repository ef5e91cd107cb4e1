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

package codec

import (
	"fmt"
)

// ErrRange reports a code or value outside the representable range of a
// codec. Out of range input fails immediately, it is never saturated.
type ErrRange struct {
	Codec string
	Got   string
}

func (e ErrRange) Error() string {
	return fmt.Sprintf("%s: out of range: %s", e.Codec, e.Got)
}

// ErrDirection reports an unsupported conversion direction on a one-way
// codec.
type ErrDirection struct {
	Codec string
	Op    string
}

func (e ErrDirection) Error() string {
	return fmt.Sprintf("%s: %s not supported", e.Codec, e.Op)
}

// ErrKind reports a value of the wrong kind passed to Encode.
type ErrKind struct {
	Codec string
	Want  Kind
	Got   Kind
}

func (e ErrKind) Error() string {
	return fmt.Sprintf("%s: want %s value, got %s", e.Codec, e.Want, e.Got)
}
