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
	"time"
)

// Kind discriminates the decoded value representations.
type Kind int

const (
	KindNone Kind = iota
	KindUint
	KindInt
	KindFloat
	KindBool
	KindEnum
	KindDuration
)

var kindNames = map[Kind]string{
	KindNone:     "none",
	KindUint:     "uint",
	KindInt:      "int",
	KindFloat:    "float",
	KindBool:     "bool",
	KindEnum:     "enum",
	KindDuration: "duration",
}

func (k Kind) String() string {
	name, ok := kindNames[k]
	if !ok {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return name
}

// Value is the decoded form of a wire code. Only the member selected by Kind
// is meaningful. The zero Value has KindNone.
type Value struct {
	Kind     Kind
	Uint     uint64
	Int      int64
	Float    float64
	Bool     bool
	Enum     string
	Duration time.Duration
}

func UintValue(v uint64) Value {
	return Value{Kind: KindUint, Uint: v}
}

func IntValue(v int64) Value {
	return Value{Kind: KindInt, Int: v}
}

func FloatValue(v float64) Value {
	return Value{Kind: KindFloat, Float: v}
}

func BoolValue(v bool) Value {
	return Value{Kind: KindBool, Bool: v}
}

func EnumValue(name string) Value {
	return Value{Kind: KindEnum, Enum: name}
}

func DurationValue(d time.Duration) Value {
	return Value{Kind: KindDuration, Duration: d}
}

func (v Value) String() string {
	switch v.Kind {
	case KindNone:
		return "-"
	case KindUint:
		return fmt.Sprintf("%d", v.Uint)
	case KindInt:
		return fmt.Sprintf("%d", v.Int)
	case KindFloat:
		return fmt.Sprintf("%g", v.Float)
	case KindBool:
		return fmt.Sprintf("%t", v.Bool)
	case KindEnum:
		return v.Enum
	case KindDuration:
		return v.Duration.String()
	default:
		return fmt.Sprintf("value(kind=%d)", int(v.Kind))
	}
}
