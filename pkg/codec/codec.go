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
	"math"
	"time"
)

const secondsPerDay = 86400

// Tick is the sub-second resolution of the packed time of day, 1/64 s.
const Tick = time.Second / 64

// Codec converts between a wire code and its decoded value. The code passed
// to Decode is the raw window content, already confined to the low Bits()
// bits. Encode returns a code confined the same way.
type Codec interface {
	Bits() int
	Decode(code uint32) (Value, error)
	Encode(v Value) (uint32, error)
	String() string
}

func maxCode(bits int) uint64 {
	return uint64(1)<<uint(bits) - 1
}

func signExtend(code uint32, bits int) int64 {
	shift := uint(64 - bits)
	return int64(uint64(code)<<shift) >> shift
}

type UIntCodec struct {
	NBits int
}

func UInt(bits int) UIntCodec {
	return UIntCodec{NBits: bits}
}

func (c UIntCodec) Bits() int {
	return c.NBits
}

func (c UIntCodec) String() string {
	return fmt.Sprintf("uint%d", c.NBits)
}

func (c UIntCodec) Decode(code uint32) (Value, error) {
	return UintValue(uint64(code)), nil
}

func (c UIntCodec) Encode(v Value) (uint32, error) {
	if v.Kind != KindUint {
		return 0, ErrKind{Codec: c.String(), Want: KindUint, Got: v.Kind}
	}
	if v.Uint > maxCode(c.NBits) {
		return 0, ErrRange{Codec: c.String(), Got: v.String()}
	}
	return uint32(v.Uint), nil
}

type SIntCodec struct {
	NBits int
}

func SInt(bits int) SIntCodec {
	return SIntCodec{NBits: bits}
}

func (c SIntCodec) Bits() int {
	return c.NBits
}

func (c SIntCodec) String() string {
	return fmt.Sprintf("int%d", c.NBits)
}

func (c SIntCodec) Decode(code uint32) (Value, error) {
	return IntValue(signExtend(code, c.NBits)), nil
}

func (c SIntCodec) Encode(v Value) (uint32, error) {
	if v.Kind != KindInt {
		return 0, ErrKind{Codec: c.String(), Want: KindInt, Got: v.Kind}
	}
	min := -(int64(1) << uint(c.NBits-1))
	max := int64(1)<<uint(c.NBits-1) - 1
	if v.Int < min || v.Int > max {
		return 0, ErrRange{Codec: c.String(), Got: v.String()}
	}
	return uint32(uint64(v.Int) & maxCode(c.NBits)), nil
}

// ScaledCodec is a two's complement code with a scale factor. Decode
// sign-extends the code and multiplies by Factor, Encode divides and rounds
// to the nearest code.
type ScaledCodec struct {
	NBits  int
	Factor float64
}

func Scaled(bits int, factor float64) ScaledCodec {
	return ScaledCodec{NBits: bits, Factor: factor}
}

// Angle returns a scaled codec covering [-halfRange, halfRange) with the
// full code space, e.g. Angle(16, 180) for a semicircle-weighted azimuth.
func Angle(bits int, halfRange float64) ScaledCodec {
	return ScaledCodec{NBits: bits, Factor: halfRange / float64(uint64(1)<<uint(bits-1))}
}

func (c ScaledCodec) Bits() int {
	return c.NBits
}

func (c ScaledCodec) String() string {
	return fmt.Sprintf("scaled%d", c.NBits)
}

func (c ScaledCodec) Decode(code uint32) (Value, error) {
	return FloatValue(float64(signExtend(code, c.NBits)) * c.Factor), nil
}

func (c ScaledCodec) Encode(v Value) (uint32, error) {
	if v.Kind != KindFloat {
		return 0, ErrKind{Codec: c.String(), Want: KindFloat, Got: v.Kind}
	}
	units := math.Round(v.Float / c.Factor)
	min := -(float64(uint64(1) << uint(c.NBits-1)))
	max := float64(uint64(1)<<uint(c.NBits-1)) - 1
	if math.IsNaN(units) || units < min || units > max {
		return 0, ErrRange{Codec: c.String(), Got: v.String()}
	}
	return uint32(uint64(int64(units)) & maxCode(c.NBits)), nil
}

// DerivedCodec is a read-only view of a scaled code shifted by a fixed
// offset, e.g. an antenna-relative angle presented in body coordinates. The
// underlying wire field owns the value, so encoding through the derived view
// fails fast instead of truncating.
type DerivedCodec struct {
	NBits  int
	Factor float64
	Offset float64
}

func DerivedAngle(bits int, halfRange, offset float64) DerivedCodec {
	return DerivedCodec{
		NBits:  bits,
		Factor: halfRange / float64(uint64(1)<<uint(bits-1)),
		Offset: offset,
	}
}

func (c DerivedCodec) Bits() int {
	return c.NBits
}

func (c DerivedCodec) String() string {
	return fmt.Sprintf("derived%d", c.NBits)
}

func (c DerivedCodec) Decode(code uint32) (Value, error) {
	return FloatValue(float64(signExtend(code, c.NBits))*c.Factor + c.Offset), nil
}

func (c DerivedCodec) Encode(v Value) (uint32, error) {
	return 0, ErrDirection{Codec: c.String(), Op: "encode"}
}

type BoolCodec struct{}

func Bool() BoolCodec {
	return BoolCodec{}
}

func (c BoolCodec) Bits() int {
	return 1
}

func (c BoolCodec) String() string {
	return "bool"
}

func (c BoolCodec) Decode(code uint32) (Value, error) {
	return BoolValue(code&1 == 1), nil
}

func (c BoolCodec) Encode(v Value) (uint32, error) {
	if v.Kind != KindBool {
		return 0, ErrKind{Codec: c.String(), Want: KindBool, Got: v.Kind}
	}
	if v.Bool {
		return 1, nil
	}
	return 0, nil
}

// EnumCodec maps codes to names of a small closed set. Gaps are expressed
// as empty names.
type EnumCodec struct {
	NBits int
	Names []string
}

func Enum(bits int, names ...string) EnumCodec {
	return EnumCodec{NBits: bits, Names: names}
}

func (c EnumCodec) Bits() int {
	return c.NBits
}

func (c EnumCodec) String() string {
	return fmt.Sprintf("enum%d", c.NBits)
}

func (c EnumCodec) Decode(code uint32) (Value, error) {
	if int(code) >= len(c.Names) || c.Names[code] == "" {
		return Value{}, ErrRange{Codec: c.String(), Got: fmt.Sprintf("code %d", code)}
	}
	return EnumValue(c.Names[code]), nil
}

func (c EnumCodec) Encode(v Value) (uint32, error) {
	if v.Kind != KindEnum {
		return 0, ErrKind{Codec: c.String(), Want: KindEnum, Got: v.Kind}
	}
	for i, name := range c.Names {
		if name != "" && name == v.Enum {
			if uint64(i) > maxCode(c.NBits) {
				return 0, ErrRange{Codec: c.String(), Got: v.String()}
			}
			return uint32(i), nil
		}
	}
	return 0, ErrRange{Codec: c.String(), Got: v.String()}
}

// TimeCodec packs a time of day into 24 bits: the low 6 bits hold 1/64 s
// ticks, the high 18 bits hold whole seconds of day.
type TimeCodec struct{}

func TimeOfDay() TimeCodec {
	return TimeCodec{}
}

func (c TimeCodec) Bits() int {
	return 24
}

func (c TimeCodec) String() string {
	return "time24"
}

func (c TimeCodec) Decode(code uint32) (Value, error) {
	ticks := code & 0x3f
	secs := code >> 6
	if secs >= secondsPerDay {
		return Value{}, ErrRange{Codec: c.String(), Got: fmt.Sprintf("%d s", secs)}
	}
	return DurationValue(time.Duration(secs)*time.Second + time.Duration(ticks)*Tick), nil
}

func (c TimeCodec) Encode(v Value) (uint32, error) {
	if v.Kind != KindDuration {
		return 0, ErrKind{Codec: c.String(), Want: KindDuration, Got: v.Kind}
	}
	d := v.Duration
	if d < 0 || d >= secondsPerDay*time.Second {
		return 0, ErrRange{Codec: c.String(), Got: v.String()}
	}
	secs := uint32(d / time.Second)
	ticks := uint32(d % time.Second / Tick)
	return secs<<6 | ticks, nil
}

// SpareCodec fills a reserved window. It decodes to nothing and always
// encodes zero.
type SpareCodec struct {
	NBits int
}

func Spare(bits int) SpareCodec {
	return SpareCodec{NBits: bits}
}

func (c SpareCodec) Bits() int {
	return c.NBits
}

func (c SpareCodec) String() string {
	return fmt.Sprintf("spare%d", c.NBits)
}

func (c SpareCodec) Decode(code uint32) (Value, error) {
	return Value{}, nil
}

func (c SpareCodec) Encode(v Value) (uint32, error) {
	return 0, nil
}
