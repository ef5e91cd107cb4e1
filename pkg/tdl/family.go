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

// Family selects one of the two independent message streams. Report frames
// are what the terminal transmits on the bus, command frames are what the
// bus controller sends to it. The 5-bit block id space is separate per
// family.
type Family int

const (
	FamilyReport Family = iota
	FamilyCommand
)

var familyNames = map[Family]string{
	FamilyReport:  "report",
	FamilyCommand: "command",
}

func (f Family) String() string {
	name, ok := familyNames[f]
	if !ok {
		return fmt.Sprintf("family(%d)", int(f))
	}
	return name
}

func ParseFamily(name string) (Family, error) {
	for family, n := range familyNames {
		if n == name {
			return family, nil
		}
	}
	return 0, fmt.Errorf("Unknown family: %s. Must be one of: report, command", name)
}

// Kind identifies a decoded message variant across both families.
type Kind int

const (
	KindUnknown Kind = iota
	KindWrapAround
	KindSystemAlert
	KindTrackReport
	KindTimeOfDay
	KindStatusSummary
	KindModeSelect
	KindInitData
	KindInitStatus
)

var kindNames = map[Kind]string{
	KindUnknown:       "unknown",
	KindWrapAround:    "wrap-around",
	KindSystemAlert:   "system-alert",
	KindTrackReport:   "track-report",
	KindTimeOfDay:     "time-of-day",
	KindStatusSummary: "status-summary",
	KindModeSelect:    "mode-select",
	KindInitData:      "init-data",
	KindInitStatus:    "init-status",
}

func (k Kind) String() string {
	name, ok := kindNames[k]
	if !ok {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return name
}

// Report family block ids.
const (
	BlockSystemAlert   uint8 = 0x01
	BlockTrackReport   uint8 = 0x02
	BlockTimeOfDay     uint8 = 0x03
	BlockStatusSummary uint8 = 0x04
)

// Command family block ids.
const (
	BlockModeSelect uint8 = 0x01
	BlockInitData   uint8 = 0x05
	BlockInitStatus uint8 = 0x06
)
