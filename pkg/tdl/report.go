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
	"time"

	"github.com/tdl-lab/go-tdl/pkg/codec"
)

const (
	FieldAlertCode = "alertCode"
	FieldSeverity  = "severity"
	FieldParameter = "parameter"
	FieldAlertTime = "alertTime"

	FieldTimeSource    = "timeSource"
	FieldFigureOfMerit = "figureOfMerit"
	FieldTimeOfDay     = "timeOfDay"

	FieldMode          = "mode"
	FieldSyncState     = "syncState"
	FieldActiveTracks  = "activeTracks"
	FieldNetEntry      = "netEntry"
	FieldUptimeMinutes = "uptimeMinutes"
	FieldLoadPercent   = "loadPercent"
	FieldLastError     = "lastError"
)

var (
	severityNames   = []string{"advisory", "caution", "warning", "emergency"}
	timeSourceNames = []string{"internal", "external", "net", "manual"}
	modeNames       = []string{"off", "standby", "normal", "silent", "maintenance", "degraded", "test", "shutdown"}
	syncStateNames  = []string{"none", "coarse", "fine", "free"}
)

var systemAlertDefs = []fieldDef{
	{FieldAlertCode, 0, 6, codec.UInt(8)},
	{FieldSeverity, 0, 14, codec.Enum(2, severityNames...)},
	{FieldParameter, 1, 0, codec.UInt(32)},
	{FieldAlertTime, 2, 0, codec.TimeOfDay()},
}

// SystemAlert is an unsolicited terminal alert with one parameter word.
type SystemAlert struct {
	singleBlock
}

func NewSystemAlert() *SystemAlert {
	return &SystemAlert{singleBlock{
		family: FamilyReport,
		kind:   KindSystemAlert,
		id:     BlockSystemAlert,
		set:    newFieldSet(systemAlertDefs),
	}}
}

var timeOfDayDefs = []fieldDef{
	{FieldTimeSource, 0, 6, codec.Enum(2, timeSourceNames...)},
	{FieldFigureOfMerit, 0, 8, codec.UInt(4)},
	{FieldTimeOfDay, 1, 0, codec.TimeOfDay()},
}

// TimeOfDay reports the terminal clock. These messages drive the time
// filters.
type TimeOfDay struct {
	singleBlock
}

func NewTimeOfDay() *TimeOfDay {
	return &TimeOfDay{singleBlock{
		family: FamilyReport,
		kind:   KindTimeOfDay,
		id:     BlockTimeOfDay,
		set:    newFieldSet(timeOfDayDefs),
	}}
}

// Time returns the packed time of day the report carries.
func (b *TimeOfDay) Time() time.Duration {
	f, _ := b.Field(FieldTimeOfDay)
	return f.Value().Duration
}

var statusSummaryDefs = []fieldDef{
	{FieldMode, 0, 6, codec.Enum(3, modeNames...)},
	{FieldSyncState, 0, 9, codec.Enum(2, syncStateNames...)},
	{FieldActiveTracks, 0, 11, codec.UInt(6)},
	{FieldNetEntry, 0, 17, codec.Bool()},
	{FieldUptimeMinutes, 1, 0, codec.UInt(16)},
	{FieldLoadPercent, 1, 16, codec.UInt(8)},
	{FieldLastError, 2, 0, codec.UInt(16)},
}

// StatusSummary is the periodic terminal health report.
type StatusSummary struct {
	singleBlock
}

func NewStatusSummary() *StatusSummary {
	return &StatusSummary{singleBlock{
		family: FamilyReport,
		kind:   KindStatusSummary,
		id:     BlockStatusSummary,
		set:    newFieldSet(statusSummaryDefs),
	}}
}
