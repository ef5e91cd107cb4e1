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

package config

const (
	ConfigDir   = ".go-tdl"
	ConfigFile  = "config"
	JournalFile = "journal.db"
	CaptureDir  = "captures"

	DefaultAddress     = "0.0.0.0"
	DefaultApiAddress  = "127.0.0.1"
	DefaultMonitorPort = 33400
	DefaultFramePort   = 33401
	DefaultApiPort     = 33402

	// DefaultTerminalRT is the 1553 remote terminal address the data link
	// terminal answers on. Records addressed to other RTs are ignored.
	DefaultTerminalRT = 5

	DefaultLogLevel = "info"
)
