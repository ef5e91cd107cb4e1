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

package monitor

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tdl-lab/go-tdl/pkg/command"
	"github.com/tdl-lab/go-tdl/pkg/config"
)

const (
	AddressOptionName     = "address"
	MonitorPortOptionName = "monitor-port"
	FramePortOptionName   = "frame-port"
	TerminalRTOptionName  = "terminal-rt"
)

func NewCommand(cfg *config.Config) *cobra.Command {
	var address string
	var monitorPort, framePort, terminalRT int
	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Start bus monitor server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if address != "" {
				cfg.MonitorConfig.Address = address
			}
			if monitorPort != 0 {
				cfg.MonitorConfig.MonitorPort = monitorPort
			}
			if framePort != 0 {
				cfg.MonitorConfig.FramePort = framePort
			}
			if terminalRT >= 0 {
				if terminalRT > 31 {
					return fmt.Errorf("Remote terminal address must be in range 0..31, got %d", terminalRT)
				}
				cfg.MonitorConfig.TerminalRT = uint8(terminalRT)
			}
			return command.StartMonitorServer(cfg)
		},
	}
	cmd.Flags().StringVar(&address, AddressOptionName, "", fmt.Sprintf("Address to bind. E.g. %s", config.DefaultAddress))
	cmd.Flags().IntVar(&monitorPort, MonitorPortOptionName, 0, fmt.Sprintf("Port for bus record datagrams. E.g. %d", config.DefaultMonitorPort))
	cmd.Flags().IntVar(&framePort, FramePortOptionName, 0, fmt.Sprintf("Port for raw frame datagrams. E.g. %d", config.DefaultFramePort))
	cmd.Flags().IntVar(&terminalRT, TerminalRTOptionName, -1, fmt.Sprintf("Remote terminal address to monitor. Default: %d", config.DefaultTerminalRT))

	return cmd
}
