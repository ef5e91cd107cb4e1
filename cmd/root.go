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

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tdl-lab/go-tdl/cmd/completion"
	configcmd "github.com/tdl-lab/go-tdl/cmd/config"
	"github.com/tdl-lab/go-tdl/cmd/decode"
	"github.com/tdl-lab/go-tdl/cmd/flush"
	"github.com/tdl-lab/go-tdl/cmd/journal"
	"github.com/tdl-lab/go-tdl/cmd/monitor"
	"github.com/tdl-lab/go-tdl/cmd/persist"
	"github.com/tdl-lab/go-tdl/cmd/status"
	"github.com/tdl-lab/go-tdl/cmd/timesync"
	pkgconfig "github.com/tdl-lab/go-tdl/pkg/config"
	"github.com/tdl-lab/go-tdl/pkg/log"
)

const (
	LogLevelOptionName = "log-level"
	ConfigOptionName   = "config"
)

func NewRootCommand(out io.Writer) *cobra.Command {
	var logLevel, configPath string
	cfg := pkgconfig.NewDefaultConfig()
	cmd := &cobra.Command{
		Use:   "go-tdl",
		Short: "Tool to monitor tactical data link terminals on a 1553 bus",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if configPath != "" {
				cfg.SetPath(configPath)
			}
			cfg.Load()
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			log.Init(cmd.ErrOrStderr(), cfg.LogLevel)
		},
	}
	cmd.SetOut(out)
	cmd.AddCommand(configcmd.NewCommand(cfg))
	cmd.AddCommand(monitor.NewCommand(cfg))
	cmd.AddCommand(decode.NewCommand())
	cmd.AddCommand(status.NewCommand(cfg))
	cmd.AddCommand(timesync.NewCommand(cfg))
	cmd.AddCommand(journal.NewCommand(cfg))
	cmd.AddCommand(persist.NewCommand(cfg))
	cmd.AddCommand(flush.NewCommand(cfg))
	cmd.AddCommand(completion.NewCommand())
	cmd.PersistentFlags().StringVar(&logLevel, LogLevelOptionName, "", fmt.Sprintf("Log level. %s", log.HelpLevels))
	cmd.PersistentFlags().StringVar(&configPath, ConfigOptionName, "", fmt.Sprintf("Config file location. Default: %s", pkgconfig.DefaultConfigPath()))
	return cmd
}
