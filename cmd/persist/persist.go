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

package persist

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tdl-lab/go-tdl/pkg/command"
	"github.com/tdl-lab/go-tdl/pkg/config"
	"github.com/tdl-lab/go-tdl/pkg/srv/busmon"
)

const (
	DirOptionName    = "dir"
	PrefixOptionName = "prefix"
)

func NewCommand(cfg *config.Config) *cobra.Command {
	var dir, prefix string
	cmd := &cobra.Command{
		Use:   "persist",
		Short: "Start writing received bus records to a capture file",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient := command.NewApiClient(cfg)
			path, err := apiClient.Persist(dir, prefix)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, DirOptionName, "", "Directory for the capture file. Default: configured capture path")
	cmd.Flags().StringVar(&prefix, PrefixOptionName, "", fmt.Sprintf("Capture file name prefix. Default: %s", busmon.DefaultCapturePrefix))

	return cmd
}
