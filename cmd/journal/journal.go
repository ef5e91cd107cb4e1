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

package journal

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tdl-lab/go-tdl/pkg/command"
	"github.com/tdl-lab/go-tdl/pkg/config"
	"github.com/tdl-lab/go-tdl/pkg/tdl"
)

const (
	FamilyOptionName = "family"
	CountOptionName  = "count"
)

func NewCommand(cfg *config.Config) *cobra.Command {
	var familyName string
	var count int
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Show last journaled messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			family, err := tdl.ParseFamily(familyName)
			if err != nil {
				return err
			}
			apiClient := command.NewApiClient(cfg)
			entries, err := apiClient.Journal(family, count)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, entry := range entries {
				fmt.Fprintf(out, "%d %s %s block=0x%02x frames=%d\n",
					entry.Seq, entry.Completed.UTC().Format(time.RFC3339), entry.Kind, entry.BlockID, len(entry.Frames))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&familyName, FamilyOptionName, tdl.FamilyReport.String(), "Message family. One of: report, command")
	cmd.Flags().IntVar(&count, CountOptionName, 10, "Number of messages to show")

	return cmd
}
