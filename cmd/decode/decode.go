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

package decode

import (
	"github.com/spf13/cobra"

	"github.com/tdl-lab/go-tdl/pkg/command"
	"github.com/tdl-lab/go-tdl/pkg/tdl"
)

const (
	FamilyOptionName = "family"
)

func NewCommand() *cobra.Command {
	var familyName string
	cmd := &cobra.Command{
		Use:   "decode [capture file]",
		Short: "Decode messages of one family from a capture file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			family, err := tdl.ParseFamily(familyName)
			if err != nil {
				return err
			}
			return command.DecodeCapture(args[0], family, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&familyName, FamilyOptionName, tdl.FamilyReport.String(), "Message family to decode. One of: report, command")

	return cmd
}
