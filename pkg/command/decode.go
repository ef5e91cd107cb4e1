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

package command

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tdl-lab/go-tdl/pkg/capture"
	"github.com/tdl-lab/go-tdl/pkg/tdl"
)

// DecodeCapture reads a capture file and writes the messages of one family
// to out, one block per message with its decoded fields indented below.
func DecodeCapture(path string, family tdl.Family, out io.Writer) error {
	reader, err := capture.NewReader(path)
	if err != nil {
		return err
	}
	defer reader.Close()

	tdlReader := tdl.NewReader(family, capture.NewSource(family, reader))
	for seq := 1; ; seq++ {
		assembly, err := tdlReader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		printAssembly(out, seq, assembly)
	}
}

func printAssembly(out io.Writer, seq int, assembly *tdl.Assembly) {
	stamp := ""
	if len(assembly.Frames) > 0 {
		stamp = assembly.Frames[0].Received.UTC().Format(time.RFC3339Nano)
	}
	fmt.Fprintf(out, "%d %s %s frames=%d\n", seq, stamp, assembly.Block, len(assembly.Frames))

	for _, field := range assembly.Block.Fields() {
		fmt.Fprintf(out, "    %s = %s\n", field.Name, field.Value())
	}

	if initData, ok := assembly.Block.(*tdl.InitData); ok {
		for _, db := range initData.Blocks() {
			fmt.Fprintf(out, "    locator=0x%04x words=%d target=%d start=%d count=%d\n",
				db.Locator, len(db.Payload), db.TargetBlock, db.StartWord, db.Count)
		}
	}
}
