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

package capture

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"
	"os"

	"github.com/tdl-lab/go-tdl/pkg/layers"
)

// Reader iterates the records of a capture file.
type Reader struct {
	file *os.File
	r    *bufio.Reader
	path string
}

func NewReader(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &Reader{file: file, r: bufio.NewReader(file), path: path}, nil
}

// Next returns the next record. A clean end of file is io.EOF, a file cut
// mid-record is ErrCaptureTruncated.
func (r *Reader) Next() (*layers.BusRecord, error) {
	var prefix [lengthPrefixSize]byte
	if _, err := io.ReadFull(r.r, prefix[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrCaptureTruncated{Path: r.path}
		}
		return nil, err
	}
	size := int(binary.LittleEndian.Uint16(prefix[:]))
	data := make([]byte, size)
	if _, err := io.ReadFull(r.r, data); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrCaptureTruncated{Path: r.path}
		}
		return nil, err
	}
	rec, n, err := layers.DecodeBusRecord(data)
	if err != nil {
		return nil, err
	}
	if n != size {
		return nil, ErrLengthMismatch{Prefix: size, Record: n}
	}
	return rec, nil
}

func (r *Reader) Close() error {
	return r.file.Close()
}
