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

// Package capture reads and writes bus-monitor record capture files. A
// capture file is a sequence of serialized records, each preceded by a
// 2-byte little-endian length.
package capture

import (
	"encoding/binary"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/tdl-lab/go-tdl/pkg/layers"
)

const lengthPrefixSize = 2

// DefaultName builds a capture file name from a prefix and a timestamp.
func DefaultName(prefix string, at time.Time) string {
	return fmt.Sprintf("%s-%s.cap", prefix, at.Format("20060102-150405"))
}

// Writer appends length-prefixed bus records to a capture file.
type Writer struct {
	mu      sync.Mutex
	file    *os.File
	path    string
	records uint64
}

func NewWriter(path string) (*Writer, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	return &Writer{file: file, path: path}, nil
}

func (w *Writer) Write(r *layers.BusRecord) error {
	data, err := r.Bytes()
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		return ErrWriterClosed{Path: w.path}
	}
	buf := make([]byte, lengthPrefixSize+len(data))
	binary.LittleEndian.PutUint16(buf, uint16(len(data)))
	copy(buf[lengthPrefixSize:], data)
	if _, err := w.file.Write(buf); err != nil {
		return err
	}
	w.records++
	return nil
}

// Flush syncs the file to disk and closes it. Further writes fail.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		return nil
	}
	if err := w.file.Sync(); err != nil {
		return err
	}
	err := w.file.Close()
	w.file = nil
	return err
}

func (w *Writer) Path() string {
	return w.path
}

// Records returns the number of records written so far.
func (w *Writer) Records() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.records
}
