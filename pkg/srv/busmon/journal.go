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

package busmon

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"time"

	"go.etcd.io/bbolt"
	"sigs.k8s.io/yaml"

	"github.com/tdl-lab/go-tdl/pkg/config"
	"github.com/tdl-lab/go-tdl/pkg/log"
	"github.com/tdl-lab/go-tdl/pkg/monitor"
	"github.com/tdl-lab/go-tdl/pkg/tdl"
)

const (
	ReportBucket  = "report_messages"
	CommandBucket = "command_messages"
)

// Entry is one journaled message. Frames are kept hex encoded so an entry
// can be decoded again offline.
type Entry struct {
	Seq       uint64    `json:"seq"`
	Kind      string    `json:"kind"`
	BlockID   uint8     `json:"blockId"`
	Completed time.Time `json:"completed"`
	Frames    []string  `json:"frames"`
}

type Journal struct {
	context.Context
	DB *bbolt.DB
}

func NewJournal(ctx context.Context, cfg *config.Config) (*Journal, error) {
	// open journal database
	db, err := bbolt.Open(cfg.JournalPath(), 0600, nil)
	if err != nil {
		return nil, err
	}
	j := &Journal{
		Context: ctx,
		DB:      db,
	}
	if err := j.createBuckets(); err != nil {
		db.Close()
		return nil, err
	}
	return j, nil
}

// Close ...
func (j *Journal) Close() {
	j.DB.Close()
}

func (j *Journal) createBuckets() error {
	return j.DB.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{ReportBucket, CommandBucket} {
			_, err := tx.CreateBucketIfNotExists([]byte(name))
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func BucketName(family tdl.Family) string {
	if family == tdl.FamilyCommand {
		return CommandBucket
	}
	return ReportBucket
}

func uint64ToByte(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

// NewEntry converts an assembled message to its journal form.
func NewEntry(msg *monitor.Received) *Entry {
	e := &Entry{
		Seq:       msg.Seq,
		Kind:      msg.Assembly.Block.Kind().String(),
		BlockID:   msg.Assembly.Block.BlockID(),
		Completed: msg.Completed,
	}
	for _, frame := range msg.Assembly.Frames {
		e.Frames = append(e.Frames, hex.EncodeToString(frame.Bytes()))
	}
	return e
}

// Append journals an assembled message under its per family sequence number.
func (j *Journal) Append(msg *monitor.Received) error {
	log.Debug("Journal append: %s message %d", msg.Family, msg.Seq)
	entryBytes, err := yaml.Marshal(NewEntry(msg))
	if err != nil {
		return err
	}
	return j.DB.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(BucketName(msg.Family)))
		if b == nil {
			return ErrBucketNotFound{Name: BucketName(msg.Family)}
		}
		return b.Put(uint64ToByte(msg.Seq), entryBytes)
	})
}

// Last returns up to n most recent entries for a family, oldest first.
func (j *Journal) Last(family tdl.Family, n int) ([]*Entry, error) {
	log.Debug("Getting last %d %s journal entries", n, family)
	var entries []*Entry
	if err := j.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(BucketName(family)))
		if b == nil {
			return ErrBucketNotFound{Name: BucketName(family)}
		}
		c := b.Cursor()
		for k, v := c.Last(); k != nil && len(entries) < n; k, v = c.Prev() {
			entry := &Entry{}
			if err := yaml.Unmarshal(v, entry); err != nil {
				return err
			}
			entries = append(entries, entry)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	for left, right := 0, len(entries)-1; left < right; left, right = left+1, right-1 {
		entries[left], entries[right] = entries[right], entries[left]
	}
	return entries, nil
}
