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

// Package monitor assembles both message families concurrently from
// pushed frames.
package monitor

import (
	"errors"
	"io"
	"sync"
	"time"

	"github.com/tdl-lab/go-tdl/pkg/clock"
	"github.com/tdl-lab/go-tdl/pkg/layers"
	"github.com/tdl-lab/go-tdl/pkg/log"
	"github.com/tdl-lab/go-tdl/pkg/tdl"
)

const queueCapacity = 16

// Received is one completed message delivery.
type Received struct {
	Family    tdl.Family
	Seq       uint64
	Completed time.Time
	Assembly  *tdl.Assembly
}

// Sink consumes completed messages. A nil msg signals that the family's
// stream has terminated. Sink calls are serialized, the callback never
// runs concurrently with itself.
type Sink func(family tdl.Family, msg *Received)

type pushState struct {
	mu     sync.Mutex
	seq    uint64
	closed bool
}

// Monitor runs one assembly worker per family over a bounded frame queue.
// Frames are stamped at push, messages are numbered per family as they
// complete.
type Monitor struct {
	clk  clock.Clock
	sink Sink

	queues [2]chan *tdl.StampedFrame
	states [2]pushState

	sinkMu sync.Mutex
	wg     sync.WaitGroup
}

func New(clk clock.Clock, sink Sink) *Monitor {
	m := &Monitor{clk: clk, sink: sink}
	for i := range m.queues {
		m.queues[i] = make(chan *tdl.StampedFrame, queueCapacity)
	}
	return m
}

func (m *Monitor) Start() {
	for _, family := range []tdl.Family{tdl.FamilyReport, tdl.FamilyCommand} {
		m.wg.Add(1)
		go m.work(family)
	}
}

// PushReport submits one report frame. It blocks while the queue is full
// and fails once the stream is closed.
func (m *Monitor) PushReport(frame *layers.Frame) error {
	return m.push(tdl.FamilyReport, frame)
}

// PushCommand submits one command frame.
func (m *Monitor) PushCommand(frame *layers.Frame) error {
	return m.push(tdl.FamilyCommand, frame)
}

// push stamps and enqueues a frame. A nil frame terminates the family's
// stream, equivalent to closing just that queue.
func (m *Monitor) push(family tdl.Family, frame *layers.Frame) error {
	st := &m.states[family]
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.closed {
		return ErrClosed{Family: family}
	}
	if frame == nil {
		st.closed = true
		close(m.queues[family])
		return nil
	}
	now, err := m.clk.Now()
	if err != nil {
		return err
	}
	sf := &tdl.StampedFrame{Frame: frame, Received: now, Seq: st.seq}
	st.seq++
	m.queues[family] <- sf
	return nil
}

// Close terminates both streams and waits for the workers to drain their
// queues and deliver the nil termination. It is idempotent.
func (m *Monitor) Close() {
	for i := range m.states {
		st := &m.states[i]
		st.mu.Lock()
		if !st.closed {
			st.closed = true
			close(m.queues[i])
		}
		st.mu.Unlock()
	}
	m.wg.Wait()
}

func (m *Monitor) work(family tdl.Family) {
	defer m.wg.Done()
	queue := m.queues[family]
	src := tdl.SourceFunc(func() (*tdl.StampedFrame, error) {
		sf, ok := <-queue
		if !ok {
			return nil, io.EOF
		}
		return sf, nil
	})
	reader := tdl.NewReader(family, src)

	var seq uint64
	for {
		a, err := reader.Next()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Error("Monitor %s worker: %s", family, err)
			}
			m.deliver(family, nil)
			return
		}
		seq++
		completed, err := m.clk.Now()
		if err != nil {
			completed = a.Frames[len(a.Frames)-1].Received
		}
		m.deliver(family, &Received{
			Family:    family,
			Seq:       seq,
			Completed: completed,
			Assembly:  a,
		})
	}
}

func (m *Monitor) deliver(family tdl.Family, msg *Received) {
	if m.sink == nil {
		return
	}
	m.sinkMu.Lock()
	defer m.sinkMu.Unlock()
	m.sink(family, msg)
}
