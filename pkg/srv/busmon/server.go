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

// Package busmon implements the bus monitor server. It listens for bus
// record datagrams and raw frame datagrams, feeds the frames addressed to
// the configured terminal into the message monitor, journals assembled
// messages and keeps the terminal time filters up to date.
package busmon

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/gopacket"

	"github.com/tdl-lab/go-tdl/pkg/capture"
	"github.com/tdl-lab/go-tdl/pkg/clock"
	"github.com/tdl-lab/go-tdl/pkg/config"
	"github.com/tdl-lab/go-tdl/pkg/layers"
	"github.com/tdl-lab/go-tdl/pkg/log"
	"github.com/tdl-lab/go-tdl/pkg/monitor"
	"github.com/tdl-lab/go-tdl/pkg/srv"
	"github.com/tdl-lab/go-tdl/pkg/tdl"
)

const (
	DefaultCapturePrefix = "bus"
)

// Status is a snapshot of the server counters served by the API.
type Status struct {
	TerminalRT      uint8  `json:"terminalRT"`
	Records         uint64 `json:"records"`
	Skipped         uint64 `json:"skipped"`
	ReportFrames    uint64 `json:"reportFrames"`
	CommandFrames   uint64 `json:"commandFrames"`
	ReportMessages  uint64 `json:"reportMessages"`
	CommandMessages uint64 `json:"commandMessages"`
	Capture         string `json:"capture,omitempty"`
	CaptureRecords  uint64 `json:"captureRecords,omitempty"`
}

// TimeStatus reports the state of the terminal time filters.
type TimeStatus struct {
	Synced   bool   `json:"synced"`
	Offset   string `json:"offset,omitempty"`
	Terminal string `json:"terminal,omitempty"`
	Mission  string `json:"mission,omitempty"`
}

type Server struct {
	srv.Server
	frameAddr *net.UDPAddr
	frameIn   srv.Queue

	mon     *monitor.Monitor
	clk     clock.Clock
	offset  *clock.Offset
	sample  *clock.SampleFilter
	mission *clock.Mission
	journal *Journal

	statsMu sync.Mutex
	stats   Status

	captureMu sync.Mutex
	capture   *capture.Writer
}

func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	log.Debug("Initializing busmon server with address: %s", cfg.MonitorAddr())

	uaddr, err := net.ResolveUDPAddr("udp", cfg.MonitorAddr())
	if err != nil {
		return nil, err
	}

	faddr, err := net.ResolveUDPAddr("udp", cfg.FrameAddr())
	if err != nil {
		return nil, err
	}

	journal, err := NewJournal(ctx, cfg)
	if err != nil {
		return nil, err
	}

	sys := clock.NewSystem()
	offset := clock.NewOffset(sys)

	s := &Server{
		Server: srv.Server{
			Context: ctx,
			Config:  cfg,
			UDPAddr: uaddr,
			ChIn:    make(chan srv.InPacket),
		},
		frameAddr: faddr,
		frameIn:   make(srv.Queue),
		clk:       sys,
		offset:    offset,
		sample:    clock.NewSampleFilter(offset),
		mission:   clock.NewMission(),
		journal:   journal,
	}
	s.mon = monitor.New(sys, s.sink)
	return s, nil
}

func (s *Server) Run() error {

	conn, err := net.ListenUDP("udp", s.UDPAddr)
	if err != nil {
		return err
	}
	defer conn.Close()

	frameConn, err := net.ListenUDP("udp", s.frameAddr)
	if err != nil {
		return err
	}
	defer frameConn.Close()

	defer s.journal.Close()

	s.mon.Start()
	defer s.mon.Close()

	errChan := make(chan error, 4)

	// Read record datagrams from wire and put them to the input queue
	go s.listen(conn, s.ChIn, errChan)

	// Read frame datagrams from wire and put them to the frame queue
	go s.listen(frameConn, s.frameIn, errChan)

	// Read record datagrams from the input queue and handle them properly
	go func() {
		source := gopacket.NewPacketSource(s, layers.BusMonLayerType)
		for packet := range source.Packets() {
			layer := packet.Layer(layers.BusMonLayerType)
			if layer == nil {
				log.Error("Not a busmon packet")
				continue
			}
			busmonLayer := layer.(*layers.BusMonLayer)
			if udpaddr, addrErr := srv.PeerAddr(packet); addrErr == nil {
				log.Debug("Received %d records from %s", len(busmonLayer.Records), udpaddr)
			}
			for _, record := range busmonLayer.Records {
				s.handleRecord(record)
			}
		}
	}()

	// Read frame datagrams from the frame queue. Frames arriving without
	// bus transaction context are taken as terminal transmissions.
	go func() {
		source := gopacket.NewPacketSource(s.frameIn, layers.TdlLayerType)
		for packet := range source.Packets() {
			layer := packet.Layer(layers.TdlLayerType)
			if layer == nil {
				log.Error("Not a tdl packet")
				continue
			}
			tdlLayer := layer.(*layers.TdlLayer)
			for _, frame := range tdlLayer.Frames {
				s.countFrame(tdl.FamilyReport)
				if pushErr := s.mon.PushReport(frame); pushErr != nil {
					log.Error("Push report frame: %s", pushErr)
				}
			}
		}
	}()

	apiServer, err := NewApiServer(s.Context, s.Config, s)
	if err != nil {
		return err
	}
	go func() {
		errChan <- apiServer.Run()
	}()

	select {
	case <-s.Context.Done():
		s.closeCapture()
		return s.Context.Err()
	case err := <-errChan:
		s.closeCapture()
		return err
	}
}

// listen reads datagrams from conn and queues them for decoding. Each
// packet gets its own buffer since the queue consumer decodes
// asynchronously.
func (s *Server) listen(conn *net.UDPConn, ch chan<- srv.InPacket, errChan chan<- error) {
	buffer := make([]byte, 65536)
	for {
		length, addr, readErr := conn.ReadFrom(buffer)
		if readErr != nil {
			errChan <- readErr
			return
		}
		udpAddr, readErr := net.ResolveUDPAddr("udp", addr.String())
		if readErr != nil {
			errChan <- readErr
			return
		}

		data := make([]byte, length)
		copy(data, buffer[:length])

		captureInfo := gopacket.CaptureInfo{
			Length:        length,
			CaptureLength: length,
			Timestamp:     time.Now(),
			AncillaryData: []interface{}{udpAddr},
		}

		ch <- srv.InPacket{Data: data, CaptureInfo: captureInfo}
	}
}

func (s *Server) handleRecord(record *layers.BusRecord) {
	s.writeCapture(record)

	s.statsMu.Lock()
	s.stats.Records++
	s.statsMu.Unlock()

	if record.RT() != s.Config.TerminalRT {
		log.Debug("Skipping record for RT %d", record.RT())
		s.statsMu.Lock()
		s.stats.Skipped++
		s.statsMu.Unlock()
		return
	}

	frame := record.Frame()
	if frame == nil {
		return
	}

	family := capture.RecordFamily(record)
	s.countFrame(family)

	var err error
	switch family {
	case tdl.FamilyCommand:
		err = s.mon.PushCommand(frame)
	default:
		err = s.mon.PushReport(frame)
	}
	if err != nil {
		log.Error("Push %s frame: %s", family, err)
	}
}

func (s *Server) countFrame(family tdl.Family) {
	s.statsMu.Lock()
	if family == tdl.FamilyCommand {
		s.stats.CommandFrames++
	} else {
		s.stats.ReportFrames++
	}
	s.statsMu.Unlock()
}

// sink receives assembled messages from the monitor, one at a time.
func (s *Server) sink(family tdl.Family, msg *monitor.Received) {
	if msg == nil {
		log.Info("%s message stream terminated", family)
		return
	}

	log.Debug("Message %s/%d: %s", family, msg.Seq, msg.Assembly.Block)

	if err := s.journal.Append(msg); err != nil {
		log.Error("Journal append: %s", err)
	}

	s.statsMu.Lock()
	if family == tdl.FamilyCommand {
		s.stats.CommandMessages++
	} else {
		s.stats.ReportMessages++
	}
	s.statsMu.Unlock()

	if tod, ok := msg.Assembly.Block.(*tdl.TimeOfDay); ok {
		s.submitTime(msg, tod)
	}
}

// submitTime feeds a time-of-day report into both time filters. The host
// stamp of the first frame is the closest we have to the moment the
// terminal read its clock.
func (s *Server) submitTime(msg *monitor.Received, tod *tdl.TimeOfDay) {
	received := msg.Completed
	if len(msg.Assembly.Frames) > 0 {
		received = msg.Assembly.Frames[0].Received
	}
	reported := tod.Time()

	verdict := s.sample.Submit(received, reported)
	log.Debug("Time of day %s: %s", reported, verdict)

	if !s.mission.Submit(received, reported) {
		log.Info("Mission window restarted at %s", reported)
	}
}

// Status returns a snapshot of the server counters.
func (s *Server) Status() *Status {
	s.statsMu.Lock()
	status := s.stats
	s.statsMu.Unlock()

	status.TerminalRT = s.Config.TerminalRT

	s.captureMu.Lock()
	if s.capture != nil {
		status.Capture = s.capture.Path()
		status.CaptureRecords = s.capture.Records()
	}
	s.captureMu.Unlock()

	return &status
}

// Time reports the state of the time-of-day and mission filters.
func (s *Server) Time() *TimeStatus {
	status := &TimeStatus{}

	if offset, ok := s.offset.Offset(); ok {
		status.Synced = true
		status.Offset = offset.String()
	}
	if now, err := s.offset.Now(); err == nil {
		status.Terminal = now.UTC().Format(time.RFC3339Nano)
	}

	if now, err := s.clk.Now(); err == nil {
		if elapsed, elapsedErr := s.mission.Elapsed(now); elapsedErr == nil {
			status.Mission = elapsed.String()
		}
	}

	return status
}

// Persist starts copying received bus records to a capture file under dir.
// Empty dir and prefix fall back to the configured capture directory and
// the default prefix.
func (s *Server) Persist(dir, prefix string) (string, error) {
	s.captureMu.Lock()
	defer s.captureMu.Unlock()

	if s.capture != nil {
		return "", ErrCaptureActive{Path: s.capture.Path()}
	}

	if dir == "" {
		dir = s.Config.CapturePath
	}
	if prefix == "" {
		prefix = DefaultCapturePrefix
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	path := filepath.Join(dir, capture.DefaultName(prefix, time.Now().UTC()))
	w, err := capture.NewWriter(path)
	if err != nil {
		return "", err
	}
	s.capture = w
	log.Info("Persisting bus records to %s", path)
	return path, nil
}

// Flush syncs the active capture file and stops recording.
func (s *Server) Flush() (string, uint64, error) {
	s.captureMu.Lock()
	defer s.captureMu.Unlock()

	if s.capture == nil {
		return "", 0, ErrNoCapture{}
	}

	path := s.capture.Path()
	records := s.capture.Records()
	err := s.capture.Flush()
	s.capture = nil
	if err != nil {
		return path, records, err
	}
	log.Info("Flushed %d bus records to %s", records, path)
	return path, records, nil
}

func (s *Server) writeCapture(record *layers.BusRecord) {
	s.captureMu.Lock()
	defer s.captureMu.Unlock()
	if s.capture == nil {
		return
	}
	if err := s.capture.Write(record); err != nil {
		log.Error("Capture write: %s", err)
	}
}

func (s *Server) closeCapture() {
	s.captureMu.Lock()
	defer s.captureMu.Unlock()
	if s.capture == nil {
		return
	}
	if err := s.capture.Flush(); err != nil {
		log.Error("Capture flush: %s", err)
	}
	s.capture = nil
}
