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

package srv

import (
	"context"
	"net"

	"github.com/google/gopacket"

	"github.com/tdl-lab/go-tdl/pkg/config"
)

type InPacket struct {
	Data []byte
	gopacket.CaptureInfo
}

// PeerAddr returns the UDPAddr of the feed that sent the packet
func PeerAddr(packet gopacket.Packet) (*net.UDPAddr, error) {
	meta := packet.Metadata()
	if len(meta.CaptureInfo.AncillaryData) >= 1 {
		ancillary := meta.CaptureInfo.AncillaryData[0]
		udpAddr, ok := ancillary.(*net.UDPAddr)
		if !ok {
			return nil, ErrPeerAddr{}
		}
		return udpAddr, nil
	}
	return nil, ErrPeerAddr{}
}

type Server struct {
	context.Context
	*config.Config
	*net.UDPAddr
	ChIn chan InPacket
}

// ReadPacketData reads the ChIn channel and returns packet data and metadata.
// This method is from PacketDataSource interface.
func (s *Server) ReadPacketData() ([]byte, gopacket.CaptureInfo, error) {
	p := <-s.ChIn
	return p.Data, p.CaptureInfo, nil
}

// Queue is a packet queue for listeners beside the main server channel.
// It implements PacketDataSource the same way Server does.
type Queue chan InPacket

func (q Queue) ReadPacketData() ([]byte, gopacket.CaptureInfo, error) {
	p := <-q
	return p.Data, p.CaptureInfo, nil
}
