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

package layers

import (
	"errors"
	"fmt"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

const (
	// TdlLayerNum identifies the layer
	TdlLayerNum = 2100
)

// TdlLayer is a datagram holding consecutive link frames, used when a feed
// forwards extracted frames instead of whole bus transactions.
type TdlLayer struct {
	layers.BaseLayer
	Frames []*Frame
}

var TdlLayerType = gopacket.RegisterLayerType(TdlLayerNum,
	gopacket.LayerTypeMetadata{Name: "TdlLayerType", Decoder: gopacket.DecodeFunc(DecodeTdlLayer)})

// LayerType returns the type of the Tdl layer in the layer catalog
func (tl *TdlLayer) LayerType() gopacket.LayerType {
	return TdlLayerType
}

// SerializeTo serializes the layer into bytes and writes the bytes to the SerializeBuffer
func (tl *TdlLayer) SerializeTo(b gopacket.SerializeBuffer, opts gopacket.SerializeOptions) error {
	buf, err := b.AppendBytes(len(tl.Frames) * FrameSize)
	if err != nil {
		return err
	}
	for i, f := range tl.Frames {
		copy(buf[i*FrameSize:(i+1)*FrameSize], f.Bytes())
	}
	return nil
}

// DecodeFromBytes attempts to decode the byte slice as a sequence of link frames
func (tl *TdlLayer) DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error {
	if len(data) < FrameSize {
		df.SetTruncated()
		return errors.New("Tdl packet too short")
	}
	if len(data)%FrameSize != 0 {
		df.SetTruncated()
		return fmt.Errorf("Tdl packet size must be a multiple of %d bytes", FrameSize)
	}

	tl.BaseLayer = layers.BaseLayer{
		Contents: data,
		Payload:  []byte{},
	}

	tl.Frames = nil
	for offset := 0; offset < len(data); offset += FrameSize {
		f, err := FrameFromBytes(data[offset : offset+FrameSize])
		if err != nil {
			return err
		}
		tl.Frames = append(tl.Frames, f)
	}
	return nil
}

func DecodeTdlLayer(data []byte, p gopacket.PacketBuilder) error {
	tl := &TdlLayer{}
	err := tl.DecodeFromBytes(data, p)
	if err != nil {
		return err
	}
	p.AddLayer(tl)
	return nil
}
