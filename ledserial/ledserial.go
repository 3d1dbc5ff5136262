// Package ledserial frames strip buffers into the packet protocol spoken
// by the LED controller on the other end of the serial line.
package ledserial

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
)

// Endianness defines the endianness of the protocol.
var Endianness = binary.LittleEndian

// HostPacketType is a type of packet sent from the host to the controller.
type HostPacketType uint8

const (
	TypeInitPacket HostPacketType = iota
	TypeOffPacket
	TypeShowPacket
)

// String returns a string representation of the packet type.
func (t HostPacketType) String() string {
	switch t {
	case TypeInitPacket:
		return "init"
	case TypeOffPacket:
		return "off"
	case TypeShowPacket:
		return "show"
	default:
		return fmt.Sprintf("HostPacketType(%d)", t)
	}
}

// HostPacket is a packet sent from the host to the controller.
type HostPacket interface {
	// Type returns the type of packet.
	Type() HostPacketType
}

// InitPacket tells the controller how many pixels the strip has. It must
// be sent before the first ShowPacket.
type InitPacket struct {
	NumPixels uint16
}

// OffPacket turns the whole strip off.
type OffPacket struct{}

// ShowPacket carries one full frame of pixel data in wire order, exactly
// 3*NumPixels bytes.
type ShowPacket struct {
	Pix []uint8
}

func (p InitPacket) Type() HostPacketType { return TypeInitPacket }
func (p OffPacket) Type() HostPacketType  { return TypeOffPacket }
func (p ShowPacket) Type() HostPacketType { return TypeShowPacket }

// DevicePacketType is a type of packet sent from the controller to the host.
type DevicePacketType uint8

const (
	TypeAckPacket DevicePacketType = iota
	TypeErrorPacket
	TypeLogPacket
)

// String returns a string representation of the packet type.
func (t DevicePacketType) String() string {
	switch t {
	case TypeAckPacket:
		return "ack"
	case TypeErrorPacket:
		return "error"
	case TypeLogPacket:
		return "log"
	default:
		return fmt.Sprintf("DevicePacketType(%d)", t)
	}
}

// DevicePacket is a packet sent from the controller to the host.
type DevicePacket interface {
	// Type returns the type of packet.
	Type() DevicePacketType
}

// AckPacket acknowledges a host packet.
type AckPacket struct {
	Acked HostPacketType
}

// ErrorPacket is a packet that indicates an error occurred on the
// controller.
type ErrorPacket struct {
	Message string
}

// LogPacket is a packet that contains a controller log message.
type LogPacket struct {
	Message string
}

func (p AckPacket) Type() DevicePacketType   { return TypeAckPacket }
func (p ErrorPacket) Type() DevicePacketType { return TypeErrorPacket }
func (p LogPacket) Type() DevicePacketType   { return TypeLogPacket }

// ReadContext is the state the reader needs to size incoming packets.
type ReadContext struct {
	// NumPixels is the number of pixels in the strip, as established by the
	// last InitPacket.
	NumPixels uint16
}

// WriteHostPacket writes a host packet to the given writer.
func WriteHostPacket(w io.Writer, p HostPacket) error {
	hash := crc32.NewIEEE()
	w = io.MultiWriter(w, hash)

	if err := binary.Write(w, Endianness, p.Type()); err != nil {
		return fmt.Errorf("failed to write packet type: %w", err)
	}

	switch p := p.(type) {
	case InitPacket:
		if err := binary.Write(w, Endianness, p); err != nil {
			return fmt.Errorf("failed to write packet: %w", err)
		}
	case OffPacket:
		// Type byte only.
	case ShowPacket:
		if _, err := w.Write(p.Pix); err != nil {
			return fmt.Errorf("failed to write pixel data: %w", err)
		}
	default:
		return fmt.Errorf("unknown packet type: %T", p)
	}

	if err := binary.Write(w, Endianness, hash.Sum32()); err != nil {
		return fmt.Errorf("failed to write packet checksum: %w", err)
	}

	return nil
}

// ReadHostPacket reads a host packet from the given reader. It is the
// counterpart of WriteHostPacket and is what the controller firmware runs.
func ReadHostPacket(r io.Reader, rctx ReadContext) (HostPacket, error) {
	hash := crc32.NewIEEE()
	r = io.TeeReader(r, hash)

	var ptypeBuf [1]byte
	if _, err := io.ReadFull(r, ptypeBuf[:]); err != nil {
		return nil, fmt.Errorf("failed to read host packet type: %w", err)
	}

	var packet HostPacket
	switch ptype := HostPacketType(ptypeBuf[0]); ptype {
	case TypeInitPacket:
		var p InitPacket
		if err := binary.Read(r, Endianness, &p); err != nil {
			return nil, fmt.Errorf("failed to read number of pixels: %w", err)
		}
		packet = p

	case TypeOffPacket:
		packet = OffPacket{}

	case TypeShowPacket:
		p := ShowPacket{Pix: make([]uint8, 3*rctx.NumPixels)}
		if _, err := io.ReadFull(r, p.Pix); err != nil {
			return nil, fmt.Errorf("failed to read pixel data: %w", err)
		}
		packet = p

	default:
		return nil, fmt.Errorf("unknown packet type: %s", ptype)
	}

	if err := verifyChecksum(r, hash.Sum32()); err != nil {
		return nil, err
	}

	return packet, nil
}

// WriteDevicePacket writes a device packet to the given writer.
func WriteDevicePacket(w io.Writer, p DevicePacket) error {
	hash := crc32.NewIEEE()
	w = io.MultiWriter(w, hash)

	if err := binary.Write(w, Endianness, p.Type()); err != nil {
		return fmt.Errorf("failed to write packet type: %w", err)
	}

	switch p := p.(type) {
	case AckPacket:
		if err := binary.Write(w, Endianness, p.Acked); err != nil {
			return fmt.Errorf("failed to write acked type: %w", err)
		}
	case ErrorPacket:
		if err := writeMessage(w, p.Message); err != nil {
			return err
		}
	case LogPacket:
		if err := writeMessage(w, p.Message); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown packet type: %T", p)
	}

	if err := binary.Write(w, Endianness, hash.Sum32()); err != nil {
		return fmt.Errorf("failed to write packet checksum: %w", err)
	}

	return nil
}

// ReadDevicePacket reads a device packet from the given reader.
func ReadDevicePacket(r io.Reader) (DevicePacket, error) {
	hash := crc32.NewIEEE()
	r = io.TeeReader(r, hash)

	var ptypeBuf [1]byte
	if _, err := io.ReadFull(r, ptypeBuf[:]); err != nil {
		return nil, fmt.Errorf("failed to read device packet type: %w", err)
	}

	var packet DevicePacket
	switch ptype := DevicePacketType(ptypeBuf[0]); ptype {
	case TypeAckPacket:
		var p AckPacket
		if err := binary.Read(r, Endianness, &p.Acked); err != nil {
			return nil, fmt.Errorf("failed to read acked type: %w", err)
		}
		packet = p

	case TypeErrorPacket:
		msg, err := readMessage(r)
		if err != nil {
			return nil, err
		}
		packet = ErrorPacket{Message: msg}

	case TypeLogPacket:
		msg, err := readMessage(r)
		if err != nil {
			return nil, err
		}
		packet = LogPacket{Message: msg}

	default:
		return nil, fmt.Errorf("unknown packet type: %s", ptype)
	}

	if err := verifyChecksum(r, hash.Sum32()); err != nil {
		return nil, err
	}

	return packet, nil
}

func writeMessage(w io.Writer, msg string) error {
	if err := binary.Write(w, Endianness, uint16(len(msg))); err != nil {
		return fmt.Errorf("failed to write message length: %w", err)
	}
	if _, err := w.Write([]byte(msg)); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	return nil
}

func readMessage(r io.Reader) (string, error) {
	var length uint16
	if err := binary.Read(r, Endianness, &length); err != nil {
		return "", fmt.Errorf("failed to read message length: %w", err)
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("failed to read message: %w", err)
	}
	return string(buf), nil
}

// verifyChecksum consumes the checksum trailer from r and compares it
// against want, the CRC of everything read so far.
func verifyChecksum(r io.Reader, want uint32) error {
	var checksum uint32
	if err := binary.Read(r, Endianness, &checksum); err != nil {
		return fmt.Errorf("failed to read packet checksum: %w", err)
	}
	if checksum != want {
		return fmt.Errorf("packet checksum mismatch")
	}
	return nil
}
