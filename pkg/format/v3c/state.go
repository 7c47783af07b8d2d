package v3c

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const stateMagic = "RST3"
const stateHeaderLen = 16
const stateVersion1 = 1

// EncodeState builds the combined component+controller state blob: a
// 16-byte header {"RST3", version=1, componentSize, controllerSize}
// followed by the component bytes then the controller bytes. When
// controller is empty, the bare component blob is returned without a
// header — the backward-compatible form a reader detects by the absence
// of the magic.
func EncodeState(component, controller []byte) []byte {
	if len(controller) == 0 {
		return component
	}
	buf := make([]byte, stateHeaderLen+len(component)+len(controller))
	copy(buf[0:4], stateMagic)
	binary.LittleEndian.PutUint32(buf[4:8], stateVersion1)
	binary.LittleEndian.PutUint32(buf[8:12], uint32(len(component)))
	binary.LittleEndian.PutUint32(buf[12:16], uint32(len(controller)))
	copy(buf[stateHeaderLen:stateHeaderLen+len(component)], component)
	copy(buf[stateHeaderLen+len(component):], controller)
	return buf
}

// DecodeState reverses EncodeState. If blob doesn't start with the
// magic, it is treated as a bare component blob with no controller
// state, per the backward-compatible read path.
func DecodeState(blob []byte) (component, controller []byte, err error) {
	if len(blob) < 4 || !bytes.Equal(blob[0:4], []byte(stateMagic)) {
		return blob, nil, nil
	}
	if len(blob) < stateHeaderLen {
		return nil, nil, fmt.Errorf("v3c: state blob too short for header: %d bytes", len(blob))
	}
	version := binary.LittleEndian.Uint32(blob[4:8])
	if version != stateVersion1 {
		return nil, nil, fmt.Errorf("v3c: unsupported state version %d", version)
	}
	componentSize := binary.LittleEndian.Uint32(blob[8:12])
	controllerSize := binary.LittleEndian.Uint32(blob[12:16])
	want := stateHeaderLen + int(componentSize) + int(controllerSize)
	if len(blob) < want {
		return nil, nil, fmt.Errorf("v3c: state blob truncated: have %d want %d", len(blob), want)
	}
	component = blob[stateHeaderLen : stateHeaderLen+int(componentSize)]
	controller = blob[stateHeaderLen+int(componentSize) : want]
	return component, controller, nil
}
