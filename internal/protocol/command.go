package protocol

import "github.com/aerovent/ventcore/internal/wire"

// EncodeCommand serializes c as a complete control frame ready for
// transmission: header, [setting:u8][value:u16_be], CRC-32, footer. Unlike
// telemetry bodies, the control body carries no tab separators or
// terminator (§6.2).
func EncodeCommand(c wire.Command) []byte {
	w := &bodyWriter{}
	w.u8(uint8(c.Setting))
	w.u16(c.Value)
	return WrapControl(w.bytesOut())
}
