package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"net"
	"strings"
)

// StationID identifies this counter machine. It hashes the first active MAC
// address so the screen shows a short code like "NINE-A1B2C3D4"; tokens carry
// it so bills can be traced to the till that raised them.
func StationID() string {
	interfaces, err := net.Interfaces()
	if err != nil {
		return UnknownStation
	}

	var macs []string
	for _, i := range interfaces {
		// Only physical, active interfaces
		if i.Flags&net.FlagUp != 0 && i.Flags&net.FlagLoopback == 0 && len(i.HardwareAddr) > 0 {
			macs = append(macs, i.HardwareAddr.String())
		}
	}
	return stationFromMACs(macs)
}

// UnknownStation is reported when no network hardware can be read.
const UnknownStation = "UNKNOWN-DEVICE"

func stationFromMACs(macs []string) string {
	if len(macs) == 0 || macs[0] == "" {
		return UnknownStation
	}
	hash := sha256.Sum256([]byte(macs[0] + "NINE-POS-SALT"))
	return "NINE-" + strings.ToUpper(hex.EncodeToString(hash[:])[:8])
}
