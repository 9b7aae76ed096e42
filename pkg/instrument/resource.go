package instrument

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type InterfaceType string

const (
	InterfaceGPIB   = InterfaceType("GPIB")
	InterfaceASRL   = InterfaceType("ASRL")
	InterfaceTCPIP  = InterfaceType("TCPIP")
	InterfaceUSBTMC = InterfaceType("USB")
)

// Resource is a parsed VISA-style resource identifier.
type Resource struct {
	Interface InterfaceType
	Board     int
	// Address is the GPIB primary address.
	Address int
	// Device is the serial device path for ASRL resources.
	Device string
	Host   string
	Port   int
	Raw    string
}

var (
	gpibResource  = regexp.MustCompile(`(?i)^GPIB(\d*)::(\d+)(::\d+)?::INSTR$`)
	asrlResource  = regexp.MustCompile(`(?i)^ASRL(.+)::INSTR$`)
	tcpipResource = regexp.MustCompile(`(?i)^TCPIP(\d*)::([^:]+)(::(\d+))?::(SOCKET|INSTR)$`)
	usbResource   = regexp.MustCompile(`(?i)^USB(\d*)::.+::INSTR$`)
)

func ParseResource(id string) (*Resource, error) {
	raw := strings.TrimSpace(id)

	if m := gpibResource.FindStringSubmatch(raw); m != nil {
		addr, _ := strconv.Atoi(m[2])
		if addr > 30 {
			return nil, errors.Errorf("invalid GPIB primary address %d in %v", addr, raw)
		}
		return &Resource{Interface: InterfaceGPIB, Board: board(m[1]), Address: addr, Raw: raw}, nil
	}
	if m := asrlResource.FindStringSubmatch(raw); m != nil {
		device := m[1]
		// ASRL1::INSTR names the first serial port.
		if n, err := strconv.Atoi(device); err == nil && n > 0 {
			device = fmt.Sprintf("/dev/ttyS%d", n-1)
		}
		return &Resource{Interface: InterfaceASRL, Device: device, Raw: raw}, nil
	}
	if m := tcpipResource.FindStringSubmatch(raw); m != nil {
		port := DefaultSocketPort
		if m[4] != "" {
			port, _ = strconv.Atoi(m[4])
		}
		return &Resource{Interface: InterfaceTCPIP, Board: board(m[1]), Host: m[2], Port: port, Raw: raw}, nil
	}
	if m := usbResource.FindStringSubmatch(raw); m != nil {
		return &Resource{Interface: InterfaceUSBTMC, Board: board(m[1]), Raw: raw}, nil
	}
	return nil, errors.Errorf("unsupported resource identifier %q", raw)
}

func board(s string) int {
	if s == "" {
		return 0
	}
	n, _ := strconv.Atoi(s)
	return n
}

func (r *Resource) String() string {
	return r.Raw
}
