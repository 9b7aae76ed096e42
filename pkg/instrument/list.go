package instrument

import (
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
)

var (
	serialGlobs = []string{"/dev/ttyUSB*", "/dev/ttyACM*", "/dev/ttyS*"}
	usbtmcGlob  = "/dev/usbtmc*"
	usbtmcIndex = regexp.MustCompile(`usbtmc(\d+)$`)
)

// ListResources returns resource identifiers for the locally attached
// serial ports and USB-TMC devices. GPIB and TCPIP instruments cannot be
// enumerated without talking to them and are not listed.
func ListResources() ([]string, error) {
	return listResources("")
}

func listResources(root string) ([]string, error) {
	resources := []string{}
	for _, pattern := range serialGlobs {
		matches, err := filepath.Glob(root + pattern)
		if err != nil {
			return nil, err
		}
		sort.Strings(matches)
		for _, m := range matches {
			resources = append(resources, "ASRL"+m[len(root):]+"::INSTR")
		}
	}

	matches, err := filepath.Glob(root + usbtmcGlob)
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	for _, m := range matches {
		idx := usbtmcIndex.FindStringSubmatch(m)
		if idx == nil {
			continue
		}
		n, _ := strconv.Atoi(idx[1])
		resources = append(resources, "USB"+strconv.Itoa(n)+"::usbtmc::INSTR")
	}
	return resources, nil
}
