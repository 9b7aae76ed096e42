package translator

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/bodebridge/vxi11-bridge/pkg/generator"
)

const (
	TokenBasicWave = "BSWV"
	TokenOutput    = "OUTP"
)

var (
	channelHeader = regexp.MustCompile(`^C\d+:`)

	// Parameters the generator cannot express; each carries one argument.
	ignoredWaveParams   = sets.New[string]("WVTP", "OFST", "PHSE")
	ignoredOutputParams = sets.New[string]("LOAD")
)

// Applier receives translated directives.
type Applier interface {
	Apply(d generator.Directive) error
}

// Translator turns the command stream an oscilloscope writes to its
// signal generator into generator directives.
type Translator struct {
	target Applier
}

func New(target Applier) *Translator {
	return &Translator{target: target}
}

// Translate parses payload and applies the resulting directives in order,
// stopping at the first failure.
func (t *Translator) Translate(payload []byte) error {
	for _, d := range Parse(payload) {
		if err := t.target.Apply(d); err != nil {
			return errors.Wrapf(err, "failed to apply %v", d)
		}
	}
	return nil
}

// Parse decodes a payload such as "C1:BSWV FRQ,1000,AMP,2.5;C1:OUTP ON".
// Queries yield nothing, and tokens or arguments it does not understand
// are skipped.
func Parse(payload []byte) []generator.Directive {
	line := strings.TrimSpace(string(payload))
	logrus.Debugf("Parsing command %q", line)
	if line == "" || strings.HasSuffix(line, "?") {
		return nil
	}

	directives := []generator.Directive{}
	for _, cmd := range strings.Split(line, ";") {
		cmd = channelHeader.ReplaceAllString(strings.TrimSpace(cmd), "")
		if len(cmd) < 4 {
			continue
		}
		token := cmd[:4]
		args := []string{}
		if len(cmd) > 5 {
			args = strings.Split(cmd[5:], ",")
		}
		for i := range args {
			args[i] = strings.TrimSpace(args[i])
		}

		switch token {
		case TokenBasicWave:
			directives = append(directives, parseBasicWave(args)...)
		case TokenOutput:
			directives = append(directives, parseOutput(args)...)
		default:
			logrus.Debugf("Skipping unsupported command %q", cmd)
		}
	}
	return directives
}

func parseBasicWave(args []string) []generator.Directive {
	directives := []generator.Directive{}
	for n := 0; n < len(args); {
		var build func(float64) generator.Directive
		switch args[n] {
		case "FRQ":
			build = generator.SetFrequency
		case "AMP":
			build = generator.SetAmplitude
		case "AMPDBM":
			build = generator.SetAmplitudeDbm
		default:
			if ignoredWaveParams.Has(args[n]) {
				n += 2
			} else {
				n++
			}
			continue
		}

		if v, ok := floatArg(args, n+1); ok {
			directives = append(directives, build(v))
		}
		n += 2
	}
	return directives
}

func parseOutput(args []string) []generator.Directive {
	directives := []generator.Directive{}
	for n := 0; n < len(args); {
		switch {
		case args[n] == "ON":
			directives = append(directives, generator.OutputOn())
			n++
		case args[n] == "OFF":
			directives = append(directives, generator.OutputOff())
			n++
		case ignoredOutputParams.Has(args[n]):
			n += 2
		default:
			n++
		}
	}
	return directives
}

func floatArg(args []string, i int) (float64, bool) {
	if i >= len(args) {
		logrus.Debugf("Missing value after %v", args[i-1])
		return 0, false
	}
	v, err := strconv.ParseFloat(args[i], 64)
	if err != nil {
		logrus.Debugf("Skipping %v with unparsable value %q", args[i-1], args[i])
		return 0, false
	}
	return v, true
}
