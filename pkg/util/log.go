package util

import (
	"bytes"
	"errors"

	"github.com/sirupsen/logrus"
)

const (
	LogComponentField = "component"

	defaultComponent = "vxi11-bridge"
)

// BridgeFormatter prefixes every line with the component that logged it.
type BridgeFormatter struct {
	*logrus.TextFormatter
}

// SetUpLogger installs BridgeFormatter and sets the level from the global
// --debug and --trace flags, trace taking precedence.
func SetUpLogger(debug, trace bool) {
	logrus.SetFormatter(BridgeFormatter{
		TextFormatter: &logrus.TextFormatter{
			DisableColors: true,
			FullTimestamp: true,
		},
	})
	switch {
	case trace:
		logrus.SetLevel(logrus.TraceLevel)
	case debug:
		logrus.SetLevel(logrus.DebugLevel)
	default:
		logrus.SetLevel(logrus.InfoLevel)
	}
}

func (f BridgeFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	logMsg := &bytes.Buffer{}
	component, ok := entry.Data[LogComponentField]
	if !ok {
		component = defaultComponent
	}
	name, ok := component.(string)
	if !ok {
		return nil, errors.New("field component must be a string")
	}
	logMsg.WriteString("[" + name + "] ")

	// The component is already in the prefix.
	data := make(logrus.Fields, len(entry.Data))
	for k, v := range entry.Data {
		if k != LogComponentField {
			data[k] = v
		}
	}
	stripped := *entry
	stripped.Data = data

	msg, err := f.TextFormatter.Format(&stripped)
	if err != nil {
		return nil, err
	}
	logMsg.Write(msg)
	return logMsg.Bytes(), nil
}
