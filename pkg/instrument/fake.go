package instrument

import (
	"strings"

	"github.com/pkg/errors"
)

// Fake is an in-memory Transport. Every written command is recorded, and
// queries are answered from Responses, keyed by the query text.
type Fake struct {
	Written   []string
	Responses map[string]string
	Closed    bool

	// FailOn makes Write fail for any command with this prefix.
	FailOn string

	pending []string
}

func NewFake(responses map[string]string) *Fake {
	if responses == nil {
		responses = map[string]string{}
	}
	return &Fake{Responses: responses}
}

func (f *Fake) Write(cmd string) error {
	if f.Closed {
		return ioError("fake", "write "+cmd, errors.New("transport is closed"))
	}
	if f.FailOn != "" && strings.HasPrefix(cmd, f.FailOn) {
		return ioError("fake", "write "+cmd, errors.New("injected failure"))
	}
	f.Written = append(f.Written, cmd)
	if resp, ok := f.Responses[cmd]; ok {
		f.pending = append(f.pending, resp)
	}
	return nil
}

func (f *Fake) ReadRaw() ([]byte, error) {
	if len(f.pending) == 0 {
		return nil, ioError("fake", "read", errors.New("no response pending"))
	}
	resp := f.pending[0]
	f.pending = f.pending[1:]
	return []byte(resp), nil
}

func (f *Fake) Close() error {
	if f.Closed {
		return ioError("fake", "close", errors.New("transport is already closed"))
	}
	f.Closed = true
	return nil
}

// Count returns how many times cmd was written.
func (f *Fake) Count(cmd string) int {
	n := 0
	for _, w := range f.Written {
		if w == cmd {
			n++
		}
	}
	return n
}
