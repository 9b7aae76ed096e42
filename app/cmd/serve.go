package cmd

import (
	"github.com/docker/go-units"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/bodebridge/vxi11-bridge/pkg/generator"
	"github.com/bodebridge/vxi11-bridge/pkg/instrument"
	"github.com/bodebridge/vxi11-bridge/pkg/meta"
	"github.com/bodebridge/vxi11-bridge/pkg/portmap"
	"github.com/bodebridge/vxi11-bridge/pkg/server"
	"github.com/bodebridge/vxi11-bridge/pkg/util"
	"github.com/bodebridge/vxi11-bridge/pkg/vxi11"
)

const (
	defaultLockFile = "/tmp/vxi11-bridge.lock"

	// A record mark carries 31 bits of length.
	maxRecordLimit = 0x7FFFFFFF
)

func ServeCmd() cli.Command {
	return cli.Command{
		Name:      "serve",
		Usage:     "emulate a VXI-11 signal generator and drive a real one",
		UsageText: "vxi11-bridge serve [RESOURCE_ID]",
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:   "resource",
				EnvVar: "BRIDGE_RESOURCE",
				Usage:  "VISA resource of the generator, e.g. GPIB0::10::INSTR or TCPIP::192.168.1.5::5025::SOCKET. Empty runs in dummy mode",
			},
			cli.StringFlag{
				Name:   "driver",
				EnvVar: "BRIDGE_DRIVER",
				Value:  string(generator.VariantAuto),
				Usage:  "generator dialect: auto, scpi, rf, hp8904a or dummy",
			},
			cli.StringFlag{
				Name:   "host",
				EnvVar: "BRIDGE_HOST",
				Value:  "0.0.0.0",
			},
			cli.IntFlag{
				Name:   "portmap-port",
				EnvVar: "BRIDGE_PORTMAP_PORT",
				Value:  portmap.DefaultPort,
			},
			cli.IntFlag{
				Name:   "vxi11-port",
				EnvVar: "BRIDGE_VXI11_PORT",
				Value:  vxi11.DefaultPort,
			},
			cli.StringFlag{
				Name:   "max-recv-size",
				EnvVar: "BRIDGE_MAX_RECV_SIZE",
				Value:  "8MiB",
				Usage:  "largest accepted RPC record, in bytes or human readable 64KiB, 8MiB",
			},
			cli.DurationFlag{
				Name:   "settle-delay",
				EnvVar: "BRIDGE_SETTLE_DELAY",
				Value:  generator.DefaultSettleDelay,
				Usage:  "pause after each reset step of SCPI generators",
			},
			cli.StringFlag{
				Name:   "prologix-port",
				EnvVar: "BRIDGE_PROLOGIX_PORT",
				Value:  instrument.DefaultPrologixPort,
				Usage:  "serial device of the Prologix GPIB-USB controller",
			},
			cli.IntFlag{
				Name:   "baud",
				EnvVar: "BRIDGE_BAUD",
				Value:  instrument.DefaultBaud,
				Usage:  "line speed of ASRL serial generators",
			},
			cli.DurationFlag{
				Name:   "read-timeout",
				EnvVar: "BRIDGE_READ_TIMEOUT",
				Value:  instrument.DefaultReadTimeout,
				Usage:  "how long to wait for a generator response",
			},
			cli.StringFlag{
				Name:   "lock-file",
				EnvVar: "BRIDGE_LOCK_FILE",
				Value:  defaultLockFile,
			},
		},
		Action: func(c *cli.Context) {
			if err := serve(c); err != nil {
				logrus.WithError(err).Fatalf("Error running serve command")
			}
		},
	}
}

type serveOptions struct {
	Resource   string
	Variant    generator.Variant
	LockFile   string
	Instrument instrument.Options
	Server     server.Config
	Generator  generator.Options
}

func parseServeOptions(c *cli.Context) (*serveOptions, error) {
	resource := c.String("resource")
	if c.NArg() > 1 {
		return nil, errors.New("at most one resource id can be given")
	}
	if arg := c.Args().First(); arg != "" {
		if resource != "" && resource != arg {
			return nil, errors.Errorf("conflicting resources %v and %v", resource, arg)
		}
		resource = arg
	}

	variant, err := generator.ParseVariant(c.String("driver"))
	if err != nil {
		return nil, err
	}

	size, err := units.RAMInBytes(c.String("max-recv-size"))
	if err != nil {
		return nil, errors.Wrap(err, "invalid max-recv-size")
	}
	if size <= 0 || size > maxRecordLimit {
		return nil, errors.Errorf("max-recv-size must be between 1 and %d bytes, got %d", maxRecordLimit, size)
	}

	if c.Int("baud") <= 0 {
		return nil, errors.Errorf("invalid baud %d", c.Int("baud"))
	}
	if c.Duration("read-timeout") <= 0 {
		return nil, errors.Errorf("invalid read-timeout %v", c.Duration("read-timeout"))
	}

	for _, name := range []string{"portmap-port", "vxi11-port"} {
		if port := c.Int(name); port < 0 || port > 65535 {
			return nil, errors.Errorf("invalid %v %d", name, port)
		}
	}

	return &serveOptions{
		Resource: resource,
		Variant:  variant,
		LockFile: c.String("lock-file"),
		Instrument: instrument.Options{
			PrologixPort: c.String("prologix-port"),
			ReadTimeout:  c.Duration("read-timeout"),
			Baud:         c.Int("baud"),
		},
		Server: server.Config{
			Host:          c.String("host"),
			PortmapPort:   c.Int("portmap-port"),
			VXI11Port:     c.Int("vxi11-port"),
			MaxRecordSize: uint32(size),
		},
		Generator: generator.Options{
			SettleDelay: c.Duration("settle-delay"),
		},
	}, nil
}

// openSession connects to the configured generator, or returns a dummy
// session when there is none.
func openSession(opts *serveOptions) (*generator.Session, error) {
	if opts.Resource == "" || opts.Variant == generator.VariantDummy {
		return generator.NewDummySession(), nil
	}

	t, err := instrument.Open(opts.Resource, opts.Instrument)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect to generator %v", opts.Resource)
	}
	session, err := generator.Open(t, opts.Variant, opts.Generator)
	if err != nil {
		if closeErr := t.Close(); closeErr != nil {
			logrus.WithError(closeErr).Warn("Failed to close generator transport")
		}
		return nil, err
	}
	return session, nil
}

func serve(c *cli.Context) error {
	opts, err := parseServeOptions(c)
	if err != nil {
		return err
	}
	logrus.Infof("vxi11-bridge %v", meta.GetVersion(vxi11.Identification).Version)

	lock, err := util.AcquireLock(opts.LockFile)
	if err != nil {
		return err
	}
	defer util.ReleaseLock(lock)

	session, err := openSession(opts)
	if err != nil {
		return err
	}

	ctx, cancel := shutdownContext()
	defer cancel()
	return server.ListenAndServe(ctx, opts.Server, session)
}
