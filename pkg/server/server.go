package server

import (
	"context"
	"net"
	"sync"

	"github.com/docker/go-units"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/bodebridge/vxi11-bridge/pkg/generator"
	"github.com/bodebridge/vxi11-bridge/pkg/portmap"
	"github.com/bodebridge/vxi11-bridge/pkg/translator"
	"github.com/bodebridge/vxi11-bridge/pkg/util"
	"github.com/bodebridge/vxi11-bridge/pkg/vxi11"
)

type Config struct {
	Host        string
	PortmapPort int
	VXI11Port   int

	// MaxRecordSize limits incoming RPC records; 0 means vxi11.MaxRecvSize.
	MaxRecordSize uint32
}

// Server owns the portmap and core listeners. Connections are served one
// at a time: a portmap query, then one core link to completion.
type Server struct {
	cfg        Config
	portmap    net.Listener
	core       net.Listener
	responder  *portmap.Responder
	translator vxi11.Translator

	lock   sync.Mutex
	active net.Conn
	closed bool
}

// Listen binds both listeners. Nothing is served until Serve is called.
func Listen(ctx context.Context, cfg Config, t vxi11.Translator) (*Server, error) {
	pl, err := util.Listen(ctx, cfg.Host, cfg.PortmapPort)
	if err != nil {
		return nil, errors.Wrap(err, "failed to bind portmap port")
	}
	cl, err := util.Listen(ctx, cfg.Host, cfg.VXI11Port)
	if err != nil {
		pl.Close()
		return nil, errors.Wrap(err, "failed to bind VXI-11 core port")
	}

	corePort := util.ListenerPort(cl)
	logrus.Infof("Portmap listening on %v, VXI-11 core on %v, record size limit %v",
		pl.Addr(), cl.Addr(), units.BytesSize(float64(maxRecordSize(cfg))))
	return &Server{
		cfg:        cfg,
		portmap:    pl,
		core:       cl,
		responder:  portmap.NewResponder(uint32(corePort)),
		translator: t,
	}, nil
}

func maxRecordSize(cfg Config) uint32 {
	if cfg.MaxRecordSize == 0 {
		return vxi11.MaxRecvSize
	}
	return cfg.MaxRecordSize
}

func (s *Server) PortmapAddr() net.Addr {
	return s.portmap.Addr()
}

func (s *Server) CoreAddr() net.Addr {
	return s.core.Addr()
}

// Serve runs the connection loop until ctx is done or Close is called, in
// which case it returns nil. A generator failure while serving a link is
// returned as is.
func (s *Server) Serve(ctx context.Context) error {
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			logrus.Info("Stopping VXI-11 server")
			s.Close()
		case <-stop:
		}
	}()

	for {
		conn, err := s.accept(s.portmap)
		if err != nil || conn == nil {
			return err
		}
		logrus.Debugf("Portmap connection from %v", conn.RemoteAddr())
		if err := s.responder.Serve(conn, maxRecordSize(s.cfg)); err != nil {
			logrus.WithError(err).Warn("Failed to serve portmap request")
		}
		s.release()

		conn, err = s.accept(s.core)
		if err != nil || conn == nil {
			return err
		}
		logrus.Infof("VXI-11 connection from %v", conn.RemoteAddr())
		link := vxi11.NewLink(conn, s.translator, maxRecordSize(s.cfg))
		err = link.Handle()
		s.release()
		if err != nil {
			return err
		}
		logrus.Debugf("VXI-11 link %v finished", link.ID)
	}
}

// accept returns a nil conn once the server is closed.
func (s *Server) accept(l net.Listener) (net.Conn, error) {
	conn, err := l.Accept()
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.closed {
		if conn != nil {
			conn.Close()
		}
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to accept on %v", l.Addr())
	}
	s.active = conn
	return conn, nil
}

func (s *Server) release() {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.active = nil
}

// Close stops both listeners and drops the connection being served.
func (s *Server) Close() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	var err error
	err = multierr.Append(err, errors.Wrap(s.portmap.Close(), "failed to close portmap listener"))
	err = multierr.Append(err, errors.Wrap(s.core.Close(), "failed to close VXI-11 listener"))
	if s.active != nil {
		s.active.Close()
		s.active = nil
	}
	return err
}

// ListenAndServe serves until ctx is done or the generator fails, then shuts
// down: listeners first, then the generator output and its transport.
func ListenAndServe(ctx context.Context, cfg Config, session *generator.Session) error {
	srv, err := Listen(ctx, cfg, translator.New(session))
	if err != nil {
		if closeErr := session.Close(); closeErr != nil {
			logrus.WithError(closeErr).Warn("Failed to release generator")
		}
		return err
	}

	serveErr := srv.Serve(ctx)
	Shutdown(srv, session)
	return serveErr
}

// Shutdown closes srv and session, reporting every failure.
func Shutdown(srv *Server, session *generator.Session) error {
	logrus.Info("Shutting down")
	err := multierr.Combine(srv.Close(), session.Close())
	for _, e := range multierr.Errors(err) {
		logrus.WithError(e).Warn("Shutdown step failed")
	}
	return err
}
