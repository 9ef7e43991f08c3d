package bootstrap

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/fulldump/box"

	"github.com/fulldump/itemclosure/api"
	"github.com/fulldump/itemclosure/configuration"
	"github.com/fulldump/itemclosure/logger"
	"github.com/fulldump/itemclosure/service"
)

var VERSION = "dev"

// Bootstrap prepares the HTTP API. start blocks serving until stop is called
// or the process receives SIGTERM or SIGINT.
func Bootstrap(c *configuration.Configuration, l *logger.Logger) (start, stop func(), err error) {

	b := api.Build(service.NewService(l, c.Options(), c.MaxItemset), VERSION)
	if c.EnableCompression {
		b.WithInterceptors(api.Compression)
	}
	b.WithInterceptors(
		api.AccessLog(log.New(os.Stdout, "ACCESS: ", log.Lshortfile)),
		api.RecoverFromPanic,
		api.PrettyErrorInterceptor,
	)

	s := &http.Server{
		Addr:    c.HttpAddr,
		Handler: box.Box2Http(b),
	}

	ln, err := net.Listen("tcp", c.HttpAddr)
	if err != nil {
		return nil, nil, fmt.Errorf("listen: %w", err)
	}
	l.Info("listening", "addr", ln.Addr().String())

	stop = func() {
		s.Shutdown(context.Background())
	}

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		for {
			sig := <-signalChan
			l.Info("signal received", "signal", sig.String())
			stop()
		}
	}()

	start = func() {
		err := s.Serve(ln)
		if err != nil && err != http.ErrServerClosed {
			l.Error("serve", "error", err)
		}
	}

	return start, stop, nil
}
