package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/GoSim-25-26J-441/soapgen/internal/session"
)

type ServerOptions struct {
	Addr            string
	Handler         http.Handler
	Sweeper         *session.Sweeper
	ShutdownTimeout time.Duration
}

// RunServer serves HTTP and runs the session sweeper until ctx is done, then
// shuts both down.
func RunServer(ctx context.Context, opt ServerOptions) error {
	if opt.ShutdownTimeout == 0 {
		opt.ShutdownTimeout = 10 * time.Second
	}

	srv := &http.Server{
		Addr:              opt.Addr,
		Handler:           opt.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if opt.Sweeper != nil {
		if err := opt.Sweeper.Start(); err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("listening on %s", opt.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), opt.ShutdownTimeout)
		defer cancel()

		if opt.Sweeper != nil {
			opt.Sweeper.Stop(sctx)
		}
		log.Println("shutting down server")
		return srv.Shutdown(sctx)
	})

	return g.Wait()
}
