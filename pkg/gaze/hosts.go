package gaze

import (
	"context"
	"time"

	"fyne.io/fyne/v2/app"
	"golang.org/x/sync/errgroup"

	"github.com/teslashibe/go-gaze/pkg/desktop"
)

// appID is the fyne application id.
const appID = "io.teslashibe.gaze"

// runDesktop shows the native window. It must run on the main goroutine.
func (a *App) runDesktop(ctx context.Context) error {
	host := desktop.New(app.NewWithID(appID), a.config.Desktop, a.renderer, a.Tick, a.logger)
	host.Run(ctx)
	return nil
}

// runWeb serves the viewer and ticks the smoother at RenderFPS. A listen
// failure stops the tick loop; cancelling ctx stops the server.
func (a *App) runWeb(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.webServer.Start(ctx)
	})
	g.Go(func() error {
		<-ctx.Done()
		return a.webServer.Shutdown()
	})
	g.Go(func() error {
		return a.runHeadless(ctx)
	})

	return g.Wait()
}

// runHeadless ticks the smoother at RenderFPS with no visual output.
func (a *App) runHeadless(ctx context.Context) error {
	ticker := time.NewTicker(a.tickInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			a.Tick()
		}
	}
}

func (a *App) tickInterval() time.Duration {
	return time.Second / time.Duration(a.config.RenderFPS)
}
