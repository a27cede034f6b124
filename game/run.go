package game

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pthm-cable/lavafield/display"
)

// Run drives the game against a device until the device asks to quit, the
// context is cancelled or MaxTicks is reached. Button taps reseed the
// simulation. Only Present may block.
func (g *Game) Run(ctx context.Context, dev display.Device) error {
	clock := g.opts.Clock
	if clock == nil {
		start := time.Now()
		clock = func() float64 { return time.Since(start).Seconds() }
	}

	// Show the spawn state right away
	if err := g.present(dev); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			slog.Info("run cancelled", "tick", g.tick)
			return nil
		default:
		}

		ev := dev.Poll()
		if ev.Quit {
			slog.Info("device closed", "tick", g.tick)
			return nil
		}
		if ev.Reset {
			g.Reset()
		}

		var rendered bool
		if g.opts.Realtime {
			rendered = g.Update(clock())
		} else {
			rendered = g.UpdateHeadless()
		}

		if rendered {
			if err := g.present(dev); err != nil {
				return err
			}
		} else if g.opts.Realtime {
			// Nothing due yet; yield instead of spinning
			time.Sleep(time.Millisecond)
		}

		if g.opts.MaxTicks > 0 && g.tick >= g.opts.MaxTicks {
			slog.Info("max ticks reached", "tick", g.tick)
			return nil
		}
	}
}

func (g *Game) present(dev display.Device) error {
	if err := dev.Present(g.frame); err != nil {
		return fmt.Errorf("presenting frame at tick %d: %w", g.tick, err)
	}
	g.perfCollector.RecordFrame()
	return nil
}
