package game

import "math"

// Step advances physics by one fixed dt. The auto reset timer runs on
// simulated time.
func (g *Game) Step() {
	g.perfCollector.StartTick()
	g.particles.Step()
	g.perfCollector.EndTick()
	g.tick++

	if g.resetTimer.Update(g.cfg.Simulation.DT) {
		g.Reset()
	}

	g.flushTelemetry()
}

// UpdateHeadless runs StepsPerUpdate ticks as fast as possible and renders
// every frame_interval worth of ticks. It reports whether a new frame was
// rendered.
func (g *Game) UpdateHeadless() bool {
	rendered := false
	for i := 0; i < g.opts.StepsPerUpdate; i++ {
		g.Step()
		g.sinceDraw++
		if g.sinceDraw >= g.cfg.Derived.TicksPerDraw {
			g.sinceDraw = 0
			g.RenderFrame()
			rendered = true
		}
	}
	return rendered
}

// Update paces physics by the clock: it runs as many whole ticks as the
// elapsed time covers, at most max_catchup, and renders once frame_interval
// has passed. now is in seconds. It reports whether a new frame was rendered.
func (g *Game) Update(now float64) bool {
	if !g.started {
		g.started = true
		g.lastUpdate = now
		return false
	}
	elapsed := now - g.lastUpdate
	g.lastUpdate = now
	if elapsed < 0 {
		elapsed = 0
	}

	dt := g.cfg.Simulation.DT
	g.accumulator += elapsed
	steps := 0
	for g.accumulator >= dt && steps < g.cfg.Simulation.MaxCatchup {
		g.Step()
		g.accumulator -= dt
		steps++
	}
	// Drop backlog beyond the catch-up limit rather than spiral
	if g.accumulator >= dt {
		g.accumulator = math.Mod(g.accumulator, dt)
	}

	g.renderAcc += elapsed
	interval := g.cfg.Simulation.FrameInterval
	if g.renderAcc < interval {
		return false
	}
	g.renderAcc -= interval
	if g.renderAcc >= interval {
		g.renderAcc = 0
	}
	g.RenderFrame()
	return true
}
