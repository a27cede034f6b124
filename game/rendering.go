package game

import "github.com/pthm-cable/lavafield/renderer"

// RenderFrame draws the current particle state into the game's frame and
// returns it. Rendering reads state only, so calling it twice without a
// Step yields identical frames.
func (g *Game) RenderFrame() *renderer.Frame {
	g.perfCollector.StartRender()
	g.blobs = g.particles.Snapshot(g.blobs[:0])
	g.renderer.Render(g.frame, g.blobs)
	g.perfCollector.EndRender()

	g.collector.RecordFrame(g.frame.Count(), g.frame.W*g.frame.H)
	return g.frame
}
