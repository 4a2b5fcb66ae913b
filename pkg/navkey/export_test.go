package navkey

// Reset exposes the counter reset to tests only.
func (g *Generator) Reset() {
	g.reset()
}
