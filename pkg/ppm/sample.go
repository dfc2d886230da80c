package ppm

// fallbackOrder marks a character drawn from the fallback alphabet.
const fallbackOrder = -1

// EscapeProbability returns the chance of backing off from a context of the
// given order that has been observed total times. It shrinks as evidence
// accumulates and grows with the order.
func (m *Model) EscapeProbability(order int, total uint32) float64 {
	return m.config.EscapeBase + (m.config.EscapePerOrder*float64(order))/(float64(total)+1)
}

// Sample draws the next character given the current history. It starts at
// the longest context and backs off towards the empty one; when no context
// has been observed it draws from the fallback alphabet. Sample never fails
// and does not modify the model.
func (m *Model) Sample() byte {
	c, _ := m.sample()
	return c
}

// sample returns the drawn character and the order it came from, or
// fallbackOrder.
func (m *Model) sample() (byte, int) {
	for order := m.config.MaxOrder; order >= 0; order-- {
		ctx := m.history.Context(order)
		total, ok := m.store.TotalFor(ctx)
		if !ok || total == 0 {
			continue
		}

		// Order 0 never escapes; it is the last resort inside the tables.
		if order > 0 && m.rng.Float64() < m.EscapeProbability(order, total) {
			continue
		}

		r := uint32(m.rng.IntN(int(total)))
		var cumulative uint32
		for next, count := range m.store.CountsFor(ctx) {
			cumulative += count
			if r < cumulative {
				return next, order
			}
		}
	}

	return m.config.Fallback[m.rng.IntN(len(m.config.Fallback))], fallbackOrder
}
