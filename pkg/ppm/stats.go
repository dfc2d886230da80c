package ppm

// ModelStats holds aggregated statistics for a single model.
type ModelStats struct {
	ContextsPerOrder []int  // The number of distinct contexts at each order, index = order
	Continuations    int    // The number of distinct (context, next character) pairs
	Observations     uint64 // The number of characters learned; the order-0 total
}

// Stats returns a snapshot of the model's table sizes.
func (m *Model) Stats() ModelStats {
	stats := ModelStats{ContextsPerOrder: make([]int, len(m.store.orders))}
	for order, contexts := range m.store.orders {
		stats.ContextsPerOrder[order] = len(contexts)
		for _, entry := range contexts {
			stats.Continuations += len(entry.next)
		}
	}
	if total, ok := m.store.TotalFor(""); ok {
		stats.Observations = uint64(total)
	}
	return stats
}
