package autosave

// Debouncer tracks which scheduled write is the latest. The event loop
// calls Trigger on every change and schedules a timer carrying the
// returned sequence; when a timer fires only the newest sequence writes.
type Debouncer struct {
	seq   uint64
	fired uint64
}

func (d *Debouncer) Trigger() uint64 {
	d.seq++
	return d.seq
}

// Fire reports whether the timer for seq should write now. Each sequence
// fires at most once.
func (d *Debouncer) Fire(seq uint64) bool {
	if seq == 0 || seq != d.seq || seq <= d.fired {
		return false
	}
	d.fired = seq
	return true
}

// Pending reports whether a change has not been written yet.
func (d *Debouncer) Pending() bool { return d.seq > d.fired }

// Flush marks everything as written and reports whether anything was
// pending, for a final write on shutdown.
func (d *Debouncer) Flush() bool {
	pending := d.Pending()
	d.fired = d.seq
	return pending
}
