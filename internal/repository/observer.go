package repository

import "time"

// QueryObserver receives a timing sample for every executed query, labelled
// by operation. A nil observer disables instrumentation.
type QueryObserver interface {
	ObserveDBQuery(label string, duration time.Duration)
}

func observeQuery(obs QueryObserver, label string, start time.Time) {
	if obs != nil {
		obs.ObserveDBQuery(label, time.Since(start))
	}
}
