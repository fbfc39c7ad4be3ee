package core

import "time"

// Worker is a unit of scheduled background work run by the Orchestrator.
type Worker interface {
	Schedule() string
	Ready(now time.Time) bool
	Execute()
}
