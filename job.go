package qrng

import "time"

// Job is the envelope a device backend submits to its transport: the
// suppressed circuit, the shot count, and an identifier the provider can use
// for queue tracking and cancellation.
type Job struct {
	ID          string
	Circuit     *Circuit
	Shots       int
	SubmittedAt time.Time
}
