// Package pipeline drives submitted images through background removal and
// vectorization while keeping every job's state durable.
//
// The Orchestrator runs one job at a time in submission order. Each job moves
// pending → processing and then through the fixed checkpoints load (30%),
// background removed (70%), and vectorized (100%, completed). Every checkpoint is
// written to the job store before the next stage starts. A stage error, or a
// failed write, marks that job failed and the batch continues with the next
// job.
//
// Progress snapshots are delivered to a progress.Sink passed per call: once
// after the batch is created and again after every job reaches a terminal
// state. Cancellation is checked between stages; an interrupted job keeps its
// last persisted processing checkpoint and is returned to pending by Resume.
package pipeline
