// Package batch splits a slice into fixed-size batches and processes them
// sequentially or with bounded concurrency, reporting progress after every
// batch and stopping on cancellation or the first failure.
package batch
