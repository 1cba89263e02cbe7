// Package gillespie samples the next event of a continuous-time Markov jump
// process using Gillespie's direct method.
//
// A caller hands the Engine a fresh vector of reaction propensities every
// simulation step. The engine folds it into a running sum and then answers
// two questions: how long until the next event (WaitingTime) and which
// reaction fires (FiringIndex).
//
// Two independent enhancements can be switched on at construction:
//
//	ExactTime         waiting time is 1/a0 instead of an exponential draw
//	PersistentBuffer  the cumulative sum is kept in an owned buffer and the
//	                  firing index is found by binary search on query;
//	                  otherwise it is found by a linear scan during Ingest
//
// The propensity type may be any floating-point or unsigned integer type.
// Floating types select a reaction by scaling a [0,1) draw by a0; unsigned
// types draw an integer in [0,a0) directly.
//
// When every propensity is zero the system is quiescent: WaitingTime
// returns +Inf and FiringIndex returns the reaction count as a sentinel.
//
// Malformed input (an empty vector, NaN, a negative propensity, a total
// that overflows, or a length that does not match a persistent buffer) is a
// programming error and makes Ingest panic with a *Fault. Use Validate to
// check untrusted input first.
//
// An Engine is not safe for concurrent use. Give each goroutine its own
// Engine and Source.
package gillespie
