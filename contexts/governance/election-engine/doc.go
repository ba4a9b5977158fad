// Package electionengine implements the election factory and the
// per-election state machine.
//
// The factory allocates sequential election ids and derives each election's
// address from the factory address. An election moves one way through
// created, registration, voting, ended and result_declared; every transition
// is gated by the capability table, the election's activation flag and the
// injected clock. Each committed mutation writes exactly one outbox event.
package electionengine
