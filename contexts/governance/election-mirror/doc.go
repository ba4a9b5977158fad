// Package electionmirror maintains an eventually consistent read copy of
// elections and principal roles. It consumes the events published by the
// election engine and access control, re-reads the committed state behind
// each event and never writes back to either.
package electionmirror
