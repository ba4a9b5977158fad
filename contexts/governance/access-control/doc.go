// Package accesscontrol implements the role registry inside the governance
// context.
//
// The registry maps principals to the closed role set (super admin, election
// manager, election authority, voter) and enforces the delegation chain on
// every grant and revoke. Mutations are serialized, commit together with their
// outbox row, and are published by the outbox relay worker.
package accesscontrol
