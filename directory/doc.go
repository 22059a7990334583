// Package directory provides ready-made implementations of the
// authlink.Directory interface: an in-memory map for tests and demos, a
// redis hash layout for deployments that already run redis for the
// challenge store, and a postgres table for durable installations.
//
// All three share the same contract: GetByEmail returns (nil, nil) for a
// missing record, Create fails with authlink.ErrUserExists on a duplicate
// email, and Patch/Delete fail with authlink.ErrUserNotFound when the
// record is absent. Role sets cross the persistence edge only through
// authlink.EncodeRoles and authlink.DecodeRoles.
package directory
