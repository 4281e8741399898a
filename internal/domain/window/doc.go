// Package window manages the lifecycle, stacking order and geometry of the
// fixed set of desktop application windows.
//
// The Manager is a plain state value with transition methods. It performs no
// locking and no I/O; the store serializes calls and decides how each
// transition is persisted.
package window
