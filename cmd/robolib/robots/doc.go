// Package robots is the robot asset and kinematic-chain registry.
//
// Records arrive as format-agnostic RawRobot values (see package robotdoc for
// the document codec). Build validates all of them eagerly and returns an
// immutable Registry: it is either fully valid or absent, so queries only ever
// fail on presence, never on structure.
//
// Query errors are distinct sentinels so a caller can choose between falling
// back and aborting:
//
//	ErrNotFound            robot name unknown
//	ErrNoAssetForPlatform  robot known, no bundle for that platform
//	ErrNoChain             robot known, not IK capable
//	ErrChainIndex          robot known, chain index out of range
//
// Handle holds "the current registry" for processes that reload records while
// serving lookups.
package robots
