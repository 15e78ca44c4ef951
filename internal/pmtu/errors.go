package pmtu

import "errors"

var (
	// ErrTargetUnreachable means the unconstrained reachability probe failed.
	ErrTargetUnreachable = errors.New("target unreachable")

	// ErrDiscoveryFailed means the search finished without any probe fitting.
	ErrDiscoveryFailed = errors.New("MTU discovery failed: no probe size got through")

	// ErrAbnormallyLowMTU means the discovered MTU is below the IPv4 minimum.
	ErrAbnormallyLowMTU = errors.New("abnormally low MTU")

	// ErrInvalidRange means the floor, ceiling or overhead are unusable.
	ErrInvalidRange = errors.New("invalid search range")
)
