package admin

import (
	"github.com/iov-one/multiwallet/errors"
)

// ABCI response codes, this package takes 1040-1049.
var (
	// ErrNotOwner is returned when the acting address does not hold an
	// owner slot.
	ErrNotOwner = errors.Register(1040, "not an owner")

	// ErrAlreadyOwner is returned when an address that already holds an
	// owner slot is proposed as a new or replacement owner.
	ErrAlreadyOwner = errors.Register(1041, "already an owner")

	// ErrOwnerCap is returned when adding an owner would exceed the
	// configured maximum number of owners.
	ErrOwnerCap = errors.Register(1042, "too many owners")

	// ErrQuorumFloor is returned when an operation would leave fewer
	// owners than the quorum requires.
	ErrQuorumFloor = errors.Register(1043, "quorum floor")

	// ErrAlreadyConfirmed is returned when an owner confirms the same
	// open attempt a second time.
	ErrAlreadyConfirmed = errors.Register(1044, "already confirmed")

	// ErrNothingToRevoke is returned when revoking a confirmation that
	// was never recorded, or when no attempt is open.
	ErrNothingToRevoke = errors.Register(1045, "nothing to revoke")
)
