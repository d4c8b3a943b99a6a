package admin

import (
	"github.com/tendermint/go-amino"
)

// cdc serializes all models and messages of this package. Deterministic
// binary encoding is required, every node must store and hash identical
// bytes for identical state.
var cdc = amino.NewCodec()

func init() {
	cdc.RegisterConcrete(&OwnerSet{}, "multiwallet/admin/ownerset", nil)
	cdc.RegisterConcrete(&OwnerSlot{}, "multiwallet/admin/ownerslot", nil)
	cdc.RegisterConcrete(&Proposal{}, "multiwallet/admin/proposal", nil)
	cdc.RegisterConcrete(&ArchivedAttempt{}, "multiwallet/admin/attempt", nil)
	cdc.RegisterConcrete(&DayLog{}, "multiwallet/admin/daylog", nil)
	cdc.RegisterConcrete(&SpendThreshold{}, "multiwallet/admin/threshold", nil)

	cdc.RegisterConcrete(&ChangeOwnerMsg{}, "multiwallet/admin/change_owner", nil)
	cdc.RegisterConcrete(&AddOwnerMsg{}, "multiwallet/admin/add_owner", nil)
	cdc.RegisterConcrete(&RemoveOwnerMsg{}, "multiwallet/admin/remove_owner", nil)
	cdc.RegisterConcrete(&ChangeRequirementMsg{}, "multiwallet/admin/change_requirement", nil)
	cdc.RegisterConcrete(&ChangeThresholdMsg{}, "multiwallet/admin/change_threshold", nil)
}
