package admin

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/iov-one/multiwallet"
	"github.com/iov-one/multiwallet/errors"
)

const (
	pathChangeOwnerMsg       = "admin/change_owner"
	pathAddOwnerMsg          = "admin/add_owner"
	pathRemoveOwnerMsg       = "admin/remove_owner"
	pathChangeRequirementMsg = "admin/change_requirement"
	pathChangeThresholdMsg   = "admin/change_threshold"
)

// OperationMsg is implemented by every admin operation message. Each
// message carries exactly the parameters that define its operation,
// the confirm/revoke flag and an opaque payload.
type OperationMsg interface {
	multiwallet.Msg

	// Confirming reports whether this call confirms (true) or revokes
	// (false) the operation.
	Confirming() bool
	// Payload is the opaque data stored with the proposal. Only the
	// first proposer's payload is kept.
	Payload() []byte
	// OperationID derives the deterministic identifier correlating all
	// calls of this logical operation.
	OperationID() OperationID
}

var (
	_ OperationMsg = (*ChangeOwnerMsg)(nil)
	_ OperationMsg = (*AddOwnerMsg)(nil)
	_ OperationMsg = (*RemoveOwnerMsg)(nil)
	_ OperationMsg = (*ChangeRequirementMsg)(nil)
	_ OperationMsg = (*ChangeThresholdMsg)(nil)
)

// operationID hashes the operation kind together with its defining
// parameters. Each chunk is length prefixed so no two distinct
// parameter lists can collide by concatenation.
func operationID(kind string, params ...[]byte) OperationID {
	h := sha256.New()
	chunk := make([]byte, 4)
	binary.BigEndian.PutUint32(chunk, uint32(len(kind)))
	h.Write(chunk)
	h.Write([]byte(kind))
	for _, p := range params {
		binary.BigEndian.PutUint32(chunk, uint32(len(p)))
		h.Write(chunk)
		h.Write(p)
	}
	return h.Sum(nil)
}

func be32(v uint32) []byte {
	raw := make([]byte, 4)
	binary.BigEndian.PutUint32(raw, v)
	return raw
}

func be64(v uint64) []byte {
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, v)
	return raw
}

// ChangeOwnerMsg hands the slot held by From over to To.
type ChangeOwnerMsg struct {
	From    multiwallet.Address
	To      multiwallet.Address
	Confirm bool
	Data    []byte
}

func (ChangeOwnerMsg) Path() string {
	return pathChangeOwnerMsg
}

func (m *ChangeOwnerMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *ChangeOwnerMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

func (m *ChangeOwnerMsg) Validate() error {
	if err := m.From.Validate(); err != nil {
		return errors.Wrap(err, "from")
	}
	if err := m.To.Validate(); err != nil {
		return errors.Wrap(err, "to")
	}
	if m.From.Equals(m.To) {
		return errors.Wrap(errors.ErrMsg, "from and to are the same address")
	}
	return nil
}

func (m *ChangeOwnerMsg) Confirming() bool { return m.Confirm }
func (m *ChangeOwnerMsg) Payload() []byte  { return m.Data }

func (m *ChangeOwnerMsg) OperationID() OperationID {
	return operationID(pathChangeOwnerMsg, m.From, m.To)
}

// AddOwnerMsg appends Owner at the next free slot.
type AddOwnerMsg struct {
	Owner   multiwallet.Address
	Confirm bool
	Data    []byte
}

func (AddOwnerMsg) Path() string {
	return pathAddOwnerMsg
}

func (m *AddOwnerMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *AddOwnerMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

func (m *AddOwnerMsg) Validate() error {
	return errors.Wrap(m.Owner.Validate(), "owner")
}

func (m *AddOwnerMsg) Confirming() bool { return m.Confirm }
func (m *AddOwnerMsg) Payload() []byte  { return m.Data }

func (m *AddOwnerMsg) OperationID() OperationID {
	return operationID(pathAddOwnerMsg, m.Owner)
}

// RemoveOwnerMsg drops Owner from the owner sequence.
type RemoveOwnerMsg struct {
	Owner   multiwallet.Address
	Confirm bool
	Data    []byte
}

func (RemoveOwnerMsg) Path() string {
	return pathRemoveOwnerMsg
}

func (m *RemoveOwnerMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *RemoveOwnerMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

func (m *RemoveOwnerMsg) Validate() error {
	return errors.Wrap(m.Owner.Validate(), "owner")
}

func (m *RemoveOwnerMsg) Confirming() bool { return m.Confirm }
func (m *RemoveOwnerMsg) Payload() []byte  { return m.Data }

func (m *RemoveOwnerMsg) OperationID() OperationID {
	return operationID(pathRemoveOwnerMsg, m.Owner)
}

// RequirementScope selects which of the three quorum sizes a change
// requirement operation targets.
type RequirementScope uint8

const (
	// ScopeAdmin targets the quorum of the operations in this package.
	ScopeAdmin RequirementScope = 1
	// ScopeMajor targets the quorum of major value transactions.
	ScopeMajor RequirementScope = 2
	// ScopeMinor targets the quorum of minor value transactions.
	ScopeMinor RequirementScope = 3
)

func (s RequirementScope) Validate() error {
	if s != ScopeAdmin && s != ScopeMajor && s != ScopeMinor {
		return errors.Wrapf(errors.ErrMsg, "invalid requirement scope %d", s)
	}
	return nil
}

func (s RequirementScope) String() string {
	switch s {
	case ScopeAdmin:
		return "admin"
	case ScopeMajor:
		return "major"
	case ScopeMinor:
		return "minor"
	default:
		return "invalid"
	}
}

// ChangeRequirementMsg sets the quorum size selected by Scope to
// Count.
type ChangeRequirementMsg struct {
	Scope   RequirementScope
	Count   uint32
	Confirm bool
	Data    []byte
}

func (ChangeRequirementMsg) Path() string {
	return pathChangeRequirementMsg
}

func (m *ChangeRequirementMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *ChangeRequirementMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

func (m *ChangeRequirementMsg) Validate() error {
	return m.Scope.Validate()
}

func (m *ChangeRequirementMsg) Confirming() bool { return m.Confirm }
func (m *ChangeRequirementMsg) Payload() []byte  { return m.Data }

func (m *ChangeRequirementMsg) OperationID() OperationID {
	return operationID(pathChangeRequirementMsg, []byte{byte(m.Scope)}, be32(m.Count))
}

// ChangeThresholdMsg sets the major spend threshold of Token to Limit.
// The zero address stands for the native currency.
type ChangeThresholdMsg struct {
	Token   multiwallet.Address
	Limit   int64
	Confirm bool
	Data    []byte
}

func (ChangeThresholdMsg) Path() string {
	return pathChangeThresholdMsg
}

func (m *ChangeThresholdMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *ChangeThresholdMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

func (m *ChangeThresholdMsg) Validate() error {
	return errors.Wrap(m.Token.Validate(), "token")
}

func (m *ChangeThresholdMsg) Confirming() bool { return m.Confirm }
func (m *ChangeThresholdMsg) Payload() []byte  { return m.Data }

func (m *ChangeThresholdMsg) OperationID() OperationID {
	return operationID(pathChangeThresholdMsg, m.Token, be64(uint64(m.Limit)))
}
