package admin

import (
	"math"

	"github.com/iov-one/multiwallet"
	"github.com/iov-one/multiwallet/errors"
)

// Caller tells the engine on whose behalf an operation call runs. It
// is either an external address collecting confirmations the usual
// way, or the wallet itself on the privileged self call path.
type Caller struct {
	self bool
	addr multiwallet.Address
}

// SelfCaller marks a privileged call of the wallet on its own behalf.
func SelfCaller() Caller {
	return Caller{self: true}
}

// ExternalCaller marks an ordinary call by given address.
func ExternalCaller(addr multiwallet.Address) Caller {
	return Caller{addr: addr}
}

// Self reports whether this is the privileged self call path.
func (c Caller) Self() bool {
	return c.self
}

// Address returns the calling address, nil on the self call path.
func (c Caller) Address() multiwallet.Address {
	return c.addr
}

// Outcome reports what a single Advance call did. Soft rejections set
// Accepted to false and carry the reason, they are not errors: the
// call completes cleanly and mutates nothing.
type Outcome struct {
	// ID is the operation identifier, always set.
	ID OperationID
	// Attempt is the attempt number the call acted on, 0 when no
	// attempt was touched.
	Attempt uint32
	// Accepted reports whether the call was recorded. It does not mean
	// the operation took effect, that is Completed.
	Accepted bool
	// Completed reports whether this call supplied the deciding
	// confirmation. The handler must finalize and apply the mutation.
	Completed bool
	// Remaining is how many more confirmations the open attempt needs.
	Remaining uint32
	// Code and Reason describe a soft rejection.
	Code   uint32
	Reason string
}

// Engine is the generic confirmation machinery shared by all admin
// operation handlers. Given an operation message it creates or locates
// the proposal record, checks the caller is authorized to act, tallies
// confirmations and revocations and reports whether quorum is reached.
type Engine struct {
	owners    OwnerStore
	proposals ProposalBucket
	archive   ArchiveBucket
	days      DayLogBucket
}

func NewEngine() *Engine {
	return &Engine{
		owners:    NewOwnerStore(),
		proposals: NewProposalBucket(),
		archive:   NewArchiveBucket(),
		days:      NewDayLogBucket(),
	}
}

// stateValidator is a pure predicate over current state, run when a
// fresh attempt is proposed and again before a completed attempt
// applies. A returned error is a soft rejection.
type stateValidator func(db multiwallet.KVStore, e *Engine, conf *Configuration, msg OperationMsg) error

// stateValidators recognizes the five operation kinds. A message path
// outside this table is a hard rejection.
var stateValidators = map[string]stateValidator{
	pathChangeOwnerMsg:       validateChangeOwner,
	pathAddOwnerMsg:          validateAddOwner,
	pathRemoveOwnerMsg:       validateRemoveOwner,
	pathChangeRequirementMsg: validateChangeRequirement,
	pathChangeThresholdMsg:   validateChangeThreshold,
}

func validateChangeOwner(db multiwallet.KVStore, e *Engine, conf *Configuration, msg OperationMsg) error {
	m := msg.(*ChangeOwnerMsg)
	switch ok, err := e.owners.IsOwner(db, m.From); {
	case err != nil:
		return err
	case !ok:
		return errors.Wrapf(ErrNotOwner, "from %s", m.From)
	}
	switch ok, err := e.owners.IsOwner(db, m.To); {
	case err != nil:
		return err
	case ok:
		return errors.Wrapf(ErrAlreadyOwner, "to %s", m.To)
	}
	return nil
}

func validateAddOwner(db multiwallet.KVStore, e *Engine, conf *Configuration, msg OperationMsg) error {
	m := msg.(*AddOwnerMsg)
	switch ok, err := e.owners.IsOwner(db, m.Owner); {
	case err != nil:
		return err
	case ok:
		return errors.Wrapf(ErrAlreadyOwner, "%s", m.Owner)
	}
	count, err := e.owners.Count(db)
	if err != nil {
		return err
	}
	if uint32(count)+1 > conf.MaxOwners {
		return errors.Wrapf(ErrOwnerCap, "%d owners, capacity %d", count, conf.MaxOwners)
	}
	return nil
}

func validateRemoveOwner(db multiwallet.KVStore, e *Engine, conf *Configuration, msg OperationMsg) error {
	m := msg.(*RemoveOwnerMsg)
	switch ok, err := e.owners.IsOwner(db, m.Owner); {
	case err != nil:
		return err
	case !ok:
		return errors.Wrapf(ErrNotOwner, "%s", m.Owner)
	}
	count, err := e.owners.Count(db)
	if err != nil {
		return err
	}
	// the remaining count must keep headroom of one above the quorum,
	// signed arithmetic so tiny owner sets cannot wrap around
	if int64(count)-2 < int64(conf.AdminQuorum) {
		return errors.Wrapf(ErrQuorumFloor, "%d owners cannot drop below quorum %d", count, conf.AdminQuorum)
	}
	return nil
}

func validateChangeRequirement(db multiwallet.KVStore, e *Engine, conf *Configuration, msg OperationMsg) error {
	m := msg.(*ChangeRequirementMsg)
	if m.Count == 0 {
		return errors.Wrap(ErrQuorumFloor, "requirement must not be zero")
	}
	count, err := e.owners.Count(db)
	if err != nil {
		return err
	}
	if int64(count)-2 < int64(m.Count) {
		return errors.Wrapf(ErrQuorumFloor, "requirement %d too high for %d owners", m.Count, count)
	}
	return nil
}

func validateChangeThreshold(multiwallet.KVStore, *Engine, *Configuration, OperationMsg) error {
	// thresholds are configuration, any value is accepted
	return nil
}

// Advance is the single entry point of the engine. It locates the
// proposal record for the message's identifier, applies the caller's
// confirmation or revocation and reports the result. Advance mutates
// only on an accepted confirmation or revocation, a soft rejection
// leaves no trace.
func (e *Engine) Advance(ctx multiwallet.Context, db multiwallet.KVStore, caller Caller, msg OperationMsg) (*Outcome, error) {
	if _, ok := stateValidators[msg.Path()]; !ok {
		return nil, errors.Wrapf(errors.ErrMsg, "unknown operation kind %q", msg.Path())
	}
	id := msg.OperationID()
	prop, err := e.proposals.GetProposal(db, id)
	if err != nil {
		return nil, err
	}

	if caller.Self() {
		return e.advanceSelf(id, prop)
	}
	if !msg.Confirming() {
		return e.revoke(db, caller, id, prop)
	}
	return e.confirm(ctx, db, caller, msg, id, prop)
}

// advanceSelf targets the most recent attempt without collecting
// confirmations. The attempt must exist and still be open, the outer
// mechanism already authorized the operation.
func (e *Engine) advanceSelf(id OperationID, prop *Proposal) (*Outcome, error) {
	if prop == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "no attempt for %X", []byte(id))
	}
	if prop.Status != ProposalOpen {
		return nil, errors.Wrapf(errors.ErrState, "attempt %d already finalized", prop.Attempt)
	}
	return &Outcome{
		ID:        id,
		Attempt:   prop.Attempt,
		Accepted:  true,
		Completed: true,
	}, nil
}

func (e *Engine) revoke(db multiwallet.KVStore, caller Caller, id OperationID, prop *Proposal) (*Outcome, error) {
	if prop == nil || prop.Status != ProposalOpen {
		return reject(id, 0, errors.Wrap(ErrNothingToRevoke, "no open attempt")), nil
	}
	if !prop.HasConfirmed(caller.Address()) {
		return reject(id, prop.Attempt, errors.Wrapf(ErrNothingToRevoke, "%s never confirmed", caller.Address())), nil
	}
	confirmed := prop.Confirmed[:0]
	for _, a := range prop.Confirmed {
		if !a.Equals(caller.Address()) {
			confirmed = append(confirmed, a)
		}
	}
	prop.Confirmed = confirmed
	if err := e.proposals.Update(db, id, prop); err != nil {
		return nil, err
	}
	return &Outcome{
		ID:        id,
		Attempt:   prop.Attempt,
		Accepted:  true,
		Remaining: prop.Remaining(),
	}, nil
}

func (e *Engine) confirm(ctx multiwallet.Context, db multiwallet.KVStore, caller Caller, msg OperationMsg, id OperationID, prop *Proposal) (*Outcome, error) {
	switch ok, err := e.owners.IsOwner(db, caller.Address()); {
	case err != nil:
		return nil, err
	case !ok:
		attempt := uint32(0)
		if prop != nil {
			attempt = prop.Attempt
		}
		return reject(id, attempt, errors.Wrapf(ErrNotOwner, "%s", caller.Address())), nil
	}

	if prop == nil || prop.Status == ProposalClosed {
		return e.propose(ctx, db, caller, msg, id, prop)
	}

	// continuing proposal on the open attempt
	if prop.HasConfirmed(caller.Address()) {
		return reject(id, prop.Attempt, errors.Wrapf(ErrAlreadyConfirmed, "%s on attempt %d", caller.Address(), prop.Attempt)), nil
	}
	prop.Confirmed = append(prop.Confirmed, caller.Address())
	// first proposer's payload wins, later payloads are ignored
	if len(prop.Data) == 0 && len(msg.Payload()) != 0 {
		prop.Data = msg.Payload()
	}
	if err := e.proposals.Update(db, id, prop); err != nil {
		return nil, err
	}
	return &Outcome{
		ID:        id,
		Attempt:   prop.Attempt,
		Accepted:  true,
		Completed: prop.IsComplete(),
		Remaining: prop.Remaining(),
	}, nil
}

// propose opens a fresh attempt. A failed state validation creates no
// attempt record, consumes no audit slot and leaves no trace.
func (e *Engine) propose(ctx multiwallet.Context, db multiwallet.KVStore, caller Caller, msg OperationMsg, id OperationID, prev *Proposal) (*Outcome, error) {
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	if err := stateValidators[msg.Path()](db, e, conf, msg); err != nil {
		attempt := uint32(0)
		if prev != nil {
			attempt = prev.Attempt
		}
		return reject(id, attempt, err), nil
	}

	attempt := uint32(1)
	if prev != nil {
		if prev.Attempt == math.MaxUint32 {
			return nil, errors.Wrapf(errors.ErrOverflow, "attempt counter for %X", []byte(id))
		}
		attempt = prev.Attempt + 1
	}
	blockTime, ok := multiwallet.BlockTime(ctx)
	if !ok {
		return nil, errors.Wrap(errors.ErrHuman, "block time not set")
	}

	prop := &Proposal{
		Kind:      msg.Path(),
		Attempt:   attempt,
		Quorum:    conf.AdminQuorum,
		Day:       multiwallet.AsUnixTime(blockTime).Day(),
		Data:      msg.Payload(),
		Confirmed: []multiwallet.Address{caller.Address()},
		Status:    ProposalOpen,
	}
	if err := e.proposals.Update(db, id, prop); err != nil {
		return nil, err
	}
	if err := e.days.Append(db, prop.Day, id); err != nil {
		return nil, err
	}
	return &Outcome{
		ID:        id,
		Attempt:   attempt,
		Accepted:  true,
		Completed: prop.IsComplete(),
		Remaining: prop.Remaining(),
	}, nil
}

// Validate re-runs the kind specific state validation against the
// current wallet state. Proposal time validation alone is not enough:
// another operation can complete between the proposal and the deciding
// confirmation, and a mutation must never apply against state that no
// longer satisfies its preconditions.
func (e *Engine) Validate(db multiwallet.KVStore, msg OperationMsg) error {
	validate, ok := stateValidators[msg.Path()]
	if !ok {
		return errors.Wrapf(errors.ErrMsg, "unknown operation kind %q", msg.Path())
	}
	conf, err := loadConf(db)
	if err != nil {
		return err
	}
	return validate(db, e, conf, msg)
}

// Finalize closes the open attempt under given identifier: the audit
// copy goes to the archive, the payload is reclaimed and the record is
// marked closed. Called in the same atomic step that applies the
// operation's mutation, so a finalized attempt can never apply twice,
// and to retire a completed attempt whose preconditions no longer
// hold.
func (e *Engine) Finalize(db multiwallet.KVStore, id OperationID) error {
	prop, err := e.proposals.GetProposal(db, id)
	if err != nil {
		return err
	}
	if prop == nil {
		return errors.Wrapf(errors.ErrNotFound, "no attempt for %X", []byte(id))
	}
	if prop.Status != ProposalOpen {
		return errors.Wrapf(errors.ErrState, "attempt %d already finalized", prop.Attempt)
	}
	audit := &ArchivedAttempt{
		Kind:      prop.Kind,
		Attempt:   prop.Attempt,
		Quorum:    prop.Quorum,
		Day:       prop.Day,
		Confirmed: prop.Confirmed,
	}
	if err := e.archive.Archive(db, id, audit); err != nil {
		return errors.Wrap(err, "archive attempt")
	}
	prop.Data = nil
	prop.Status = ProposalClosed
	return e.proposals.Update(db, id, prop)
}

func reject(id OperationID, attempt uint32, err error) *Outcome {
	code, reason := errors.ABCIInfo(err, false)
	return &Outcome{
		ID:      id,
		Attempt: attempt,
		Code:    code,
		Reason:  reason,
	}
}
