package admin

import (
	"encoding/binary"

	"github.com/iov-one/multiwallet"
	"github.com/iov-one/multiwallet/errors"
	"github.com/iov-one/multiwallet/orm"
)

// OperationIDLength is the size of every operation identifier. The
// identifier is a sha256 digest over the operation kind and its
// defining parameters.
const OperationIDLength = 32

// OperationID correlates all calls that belong to the same logical
// proposal. Two calls with identical kind and parameters always map to
// the same identifier.
type OperationID []byte

// Validate returns an error if this is not a possible identifier.
func (id OperationID) Validate() error {
	if len(id) != OperationIDLength {
		return errors.Wrapf(errors.ErrInput, "operation id: invalid length %d", len(id))
	}
	return nil
}

// OwnerSet is the ordered sequence of wallet owners. An owner at
// position i of the sequence holds slot i+1. Slot 0 is reserved and
// never assigned, it marks "not an owner" in the reverse lookup.
type OwnerSet struct {
	Owners []multiwallet.Address
}

var _ orm.CloneableData = (*OwnerSet)(nil)

func (s *OwnerSet) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(s)
}

func (s *OwnerSet) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, s)
}

func (s *OwnerSet) Validate() error {
	if len(s.Owners) == 0 {
		return errors.Wrap(errors.ErrModel, "no owners")
	}
	seen := make(map[string]struct{}, len(s.Owners))
	for i, a := range s.Owners {
		if err := a.Validate(); err != nil {
			return errors.Wrapf(err, "owner at slot %d", i+1)
		}
		if _, ok := seen[string(a)]; ok {
			return errors.Wrapf(errors.ErrDuplicate, "owner at slot %d", i+1)
		}
		seen[string(a)] = struct{}{}
	}
	return nil
}

func (s *OwnerSet) Copy() orm.CloneableData {
	owners := make([]multiwallet.Address, len(s.Owners))
	for i, a := range s.Owners {
		owners[i] = append(multiwallet.Address{}, a...)
	}
	return &OwnerSet{Owners: owners}
}

// OwnerSlot is the reverse lookup entry mapping an owner address back
// to its slot in the owner sequence. Slot is always greater than zero.
type OwnerSlot struct {
	Slot uint32
}

var _ orm.CloneableData = (*OwnerSlot)(nil)

func (s *OwnerSlot) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(s)
}

func (s *OwnerSlot) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, s)
}

func (s *OwnerSlot) Validate() error {
	if s.Slot == 0 {
		return errors.Wrap(errors.ErrModel, "slot 0 is reserved")
	}
	return nil
}

func (s *OwnerSlot) Copy() orm.CloneableData {
	return &OwnerSlot{Slot: s.Slot}
}

// ProposalStatus is the state of the proposal record kept under an
// operation identifier.
type ProposalStatus uint8

const (
	// ProposalOpen means the current attempt is still collecting
	// confirmations.
	ProposalOpen ProposalStatus = 1
	// ProposalClosed means the most recent attempt is finished, either
	// applied or retired. The next confirmation of the same identifier
	// starts a fresh attempt.
	ProposalClosed ProposalStatus = 2
)

func (s ProposalStatus) Validate() error {
	if s != ProposalOpen && s != ProposalClosed {
		return errors.Wrapf(errors.ErrState, "invalid proposal status %d", s)
	}
	return nil
}

// Proposal is the live record kept per operation identifier. It holds
// only the current attempt, finalized attempts are copied into the
// archive bucket before the record is reopened.
type Proposal struct {
	// Kind is the message path of the operation.
	Kind string
	// Attempt numbers the attempts under this identifier, starting at 1.
	Attempt uint32
	// Quorum is the admin quorum captured when this attempt was
	// proposed. A later quorum change must not alter an attempt that is
	// already in flight.
	Quorum uint32
	// Day is the calendar day bucket the attempt was proposed on. Audit
	// data only, never used for authorization.
	Day multiwallet.UnixDay
	// Data is the opaque payload stored by the first proposer. Cleared
	// once the attempt succeeds.
	Data []byte
	// Confirmed is the set of owner addresses that confirmed this
	// attempt. Membership only, the quorum check counts the distinct
	// addresses fresh on every call.
	Confirmed []multiwallet.Address
	Status    ProposalStatus
}

var _ orm.CloneableData = (*Proposal)(nil)

func (p *Proposal) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(p)
}

func (p *Proposal) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, p)
}

func (p *Proposal) Validate() error {
	if p.Kind == "" {
		return errors.Wrap(errors.ErrModel, "missing kind")
	}
	if p.Attempt == 0 {
		return errors.Wrap(errors.ErrModel, "attempt starts at 1")
	}
	if p.Quorum == 0 {
		return errors.Wrap(errors.ErrModel, "quorum must not be zero")
	}
	if err := p.Day.Validate(); err != nil {
		return errors.Wrap(err, "day")
	}
	for _, a := range p.Confirmed {
		if err := a.Validate(); err != nil {
			return errors.Wrap(err, "confirmed address")
		}
	}
	return p.Status.Validate()
}

func (p *Proposal) Copy() orm.CloneableData {
	confirmed := make([]multiwallet.Address, len(p.Confirmed))
	for i, a := range p.Confirmed {
		confirmed[i] = append(multiwallet.Address{}, a...)
	}
	return &Proposal{
		Kind:      p.Kind,
		Attempt:   p.Attempt,
		Quorum:    p.Quorum,
		Day:       p.Day,
		Data:      append([]byte(nil), p.Data...),
		Confirmed: confirmed,
		Status:    p.Status,
	}
}

// HasConfirmed returns true if given address is in the confirmed set.
func (p *Proposal) HasConfirmed(addr multiwallet.Address) bool {
	for _, a := range p.Confirmed {
		if a.Equals(addr) {
			return true
		}
	}
	return false
}

// IsComplete returns true iff the number of distinct confirmed
// addresses reaches the quorum snapshotted on this attempt.
func (p *Proposal) IsComplete() bool {
	return uint32(len(p.Confirmed)) >= p.Quorum
}

// Remaining returns how many more confirmations this attempt needs.
func (p *Proposal) Remaining() uint32 {
	if c := uint32(len(p.Confirmed)); c < p.Quorum {
		return p.Quorum - c
	}
	return 0
}

// ArchivedAttempt is the immutable audit copy of a finalized attempt.
// The payload is not archived, it is reclaimed on success.
type ArchivedAttempt struct {
	Kind      string
	Attempt   uint32
	Quorum    uint32
	Day       multiwallet.UnixDay
	Confirmed []multiwallet.Address
}

var _ orm.CloneableData = (*ArchivedAttempt)(nil)

func (a *ArchivedAttempt) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(a)
}

func (a *ArchivedAttempt) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, a)
}

func (a *ArchivedAttempt) Validate() error {
	if a.Kind == "" {
		return errors.Wrap(errors.ErrModel, "missing kind")
	}
	if a.Attempt == 0 {
		return errors.Wrap(errors.ErrModel, "attempt starts at 1")
	}
	return nil
}

func (a *ArchivedAttempt) Copy() orm.CloneableData {
	confirmed := make([]multiwallet.Address, len(a.Confirmed))
	for i, c := range a.Confirmed {
		confirmed[i] = append(multiwallet.Address{}, c...)
	}
	return &ArchivedAttempt{
		Kind:      a.Kind,
		Attempt:   a.Attempt,
		Quorum:    a.Quorum,
		Day:       a.Day,
		Confirmed: confirmed,
	}
}

// DayLog is the ordered list of identifiers proposed on one calendar
// day. An enumeration aid for off chain indexers.
type DayLog struct {
	Ops []OperationID
}

var _ orm.CloneableData = (*DayLog)(nil)

func (d *DayLog) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(d)
}

func (d *DayLog) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, d)
}

func (d *DayLog) Validate() error {
	for _, id := range d.Ops {
		if err := id.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (d *DayLog) Copy() orm.CloneableData {
	ops := make([]OperationID, len(d.Ops))
	for i, id := range d.Ops {
		ops[i] = append(OperationID{}, id...)
	}
	return &DayLog{Ops: ops}
}

// SpendThreshold is the per token daily limit above which a value
// transaction counts as major. Any limit value is accepted, thresholds
// are configuration, not a safety ceiling.
type SpendThreshold struct {
	Limit int64
}

var _ orm.CloneableData = (*SpendThreshold)(nil)

func (t *SpendThreshold) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(t)
}

func (t *SpendThreshold) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, t)
}

func (t *SpendThreshold) Validate() error {
	return nil
}

func (t *SpendThreshold) Copy() orm.CloneableData {
	return &SpendThreshold{Limit: t.Limit}
}

// NativeToken is the token key of the chain's native currency: the
// zero address.
func NativeToken() multiwallet.Address {
	return make(multiwallet.Address, multiwallet.AddressLength)
}

//------------------- buckets -------------------

// ownerSetKey is the fixed key of the owner set singleton.
var ownerSetKey = []byte("owners")

// NewOwnerSetBucket returns the bucket holding the owner set singleton.
func NewOwnerSetBucket() orm.Bucket {
	return orm.NewBucket("ownerset", orm.NewSimpleObj(nil, new(OwnerSet)))
}

// NewOwnerSlotBucket returns the reverse lookup bucket, keyed by owner
// address.
func NewOwnerSlotBucket() orm.Bucket {
	return orm.NewBucket("ownerslot", orm.NewSimpleObj(nil, new(OwnerSlot)))
}

// ProposalBucket stores the live proposal records, keyed by operation
// identifier.
type ProposalBucket struct {
	orm.Bucket
}

func NewProposalBucket() ProposalBucket {
	return ProposalBucket{
		Bucket: orm.NewBucket("proposal", orm.NewSimpleObj(nil, new(Proposal))),
	}
}

// GetProposal returns the proposal stored under given identifier, or
// nil if none was ever created.
func (b ProposalBucket) GetProposal(db multiwallet.ReadOnlyKVStore, id OperationID) (*Proposal, error) {
	obj, err := b.Get(db, id)
	if err != nil {
		return nil, errors.Wrap(err, "bucket lookup")
	}
	if obj == nil || obj.Value() == nil {
		return nil, nil
	}
	p, ok := obj.Value().(*Proposal)
	if !ok {
		return nil, errors.Wrapf(errors.ErrModel, "invalid type: %T", obj.Value())
	}
	return p, nil
}

// Update persists the proposal under given identifier.
func (b ProposalBucket) Update(db multiwallet.KVStore, id OperationID, p *Proposal) error {
	return b.Save(db, orm.NewSimpleObj(id, p))
}

// ArchiveBucket stores the immutable audit copies of finalized
// attempts, keyed by identifier and attempt number.
type ArchiveBucket struct {
	orm.Bucket
}

func NewArchiveBucket() ArchiveBucket {
	return ArchiveBucket{
		Bucket: orm.NewBucket("attempt", orm.NewSimpleObj(nil, new(ArchivedAttempt))),
	}
}

func archiveKey(id OperationID, attempt uint32) []byte {
	key := make([]byte, len(id)+4)
	copy(key, id)
	binary.BigEndian.PutUint32(key[len(id):], attempt)
	return key
}

// Archive stores the audit copy of a finalized attempt. An attempt can
// be archived only once.
func (b ArchiveBucket) Archive(db multiwallet.KVStore, id OperationID, a *ArchivedAttempt) error {
	key := archiveKey(id, a.Attempt)
	switch ok, err := b.Has(db, key); {
	case err != nil:
		return err
	case ok:
		return errors.Wrapf(errors.ErrImmutable, "attempt %d already archived", a.Attempt)
	}
	return b.Save(db, orm.NewSimpleObj(key, a))
}

// GetAttempt returns the archived attempt, or nil if not present.
func (b ArchiveBucket) GetAttempt(db multiwallet.ReadOnlyKVStore, id OperationID, attempt uint32) (*ArchivedAttempt, error) {
	obj, err := b.Get(db, archiveKey(id, attempt))
	if err != nil {
		return nil, errors.Wrap(err, "bucket lookup")
	}
	if obj == nil || obj.Value() == nil {
		return nil, nil
	}
	a, ok := obj.Value().(*ArchivedAttempt)
	if !ok {
		return nil, errors.Wrapf(errors.ErrModel, "invalid type: %T", obj.Value())
	}
	return a, nil
}

// DayLogBucket indexes operation identifiers by the day they were
// proposed on.
type DayLogBucket struct {
	orm.Bucket
}

func NewDayLogBucket() DayLogBucket {
	return DayLogBucket{
		Bucket: orm.NewBucket("daylog", orm.NewSimpleObj(nil, new(DayLog))),
	}
}

func dayKey(day multiwallet.UnixDay) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(day))
	return key
}

// Append adds an identifier to the end of given day's list.
func (b DayLogBucket) Append(db multiwallet.KVStore, day multiwallet.UnixDay, id OperationID) error {
	log, err := b.GetDay(db, day)
	if err != nil {
		return err
	}
	if log == nil {
		log = &DayLog{}
	}
	log.Ops = append(log.Ops, id)
	return b.Save(db, orm.NewSimpleObj(dayKey(day), log))
}

// GetDay returns the list of identifiers proposed on given day, or nil.
func (b DayLogBucket) GetDay(db multiwallet.ReadOnlyKVStore, day multiwallet.UnixDay) (*DayLog, error) {
	obj, err := b.Get(db, dayKey(day))
	if err != nil {
		return nil, errors.Wrap(err, "bucket lookup")
	}
	if obj == nil || obj.Value() == nil {
		return nil, nil
	}
	log, ok := obj.Value().(*DayLog)
	if !ok {
		return nil, errors.Wrapf(errors.ErrModel, "invalid type: %T", obj.Value())
	}
	return log, nil
}

// ThresholdBucket stores the per token major spend thresholds, keyed
// by token address. The native currency uses the zero address.
type ThresholdBucket struct {
	orm.Bucket
}

func NewThresholdBucket() ThresholdBucket {
	return ThresholdBucket{
		Bucket: orm.NewBucket("threshold", orm.NewSimpleObj(nil, new(SpendThreshold))),
	}
}

// SetThreshold stores the limit for given token.
func (b ThresholdBucket) SetThreshold(db multiwallet.KVStore, token multiwallet.Address, limit int64) error {
	if err := token.Validate(); err != nil {
		return errors.Wrap(err, "token")
	}
	return b.Save(db, orm.NewSimpleObj(token, &SpendThreshold{Limit: limit}))
}

// GetThreshold returns the limit configured for given token, or nil if
// the token has no threshold.
func (b ThresholdBucket) GetThreshold(db multiwallet.ReadOnlyKVStore, token multiwallet.Address) (*SpendThreshold, error) {
	obj, err := b.Get(db, token)
	if err != nil {
		return nil, errors.Wrap(err, "bucket lookup")
	}
	if obj == nil || obj.Value() == nil {
		return nil, nil
	}
	t, ok := obj.Value().(*SpendThreshold)
	if !ok {
		return nil, errors.Wrapf(errors.ErrModel, "invalid type: %T", obj.Value())
	}
	return t, nil
}
