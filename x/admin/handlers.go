package admin

import (
	"strconv"

	"github.com/tendermint/tendermint/libs/common"

	"github.com/iov-one/multiwallet"
	"github.com/iov-one/multiwallet/errors"
	"github.com/iov-one/multiwallet/x"
)

const adminOpCost int64 = 100

const (
	tagAction      = "action"
	tagOperationID = "operation-id"
	tagActor       = "actor"
	tagRemaining   = "confirmations-left"
	tagReason      = "reason"
	tagCode        = "code"

	actionConfirm            = "confirm"
	actionRevoke             = "revoke"
	actionReject             = "reject"
	actionOwnerChanged       = "owner-changed"
	actionOwnerAdded         = "owner-added"
	actionOwnerRemoved       = "owner-removed"
	actionRequirementChanged = "requirement-changed"
	actionThresholdChanged   = "threshold-changed"
)

// RegisterQuery registers admin buckets for querying.
func RegisterQuery(qr multiwallet.QueryRouter) {
	NewOwnerSetBucket().RegisterQuery(qr)
	NewOwnerSlotBucket().RegisterQuery(qr)
	NewProposalBucket().RegisterQuery(qr)
	NewArchiveBucket().RegisterQuery(qr)
	NewDayLogBucket().RegisterQuery(qr)
	NewThresholdBucket().RegisterQuery(qr)
}

// RegisterRoutes registers handlers for admin message processing.
func RegisterRoutes(r multiwallet.Registry, auth x.Authenticator) {
	engine := NewEngine()
	r.Handle(pathChangeOwnerMsg, ChangeOwnerHandler{core: newCore(auth, engine)})
	r.Handle(pathAddOwnerMsg, AddOwnerHandler{core: newCore(auth, engine)})
	r.Handle(pathRemoveOwnerMsg, RemoveOwnerHandler{core: newCore(auth, engine)})
	r.Handle(pathChangeRequirementMsg, ChangeRequirementHandler{core: newCore(auth, engine)})
	r.Handle(pathChangeThresholdMsg, ChangeThresholdHandler{core: newCore(auth, engine)})
}

// core is the handler template shared by all five operations: resolve
// the caller, drive the engine, and on quorum completion finalize the
// attempt and apply the one kind specific mutation.
type core struct {
	auth       x.Authenticator
	engine     *Engine
	thresholds ThresholdBucket
}

func newCore(auth x.Authenticator, engine *Engine) core {
	return core{
		auth:       auth,
		engine:     engine,
		thresholds: NewThresholdBucket(),
	}
}

// callerFor resolves who this call runs on behalf of. The wallet's own
// condition marks the privileged self call path, otherwise the main
// signer is the external caller.
func (c core) callerFor(ctx multiwallet.Context) (Caller, error) {
	if c.auth.HasAddress(ctx, walletCondition.Address()) {
		return SelfCaller(), nil
	}
	signer := x.MainSigner(ctx, c.auth)
	if signer == nil {
		return Caller{}, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	return ExternalCaller(signer.Address()), nil
}

// mutation applies the concrete state change of one operation kind
// and returns the kind specific "changed" notification tags.
type mutation func(db multiwallet.KVStore) ([]common.KVPair, error)

func rejectTags(id OperationID, actor multiwallet.Address, code uint32, reason string) []common.KVPair {
	return []common.KVPair{
		{Key: []byte(tagAction), Value: []byte(actionReject)},
		{Key: []byte(tagOperationID), Value: id},
		{Key: []byte(tagActor), Value: []byte(actor.String())},
		{Key: []byte(tagCode), Value: []byte(strconv.FormatUint(uint64(code), 10))},
		{Key: []byte(tagReason), Value: []byte(reason)},
	}
}

func (c core) check(ctx multiwallet.Context, tx multiwallet.Tx, msg OperationMsg) (multiwallet.CheckResult, error) {
	var res multiwallet.CheckResult
	if err := multiwallet.LoadMsg(tx, msg); err != nil {
		return res, errors.Wrap(err, "load msg")
	}
	if _, err := c.callerFor(ctx); err != nil {
		return res, err
	}
	res.GasAllocated += adminOpCost
	return res, nil
}

func (c core) deliver(ctx multiwallet.Context, db multiwallet.KVStore, msg OperationMsg, apply mutation) (multiwallet.DeliverResult, error) {
	var res multiwallet.DeliverResult

	caller, err := c.callerFor(ctx)
	if err != nil {
		return res, err
	}
	out, err := c.engine.Advance(ctx, db, caller, msg)
	if err != nil {
		return res, err
	}
	res.Data = out.ID

	actor := caller.Address()
	if caller.Self() {
		actor = walletCondition.Address()
	}

	if !out.Accepted {
		res.Log = out.Reason
		res.Tags = append(res.Tags, rejectTags(out.ID, actor, out.Code, out.Reason)...)
		return res, nil
	}

	if out.Completed {
		// The wallet can move between the proposal and the deciding
		// confirmation, for example by another operation completing
		// in between. Re-validate before applying and retire the
		// attempt when its preconditions no longer hold.
		if verr := c.engine.Validate(db, msg); verr != nil {
			if err := c.engine.Finalize(db, out.ID); err != nil {
				return res, errors.Wrap(err, "finalize attempt")
			}
			code, reason := errors.ABCIInfo(verr, false)
			res.Log = reason
			res.Tags = append(res.Tags, rejectTags(out.ID, actor, code, reason)...)
			return res, nil
		}
	}

	action := actionConfirm
	if !msg.Confirming() && !caller.Self() {
		action = actionRevoke
	}
	res.Tags = append(res.Tags, []common.KVPair{
		{Key: []byte(tagAction), Value: []byte(action)},
		{Key: []byte(tagOperationID), Value: out.ID},
		{Key: []byte(tagActor), Value: []byte(actor.String())},
	}...)

	if !out.Completed {
		res.Tags = append(res.Tags, common.KVPair{
			Key:   []byte(tagRemaining),
			Value: []byte(strconv.FormatUint(uint64(out.Remaining), 10)),
		})
		return res, nil
	}

	// deciding confirmation: close the attempt and apply the one
	// mutation in the same atomic step
	if err := c.engine.Finalize(db, out.ID); err != nil {
		return res, errors.Wrap(err, "finalize attempt")
	}
	changed, err := apply(db)
	if err != nil {
		return res, errors.Wrap(err, "apply operation")
	}
	res.Tags = append(res.Tags, changed...)
	return res, nil
}

// ChangeOwnerHandler hands an owner slot over to a new address once
// quorum confirms.
type ChangeOwnerHandler struct {
	core core
}

var _ multiwallet.Handler = ChangeOwnerHandler{}

func (h ChangeOwnerHandler) Check(ctx multiwallet.Context, db multiwallet.KVStore, tx multiwallet.Tx) (multiwallet.CheckResult, error) {
	var msg ChangeOwnerMsg
	return h.core.check(ctx, tx, &msg)
}

func (h ChangeOwnerHandler) Deliver(ctx multiwallet.Context, db multiwallet.KVStore, tx multiwallet.Tx) (multiwallet.DeliverResult, error) {
	var msg ChangeOwnerMsg
	if err := multiwallet.LoadMsg(tx, &msg); err != nil {
		return multiwallet.DeliverResult{}, errors.Wrap(err, "load msg")
	}
	return h.core.deliver(ctx, db, &msg, func(db multiwallet.KVStore) ([]common.KVPair, error) {
		if err := h.core.engine.owners.Replace(db, msg.From, msg.To); err != nil {
			return nil, err
		}
		return []common.KVPair{
			{Key: []byte(tagAction), Value: []byte(actionOwnerChanged)},
		}, nil
	})
}

// AddOwnerHandler appends a new owner once quorum confirms.
type AddOwnerHandler struct {
	core core
}

var _ multiwallet.Handler = AddOwnerHandler{}

func (h AddOwnerHandler) Check(ctx multiwallet.Context, db multiwallet.KVStore, tx multiwallet.Tx) (multiwallet.CheckResult, error) {
	var msg AddOwnerMsg
	return h.core.check(ctx, tx, &msg)
}

func (h AddOwnerHandler) Deliver(ctx multiwallet.Context, db multiwallet.KVStore, tx multiwallet.Tx) (multiwallet.DeliverResult, error) {
	var msg AddOwnerMsg
	if err := multiwallet.LoadMsg(tx, &msg); err != nil {
		return multiwallet.DeliverResult{}, errors.Wrap(err, "load msg")
	}
	return h.core.deliver(ctx, db, &msg, func(db multiwallet.KVStore) ([]common.KVPair, error) {
		if err := h.core.engine.owners.Add(db, msg.Owner); err != nil {
			return nil, err
		}
		return []common.KVPair{
			{Key: []byte(tagAction), Value: []byte(actionOwnerAdded)},
		}, nil
	})
}

// RemoveOwnerHandler drops an owner once quorum confirms.
type RemoveOwnerHandler struct {
	core core
}

var _ multiwallet.Handler = RemoveOwnerHandler{}

func (h RemoveOwnerHandler) Check(ctx multiwallet.Context, db multiwallet.KVStore, tx multiwallet.Tx) (multiwallet.CheckResult, error) {
	var msg RemoveOwnerMsg
	return h.core.check(ctx, tx, &msg)
}

func (h RemoveOwnerHandler) Deliver(ctx multiwallet.Context, db multiwallet.KVStore, tx multiwallet.Tx) (multiwallet.DeliverResult, error) {
	var msg RemoveOwnerMsg
	if err := multiwallet.LoadMsg(tx, &msg); err != nil {
		return multiwallet.DeliverResult{}, errors.Wrap(err, "load msg")
	}
	return h.core.deliver(ctx, db, &msg, func(db multiwallet.KVStore) ([]common.KVPair, error) {
		if err := h.core.engine.owners.Remove(db, msg.Owner); err != nil {
			return nil, err
		}
		return []common.KVPair{
			{Key: []byte(tagAction), Value: []byte(actionOwnerRemoved)},
		}, nil
	})
}

// ChangeRequirementHandler sets one of the three quorum sizes once
// quorum confirms.
type ChangeRequirementHandler struct {
	core core
}

var _ multiwallet.Handler = ChangeRequirementHandler{}

func (h ChangeRequirementHandler) Check(ctx multiwallet.Context, db multiwallet.KVStore, tx multiwallet.Tx) (multiwallet.CheckResult, error) {
	var msg ChangeRequirementMsg
	return h.core.check(ctx, tx, &msg)
}

func (h ChangeRequirementHandler) Deliver(ctx multiwallet.Context, db multiwallet.KVStore, tx multiwallet.Tx) (multiwallet.DeliverResult, error) {
	var msg ChangeRequirementMsg
	if err := multiwallet.LoadMsg(tx, &msg); err != nil {
		return multiwallet.DeliverResult{}, errors.Wrap(err, "load msg")
	}
	return h.core.deliver(ctx, db, &msg, func(db multiwallet.KVStore) ([]common.KVPair, error) {
		conf, err := loadConf(db)
		if err != nil {
			return nil, err
		}
		switch msg.Scope {
		case ScopeAdmin:
			conf.AdminQuorum = msg.Count
		case ScopeMajor:
			conf.MajorQuorum = msg.Count
		case ScopeMinor:
			conf.MinorQuorum = msg.Count
		default:
			return nil, errors.Wrapf(errors.ErrMsg, "invalid requirement scope %d", msg.Scope)
		}
		if err := saveConf(db, conf); err != nil {
			return nil, err
		}
		return []common.KVPair{
			{Key: []byte(tagAction), Value: []byte(actionRequirementChanged)},
		}, nil
	})
}

// ChangeThresholdHandler sets a per token spend threshold once quorum
// confirms.
type ChangeThresholdHandler struct {
	core core
}

var _ multiwallet.Handler = ChangeThresholdHandler{}

func (h ChangeThresholdHandler) Check(ctx multiwallet.Context, db multiwallet.KVStore, tx multiwallet.Tx) (multiwallet.CheckResult, error) {
	var msg ChangeThresholdMsg
	return h.core.check(ctx, tx, &msg)
}

func (h ChangeThresholdHandler) Deliver(ctx multiwallet.Context, db multiwallet.KVStore, tx multiwallet.Tx) (multiwallet.DeliverResult, error) {
	var msg ChangeThresholdMsg
	if err := multiwallet.LoadMsg(tx, &msg); err != nil {
		return multiwallet.DeliverResult{}, errors.Wrap(err, "load msg")
	}
	return h.core.deliver(ctx, db, &msg, func(db multiwallet.KVStore) ([]common.KVPair, error) {
		if err := h.core.thresholds.SetThreshold(db, msg.Token, msg.Limit); err != nil {
			return nil, err
		}
		return []common.KVPair{
			{Key: []byte(tagAction), Value: []byte(actionThresholdChanged)},
		}, nil
	})
}
