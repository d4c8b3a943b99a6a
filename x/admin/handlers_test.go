package admin

import (
	"strconv"
	"testing"

	"github.com/iov-one/multiwallet"
	"github.com/iov-one/multiwallet/errors"
	"github.com/iov-one/multiwallet/mwtest"
	"github.com/iov-one/multiwallet/mwtest/assert"
	"github.com/iov-one/multiwallet/x"
)

// testWallet wires the five handlers the way an application would.
type testWallet struct {
	db     multiwallet.CacheableKVStore
	router *mwtest.Router
	auth   *mwtest.CtxAuth
	conds  []multiwallet.Condition
}

func newTestWallet(t testing.TB, conf Configuration, ownerCount int) *testWallet {
	t.Helper()
	conds := make([]multiwallet.Condition, ownerCount)
	owners := make([]multiwallet.Address, ownerCount)
	for i := range conds {
		conds[i] = mwtest.NewCondition()
		owners[i] = conds[i].Address()
	}
	ctxAuth := &mwtest.CtxAuth{Key: "auth"}
	router := mwtest.NewRouter()
	RegisterRoutes(router, x.ChainAuth(ctxAuth, Authenticate{}))
	return &testWallet{
		db:     setupWallet(t, conf, owners...),
		router: router,
		auth:   ctxAuth,
		conds:  conds,
	}
}

// deliver runs the message through the router, signed by the owner at
// given index.
func (w *testWallet) deliver(t testing.TB, signer int, msg multiwallet.Msg) multiwallet.DeliverResult {
	t.Helper()
	ctx := w.auth.SetConditions(walletCtx(), w.conds[signer])
	res, err := w.router.Handler(msg.Path()).Deliver(ctx, w.db, &mwtest.Tx{Msg: msg})
	assert.Nil(t, err)
	return res
}

func tagValue(res multiwallet.DeliverResult, key string) string {
	for _, tag := range res.Tags {
		if string(tag.Key) == key {
			return string(tag.Value)
		}
	}
	return ""
}

func hasTag(res multiwallet.DeliverResult, key, value string) bool {
	for _, tag := range res.Tags {
		if string(tag.Key) == key && string(tag.Value) == value {
			return true
		}
	}
	return false
}

func TestAddOwnerHandler(t *testing.T) {
	w := newTestWallet(t, defaultConf, 3)
	d := mwtest.NewAddress()
	msg := &AddOwnerMsg{Owner: d, Confirm: true}

	// first confirmation is recorded and reports what is left
	res := w.deliver(t, 0, msg)
	assert.Equal(t, []byte(msg.OperationID()), res.Data)
	assert.Equal(t, "confirm", tagValue(res, tagAction))
	assert.Equal(t, "1", tagValue(res, tagRemaining))

	// the deciding confirmation applies the mutation and notifies
	res = w.deliver(t, 1, msg)
	if !hasTag(res, tagAction, actionOwnerAdded) {
		t.Fatalf("owner-added notification missing, tags: %v", res.Tags)
	}
	count, err := NewOwnerStore().Count(w.db)
	assert.Nil(t, err)
	assert.Equal(t, 4, count)

	// a repeat proposal is softly rejected, d is an owner now
	res = w.deliver(t, 2, msg)
	assert.Equal(t, "reject", tagValue(res, tagAction))
	assert.Equal(t, []byte(msg.OperationID()), res.Data)
	if tagValue(res, tagReason) == "" {
		t.Fatal("reject notification must carry a reason")
	}
}

func TestRemoveOwnerHandler(t *testing.T) {
	w := newTestWallet(t, defaultConf, 4)
	victim := w.conds[3].Address()
	msg := &RemoveOwnerMsg{Owner: victim, Confirm: true}

	w.deliver(t, 0, msg)
	res := w.deliver(t, 1, msg)
	if !hasTag(res, tagAction, actionOwnerRemoved) {
		t.Fatalf("owner-removed notification missing, tags: %v", res.Tags)
	}
	owners := NewOwnerStore()
	slot, err := owners.SlotOf(w.db, victim)
	assert.Nil(t, err)
	assert.Equal(t, uint32(0), slot)
	count, err := owners.Count(w.db)
	assert.Nil(t, err)
	assert.Equal(t, 3, count)
}

func TestRemoveOwnerStaleAttemptRetired(t *testing.T) {
	// Both removals are valid against four owners with admin quorum
	// two. Once the first one completes only one of them may apply.
	w := newTestWallet(t, defaultConf, 4)
	removeC := &RemoveOwnerMsg{Owner: w.conds[2].Address(), Confirm: true}
	removeD := &RemoveOwnerMsg{Owner: w.conds[3].Address(), Confirm: true}

	w.deliver(t, 0, removeC)

	w.deliver(t, 0, removeD)
	res := w.deliver(t, 1, removeD)
	if !hasTag(res, tagAction, actionOwnerRemoved) {
		t.Fatalf("owner-removed notification missing, tags: %v", res.Tags)
	}

	// the deciding confirmation on the stale attempt retires it
	// instead of dropping the wallet below the quorum floor
	res = w.deliver(t, 1, removeC)
	assert.Equal(t, "reject", tagValue(res, tagAction))
	wantCode := strconv.FormatUint(uint64(ErrQuorumFloor.ABCICode()), 10)
	assert.Equal(t, wantCode, tagValue(res, tagCode))

	owners := NewOwnerStore()
	count, err := owners.Count(w.db)
	assert.Nil(t, err)
	assert.Equal(t, 3, count)
	slot, err := owners.SlotOf(w.db, removeC.Owner)
	assert.Nil(t, err)
	if slot == 0 {
		t.Fatal("stale attempt must not remove the owner")
	}
	conf, err := loadConf(w.db)
	assert.Nil(t, err)
	if int64(count)-1 < int64(conf.AdminQuorum) {
		t.Fatalf("admin quorum %d exceeds owner count-1 = %d", conf.AdminQuorum, count-1)
	}

	// the retired attempt is closed, a repeat proposal validates
	// against current state and is rejected as well
	prop, err := NewProposalBucket().GetProposal(w.db, removeC.OperationID())
	assert.Nil(t, err)
	assert.Equal(t, ProposalClosed, prop.Status)
	res = w.deliver(t, 0, removeC)
	assert.Equal(t, "reject", tagValue(res, tagAction))
	assert.Equal(t, wantCode, tagValue(res, tagCode))
}

func TestChangeOwnerHandler(t *testing.T) {
	w := newTestWallet(t, defaultConf, 3)
	from := w.conds[2].Address()
	to := mwtest.NewAddress()
	msg := &ChangeOwnerMsg{From: from, To: to, Confirm: true}

	w.deliver(t, 0, msg)
	res := w.deliver(t, 1, msg)
	if !hasTag(res, tagAction, actionOwnerChanged) {
		t.Fatalf("owner-changed notification missing, tags: %v", res.Tags)
	}
	owners := NewOwnerStore()
	slot, err := owners.SlotOf(w.db, to)
	assert.Nil(t, err)
	assert.Equal(t, uint32(3), slot)
	slot, err = owners.SlotOf(w.db, from)
	assert.Nil(t, err)
	assert.Equal(t, uint32(0), slot)
}

func TestChangeRequirementHandler(t *testing.T) {
	w := newTestWallet(t, defaultConf, 5)
	msg := &ChangeRequirementMsg{Scope: ScopeMajor, Count: 3, Confirm: true}

	w.deliver(t, 0, msg)
	res := w.deliver(t, 1, msg)
	if !hasTag(res, tagAction, actionRequirementChanged) {
		t.Fatalf("requirement-changed notification missing, tags: %v", res.Tags)
	}
	conf, err := loadConf(w.db)
	assert.Nil(t, err)
	assert.Equal(t, uint32(3), conf.MajorQuorum)
	// the other quorums are untouched
	assert.Equal(t, uint32(2), conf.AdminQuorum)
	assert.Equal(t, uint32(1), conf.MinorQuorum)
}

func TestChangeThresholdHandler(t *testing.T) {
	w := newTestWallet(t, defaultConf, 3)
	token := mwtest.NewAddress()
	msg := &ChangeThresholdMsg{Token: token, Limit: 123456, Confirm: true}

	w.deliver(t, 0, msg)
	res := w.deliver(t, 1, msg)
	if !hasTag(res, tagAction, actionThresholdChanged) {
		t.Fatalf("threshold-changed notification missing, tags: %v", res.Tags)
	}
	limit, err := NewThresholdBucket().GetThreshold(w.db, token)
	assert.Nil(t, err)
	assert.Equal(t, int64(123456), limit.Limit)
}

func TestRevokeHandler(t *testing.T) {
	w := newTestWallet(t, defaultConf, 3)
	d := mwtest.NewAddress()

	w.deliver(t, 0, &AddOwnerMsg{Owner: d, Confirm: true})
	res := w.deliver(t, 0, &AddOwnerMsg{Owner: d, Confirm: false})
	assert.Equal(t, "revoke", tagValue(res, tagAction))
	assert.Equal(t, "2", tagValue(res, tagRemaining))

	// revoking again has nothing left to revoke
	res = w.deliver(t, 0, &AddOwnerMsg{Owner: d, Confirm: false})
	assert.Equal(t, "reject", tagValue(res, tagAction))
}

func TestSelfCallHandler(t *testing.T) {
	w := newTestWallet(t, defaultConf, 3)
	d := mwtest.NewAddress()
	msg := &AddOwnerMsg{Owner: d, Confirm: true}

	// one owner opens the attempt the usual way
	w.deliver(t, 0, msg)

	// the pre-authorized self call completes it without further
	// confirmations
	ctx := WithWalletCall(walletCtx())
	res, err := w.router.Handler(msg.Path()).Deliver(ctx, w.db, &mwtest.Tx{Msg: msg})
	assert.Nil(t, err)
	if !hasTag(res, tagAction, actionOwnerAdded) {
		t.Fatalf("owner-added notification missing, tags: %v", res.Tags)
	}
	count, err := NewOwnerStore().Count(w.db)
	assert.Nil(t, err)
	assert.Equal(t, 4, count)
}

func TestHandlerRequiresSigner(t *testing.T) {
	w := newTestWallet(t, defaultConf, 3)
	msg := &AddOwnerMsg{Owner: mwtest.NewAddress(), Confirm: true}

	// no signer at all is a hard authorization failure
	_, err := w.router.Handler(msg.Path()).Deliver(walletCtx(), w.db, &mwtest.Tx{Msg: msg})
	assert.IsErr(t, errors.ErrUnauthorized, err)
	_, err = w.router.Handler(msg.Path()).Check(walletCtx(), w.db, &mwtest.Tx{Msg: msg})
	assert.IsErr(t, errors.ErrUnauthorized, err)
}

func TestQueryProposalAndArchive(t *testing.T) {
	w := newTestWallet(t, defaultConf, 3)
	msg := &AddOwnerMsg{Owner: mwtest.NewAddress(), Confirm: true}
	w.deliver(t, 0, msg)

	qr := multiwallet.NewQueryRouter()
	RegisterQuery(qr)

	// an observer looks up the open attempt by operation identifier
	models, err := qr.Handler("/proposal").Query(w.db, multiwallet.KeyQueryMod, msg.OperationID())
	assert.Nil(t, err)
	assert.Equal(t, 1, len(models))
	var prop Proposal
	assert.Nil(t, prop.Unmarshal(models[0].Value))
	assert.Equal(t, pathAddOwnerMsg, prop.Kind)
	assert.Equal(t, uint32(1), prop.Attempt)
	assert.Equal(t, ProposalOpen, prop.Status)

	// the deciding confirmation archives the attempt, found by prefix
	w.deliver(t, 1, msg)
	models, err = qr.Handler("/attempt").Query(w.db, multiwallet.PrefixQueryMod, msg.OperationID())
	assert.Nil(t, err)
	assert.Equal(t, 1, len(models))
	var audit ArchivedAttempt
	assert.Nil(t, audit.Unmarshal(models[0].Value))
	assert.Equal(t, pathAddOwnerMsg, audit.Kind)
	assert.Equal(t, 2, len(audit.Confirmed))
}

func TestHandlerCheck(t *testing.T) {
	w := newTestWallet(t, defaultConf, 3)
	msg := &AddOwnerMsg{Owner: mwtest.NewAddress(), Confirm: true}

	ctx := w.auth.SetConditions(walletCtx(), w.conds[0])
	res, err := w.router.Handler(msg.Path()).Check(ctx, w.db, &mwtest.Tx{Msg: msg})
	assert.Nil(t, err)
	assert.Equal(t, adminOpCost, res.GasAllocated)

	// an invalid message does not pass the stateless check
	bad := &AddOwnerMsg{Owner: multiwallet.Address{0x01}, Confirm: true}
	_, err = w.router.Handler(bad.Path()).Check(ctx, w.db, &mwtest.Tx{Msg: bad})
	assert.IsErr(t, errors.ErrInput, err)
}
