package admin

import (
	"bytes"
	"testing"

	"github.com/iov-one/multiwallet"
	"github.com/iov-one/multiwallet/errors"
	"github.com/iov-one/multiwallet/mwtest"
	"github.com/iov-one/multiwallet/mwtest/assert"
)

func TestOperationIDDeterminism(t *testing.T) {
	from, to := mwtest.NewAddress(), mwtest.NewAddress()

	a := &ChangeOwnerMsg{From: from, To: to}
	b := &ChangeOwnerMsg{From: from, To: to, Confirm: true, Data: []byte("xyz")}

	// identical kind and parameters always map to the same identifier,
	// the confirm flag and the payload are not defining parameters
	assert.Equal(t, a.OperationID(), b.OperationID())
	assert.Nil(t, a.OperationID().Validate())

	// swapping parameters changes the identifier
	c := &ChangeOwnerMsg{From: to, To: from}
	if bytes.Equal(a.OperationID(), c.OperationID()) {
		t.Fatal("swapped parameters must produce a different identifier")
	}

	// different kinds with the same parameters do not collide
	d := &AddOwnerMsg{Owner: from}
	e := &RemoveOwnerMsg{Owner: from}
	if bytes.Equal(d.OperationID(), e.OperationID()) {
		t.Fatal("different kinds must produce different identifiers")
	}

	// the value is part of a threshold operation's identity
	f := &ChangeThresholdMsg{Token: from, Limit: 5}
	g := &ChangeThresholdMsg{Token: from, Limit: 6}
	if bytes.Equal(f.OperationID(), g.OperationID()) {
		t.Fatal("different limits must produce different identifiers")
	}
}

func TestMsgValidate(t *testing.T) {
	addr := mwtest.NewAddress()

	cases := map[string]struct {
		msg     multiwallet.Msg
		wantErr *errors.Error
	}{
		"valid change owner": {
			msg: &ChangeOwnerMsg{From: addr, To: mwtest.NewAddress()},
		},
		"change owner with identical addresses": {
			msg:     &ChangeOwnerMsg{From: addr, To: addr},
			wantErr: errors.ErrMsg,
		},
		"change owner with malformed from": {
			msg:     &ChangeOwnerMsg{From: multiwallet.Address{0x01}, To: addr},
			wantErr: errors.ErrInput,
		},
		"valid add owner": {
			msg: &AddOwnerMsg{Owner: addr},
		},
		"add owner without address": {
			msg:     &AddOwnerMsg{},
			wantErr: errors.ErrInput,
		},
		"valid remove owner": {
			msg: &RemoveOwnerMsg{Owner: addr},
		},
		"valid requirement change": {
			msg: &ChangeRequirementMsg{Scope: ScopeMinor, Count: 1},
		},
		"requirement change with unknown scope": {
			msg:     &ChangeRequirementMsg{Scope: RequirementScope(9), Count: 1},
			wantErr: errors.ErrMsg,
		},
		"valid threshold change for the native token": {
			msg: &ChangeThresholdMsg{Token: NativeToken(), Limit: 100},
		},
		"threshold change with malformed token": {
			msg:     &ChangeThresholdMsg{Token: multiwallet.Address{0x01}},
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.IsErr(t, tc.wantErr, tc.msg.Validate())
		})
	}
}

func TestMsgSerialization(t *testing.T) {
	original := &ChangeRequirementMsg{
		Scope:   ScopeAdmin,
		Count:   3,
		Confirm: true,
		Data:    []byte("payload"),
	}
	raw, err := original.Marshal()
	assert.Nil(t, err)

	var restored ChangeRequirementMsg
	assert.Nil(t, restored.Unmarshal(raw))
	assert.Equal(t, original, &restored)
}
