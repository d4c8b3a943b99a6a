package mwtest

import (
	"crypto/rand"

	"github.com/iov-one/multiwallet"
)

// NewCondition returns a random condition of a fake signature scheme.
// Each call returns a different condition.
func NewCondition() multiwallet.Condition {
	data := make([]byte, 32)
	if _, err := rand.Read(data); err != nil {
		panic(err)
	}
	return multiwallet.NewCondition("sigs", "ed25519", data)
}

// NewAddress returns the address of a random condition.
func NewAddress() multiwallet.Address {
	return NewCondition().Address()
}
