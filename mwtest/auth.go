package mwtest

import (
	"context"
	"fmt"

	"github.com/iov-one/multiwallet"
)

// Auth is a mock implementing x.Authenticator interface.
//
// This structure authenticates any of referenced conditions.
// You can use either Signer or Signers (or both) attributes to reference
// conditions. This is for the convinience and each time all signers
// (regardless which attribute) are considered.
type Auth struct {
	// Signer represents an authentication of a single signer. This is a
	// convinience attribute when creating an authentication method for a
	// single signer.
	// When authenticating all signers declared on this structure are
	// considered.
	Signer multiwallet.Condition

	// Signers represents an authentication of multiple signers.
	Signers []multiwallet.Condition
}

func (a *Auth) GetConditions(multiwallet.Context) []multiwallet.Condition {
	if a.Signer != nil {
		return append(a.Signers, a.Signer)
	}
	return a.Signers
}

func (a *Auth) HasAddress(ctx multiwallet.Context, addr multiwallet.Address) bool {
	for _, s := range a.Signers {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	if a.Signer == nil {
		return false
	}
	return addr.Equals(a.Signer.Address())
}

// CtxAuth is a mock implementing x.Authenticator interface.
//
// This implementation is using context to store and retrieve permissions.
type CtxAuth struct {
	// Key used to set and retrieve conditions from the context. For
	// convinience only string type keys are allowed.
	Key string
}

func (a *CtxAuth) SetConditions(ctx multiwallet.Context, permissions ...multiwallet.Condition) multiwallet.Context {
	return context.WithValue(ctx, ctxAuthKey(a.Key), permissions)
}

func (a *CtxAuth) GetConditions(ctx multiwallet.Context) []multiwallet.Condition {
	val := ctx.Value(ctxAuthKey(a.Key))
	if val == nil {
		return nil
	}
	conds, ok := val.([]multiwallet.Condition)
	if !ok {
		panic(fmt.Sprintf("instead of []multiwallet.Condition got %T", val))
	}
	return conds
}

func (a *CtxAuth) HasAddress(ctx multiwallet.Context, addr multiwallet.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}

// ctxAuthKey avoids collisions with other packages' context keys.
type ctxAuthKey string
