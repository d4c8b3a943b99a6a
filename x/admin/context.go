package admin

import (
	"context"

	"github.com/iov-one/multiwallet"
	"github.com/iov-one/multiwallet/x"
)

type contextKey int // local to the admin module

const (
	contextKeyWallet contextKey = iota
)

// walletCondition marks the wallet acting on its own behalf. An
// operation pre-authorized by an outer mechanism runs with this
// condition and skips per owner confirmation collection.
var walletCondition = multiwallet.NewCondition("admin", "wallet", []byte("self"))

// WalletCondition returns the condition of the wallet itself.
func WalletCondition() multiwallet.Condition {
	return walletCondition
}

// WithWalletCall marks the context as a privileged self call. Only the
// outer dispatch code that already verified authorization may set it.
func WithWalletCall(ctx multiwallet.Context) multiwallet.Context {
	return context.WithValue(ctx, contextKeyWallet, walletCondition)
}

// Authenticate gets/sets permissions on the given context key
type Authenticate struct {
}

var _ x.Authenticator = Authenticate{}

// GetConditions returns permissions previously set on this context
func (a Authenticate) GetConditions(ctx multiwallet.Context) []multiwallet.Condition {
	// (val, ok) form to return nil instead of panic if unset
	val, _ := ctx.Value(contextKeyWallet).(multiwallet.Condition)
	if val == nil {
		return nil
	}
	return []multiwallet.Condition{val}
}

// HasAddress returns true iff this address is in GetConditions
func (a Authenticate) HasAddress(ctx multiwallet.Context, addr multiwallet.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
