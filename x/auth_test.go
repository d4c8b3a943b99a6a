package x

import (
	"context"
	"testing"

	"github.com/iov-one/multiwallet/mwtest"
	"github.com/iov-one/multiwallet/mwtest/assert"
)

func TestChainAuth(t *testing.T) {
	a := mwtest.NewCondition()
	b := mwtest.NewCondition()
	auth := ChainAuth(
		&mwtest.Auth{Signer: a},
		&mwtest.Auth{Signer: b},
	)
	ctx := context.Background()

	conds := auth.GetConditions(ctx)
	assert.Equal(t, 2, len(conds))
	assert.Equal(t, true, auth.HasAddress(ctx, a.Address()))
	assert.Equal(t, true, auth.HasAddress(ctx, b.Address()))
	assert.Equal(t, false, auth.HasAddress(ctx, mwtest.NewAddress()))
}

func TestMainSigner(t *testing.T) {
	a := mwtest.NewCondition()
	b := mwtest.NewCondition()
	ctx := context.Background()

	// the first authenticator in the chain provides the main signer
	auth := ChainAuth(&mwtest.Auth{Signer: a}, &mwtest.Auth{Signer: b})
	assert.Equal(t, a, MainSigner(ctx, auth))

	// no signer at all means no main signer
	assert.Nil(t, MainSigner(ctx, ChainAuth()))
}
