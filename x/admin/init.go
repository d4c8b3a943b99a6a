package admin

import (
	"github.com/iov-one/multiwallet"
	"github.com/iov-one/multiwallet/errors"
	"github.com/iov-one/multiwallet/gconf"
)

// Initializer fulfils the multiwallet.Initializer interface to load
// data from the genesis file
type Initializer struct{}

var _ multiwallet.Initializer = (*Initializer)(nil)

// genesisThreshold is one per token limit declared in the genesis
// file.
type genesisThreshold struct {
	Token multiwallet.Address `json:"token"`
	Limit int64               `json:"limit"`
}

// genesisOptions is the "admin" section of the genesis file.
type genesisOptions struct {
	Owners     []multiwallet.Address `json:"owners"`
	Thresholds []genesisThreshold    `json:"thresholds"`
}

// FromGenesis will parse initial wallet info from the genesis and
// store it in the database. The configuration comes from the shared
// "conf" section. The same invariants the handlers enforce hold here:
// quorums are never zero and the admin quorum leaves headroom below
// the owner count.
func (Initializer) FromGenesis(opts multiwallet.Options, db multiwallet.KVStore) error {
	var conf Configuration
	if err := gconf.InitConfig(db, opts, pkgName, &conf); err != nil {
		return errors.Wrap(err, "init config")
	}

	var admin genesisOptions
	if err := opts.ReadOptions(pkgName, &admin); err != nil {
		return errors.Wrap(err, "read admin options")
	}
	if len(admin.Owners) == 0 {
		return errors.Wrap(errors.ErrEmpty, "no owners in genesis")
	}

	set := OwnerSet{Owners: admin.Owners}
	if err := set.Validate(); err != nil {
		return errors.Wrap(err, "owners")
	}
	count := uint32(len(admin.Owners))
	if count > conf.MaxOwners {
		return errors.Wrapf(errors.ErrInput, "%d owners exceed capacity %d", count, conf.MaxOwners)
	}
	if conf.AdminQuorum > count-1 {
		return errors.Wrapf(errors.ErrInput, "admin quorum %d must be below owner count %d", conf.AdminQuorum, count)
	}

	owners := NewOwnerStore()
	if err := owners.Init(db, admin.Owners); err != nil {
		return errors.Wrap(err, "init owners")
	}

	thresholds := NewThresholdBucket()
	for i, t := range admin.Thresholds {
		if err := thresholds.SetThreshold(db, t.Token, t.Limit); err != nil {
			return errors.Wrapf(err, "threshold %d", i)
		}
	}
	return nil
}
