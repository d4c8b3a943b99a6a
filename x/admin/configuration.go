package admin

import (
	"github.com/iov-one/multiwallet/errors"
	"github.com/iov-one/multiwallet/gconf"
)

// pkgName is the configuration singleton key of this package.
const pkgName = "admin"

// Configuration holds the three independent quorum sizes and the owner
// capacity. It is created once at wallet initialization and mutated
// only through a quorumed change requirement operation.
type Configuration struct {
	// AdminQuorum is the number of owner confirmations every operation
	// of this package requires. Must stay below the owner count so the
	// wallet can never be admin locked.
	AdminQuorum uint32 `json:"admin_quorum"`
	// MajorQuorum classifies value transactions above the spend
	// threshold.
	MajorQuorum uint32 `json:"major_quorum"`
	// MinorQuorum classifies value transactions below the spend
	// threshold.
	MinorQuorum uint32 `json:"minor_quorum"`
	// MaxOwners caps the owner sequence length.
	MaxOwners uint32 `json:"max_owners"`
}

var _ gconf.Configuration = (*Configuration)(nil)

func (c *Configuration) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(c)
}

func (c *Configuration) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, c)
}

// Validate checks the configuration on its own. The relation to the
// current owner count is enforced where both are at hand, at genesis
// and in the change requirement validation.
func (c *Configuration) Validate() error {
	if c.AdminQuorum == 0 {
		return errors.Wrap(errors.ErrState, "admin quorum must not be zero")
	}
	if c.MajorQuorum == 0 {
		return errors.Wrap(errors.ErrState, "major quorum must not be zero")
	}
	if c.MinorQuorum == 0 {
		return errors.Wrap(errors.ErrState, "minor quorum must not be zero")
	}
	if c.MaxOwners == 0 {
		return errors.Wrap(errors.ErrState, "max owners must not be zero")
	}
	return nil
}

func loadConf(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, pkgName, &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}

func saveConf(db gconf.Store, conf *Configuration) error {
	return gconf.Save(db, pkgName, conf)
}
