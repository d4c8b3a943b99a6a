package gconf

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/multiwallet"
	"github.com/iov-one/multiwallet/errors"
	"github.com/iov-one/multiwallet/store"
)

type testConf struct {
	Name  string
	Limit int64
}

func (c *testConf) Marshal() ([]byte, error) {
	return json.Marshal(c)
}

func (c *testConf) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, c)
}

func (c *testConf) Validate() error {
	if c.Limit < 0 {
		return errors.Wrap(errors.ErrState, "negative limit")
	}
	return nil
}

func TestSaveLoad(t *testing.T) {
	db := store.MemStore()

	conf := testConf{Name: "alice", Limit: 42}
	require.NoError(t, Save(db, "mypkg", &conf))

	var got testConf
	require.NoError(t, Load(db, "mypkg", &got))
	assert.Equal(t, conf, got)

	// configuration is stored per package
	var other testConf
	err := Load(db, "otherpkg", &other)
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestSaveInvalid(t *testing.T) {
	db := store.MemStore()
	err := Save(db, "mypkg", &testConf{Limit: -1})
	assert.True(t, errors.ErrState.Is(err))
}

func TestInitConfig(t *testing.T) {
	db := store.MemStore()
	opts := multiwallet.Options{
		"conf": json.RawMessage(`{"mypkg": {"name": "alice", "limit": 4}}`),
	}
	var conf testConf
	require.NoError(t, InitConfig(db, opts, "mypkg", &conf))
	assert.Equal(t, int64(4), conf.Limit)

	// stored state must be loadable
	var got testConf
	require.NoError(t, Load(db, "mypkg", &got))
	assert.Equal(t, conf, got)

	// missing package configuration is an error
	err := InitConfig(db, opts, "unknown", &testConf{})
	assert.True(t, errors.ErrNotFound.Is(err))
}
