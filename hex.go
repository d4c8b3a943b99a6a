package multiwallet

import (
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

// unmarshalHex reads a JSON string and decodes it as hex into dst.
func unmarshalHex(src []byte, dst *[]byte) (err error) {
	var s string
	err = json.Unmarshal(src, &s)
	if err != nil {
		return errors.Wrap(err, "parse string")
	}
	*dst, err = hex.DecodeString(s)
	return err
}

// marshalHex renders bytes as an upper case hex JSON string.
func marshalHex(bytes []byte) ([]byte, error) {
	s := strings.ToUpper(hex.EncodeToString(bytes))
	return json.Marshal(s)
}
