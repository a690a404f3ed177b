package interp

import (
	"encoding"
	"encoding/binary"
	"fmt"

	"github.com/dekarrin/tablegram/grammar"
)

// This file contains the format for binary encoding of RuleValue trees, in
// the same hand-rolled length-prefixed framing as internal/tunascript's
// binary.go: each integer is written directly as a varint, and each nested
// encodable value is preceded by its own byte length so a decoder can skip
// or bound-check it without understanding its contents.

func encBinaryBool(b bool) []byte {
	if b {
		return []byte{1}
	}
	return []byte{0}
}

func decBinaryBool(data []byte) (bool, int, error) {
	if len(data) < 1 {
		return false, 0, fmt.Errorf("interp: unexpected end of data decoding bool")
	}
	switch data[0] {
	case 0:
		return false, 1, nil
	case 1:
		return true, 1, nil
	default:
		return false, 0, fmt.Errorf("interp: unknown non-bool byte %d", data[0])
	}
}

func encBinaryInt(i int) []byte {
	enc := make([]byte, 8)
	return binary.AppendVarint(enc[:0], int64(i))
}

func decBinaryInt(data []byte) (int, int, error) {
	val, read := binary.Varint(data)
	if read == 0 {
		return 0, 0, fmt.Errorf("interp: unexpected end of data decoding int")
	} else if read < 0 {
		return 0, 0, fmt.Errorf("interp: int value too large")
	}
	return int(val), read, nil
}

func encBinary(b encoding.BinaryMarshaler) []byte {
	enc, _ := b.MarshalBinary()
	return append(encBinaryInt(len(enc)), enc...)
}

// returns bytes consumed (including the length prefix)
func decBinary(data []byte, b encoding.BinaryUnmarshaler) (int, error) {
	byteLen, readBytes, err := decBinaryInt(data)
	if err != nil {
		return 0, err
	}
	data = data[readBytes:]

	if len(data) < byteLen {
		return 0, fmt.Errorf("interp: unexpected end of data")
	}

	if err := b.UnmarshalBinary(data[:byteLen]); err != nil {
		return 0, err
	}

	return readBytes + byteLen, nil
}

// MarshalBinary encodes v as: a kind byte, then the kind-specific payload
// (a token id for ValueToken, a length-framed RuleValue for ValueRule,
// nothing for ValueError).
func (v Value) MarshalBinary() ([]byte, error) {
	data := []byte{byte(v.Kind)}

	switch v.Kind {
	case ValueToken:
		data = append(data, encBinaryInt(int(v.Token))...)
	case ValueRule:
		data = append(data, encBinary(v.Rule)...)
	case ValueError:
		// no payload
	}

	return data, nil
}

// UnmarshalBinary decodes a Value previously written by MarshalBinary.
func (v *Value) UnmarshalBinary(data []byte) error {
	if len(data) < 1 {
		return fmt.Errorf("interp: unexpected end of data decoding Value")
	}

	kind := ValueKind(data[0])
	data = data[1:]

	switch kind {
	case ValueToken:
		tok, _, err := decBinaryInt(data)
		if err != nil {
			return err
		}
		*v = TokenValue(grammar.Token(tok))
	case ValueRule:
		var rv RuleValue
		if _, err := decBinary(data, &rv); err != nil {
			return err
		}
		*v = RuleValueOf(rv)
	case ValueError:
		*v = ErrorValue()
	default:
		return fmt.Errorf("interp: unknown Value kind %d", kind)
	}

	return nil
}

// MarshalBinary encodes rv as its rule id, match id, and field count,
// followed by each field's own length-framed encoding.
func (rv RuleValue) MarshalBinary() ([]byte, error) {
	var data []byte

	data = append(data, encBinaryInt(int(rv.Rule))...)
	data = append(data, encBinaryInt(int(rv.MatchID))...)
	data = append(data, encBinaryInt(len(rv.Values))...)

	for _, v := range rv.Values {
		data = append(data, encBinary(v)...)
	}

	return data, nil
}

// UnmarshalBinary decodes a RuleValue previously written by MarshalBinary.
func (rv *RuleValue) UnmarshalBinary(data []byte) error {
	rule, n, err := decBinaryInt(data)
	if err != nil {
		return err
	}
	data = data[n:]

	matchID, n, err := decBinaryInt(data)
	if err != nil {
		return err
	}
	data = data[n:]

	count, n, err := decBinaryInt(data)
	if err != nil {
		return err
	}
	data = data[n:]

	values := make([]Value, count)
	for i := 0; i < count; i++ {
		n, err := decBinary(data, &values[i])
		if err != nil {
			return err
		}
		data = data[n:]
	}

	rv.Rule = grammar.Rule(rule)
	rv.MatchID = grammar.MatchID(matchID)
	rv.Values = values

	return nil
}
