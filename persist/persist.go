// Package persist saves and loads a parsed interp.RuleValue tree to and from
// a byte stream, the same way server/dao/sqlite's game-state columns do for
// a *game.State: rezi.EncBinary/rezi.DecBinary do the framing, and this
// package is only responsible for the io.Writer/io.Reader plumbing and the
// decoded-byte-count sanity check around them.
package persist

import (
	"io"

	"github.com/dekarrin/rezi"
	"github.com/dekarrin/tablegram/gerrors"
	"github.com/dekarrin/tablegram/interp"
)

// Encode renders rv as a self-contained rezi-encoded byte slice.
func Encode(rv interp.RuleValue) []byte {
	return rezi.EncBinary(rv)
}

// Decode reverses Encode, reporting an error if data is truncated, corrupt,
// or carries trailing bytes rezi did not consume.
func Decode(data []byte) (interp.RuleValue, error) {
	var rv interp.RuleValue

	n, err := rezi.DecBinary(data, &rv)
	if err != nil {
		return interp.RuleValue{}, gerrors.Wrap(err, "REZI decode: %v", err)
	}
	if n != len(data) {
		return interp.RuleValue{}, gerrors.Analysisf("REZI decoded byte count mismatch; only consumed %d/%d bytes", n, len(data))
	}

	return rv, nil
}

// Save writes rv's encoded form to w.
func Save(w io.Writer, rv interp.RuleValue) error {
	_, err := w.Write(Encode(rv))
	return err
}

// Load reads the entirety of r and decodes it as a RuleValue.
func Load(r io.Reader) (interp.RuleValue, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return interp.RuleValue{}, gerrors.Wrap(err, "read: %v", err)
	}

	return Decode(data)
}
