// Copyright 2016 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package hash provides stable signatures of corpus inputs and seeds derived from arbitrary keys.
package hash

import (
	"crypto/sha1"
	"encoding/binary"
	"encoding/hex"
)

// Sig is the SHA1 of the concatenation of all hashed pieces.
type Sig [sha1.Size]byte

func Hash(pieces ...[]byte) Sig {
	h := sha1.New()
	for _, piece := range pieces {
		h.Write(piece)
	}
	return Sig(h.Sum(nil))
}

// String returns the hex signature of the pieces, e.g. to identify a corpus input.
func String(pieces ...[]byte) string {
	return Hash(pieces...).String()
}

func (sig Sig) String() string {
	return hex.EncodeToString(sig[:])
}

// Seed folds the signature into a PRNG seed.
func (sig Sig) Seed() int64 {
	return int64(binary.LittleEndian.Uint64(sig[:8]))
}
