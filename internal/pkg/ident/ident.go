// Package ident generates the client-side identifiers used across the
// document store: a type prefix, the creation timestamp in base36, and a
// short random suffix, e.g. "res_m1x2abc_0k3jz" (well, "resm1x2abc_0k3jz" —
// the prefix is glued directly onto the timestamp).
//
// External consumers parse the prefix to infer the entity type, so the
// shape is part of the wire contract and must not change. There is no
// uniqueness guarantee beyond the timestamp+random combination being
// exceedingly unlikely to collide within one process.
package ident

import (
	"math/rand/v2"
	"strconv"
	"time"
)

// Well-known prefixes. One per collection that stores generated IDs.
const (
	PrefixUser          = "usr"
	PrefixHotel         = "htl"
	PrefixRoom          = "rm"
	PrefixReservation   = "res"
	PrefixTransaction   = "txn"
	PrefixFavorite      = "fav"
	PrefixMessage       = "msg"
	PrefixPrivateMsg    = "pmsg"
	PrefixPaymentIntent = "pi"
)

const (
	base36       = "0123456789abcdefghijklmnopqrstuvwxyz"
	randomLength = 5
)

// New returns prefix + base36(unix milliseconds) + "_" + 5 random base36
// characters. Pure function of the clock and the process RNG; no shared
// counter, no external state.
func New(prefix string) string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)

	suffix := make([]byte, randomLength)
	for i := range suffix {
		suffix[i] = base36[rand.IntN(len(base36))]
	}

	return prefix + ts + "_" + string(suffix)
}
