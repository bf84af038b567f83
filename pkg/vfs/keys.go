package vfs

import (
	"fmt"
	"strings"
)

const sep = "\x00"

var (
	userPref  = []byte("u/")
	seqPref   = []byte("s/")
	logPref   = []byte("x/")
	nodePref  = []byte("n/")
	childPref = []byte("c/")
	orderPref = []byte("k/")
	blobPref  = []byte("b/")
	refPref   = []byte("r/")
)

func prefixed(pref []byte, parts ...string) []byte {
	key := make([]byte, 0, len(pref)+64)
	key = append(key, pref...)
	return append(key, strings.Join(parts, sep)...)
}

func userKey(address string) []byte { return prefixed(userPref, address) }

func seqKey(address string) []byte { return prefixed(seqPref, address) }

func orderKey(owner string) []byte { return prefixed(orderPref, owner) }

func blobKey(sha string) []byte { return prefixed(blobPref, sha) }

func refKey(reference string) []byte { return prefixed(refPref, reference) }

func nodeKey(owner, pth string) []byte { return prefixed(nodePref, owner, pth) }

// sequence numbers and creation orders are zero padded, so that keys sort numerically
func logKey(address string, id uint64) []byte {
	return prefixed(logPref, address, fmt.Sprintf("%020d", id))
}

func logPrefix(address string) []byte {
	return append(prefixed(logPref, address), sep...)
}

func childKey(owner, parent string, order uint64) []byte {
	return prefixed(childPref, owner, parent, fmt.Sprintf("%020d", order))
}

func childPrefix(owner, parent string) []byte {
	return append(prefixed(childPref, owner, parent), sep...)
}
