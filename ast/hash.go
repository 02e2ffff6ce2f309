package ast

import (
	"hash/fnv"
	"io"
)

type family byte

const (
	familyType family = iota + 1
	familyDecl
	familyExpr
	familyInstr
	familyProgram
)

// hashNode digests the canonical rendering of n, prefixed by its family so
// that eg the type "nat" and a variable named like it never collide.
// Structurally equal nodes render identically, which keeps the hash
// consistent with Equal.
func hashNode(f family, n Node) uint64 {
	h := fnv.New64a()
	h.Write([]byte{byte(f)})
	io.WriteString(h, Render(n))
	return h.Sum64()
}
