package ast

import (
	"maps"
	"slices"
	"unicode"
)

// Var names a program variable, constant or parameter.
type Var = string

// Reserved words of the surface syntax.  None of them may name a variable.
var keywords = map[string]bool{
	"bool": true, "nat": true, "real": true, "const": true, "nparam": true, "rparam": true,
	"skip": true, "if": true, "else": true, "while": true, "loop": true, "tick": true, "observe": true,
	"true": true, "false": true, "not": true, "xor": true, "inf": true, "MAX": true, "MIN": true,
	"unif_d": true, "unif_c": true, "bernoulli": true, "geometric": true, "poisson": true,
	"logdist": true, "binomial": true, "iid": true, "categorical": true,
}

// IsKeyword reports whether name is reserved by the surface syntax.
func IsKeyword(name string) bool { return keywords[name] }

// Keywords returns the reserved words in sorted order.
func Keywords() []string { return slices.Sorted(maps.Keys(keywords)) }

// IsIdentifier reports whether name can occur as a variable in a pGCL program.
func IsIdentifier(name string) bool {
	if name == "" || keywords[name] {
		return false
	}
	for i, r := range name {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}

func checkName(node, field, name string) error {
	if !IsIdentifier(name) {
		return malformed(node, field, "'%s' is not a valid identifier", name)
	}
	return nil
}
