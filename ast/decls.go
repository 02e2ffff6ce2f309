package ast

// VarDecl declares a program variable of the given type.
type VarDecl struct {
	Var Var
	Typ Type
}

// ConstDecl binds a name to a closed, constant foldable value.
type ConstDecl struct {
	Var   Var
	Value Expr
}

// ParameterDecl declares a symbolic parameter.  It has no value of its own
// and is filled in later by whichever tool analyzes the program.
type ParameterDecl struct {
	Var Var
	Typ Type
}

func NewVarDecl(name string, typ Type) (*VarDecl, error) {
	if err := checkName("VarDecl", "Var", name); err != nil {
		return nil, err
	}
	if typ == nil {
		return nil, malformed("VarDecl", "Typ", "type is missing")
	}
	return &VarDecl{Var: name, Typ: typ}, nil
}

// NewConstDecl rejects values that reference variables or that are
// distribution valued anywhere in the tree.
func NewConstDecl(name string, value Expr) (*ConstDecl, error) {
	if err := checkName("ConstDecl", "Var", name); err != nil {
		return nil, err
	}
	if err := requireExpr("ConstDecl", "Value", value); err != nil {
		return nil, err
	}
	var err error
	Inspect(value, func(n Node) bool {
		switch n := n.(type) {
		case *VarExpr:
			err = malformed("ConstDecl", "Value", "constant refers to variable '%s'", n.Var)
		case DistrExpr:
			err = malformed("ConstDecl", "Value", "constant is distribution valued: %s", n)
		}
		return err == nil
	})
	if err != nil {
		return nil, err
	}
	return &ConstDecl{Var: name, Value: value}, nil
}

// NewParameterDecl accepts only unbounded nat and real parameters.
func NewParameterDecl(name string, typ Type) (*ParameterDecl, error) {
	if err := checkName("ParameterDecl", "Var", name); err != nil {
		return nil, err
	}
	switch t := typ.(type) {
	case *RealType:
	case *NatType:
		if t.Bounds != nil {
			return nil, malformed("ParameterDecl", "Typ", "parameters cannot be bounded")
		}
	default:
		return nil, malformed("ParameterDecl", "Typ", "parameters must be nat or real, found %v", typ)
	}
	return &ParameterDecl{Var: name, Typ: typ}, nil
}

func (d *VarDecl) Name() string       { return d.Var }
func (d *ConstDecl) Name() string     { return d.Var }
func (d *ParameterDecl) Name() string { return d.Var }

func (d *VarDecl) declNode()       {}
func (d *ConstDecl) declNode()     {}
func (d *ParameterDecl) declNode() {}

func (d *VarDecl) String() string       { return Render(d) }
func (d *ConstDecl) String() string     { return Render(d) }
func (d *ParameterDecl) String() string { return Render(d) }

func (d *VarDecl) Hash() uint64       { return hashNode(familyDecl, d) }
func (d *ConstDecl) Hash() uint64     { return hashNode(familyDecl, d) }
func (d *ParameterDecl) Hash() uint64 { return hashNode(familyDecl, d) }

func (d *VarDecl) Equal(o Node) bool       { return Equal(d, o) }
func (d *ConstDecl) Equal(o Node) bool     { return Equal(d, o) }
func (d *ParameterDecl) Equal(o Node) bool { return Equal(d, o) }
