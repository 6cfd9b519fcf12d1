package matheval

// Table is a symbol table of variable values. It is safe to look up
// variables concurrently, but not concurrently with Set.
type Table struct {
	names map[string]float64
}

// TableOption is an option used when creating a table.
type TableOption interface {
	tableOption()
}

type (
	varopt struct {
		name string
		val  float64
	}
	varsopt map[string]float64
)

func (varopt) tableOption()  {}
func (varsopt) tableOption() {}

// SetVar sets the value of a variable in the table.
func SetVar(name string, val float64) TableOption {
	return varopt{name, val}
}

// SetVars sets the values of any number of variables in the table.
func SetVars(vars map[string]float64) TableOption {
	return varsopt(vars)
}

// NewTable creates a new symbol table.
func NewTable(opts ...TableOption) *Table {
	var t Table
	return t.Clone(opts...)
}

// Set sets the value of a variable. Returns t for chaining.
func (t *Table) Set(name string, value float64) *Table {
	if t.names == nil {
		t.names = make(map[string]float64)
	}
	t.names[name] = value
	return t
}

// Lookup returns the value of a variable and whether it is defined. A nil
// Table defines no variables.
func (t *Table) Lookup(name string) (float64, bool) {
	if t == nil {
		return 0, false
	}
	v, ok := t.names[name]
	return v, ok
}

// Len returns the number of variables defined in the table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.names)
}

// Clone creates a copy of a table and applies options to it.
func (t *Table) Clone(opts ...TableOption) *Table {
	n := Table{names: make(map[string]float64, len(t.names))}
	for name, val := range t.names {
		n.names[name] = val
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case varopt:
			n.names[opt.name] = opt.val
		case varsopt:
			for k, v := range opt {
				n.names[k] = v
			}
		default:
			panic("matheval: unknown option type")
		}
	}
	return &n
}

var (
	_ Lookup = (*Table)(nil)
	_ Lookup = Map(nil)
	_ Lookup = LookupFunc(nil)
)
