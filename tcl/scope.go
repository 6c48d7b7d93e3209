package tcl

// varKind distinguishes a local variable slot from one linked to the
// global frame (installed by the `global` command).
type varKind int

const (
	varLocal varKind = iota
	varLink
)

type variable struct {
	kind  varKind
	value Value // only meaningful when kind == varLocal

	// target/targetName are only meaningful when kind == varLink: the
	// frame and name this entry redirects reads/writes to. `global`
	// always links to the interpreter's global frame under the same
	// name; `upvar` can link to the immediate caller's frame under a
	// different name.
	target     *frame
	targetName string
}

// frame is a single scope's variable table. Frame zero (the bottom of
// the stack) is the global frame; every other frame is a procedure
// activation.
type frame struct {
	vars     map[string]*variable
	order    []string // insertion order, for info vars
	procName string
	formals  []formalParam
}

func newFrame() *frame {
	return &frame{vars: make(map[string]*variable)}
}

func (f *frame) declare(name string, v *variable) {
	if _, exists := f.vars[name]; !exists {
		f.order = append(f.order, name)
	}
	f.vars[name] = v
}

func (f *frame) remove(name string) {
	if _, exists := f.vars[name]; !exists {
		return
	}
	delete(f.vars, name)
	for i, n := range f.order {
		if n == name {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
}

// names returns variable names in this frame in insertion order.
func (f *frame) names() []string {
	out := make([]string, len(f.order))
	copy(out, f.order)
	return out
}

// getVar resolves name in the current frame, following a link
// transparently. Reports whether the variable exists.
func (ip *Interp) getVar(name string) (Value, bool) {
	top := ip.top()
	v, ok := top.vars[name]
	if !ok {
		return Value{}, false
	}
	if v.kind == varLink {
		tv, tok := v.target.vars[v.targetName]
		if !tok {
			return Value{}, false
		}
		return tv.value, true
	}
	return v.value, true
}

// setVar writes name in the current frame, following a link
// transparently and creating the target slot on first write through a
// link that pointed at a not-yet-existing variable.
func (ip *Interp) setVar(name string, val Value) {
	top := ip.top()
	v, ok := top.vars[name]
	if !ok {
		top.declare(name, &variable{kind: varLocal, value: val})
		return
	}
	if v.kind == varLink {
		tv, tok := v.target.vars[v.targetName]
		if !tok {
			tv = &variable{kind: varLocal}
			v.target.declare(v.targetName, tv)
		}
		tv.value = val
		return
	}
	v.value = val
}

// unsetVar removes name from the current frame. Unsetting a link
// removes only the link, never the variable it pointed to. Unsetting a
// nonexistent variable succeeds silently.
func (ip *Interp) unsetVar(name string) {
	ip.top().remove(name)
}

// SetVar writes name in the interpreter's current scope, following a
// link transparently. It is the public equivalent of the `set`
// command's write path, for host extension packages (see
// hostext/fileops's `gets ... varName` form).
func (ip *Interp) SetVar(name string, val Value) {
	ip.setVar(name, val)
}

// GetVar reads name from the interpreter's current scope. It is the
// public equivalent of the `set` command's read path.
func (ip *Interp) GetVar(name string) (Value, bool) {
	return ip.getVar(name)
}

// linkGlobal installs a link entry for name in the current frame,
// pointing at the same name in the global frame. It does not create
// the global.
func (ip *Interp) linkGlobal(name string) {
	ip.top().declare(name, &variable{kind: varLink, target: ip.global, targetName: name})
}

// linkTo installs a link entry for localName in the current frame,
// pointing at targetName in the given frame -- the mechanism behind
// `upvar`, which (unlike `global`) can link to a different name and to
// a frame other than the global one.
func (ip *Interp) linkTo(localName string, target *frame, targetName string) {
	ip.top().declare(localName, &variable{kind: varLink, target: target, targetName: targetName})
}
