package tcl

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// listIndex parses a list index token, accepting plain integers plus
// the Tcl shorthand "end" and "end-N".
func listIndex(s string, length int) (int, error) {
	if s == "end" {
		return length - 1, nil
	}
	if strings.HasPrefix(s, "end-") {
		n, err := strconv.Atoi(s[4:])
		if err != nil {
			return 0, fmt.Errorf(`bad index "%s": must be integer or "end"`, s)
		}
		return length - 1 - n, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf(`bad index "%s": must be integer or "end"`, s)
	}
	return n, nil
}

func cmdList(ip *Interp, args []Value) (Code, Value) {
	return CodeOK, NewValue(FormatList(args[1:]))
}

// cmdLindex implements `lindex list ?index ...?`: with no indices the
// list is returned unchanged; each index recursively descends; an
// out-of-range index yields the empty string rather than an error.
func cmdLindex(ip *Interp, args []Value) (Code, Value) {
	if len(args) < 2 {
		return wrongArgs("lindex list ?index ...?")
	}
	cur := args[1]
	for _, idxVal := range args[2:] {
		elems, err := cur.Elements()
		if err != nil {
			return CodeError, NewValue(err.Error())
		}
		idx, ierr := listIndex(idxVal.String(), len(elems))
		if ierr != nil {
			return CodeError, NewValue(ierr.Error())
		}
		if idx < 0 || idx >= len(elems) {
			return CodeOK, Value{}
		}
		cur = elems[idx]
	}
	return CodeOK, cur
}

func cmdLlength(ip *Interp, args []Value) (Code, Value) {
	if len(args) != 2 {
		return wrongArgs("llength list")
	}
	elems, err := args[1].Elements()
	if err != nil {
		return CodeError, NewValue(err.Error())
	}
	return CodeOK, NewValue(strconv.Itoa(len(elems)))
}

// cmdLappend appends values to a variable's list contents, creating
// the variable if it does not yet exist.
func cmdLappend(ip *Interp, args []Value) (Code, Value) {
	if len(args) < 2 {
		return wrongArgs("lappend varName ?value ...?")
	}
	name := args[1].String()
	cur, _ := ip.getVar(name)
	elems, err := cur.Elements()
	if err != nil {
		return CodeError, NewValue(err.Error())
	}
	out := append(append([]Value{}, elems...), args[2:]...)
	result := NewValue(FormatList(out))
	ip.setVar(name, result)
	return CodeOK, result
}

// cmdAppend appends values to a variable as raw strings, not as list
// elements.
func cmdAppend(ip *Interp, args []Value) (Code, Value) {
	if len(args) < 2 {
		return wrongArgs("append varName ?value ...?")
	}
	name := args[1].String()
	cur, _ := ip.getVar(name)
	var b strings.Builder
	b.WriteString(cur.String())
	for _, a := range args[2:] {
		b.WriteString(a.String())
	}
	result := NewValue(b.String())
	ip.setVar(name, result)
	return CodeOK, result
}

func cmdJoin(ip *Interp, args []Value) (Code, Value) {
	if len(args) < 2 || len(args) > 3 {
		return wrongArgs("join list ?joinString?")
	}
	elems, err := args[1].Elements()
	if err != nil {
		return CodeError, NewValue(err.Error())
	}
	sep := " "
	if len(args) == 3 {
		sep = args[2].String()
	}
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = e.String()
	}
	return CodeOK, NewValue(strings.Join(parts, sep))
}

func cmdLrange(ip *Interp, args []Value) (Code, Value) {
	if len(args) != 4 {
		return wrongArgs("lrange list first last")
	}
	elems, err := args[1].Elements()
	if err != nil {
		return CodeError, NewValue(err.Error())
	}
	first, ferr := listIndex(args[2].String(), len(elems))
	if ferr != nil {
		return CodeError, NewValue(ferr.Error())
	}
	last, lerr := listIndex(args[3].String(), len(elems))
	if lerr != nil {
		return CodeError, NewValue(lerr.Error())
	}
	if first < 0 {
		first = 0
	}
	if last >= len(elems) {
		last = len(elems) - 1
	}
	if first > last || first >= len(elems) {
		return CodeOK, NewValue("")
	}
	return CodeOK, NewValue(FormatList(elems[first : last+1]))
}

func cmdLreplace(ip *Interp, args []Value) (Code, Value) {
	if len(args) < 4 {
		return wrongArgs("lreplace list first last ?element ...?")
	}
	elems, err := args[1].Elements()
	if err != nil {
		return CodeError, NewValue(err.Error())
	}
	first, ferr := listIndex(args[2].String(), len(elems))
	if ferr != nil {
		return CodeError, NewValue(ferr.Error())
	}
	last, lerr := listIndex(args[3].String(), len(elems))
	if lerr != nil {
		return CodeError, NewValue(lerr.Error())
	}
	if first < 0 {
		first = 0
	}
	if first > len(elems) {
		first = len(elems)
	}
	if last >= len(elems) {
		last = len(elems) - 1
	}
	if last < first-1 {
		last = first - 1
	}
	var out []Value
	out = append(out, elems[:first]...)
	out = append(out, args[4:]...)
	if last+1 <= len(elems) {
		out = append(out, elems[last+1:]...)
	}
	return CodeOK, NewValue(FormatList(out))
}

// cmdLinsert implements `linsert list index ?element ...?`. As in
// reference Tcl, an index of "end" inserts after the last element
// rather than before it.
func cmdLinsert(ip *Interp, args []Value) (Code, Value) {
	if len(args) < 3 {
		return wrongArgs("linsert list index ?element ...?")
	}
	elems, err := args[1].Elements()
	if err != nil {
		return CodeError, NewValue(err.Error())
	}
	var idx int
	if args[2].String() == "end" {
		idx = len(elems)
	} else {
		idx, err = listIndex(args[2].String(), len(elems))
		if err != nil {
			return CodeError, NewValue(err.Error())
		}
	}
	if idx < 0 {
		idx = 0
	}
	if idx > len(elems) {
		idx = len(elems)
	}
	var out []Value
	out = append(out, elems[:idx]...)
	out = append(out, args[3:]...)
	out = append(out, elems[idx:]...)
	return CodeOK, NewValue(FormatList(out))
}

// cmdLsearch implements a useful subset of `lsearch`:
// -exact/-glob/-regexp select the match mode (default glob),
// -all/-inline/-not/-start N control what is returned and where
// scanning begins.
func cmdLsearch(ip *Interp, args []Value) (Code, Value) {
	toks := args[1:]
	mode := "glob"
	all, inline, not := false, false, false
	start := 0
	i := 0
scan:
	for i < len(toks) {
		switch toks[i].String() {
		case "-exact":
			mode = "exact"
			i++
		case "-glob":
			mode = "glob"
			i++
		case "-regexp":
			mode = "regexp"
			i++
		case "-all":
			all = true
			i++
		case "-inline":
			inline = true
			i++
		case "-not":
			not = true
			i++
		case "-start":
			i++
			if i >= len(toks) {
				return wrongArgs("lsearch ?options? list pattern")
			}
			n, err := strconv.Atoi(toks[i].String())
			if err != nil {
				return CodeError, NewValue(`bad index "` + toks[i].String() + `"`)
			}
			start = n
			i++
		case "--":
			i++
			break scan
		default:
			break scan
		}
	}
	if len(toks)-i != 2 {
		return wrongArgs("lsearch ?options? list pattern")
	}
	elems, err := toks[i].Elements()
	if err != nil {
		return CodeError, NewValue(err.Error())
	}
	pattern := toks[i+1].String()

	var matches []int
	for j := start; j < len(elems); j++ {
		m, merr := switchMatch(mode, pattern, elems[j].String())
		if merr != nil {
			return CodeError, NewValue(merr.Error())
		}
		if not {
			m = !m
		}
		if m {
			matches = append(matches, j)
			if !all {
				break
			}
		}
	}

	if inline {
		out := make([]Value, len(matches))
		for k, j := range matches {
			out[k] = elems[j]
		}
		if all {
			return CodeOK, NewValue(FormatList(out))
		}
		if len(out) == 0 {
			return CodeOK, Value{}
		}
		return CodeOK, out[0]
	}
	if all {
		out := make([]Value, len(matches))
		for k, j := range matches {
			out[k] = NewValue(strconv.Itoa(j))
		}
		return CodeOK, NewValue(FormatList(out))
	}
	if len(matches) == 0 {
		return CodeOK, NewValue("-1")
	}
	return CodeOK, NewValue(strconv.Itoa(matches[0]))
}

// cmdLsort implements `lsort ?-ascii|-integer? ?-increasing|-decreasing? list`.
func cmdLsort(ip *Interp, args []Value) (Code, Value) {
	toks := args[1:]
	numeric, decreasing := false, false
	i := 0
	for i < len(toks)-1 {
		switch toks[i].String() {
		case "-ascii":
			numeric = false
		case "-integer":
			numeric = true
		case "-increasing":
			decreasing = false
		case "-decreasing":
			decreasing = true
		default:
			return wrongArgs("lsort ?options? list")
		}
		i++
	}
	if i != len(toks)-1 {
		return wrongArgs("lsort ?options? list")
	}
	elems, err := toks[i].Elements()
	if err != nil {
		return CodeError, NewValue(err.Error())
	}
	out := append([]Value{}, elems...)
	sort.SliceStable(out, func(a, b int) bool {
		var less bool
		if numeric {
			na, _ := strconv.Atoi(out[a].String())
			nb, _ := strconv.Atoi(out[b].String())
			less = na < nb
		} else {
			less = out[a].String() < out[b].String()
		}
		if decreasing {
			return !less
		}
		return less
	})
	return CodeOK, NewValue(FormatList(out))
}

// cmdLset implements `lset varName ?index ...? value`, rebuilding
// nested list values along the index path.
func cmdLset(ip *Interp, args []Value) (Code, Value) {
	if len(args) < 3 {
		return wrongArgs("lset varName ?index ...? value")
	}
	name := args[1].String()
	indices := args[2 : len(args)-1]
	newVal := args[len(args)-1]
	cur, ok := ip.getVar(name)
	if !ok {
		return CodeError, NewValue(`can't read "` + name + `": no such variable`)
	}
	updated, err := lsetRecurse(cur, indices, newVal)
	if err != nil {
		return CodeError, NewValue(err.Error())
	}
	ip.setVar(name, updated)
	return CodeOK, updated
}

func lsetRecurse(cur Value, indices []Value, newVal Value) (Value, error) {
	if len(indices) == 0 {
		return newVal, nil
	}
	elems, err := cur.Elements()
	if err != nil {
		return Value{}, err
	}
	idx, err := listIndex(indices[0].String(), len(elems))
	if err != nil {
		return Value{}, err
	}
	if idx < 0 || idx >= len(elems) {
		return Value{}, fmt.Errorf("list index out of range")
	}
	updatedElem, err := lsetRecurse(elems[idx], indices[1:], newVal)
	if err != nil {
		return Value{}, err
	}
	out := append([]Value{}, elems...)
	out[idx] = updatedElem
	return NewValue(FormatList(out)), nil
}

// cmdSplit implements `split string ?splitChars?`; an explicit empty
// splitChars splits into individual characters.
func cmdSplit(ip *Interp, args []Value) (Code, Value) {
	if len(args) < 2 || len(args) > 3 {
		return wrongArgs("split string ?splitChars?")
	}
	s := args[1].String()
	chars := " \t\n\r"
	if len(args) == 3 {
		chars = args[2].String()
	}
	if chars == "" {
		out := make([]Value, 0, len(s))
		for _, r := range s {
			out = append(out, NewValue(string(r)))
		}
		return CodeOK, NewValue(FormatList(out))
	}
	var out []Value
	var cur strings.Builder
	for _, r := range s {
		if strings.ContainsRune(chars, r) {
			out = append(out, NewValue(cur.String()))
			cur.Reset()
		} else {
			cur.WriteRune(r)
		}
	}
	out = append(out, NewValue(cur.String()))
	return CodeOK, NewValue(FormatList(out))
}

// cmdConcat joins its arguments with a single space, trimming each
// argument's surrounding whitespace and dropping empty arguments, the
// same flattening rule reference Tcl's concat uses.
func cmdConcat(ip *Interp, args []Value) (Code, Value) {
	parts := make([]string, 0, len(args)-1)
	for _, a := range args[1:] {
		s := strings.TrimSpace(a.String())
		if s != "" {
			parts = append(parts, s)
		}
	}
	return CodeOK, NewValue(strings.Join(parts, " "))
}
