// Package fileops is a host extension package: it registers channel-
// and filesystem-oriented commands (open, close, gets, read, puts,
// seek, tell, flush, eof, file) on a *tcl.Interp via the engine's
// public Register API. The core engine deliberately contains no I/O
// commands, so a script has no way to touch the filesystem or a
// channel until something like this package registers one.
package fileops

import (
	"io"
	"os"
	"strconv"

	"github.com/wfgraham/gtcl/tcl"
)

// store holds the open-channel table for one interpreter. Each
// registered command is a bound method on a *store, so the state
// never touches the interpreter's shared Data slot and this package
// can coexist with other host extensions (e.g. hostext/expect) that
// also want private interpreter state.
type store struct {
	channels map[string]*os.File
	eof      map[string]bool
}

func newStore() *store {
	s := &store{
		channels: make(map[string]*os.File),
		eof:      make(map[string]bool),
	}
	s.channels["stdin"] = os.Stdin
	s.channels["stdout"] = os.Stdout
	s.channels["stderr"] = os.Stderr
	return s
}

var openModes = map[string]int{
	"r":  os.O_RDONLY,
	"r+": os.O_RDWR | os.O_CREATE,
	"w":  os.O_WRONLY | os.O_TRUNC | os.O_CREATE,
	"w+": os.O_RDWR | os.O_TRUNC | os.O_CREATE,
	"a":  os.O_WRONLY | os.O_APPEND | os.O_CREATE,
	"a+": os.O_RDWR | os.O_APPEND | os.O_CREATE,
}

// Register installs the channel and filesystem commands on ip.
func Register(ip *tcl.Interp) {
	s := newStore()
	ip.Register("open", s.cmdOpen)
	ip.Register("close", s.cmdClose)
	ip.Register("eof", s.cmdEOF)
	ip.Register("gets", s.cmdGets)
	ip.Register("read", s.cmdRead)
	ip.Register("puts", s.cmdPuts)
	ip.Register("seek", s.cmdSeek)
	ip.Register("tell", s.cmdTell)
	ip.Register("flush", s.cmdFlush)
	ip.Register("file", cmdFile)
}

func errVal(err error) (tcl.Code, tcl.Value) {
	return tcl.CodeError, tcl.NewValue(err.Error())
}

func (s *store) cmdOpen(ip *tcl.Interp, args []tcl.Value) (tcl.Code, tcl.Value) {
	if len(args) < 2 || len(args) > 4 {
		return wrongArgs("open name ?access? ?permissions?")
	}
	name := args[1].String()
	access := "r"
	if len(args) >= 3 {
		access = args[2].String()
	}
	perm := 0o666
	if len(args) == 4 {
		p, err := strconv.ParseInt(args[3].String(), 8, 32)
		if err != nil {
			return tcl.CodeError, tcl.NewValue("invalid permissions " + args[3].String())
		}
		perm = int(p)
	}
	mode, ok := openModes[access]
	if !ok {
		return tcl.CodeError, tcl.NewValue("invalid access mode " + access)
	}
	f, err := os.OpenFile(name, mode, os.FileMode(perm))
	if err != nil {
		return errVal(err)
	}
	channel := "file" + strconv.Itoa(int(f.Fd()))
	s.channels[channel] = f
	s.eof[channel] = false
	return tcl.CodeOK, tcl.NewValue(channel)
}

func (s *store) lookup(name string) (*os.File, bool) {
	f, ok := s.channels[name]
	return f, ok
}

func (s *store) cmdClose(ip *tcl.Interp, args []tcl.Value) (tcl.Code, tcl.Value) {
	if len(args) != 2 {
		return wrongArgs("close channel")
	}
	name := args[1].String()
	f, ok := s.lookup(name)
	if !ok {
		return tcl.CodeError, tcl.NewValue("channel \"" + name + "\" not opened")
	}
	if err := f.Close(); err != nil {
		return errVal(err)
	}
	delete(s.channels, name)
	delete(s.eof, name)
	return tcl.CodeOK, tcl.Value{}
}

func (s *store) cmdEOF(ip *tcl.Interp, args []tcl.Value) (tcl.Code, tcl.Value) {
	if len(args) != 2 {
		return wrongArgs("eof channel")
	}
	eof, ok := s.eof[args[1].String()]
	if !ok {
		return tcl.CodeError, tcl.NewValue("channel \"" + args[1].String() + "\" not opened")
	}
	return tcl.CodeOK, tcl.NewValue(boolStr(eof))
}

func (s *store) cmdRead(ip *tcl.Interp, args []tcl.Value) (tcl.Code, tcl.Value) {
	if len(args) < 2 || len(args) > 3 {
		return wrongArgs("read ?-nonewline? channel ?numChars?")
	}
	i := 1
	nonewline := false
	if args[i].String() == "-nonewline" {
		nonewline = true
		i++
	}
	if i >= len(args) {
		return wrongArgs("read ?-nonewline? channel ?numChars?")
	}
	name := args[i].String()
	f, ok := s.lookup(name)
	if !ok {
		return tcl.CodeError, tcl.NewValue("channel \"" + name + "\" not opened")
	}
	var n int
	if i+1 < len(args) {
		parsed, err := strconv.Atoi(args[i+1].String())
		if err != nil {
			return tcl.CodeError, tcl.NewValue("expected integer but got \"" + args[i+1].String() + "\"")
		}
		n = parsed
	} else {
		info, err := f.Stat()
		if err != nil {
			return errVal(err)
		}
		pos, err := f.Seek(0, io.SeekCurrent)
		if err != nil {
			return errVal(err)
		}
		n = int(info.Size() - pos)
	}
	buf := make([]byte, n)
	got, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF {
		if err == io.EOF {
			s.eof[name] = true
			return tcl.CodeOK, tcl.NewValue("")
		}
		return errVal(err)
	}
	buf = buf[:got]
	if nonewline && len(buf) > 0 && buf[len(buf)-1] == '\n' {
		buf = buf[:len(buf)-1]
	}
	return tcl.CodeOK, tcl.NewValue(string(buf))
}

func (s *store) cmdGets(ip *tcl.Interp, args []tcl.Value) (tcl.Code, tcl.Value) {
	if len(args) < 2 || len(args) > 3 {
		return wrongArgs("gets channel ?varName?")
	}
	name := args[1].String()
	f, ok := s.lookup(name)
	if !ok {
		return tcl.CodeError, tcl.NewValue("channel \"" + name + "\" not opened")
	}
	var line []byte
	one := make([]byte, 1)
	for {
		n, err := f.Read(one)
		if n == 0 || err != nil {
			s.eof[name] = true
			break
		}
		if one[0] == '\n' {
			break
		}
		line = append(line, one[0])
	}
	if len(args) == 3 {
		ip.SetVar(args[2].String(), tcl.NewValue(string(line)))
		return tcl.CodeOK, tcl.NewValue(strconv.Itoa(len(line)))
	}
	return tcl.CodeOK, tcl.NewValue(string(line))
}

func (s *store) cmdPuts(ip *tcl.Interp, args []tcl.Value) (tcl.Code, tcl.Value) {
	if len(args) < 2 || len(args) > 4 {
		return wrongArgs("puts ?-nonewline? ?channel? string")
	}
	i := 1
	nonewline := false
	if args[i].String() == "-nonewline" {
		nonewline = true
		i++
	}
	channel := "stdout"
	if len(args)-i == 2 {
		channel = args[i].String()
		i++
	}
	if i >= len(args) {
		return wrongArgs("puts ?-nonewline? ?channel? string")
	}
	f, ok := s.lookup(channel)
	if !ok {
		return tcl.CodeError, tcl.NewValue("channel \"" + channel + "\" not opened")
	}
	text := args[i].String()
	if !nonewline {
		text += "\n"
	}
	if _, err := f.WriteString(text); err != nil {
		return errVal(err)
	}
	return tcl.CodeOK, tcl.Value{}
}

func (s *store) cmdSeek(ip *tcl.Interp, args []tcl.Value) (tcl.Code, tcl.Value) {
	if len(args) < 3 || len(args) > 4 {
		return wrongArgs("seek channel offset ?origin?")
	}
	f, ok := s.lookup(args[1].String())
	if !ok {
		return tcl.CodeError, tcl.NewValue("channel \"" + args[1].String() + "\" not opened")
	}
	offset, err := strconv.Atoi(args[2].String())
	if err != nil {
		return tcl.CodeError, tcl.NewValue("expected integer but got \"" + args[2].String() + "\"")
	}
	origin := io.SeekStart
	if len(args) == 4 {
		switch args[3].String() {
		case "start":
			origin = io.SeekStart
		case "current":
			origin = io.SeekCurrent
		case "end":
			origin = io.SeekEnd
		default:
			return tcl.CodeError, tcl.NewValue("invalid origin " + args[3].String())
		}
	}
	if _, err := f.Seek(int64(offset), origin); err != nil {
		return errVal(err)
	}
	return tcl.CodeOK, tcl.Value{}
}

func (s *store) cmdTell(ip *tcl.Interp, args []tcl.Value) (tcl.Code, tcl.Value) {
	if len(args) != 2 {
		return wrongArgs("tell channel")
	}
	f, ok := s.lookup(args[1].String())
	if !ok {
		return tcl.CodeError, tcl.NewValue("channel \"" + args[1].String() + "\" not opened")
	}
	pos, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return errVal(err)
	}
	return tcl.CodeOK, tcl.NewValue(strconv.FormatInt(pos, 10))
}

func (s *store) cmdFlush(ip *tcl.Interp, args []tcl.Value) (tcl.Code, tcl.Value) {
	if len(args) != 2 {
		return wrongArgs("flush channel")
	}
	f, ok := s.lookup(args[1].String())
	if !ok {
		return tcl.CodeError, tcl.NewValue("channel \"" + args[1].String() + "\" not opened")
	}
	if err := f.Sync(); err != nil {
		return errVal(err)
	}
	return tcl.CodeOK, tcl.Value{}
}

func wrongArgs(usage string) (tcl.Code, tcl.Value) {
	return tcl.CodeError, tcl.NewValue(`wrong # args: should be "` + usage + `"`)
}

func boolStr(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
