// Package expect is a host extension package: it registers spawn,
// send, expect, disconnect, wait, and sleep as native commands on a
// *tcl.Interp via the engine's public Register API. It drives
// subprocesses over a pseudo-terminal (github.com/creack/pty) and
// reads their output through a cancellable background reader
// (github.com/muesli/cancelreader), so a blocked read can be torn
// down as soon as a process is disconnected.
package expect

import (
	"os"
	"os/exec"
	"strconv"
	"sync"

	"github.com/creack/pty"

	"github.com/wfgraham/gtcl/tcl"
)

// process is one spawned subprocess: its pty, its cancellable
// background reader, and the output accumulated so far waiting to be
// matched by `expect`.
type process struct {
	cmd    *exec.Cmd
	pty    *os.File
	reader cancelReader

	mu     sync.Mutex
	buf    []byte
	eof    bool
	err    error
	notify chan struct{} // non-blocking signal: buf or eof/err changed
}

func (p *process) signal() {
	select {
	case p.notify <- struct{}{}:
	default:
	}
}

func (p *process) pump() {
	chunk := make([]byte, 1024)
	for {
		n, err := p.reader.Read(chunk)
		if n > 0 {
			p.mu.Lock()
			p.buf = append(p.buf, chunk[:n]...)
			p.mu.Unlock()
			p.signal()
		}
		if err != nil {
			p.mu.Lock()
			p.eof = true
			p.err = err
			p.mu.Unlock()
			p.signal()
			return
		}
	}
}

// store holds every spawned process for one interpreter, closed over
// by the registered commands rather than stashed on Interp.Data so
// this package can coexist with hostext/fileops.
type store struct {
	mu         sync.Mutex
	processes  map[string]*process
	spawnCount int
}

func newStore() *store {
	return &store{processes: make(map[string]*process)}
}

// Register installs the spawn/send/expect/disconnect/wait/sleep
// commands on ip, and initializes the `timeout` variable `expect`
// consults (-1 means wait indefinitely). The close command is left to
// hostext/fileops; this package uses `disconnect` instead so the two
// extensions can register alongside each other without a name clash.
func Register(ip *tcl.Interp) {
	s := newStore()
	ip.Register("spawn", s.cmdSpawn)
	ip.Register("send", s.cmdSend)
	ip.Register("expect", s.cmdExpect)
	ip.Register("disconnect", s.cmdDisconnect)
	ip.Register("wait", s.cmdWait)
	ip.Register("sleep", cmdSleep)
	if _, ok := ip.GetVar("timeout"); !ok {
		ip.SetVar("timeout", tcl.NewValue("-1"))
	}
}

func wrongArgs(usage string) (tcl.Code, tcl.Value) {
	return tcl.CodeError, tcl.NewValue(`wrong # args: should be "` + usage + `"`)
}

func errVal(err error) (tcl.Code, tcl.Value) {
	return tcl.CodeError, tcl.NewValue(err.Error())
}

// cmdSpawn starts prog as a subprocess attached to a pty and begins
// reading its output in the background. Returns the new spawn id and
// sets the `spawn_id` variable to it, so later commands can omit an
// explicit -i argument and default to the most recently spawned
// process.
func (s *store) cmdSpawn(ip *tcl.Interp, args []tcl.Value) (tcl.Code, tcl.Value) {
	if len(args) < 2 {
		return wrongArgs("spawn program ?arg ...?")
	}
	cmd := exec.Command(args[1].String(), tcl.ValuesToStrings(args[2:])...)
	f, err := pty.Start(cmd)
	if err != nil {
		return errVal(err)
	}
	r, err := newCancelReader(f)
	if err != nil {
		f.Close()
		return errVal(err)
	}

	p := &process{cmd: cmd, pty: f, reader: r, notify: make(chan struct{}, 1)}
	go p.pump()

	s.mu.Lock()
	id := "spawn" + strconv.Itoa(s.spawnCount)
	s.spawnCount++
	s.processes[id] = p
	s.mu.Unlock()

	ip.SetVar("spawn_id", tcl.NewValue(id))
	return tcl.CodeOK, tcl.NewValue(id)
}

// resolveSpawnID resolves an explicit `-i id` argument, or falls back
// to the `spawn_id` variable, so every expect-family command can act
// on the current process without repeating its id on every call.
func (s *store) resolveSpawnID(ip *tcl.Interp, args []tcl.Value, i int) (string, int, tcl.Code, tcl.Value) {
	if i < len(args) && args[i].String() == "-i" {
		if i+1 >= len(args) {
			code, v := tcl.CodeError, tcl.NewValue("-i missing argument")
			return "", 0, code, v
		}
		return args[i+1].String(), i + 2, tcl.CodeOK, tcl.Value{}
	}
	v, ok := ip.GetVar("spawn_id")
	if !ok {
		return "", i, tcl.CodeError, tcl.NewValue("spawn_id variable not defined")
	}
	return v.String(), i, tcl.CodeOK, tcl.Value{}
}

func (s *store) lookup(id string) (*process, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.processes[id]
	return p, ok
}

func (s *store) cmdSend(ip *tcl.Interp, args []tcl.Value) (tcl.Code, tcl.Value) {
	i := 1
	id, i, code, v := s.resolveSpawnID(ip, args, i)
	if code != tcl.CodeOK {
		return code, v
	}
	if i >= len(args) {
		return wrongArgs("send ?-i spawnId? string")
	}
	p, ok := s.lookup(id)
	if !ok {
		return tcl.CodeError, tcl.NewValue("no process of name " + id)
	}
	if _, err := p.pty.WriteString(args[i].String()); err != nil {
		return errVal(err)
	}
	return tcl.CodeOK, tcl.Value{}
}

func (s *store) cmdDisconnect(ip *tcl.Interp, args []tcl.Value) (tcl.Code, tcl.Value) {
	id, _, code, v := s.resolveSpawnID(ip, args, 1)
	if code != tcl.CodeOK {
		return code, v
	}
	p, ok := s.lookup(id)
	if !ok {
		return tcl.CodeError, tcl.NewValue("no process of name " + id)
	}
	p.reader.Cancel()
	p.pty.Close()
	s.mu.Lock()
	delete(s.processes, id)
	s.mu.Unlock()
	return tcl.CodeOK, tcl.Value{}
}

func (s *store) cmdWait(ip *tcl.Interp, args []tcl.Value) (tcl.Code, tcl.Value) {
	id, _, code, v := s.resolveSpawnID(ip, args, 1)
	if code != tcl.CodeOK {
		return code, v
	}
	p, ok := s.lookup(id)
	if !ok {
		return tcl.CodeError, tcl.NewValue("no process of name " + id)
	}
	s.mu.Lock()
	delete(s.processes, id)
	s.mu.Unlock()
	err := p.cmd.Wait()
	if exitErr, ok := err.(*exec.ExitError); ok {
		return tcl.CodeOK, tcl.NewValue(strconv.Itoa(exitErr.ExitCode()))
	}
	return tcl.CodeOK, tcl.NewValue("0")
}
