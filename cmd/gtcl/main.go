// Command gtcl is the enclosing tool around the gtcl interpreter
// core: a line-editing shell, a script runner, and a minimal
// tcltest-style test runner. None of this lives in package tcl itself
// -- the core interpreter has no notion of a terminal, a file
// argument, or a test harness; those are all host concerns.
package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/wfgraham/gtcl/hostext/expect"
	"github.com/wfgraham/gtcl/hostext/fileops"
	"github.com/wfgraham/gtcl/tcl"
)

func main() {
	switch {
	case len(os.Args) < 2:
		runShell()
	case os.Args[1] == "shell":
		runShell()
	case os.Args[1] == "test":
		runTest(os.Args[2:])
	default:
		runScript(os.Args[1], os.Args[2:])
	}
}

// newInterp builds an interpreter with every host extension this tool
// ships wired in, so scripts run by any of the subcommands below get
// file and subprocess commands in addition to the bare engine.
func newInterp() *tcl.Interp {
	ip := tcl.NewInterp()
	fileops.Register(ip)
	expect.Register(ip)
	return ip
}

func runScript(path string, scriptArgs []string) {
	text, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	ip := newInterp()
	ip.SetVar("argv0", tcl.NewValue(path))
	ip.SetVar("argv", tcl.NewValue(tcl.FormatList(tcl.StringsToValues(scriptArgs))))
	ip.SetVar("argc", tcl.NewValue(strconv.Itoa(len(scriptArgs))))

	result, err := ip.EvalString(string(text))
	if err != nil {
		if errors.Is(err, tcl.ErrExit) {
			os.Exit(ip.ExitCode)
		}
		fmt.Fprintln(os.Stderr, "Error: "+err.Error())
		os.Exit(1)
	}
	if result != "" {
		fmt.Println(result)
	}
}

// runShell is a line-editing REPL. It uses IsComplete to decide when
// an accumulated multi-line input is ready to evaluate, so open
// braces, brackets, and quotes all keep the prompt open rather than
// relying on a single continuation marker.
func runShell() {
	ip := newInterp()
	ip.SetVar("argv0", tcl.NewValue(os.Args[0]))
	ip.SetVar("argc", tcl.NewValue("0"))
	ip.SetVar("argv", tcl.NewValue(""))

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(false)
	line.SetMultiLineMode(true)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt)
	go func() {
		<-done
		line.Close()
		fmt.Println("^C abort")
		os.Exit(0)
	}()

outer:
	for {
		command := ""
		for {
			prompt := "gtcl> "
			if command != "" {
				prompt = "gtcl> > "
			}
			input, err := line.Prompt(prompt)
			if err != nil {
				if errors.Is(err, liner.ErrPromptAborted) {
					fmt.Println("^C")
				} else {
					fmt.Println(err.Error())
				}
				break outer
			}
			if input == "" && command == "" {
				continue
			}
			if command == "" {
				command = input
			} else {
				command += "\n" + input
			}
			if tcl.IsComplete(command) {
				break
			}
		}

		line.AppendHistory(command)
		result, err := ip.EvalString(command)
		if err != nil {
			if errors.Is(err, tcl.ErrExit) {
				break
			}
			fmt.Println("Error: " + err.Error())
		} else if result != "" {
			fmt.Println("=> " + result)
		}
	}
}

// runTest implements `gtcl test <file>`: a minimal tcltest-style
// runner, registering a `test` command with the common
// -body/-result/-returnCodes keyword set. This is host glue, not part
// of the tcl package -- the interpreter core has no opinion on what a
// test harness looks like.
func runTest(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: gtcl test <file>")
		os.Exit(2)
	}
	text, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ip := newInterp()
	r := &testRunner{}
	ip.Register("test", r.cmdTest)

	if _, err := ip.EvalString(string(text)); err != nil && !errors.Is(err, tcl.ErrExit) {
		fmt.Fprintln(os.Stderr, "Error: "+err.Error())
	}

	fmt.Printf("%d passed, %d failed\n", r.passed, r.failed)
	if r.failed > 0 {
		os.Exit(1)
	}
}

type testRunner struct {
	passed int
	failed int
}

var codeNames = map[tcl.Code]string{
	tcl.CodeOK:       "ok",
	tcl.CodeError:    "error",
	tcl.CodeReturn:   "return",
	tcl.CodeBreak:    "break",
	tcl.CodeContinue: "continue",
}

func (r *testRunner) cmdTest(ip *tcl.Interp, args []tcl.Value) (tcl.Code, tcl.Value) {
	if len(args) < 2 {
		return tcl.CodeError, tcl.NewValue(`wrong # args: should be "test name ?description? ?-body script? ?-result expected? ?-returnCodes codeList?"`)
	}
	name := args[1].String()
	i := 2
	desc := ""
	if i < len(args) && !strings.HasPrefix(args[i].String(), "-") {
		desc = args[i].String()
		i++
	}

	var body, expected string
	acceptedCodes := []string{"ok"}
	for i < len(args) {
		switch args[i].String() {
		case "-body":
			i++
			if i >= len(args) {
				return tcl.CodeError, tcl.NewValue("-body requires an argument")
			}
			body = args[i].String()
			i++
		case "-result":
			i++
			if i >= len(args) {
				return tcl.CodeError, tcl.NewValue("-result requires an argument")
			}
			expected = args[i].String()
			i++
		case "-returnCodes":
			i++
			if i >= len(args) {
				return tcl.CodeError, tcl.NewValue("-returnCodes requires an argument")
			}
			elems, err := args[i].Elements()
			if err != nil {
				return tcl.CodeError, tcl.NewValue(err.Error())
			}
			acceptedCodes = tcl.ValuesToStrings(elems)
			i++
		default:
			return tcl.CodeError, tcl.NewValue(`unknown test option "` + args[i].String() + `"`)
		}
	}

	code, val := ip.Eval(body)
	codeName := codeNames[code]
	codeOK := false
	for _, c := range acceptedCodes {
		if c == codeName {
			codeOK = true
			break
		}
	}
	resultOK := val.String() == expected

	if codeOK && resultOK {
		r.passed++
		fmt.Println("PASS", name)
	} else {
		r.failed++
		fmt.Printf("FAIL %s: %s\n    code=%s (want one of %v)\n    got=%q want=%q\n", name, desc, codeName, acceptedCodes, val.String(), expected)
	}
	return tcl.CodeOK, tcl.Value{}
}
