package fileops

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/wfgraham/gtcl/tcl"
)

type fileSub func(args []tcl.Value) (tcl.Code, tcl.Value)

// cmdFile implements the `file` ensemble. It has no channel state of
// its own, so unlike the other commands in this package it is a plain
// function rather than a *store method.
func cmdFile(ip *tcl.Interp, args []tcl.Value) (tcl.Code, tcl.Value) {
	if len(args) < 2 {
		return wrongArgs("file subcommand ?arg ...?")
	}
	sub, ok := fileSubcommands[args[1].String()]
	if !ok {
		return tcl.CodeError, tcl.NewValue(`unknown or ambiguous subcommand "` + args[1].String() + `": must be ` + fileSubcommandList)
	}
	return sub(args)
}

const fileSubcommandList = "copy, delete, dirname, executable, exists, extension, isdirectory, isfile, join, mkdir, mtime, pwd, readable, rename, rootname, separator, size, split, tail, type, or writable"

var fileSubcommands map[string]fileSub

func init() {
	fileSubcommands = map[string]fileSub{
		"copy":        fileCopy,
		"delete":      fileDelete,
		"dirname":     filePathPart,
		"extension":   filePathPart,
		"rootname":    filePathPart,
		"split":       filePathPart,
		"tail":        filePathPart,
		"executable":  fileStat,
		"exists":      fileStat,
		"isdirectory": fileStat,
		"isfile":      fileStat,
		"mtime":       fileStat,
		"size":        fileStat,
		"type":        fileStat,
		"join":        fileJoin,
		"mkdir":       fileMkdir,
		"pwd":         filePwd,
		"readable":    fileAccess,
		"writable":    fileAccess,
		"rename":      fileRename,
		"separator":   fileSeparator,
	}
}

func fileCopy(args []tcl.Value) (tcl.Code, tcl.Value) {
	rest := args[2:]
	force := false
	if len(rest) > 0 && rest[0].String() == "-force" {
		force = true
		rest = rest[1:]
	}
	if len(rest) < 2 {
		return wrongArgs("file copy ?-force? source ?source ...? target")
	}
	target := rest[len(rest)-1].String()
	sources := rest[:len(rest)-1]
	dir := isDir(target)
	for _, src := range sources {
		if err := copyOne(src.String(), target, dir, force); err != nil {
			return errVal(err)
		}
	}
	return tcl.CodeOK, tcl.Value{}
}

func copyOne(src, dst string, dstIsDir, force bool) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", src)
	}
	if dstIsDir {
		dst = filepath.Join(dst, filepath.Base(src))
	}
	if _, err := os.Stat(dst); err == nil && !force {
		return fmt.Errorf("file %q exists", dst)
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, info.Mode())
}

func fileDelete(args []tcl.Value) (tcl.Code, tcl.Value) {
	rest := args[2:]
	if len(rest) > 0 && rest[0].String() == "-force" {
		rest = rest[1:]
	}
	if len(rest) == 0 {
		return wrongArgs("file delete ?-force? pathname ?pathname ...?")
	}
	for _, p := range rest {
		if err := os.Remove(p.String()); err != nil && !os.IsNotExist(err) {
			return errVal(err)
		}
	}
	return tcl.CodeOK, tcl.Value{}
}

func filePathPart(args []tcl.Value) (tcl.Code, tcl.Value) {
	if len(args) != 3 {
		return wrongArgs("file " + args[1].String() + " name")
	}
	name := args[2].String()
	switch args[1].String() {
	case "dirname":
		return tcl.CodeOK, tcl.NewValue(filepath.Dir(name))
	case "extension":
		return tcl.CodeOK, tcl.NewValue(filepath.Ext(name))
	case "rootname":
		ext := filepath.Ext(name)
		return tcl.CodeOK, tcl.NewValue(strings.TrimSuffix(name, ext))
	case "split":
		parts := strings.Split(filepath.Clean(name), string(filepath.Separator))
		return tcl.CodeOK, tcl.NewValue(tcl.FormatList(tcl.StringsToValues(parts)))
	case "tail":
		return tcl.CodeOK, tcl.NewValue(filepath.Base(name))
	}
	return tcl.CodeError, tcl.NewValue("not implemented")
}

func fileStat(args []tcl.Value) (tcl.Code, tcl.Value) {
	if len(args) != 3 {
		return wrongArgs("file " + args[1].String() + " name")
	}
	name := args[2].String()
	info, err := os.Lstat(name)
	exists := err == nil
	if err != nil && !os.IsNotExist(err) {
		return errVal(err)
	}
	switch args[1].String() {
	case "exists":
		return tcl.CodeOK, tcl.NewValue(boolStr(exists))
	case "isdirectory":
		return tcl.CodeOK, tcl.NewValue(boolStr(exists && info.IsDir()))
	case "isfile":
		return tcl.CodeOK, tcl.NewValue(boolStr(exists && info.Mode().IsRegular()))
	case "executable":
		return tcl.CodeOK, tcl.NewValue(boolStr(exists && info.Mode().IsRegular() && info.Mode()&0o111 != 0))
	case "size":
		if !exists {
			return tcl.CodeError, tcl.NewValue("could not read \"" + name + "\": no such file or directory")
		}
		return tcl.CodeOK, tcl.NewValue(strconv.FormatInt(info.Size(), 10))
	case "mtime":
		if !exists {
			return tcl.CodeError, tcl.NewValue("could not read \"" + name + "\": no such file or directory")
		}
		return tcl.CodeOK, tcl.NewValue(strconv.FormatInt(info.ModTime().Unix(), 10))
	case "type":
		if !exists {
			return tcl.CodeError, tcl.NewValue("could not read \"" + name + "\": no such file or directory")
		}
		return tcl.CodeOK, tcl.NewValue(fileTypeName(info.Mode()))
	}
	return tcl.CodeOK, tcl.NewValue("0")
}

func fileTypeName(mode fs.FileMode) string {
	switch {
	case mode.IsRegular():
		return "file"
	case mode.IsDir():
		return "directory"
	case mode&fs.ModeSymlink != 0:
		return "link"
	case mode&fs.ModeNamedPipe != 0:
		return "fifo"
	case mode&fs.ModeDevice != 0:
		return "blockSpecial"
	case mode&fs.ModeCharDevice != 0:
		return "characterSpecial"
	default:
		return "unknown"
	}
}

func fileJoin(args []tcl.Value) (tcl.Code, tcl.Value) {
	if len(args) < 3 {
		return wrongArgs("file join name ?name ...?")
	}
	parts := make([]string, 0, len(args)-2)
	for _, a := range args[2:] {
		s := a.String()
		if filepath.IsAbs(s) {
			parts = parts[:0]
		}
		parts = append(parts, s)
	}
	return tcl.CodeOK, tcl.NewValue(filepath.Join(parts...))
}

func fileMkdir(args []tcl.Value) (tcl.Code, tcl.Value) {
	if len(args) < 3 {
		return wrongArgs("file mkdir dir ?dir ...?")
	}
	for _, d := range args[2:] {
		if err := os.MkdirAll(d.String(), 0o750); err != nil {
			return errVal(err)
		}
	}
	return tcl.CodeOK, tcl.Value{}
}

func filePwd(args []tcl.Value) (tcl.Code, tcl.Value) {
	if len(args) != 2 {
		return wrongArgs("file pwd")
	}
	dir, err := os.Getwd()
	if err != nil {
		return errVal(err)
	}
	return tcl.CodeOK, tcl.NewValue(dir)
}

func fileAccess(args []tcl.Value) (tcl.Code, tcl.Value) {
	if len(args) != 3 {
		return wrongArgs("file " + args[1].String() + " name")
	}
	name := args[2].String()
	var mode int
	if args[1].String() == "readable" {
		mode = os.O_RDONLY
	} else {
		mode = os.O_WRONLY
	}
	f, err := os.OpenFile(name, mode, 0)
	if err != nil {
		return tcl.CodeOK, tcl.NewValue("0")
	}
	f.Close()
	return tcl.CodeOK, tcl.NewValue("1")
}

func fileRename(args []tcl.Value) (tcl.Code, tcl.Value) {
	rest := args[2:]
	force := false
	if len(rest) > 0 && rest[0].String() == "-force" {
		force = true
		rest = rest[1:]
	}
	if len(rest) < 2 {
		return wrongArgs("file rename ?-force? source ?source ...? target")
	}
	target := rest[len(rest)-1].String()
	sources := rest[:len(rest)-1]
	dir := isDir(target)
	for _, src := range sources {
		dst := target
		if dir {
			dst = filepath.Join(target, filepath.Base(src.String()))
		}
		if _, err := os.Stat(dst); err == nil && !force {
			return tcl.CodeError, tcl.NewValue("file \"" + dst + "\" exists")
		}
		if err := os.Rename(src.String(), dst); err != nil {
			return errVal(err)
		}
	}
	return tcl.CodeOK, tcl.Value{}
}

func fileSeparator(args []tcl.Value) (tcl.Code, tcl.Value) {
	if len(args) != 2 {
		return wrongArgs("file separator")
	}
	return tcl.CodeOK, tcl.NewValue(string(filepath.Separator))
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
