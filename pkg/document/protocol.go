package document

import (
	"strings"

	"github.com/charmbracelet/log"
)

// Operation keywords understood by Handle.
const (
	OpReplace       = "replace"
	OpReplaceAll    = "replace-all"
	OpIgnore        = "ignore"
	OpIgnoreAll     = "ignore-all"
	OpDelete        = "delete"
	OpManualEdit    = "manual-edit"
	OpAddToDict     = "add-to-dict"
	OpPrematureExit = "premature-exit"
	OpExit          = "exit"
	OpDestroyFile   = "destroy-file"
)

// Command is one parsed operation, Arg holds everything after the first colon.
// HasArg records whether a colon was present at all.
type Command struct {
	Op     string
	Arg    string
	HasArg bool
}

func (c Command) String() string {
	if !c.HasArg {
		return c.Op
	}
	return c.Op + ":" + c.Arg
}

// ParseCommand splits "keyword:argument". The argument is kept verbatim,
// so "manual-edit:a:b" carries "a:b".
func ParseCommand(s string) Command {
	op, arg, found := strings.Cut(s, ":")
	return Command{Op: op, Arg: arg, HasArg: found}
}

// takesArg reports whether op must carry an argument, and whether op is known.
func takesArg(op string) (needsArg, known bool) {
	switch op {
	case OpReplace, OpReplaceAll, OpManualEdit, OpExit:
		return true, true
	case OpIgnore, OpIgnoreAll, OpDelete, OpAddToDict, OpPrematureExit, OpDestroyFile:
		return false, true
	}
	return false, false
}

// wellFormed reports whether c names a known operation with the argument
// shape that operation expects.
func (c Command) wellFormed() bool {
	needsArg, known := takesArg(c.Op)
	return known && needsArg == c.HasArg
}

// Handle runs one operation and the scanning it triggers. It returns false
// for an unknown keyword, a missing argument on replace, replace-all,
// manual-edit or exit, and an argument on any other keyword. A non-nil error is an I/O failure and ends
// the session. Corrections issued while no error is pending do nothing.
func (d *Document) Handle(cmd string) (bool, error) {
	return d.Apply(ParseCommand(cmd))
}

// Apply is Handle for an already parsed command.
func (d *Document) Apply(c Command) (bool, error) {
	log.Debug("Operation", "op", c.Op, "arg", c.Arg, "state", d.state)
	if !c.wellFormed() {
		log.Warnf("Malformed operation %q", c.String())
		return false, nil
	}

	var err error
	switch c.Op {
	case OpReplace:
		err = d.Replace(c.Arg)
	case OpReplaceAll:
		err = d.ReplaceAll(c.Arg)
	case OpIgnore:
		err = d.IgnoreOnce()
	case OpIgnoreAll:
		err = d.IgnoreAll()
	case OpDelete:
		err = d.Delete()
	case OpManualEdit:
		err = d.ManualEdit(c.Arg)
	case OpAddToDict:
		err = d.AddToDictionary()
	case OpPrematureExit:
		err = d.PrematureExit()
	case OpExit:
		_, err = d.Exit(c.Arg)
	case OpDestroyFile:
		err = d.DestroyFile()
	}
	return true, err
}
