// Package repl implements the Read-Eval-Print Loop for Rill. Grounded
// on go-mix's own repl/repl.go (readline for line editing and history,
// fatih/color for banner/prompt/error coloring), adapted to run each
// line through a persistent eval.Interpreter so var/func/class
// declarations accumulate across lines the way they would in one file.
package repl

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/rill-lang/rill/eval"
	"github.com/rill-lang/rill/parser"
)

var (
	blueColor   = color.New(color.FgBlue)
	yellowColor = color.New(color.FgYellow)
	redColor    = color.New(color.FgRed)
	greenColor  = color.New(color.FgGreen)
	cyanColor   = color.New(color.FgCyan)
)

// Repl holds the cosmetic configuration of an interactive session.
type Repl struct {
	Banner  string
	Version string
	Author  string
	Line    string
	License string
	Prompt  string
}

func New(banner, version, author, line, license, prompt string) *Repl {
	return &Repl{Banner: banner, Version: version, Author: author, Line: line, License: license, Prompt: prompt}
}

func (r *Repl) printBanner(w io.Writer) {
	blueColor.Fprintf(w, "%s\n", r.Line)
	greenColor.Fprintf(w, "%s\n", r.Banner)
	blueColor.Fprintf(w, "%s\n", r.Line)
	yellowColor.Fprintln(w, "Version: "+r.Version+" | Author: "+r.Author+" | License: "+r.License)
	blueColor.Fprintf(w, "%s\n", r.Line)
	cyanColor.Fprintf(w, "%s\n", "Welcome to Rill!")
	cyanColor.Fprintf(w, "%s\n", "Type your code and press enter")
	cyanColor.Fprintf(w, "%s\n", "Type '.exit' to quit")
	blueColor.Fprintf(w, "%s\n", r.Line)
}

// Start runs the main loop: read a line, parse+evaluate it against a
// persistent Interpreter, print the result or the error, repeat.
func (r *Repl) Start(w io.Writer) {
	r.printBanner(w)

	rl, err := readline.New(r.Prompt)
	if err != nil {
		panic(err)
	}
	defer rl.Close()

	interp := eval.New()
	interp.SetWriter(w)

	for {
		line, err := rl.Readline()
		if err != nil {
			fmt.Fprintln(w, "Good bye!")
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == ".exit" {
			fmt.Fprintln(w, "Good bye!")
			break
		}
		rl.SaveHistory(line)

		r.evalLine(w, line, interp)
	}
}

// evalLine parses one line as a complete program and runs each of its
// statements through the persistent interpreter, printing the value of
// a trailing bare-expression statement the way a REPL user expects.
func (r *Repl) evalLine(w io.Writer, line string, interp *eval.Interpreter) {
	defer func() {
		if rec := recover(); rec != nil {
			redColor.Fprintf(w, "[runtime error] %v\n", rec)
		}
	}()

	prog, err := parser.Parse(line, "<repl>")
	if err != nil {
		redColor.Fprintf(w, "%s\n", err)
		return
	}

	for i, stmt := range prog.Statements {
		result, err := interp.RunStatement(stmt)
		if err != nil {
			redColor.Fprintf(w, "%s\n", err)
			return
		}
		if _, ok := stmt.(*parser.ExprStmt); ok && i == len(prog.Statements)-1 {
			yellowColor.Fprintf(w, "%s\n", result.String())
		}
	}
}
