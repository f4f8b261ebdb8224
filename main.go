// Command rill is the entry point for the Rill interpreter: a file
// argument executes that script, no argument starts the REPL.
// Grounded on go-mix's own main/main.go (--help/--version flags,
// read-file-then-execute-with-recovery shape), trimmed of its server
// subcommand since spec.md names no such mode.
package main

import (
	"os"

	"github.com/fatih/color"

	"github.com/rill-lang/rill/eval"
	"github.com/rill-lang/rill/parser"
	"github.com/rill-lang/rill/repl"
)

const (
	version = "v1.0.0"
	author  = "rill-lang"
	license = "MIT"
	prompt  = "rill >>> "
	line    = "----------------------------------------------------------------"
)

const banner = `
 ██▀███   ██▓ ██▓     ██▓
▓██ ▒ ██▒▓██▒▓██▒    ▓██▒
▓██ ░▄█ ▒▒██▒▒██░    ▒██░
▒██▀▀█▄  ░██░▒██░    ▒██░
░██▓ ▒██▒░██░░██████▒░██████▒
░ ▒▓ ░▒▓░░▓  ░ ▒░▓  ░░ ▒░▓  ░
`

var (
	redColor    = color.New(color.FgRed)
	cyanColor   = color.New(color.FgCyan)
	yellowColor = color.New(color.FgYellow)
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--help", "-h":
			showHelp()
			return
		case "--version", "-v":
			showVersion()
			return
		default:
			runFile(os.Args[1], os.Args[2:])
			return
		}
	}
	repl.New(banner, version, author, line, license, prompt).Start(os.Stdout)
}

func showHelp() {
	cyanColor.Println("Rill - a small dynamically-typed scripting language")
	cyanColor.Println("")
	cyanColor.Println("USAGE:")
	yellowColor.Println("  rill                  Start interactive REPL mode")
	yellowColor.Println("  rill <path-to-file>    Execute a Rill source file")
	yellowColor.Println("  rill --help            Display this help message")
	yellowColor.Println("  rill --version         Display version information")
}

func showVersion() {
	cyanColor.Printf("Rill %s\n", version)
}

// runFile reads path, executes it to completion against a fresh
// Interpreter, and exits non-zero with a diagnostic on stderr if
// parsing or evaluation fails, per spec.md §6. scriptArgs becomes what
// cmd_args() returns.
func runFile(path string, scriptArgs []string) {
	source, err := os.ReadFile(path)
	if err != nil {
		redColor.Fprintf(os.Stderr, "[file error] could not read '%s': %v\n", path, err)
		os.Exit(1)
	}

	prog, err := parser.Parse(string(source), path)
	if err != nil {
		redColor.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}

	interp := eval.New()
	interp.SetArgs(scriptArgs)
	if err := interp.Run(prog); err != nil {
		redColor.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}
