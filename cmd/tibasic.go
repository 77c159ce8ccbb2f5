package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/superloach/tibasic/pkg/tibasic"
	"golang.org/x/term"
)

const Version = "0.2.0"

const HelpMessage = `
tibasic interprets TI-Basic calculator programs.
	tibasic v%s

Run a program from a source file; its name is the file name, upper-cased.
	tibasic prog.8xp.txt
Start an interactive session with -interactive. Type exit to leave.
	tibasic -interactive
	> 2+3
	5
Run a single line from the command line with -eval.
	tibasic -eval "0→A:While A<5:A+1→A:End"
List the built-in commands and functions with -commands.
	tibasic -commands

`

// exit status when nothing to run was requested
const exitNotConfigured = 2

func main() {
	flag.Usage = func() {
		fmt.Printf(HelpMessage, Version)
		flag.PrintDefaults()
	}

	// cli arguments
	configPath := flag.String("config", "", "Read configuration from a YAML file")
	verbose := flag.Bool("verbose", false, "Log all interpreter debug information")
	debugPreprocess := flag.Bool("debug-preprocess", false, "Log preprocessor output")
	debugParser := flag.Bool("debug-parse", false, "Log parser output")
	dump := flag.Bool("dump", false, "Dump memory after every program")

	version := flag.Bool("version", false, "Print version string and exit")
	help := flag.Bool("help", false, "Print help message and exit")

	interactive := flag.Bool("interactive", false, "Run as an interactive session")
	eval := flag.String("eval", "", "Run argument as a single program line")
	listCommands := flag.Bool("commands", false, "List built-in commands and exit")

	flag.Parse()

	// if asked for version, disregard everything else
	if *version {
		fmt.Printf("tibasic v%s\n", Version)
		os.Exit(0)
	} else if *help {
		flag.Usage()
		os.Exit(0)
	}

	files := flag.Args()
	if len(files) > 1 {
		fmt.Fprintln(os.Stderr, "at most one start file may be given")
		flag.Usage()
		os.Exit(exitNotConfigured)
	}
	if len(files) == 0 && *eval == "" && !*interactive && !*listCommands {
		flag.Usage()
		os.Exit(exitNotConfigured)
	}

	cfg := tibasic.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = tibasic.LoadConfig(*configPath)
		if err != nil {
			tibasic.LogErrf(tibasic.ErrSystem, "could not load configuration:\n\t-> %s", err)
		}
	}

	level := cfg.Log.Level
	if *verbose {
		level = "debug"
	}
	logger, err := tibasic.NewLogger(os.Stderr, level, cfg.Log.JSON)
	if err != nil {
		tibasic.LogErrf(tibasic.ErrSystem, "could not set up logging:\n\t-> %s", err)
	}
	tibasic.SetLogger(logger)

	debug := cfg.Debug.DebugConfig()
	debug.Preprocess = debug.Preprocess || *debugPreprocess || *verbose
	debug.Parse = debug.Parse || *debugParser || *verbose
	debug.Dump = debug.Dump || *dump || *verbose

	// line editing only makes sense on a real terminal
	var calcIO tibasic.CalculatorIO = tibasic.NewStreamIO(os.Stdin, os.Stdout)
	if *interactive && term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd())) {
		console := newConsoleIO(cfg.Interactive)
		defer console.Close()
		calcIO = console
	}

	calc, err := tibasic.NewCalculator(tibasic.NewMemory(), calcIO)
	if err != nil {
		tibasic.LogErrf(tibasic.ErrAssert, "could not create calculator:\n\t-> %s", err)
	}
	calc.Debug = debug

	if *listCommands {
		fmt.Println(commandList(calc.Environment()))
		return
	}

	if err := cfg.LoadPrograms(calc); err != nil {
		tibasic.LogErrf(tibasic.ErrSystem, "could not load programs:\n\t-> %s", err)
	}

	status := 0
	if len(files) > 0 {
		status = runFile(calc, calcIO, files[0])
	}
	if status == 0 && *eval != "" {
		result, err := calc.Interpret(*eval)
		status = report(calcIO, result, err)
	}
	if status == 0 && *interactive {
		if err := tibasic.RunSession(calc, calcIO); err != nil {
			status = tibasic.Reason(err)
			if status == tibasic.ErrUnknown {
				status = tibasic.ErrSystem
			}
		}
	}

	if status != 0 {
		// deferred cleanup would be skipped by os.Exit
		if console, ok := calcIO.(*consoleIO); ok {
			console.Close()
		}
		os.Exit(status)
	}
}

// commandList renders the registered command names, one per line.
func commandList(env *tibasic.Environment) string {
	return strings.Join(env.CommandNames(), "\n")
}

// programName derives a program name from a source file path: base name
// without extensions, upper-cased, at most 8 characters.
func programName(filePath string) string {
	base := filepath.Base(filePath)
	if idx := strings.Index(base, "."); idx > 0 {
		base = base[:idx]
	}
	name := strings.ToUpper(base)
	for utf8.RuneCountInString(name) > tibasic.MaxProgramNameLength {
		_, size := utf8.DecodeLastRuneInString(name)
		name = name[:len(name)-size]
	}
	return name
}

func runFile(calc *tibasic.Calculator, calcIO tibasic.CalculatorIO, filePath string) int {
	text, err := os.ReadFile(expandHome(filePath))
	if err != nil {
		tibasic.LogSafeErr(tibasic.ErrSystem, fmt.Sprintf("could not open %s for execution:\n\t-> %s", filePath, err))
		return tibasic.ErrSystem
	}

	name := programName(filePath)
	if err := calc.LoadProgram(name, string(text)); err != nil {
		return report(calcIO, nil, err)
	}
	result, err := calc.ExecuteProgram(name)
	return report(calcIO, result, err)
}

// report prints a program's result or its error, returning the exit status.
func report(calcIO tibasic.CalculatorIO, result tibasic.Value, err error) int {
	if err != nil {
		reason := tibasic.Reason(err)
		tibasic.LogSafeErr(reason, err.Error())
		_ = calcIO.PrintLine(tibasic.ErrorPrefix + err.Error())
		if reason == tibasic.ErrUnknown {
			return tibasic.ErrSystem
		}
		return reason
	}
	if result != nil {
		_ = calcIO.PrintLine(result.String())
	}
	return 0
}
