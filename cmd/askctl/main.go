// Command askctl parses, formats, and runs AskQL programs.
//
// Usage:
//
//	askctl parse [program]
//	askctl fmt [program]
//	askctl run [program]
//
// With no program argument, the program is read from stdin.
// The run command binds the values in VALUES_FILE, if set.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/engylemure/askql/core"
	"github.com/engylemure/askql/core/askcode"
	"github.com/engylemure/askql/core/parser"
	"github.com/engylemure/askql/core/vm"
	"github.com/engylemure/askql/core/vm/resources"
	"github.com/engylemure/askql/env"
	"github.com/engylemure/askql/log"
)

// config vars
var (
	valuesFile    = env.String("VALUES_FILE", "")
	maxParseSteps = env.Int("MAX_PARSE_STEPS", 0)
	maxDepth      = env.Int("MAX_DEPTH", vm.DefaultMaxDepth)
	failurePolicy = env.OneOf("FAILURE_POLICY", vm.BestEffort.String(), vm.BestEffort.String(), vm.Strict.String(), vm.Collect.String())
)

// We collect log output in this buffer,
// and display it only when there's an error.
var logbuf bytes.Buffer

type command struct {
	f func(string)
}

var commands = map[string]*command{
	"parse": {parse},
	"fmt":   {format},
	"run":   {run},
}

func main() {
	log.SetOutput(&logbuf)
	env.Parse()

	if len(os.Args) < 2 {
		help(os.Stdout)
		os.Exit(0)
	}
	cmd := commands[os.Args[1]]
	if cmd == nil {
		fmt.Fprintln(os.Stderr, "unknown command:", os.Args[1])
		help(os.Stderr)
		os.Exit(1)
	}
	cmd.f(source(os.Args[2:]))
}

func source(args []string) string {
	if len(args) > 0 {
		return strings.Join(args, " ")
	}
	b, err := io.ReadAll(os.Stdin)
	if err != nil {
		fatalln("error reading program:", err)
	}
	return string(b)
}

func parse(src string) {
	prog, err := parser.Parse(src, parser.MaxSteps(*maxParseSteps))
	if err != nil {
		fatalln("error:", err)
	}
	b, err := askcode.EncodeNode(prog)
	if err != nil {
		fatalln("error:", err)
	}
	var out bytes.Buffer
	json.Indent(&out, b, "", "  ")
	fmt.Println(out.String())
}

func format(src string) {
	s, err := parser.ParseWith[string](src, askcode.SourceReducer{}, parser.MaxSteps(*maxParseSteps))
	if err != nil {
		fatalln("error:", err)
	}
	fmt.Println(s)
}

func run(src string) {
	prog, err := parser.Parse(src, parser.MaxSteps(*maxParseSteps))
	if err != nil {
		fatalln("error:", err)
	}
	policy, err := vm.ParsePolicy(*failurePolicy)
	if err != nil {
		fatalln("error:", err)
	}
	opts := resources.Default()
	if *valuesFile != "" {
		values, err := core.ReadValues(*valuesFile)
		if err != nil {
			fatalln("error:", err)
		}
		opts.BindObject(values)
	}
	m := vm.New(opts, vm.Config{Policy: policy, MaxDepth: *maxDepth})
	v, err := m.Run(context.Background(), prog, nil, nil)
	if err != nil {
		fatalln("error:", err)
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fatalln("error:", err)
	}
	fmt.Println(string(b))
}

func fatalln(v ...interface{}) {
	io.Copy(os.Stderr, &logbuf)
	fmt.Fprintln(os.Stderr, v...)
	os.Exit(2)
}

func help(w io.Writer) {
	fmt.Fprintln(w, "usage: askctl [command] [program]")
	fmt.Fprint(w, "\nThe commands are:\n\n")
	var names []string
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintln(w, "\t", name)
	}
	fmt.Fprintln(w)
}
