// Command matheval evaluates arithmetic expressions from arguments or
// standard input, or serves them over HTTP.
package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/zephyrtronium/matheval"
	"github.com/zephyrtronium/matheval/internal/server"
)

// Set via -ldflags at build time.
var version = "dev"

func main() {
	log.SetFlags(0)
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "matheval [flags] [expression...]",
		Short: "Evaluate arithmetic expressions",
		Long: `Evaluate each argument as an expression and print the result. With no
arguments, the expression is read from standard input.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}
	f := root.Flags()
	f.String("in", "", "input file (default stdin if no args given)")
	f.String("fmt", "%g", "result formatting string")
	f.StringArray("given", nil, "name=value variable definition (any number of times)")
	f.String("vars", "", "YAML file mapping variable names to values")
	f.BoolP("lines", "n", false, "parse separate input lines as separate expressions")
	f.Bool("echo", false, "print parse trees")
	f.Bool("fold", false, "fold constant subexpressions before evaluating")

	funcs := &cobra.Command{
		Use:   "funcs",
		Short: "List functions and constants",
		Args:  cobra.NoArgs,
		RunE:  listFuncs,
	}

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP evaluation API",
		Args:  cobra.NoArgs,
		RunE:  runServer,
	}
	serve.Flags().Int("port", 0, "HTTP server port (default 8080, env MATHEVAL_PORT)")
	serve.Flags().String("host", "", "Bind address (default 0.0.0.0, env MATHEVAL_HOST)")
	serve.Flags().Int("cache", 0, "parsed expressions to cache, negative to disable (default 1024, env MATHEVAL_CACHE)")

	root.AddCommand(funcs, serve)
	return root
}

func run(cmd *cobra.Command, args []string) error {
	inname, _ := cmd.Flags().GetString("in")
	verb, _ := cmd.Flags().GetString("fmt")
	given, _ := cmd.Flags().GetStringArray("given")
	varsfile, _ := cmd.Flags().GetString("vars")
	nl, _ := cmd.Flags().GetBool("lines")
	echo, _ := cmd.Flags().GetBool("echo")
	fold, _ := cmd.Flags().GetBool("fold")

	tab := matheval.NewTable()
	if varsfile != "" {
		if err := loadVars(tab, varsfile); err != nil {
			return err
		}
	}
	for _, d := range given {
		nm, vl, ok := strings.Cut(d, "=")
		if !ok {
			return fmt.Errorf(`variable definitions must be "name=value", not %q`, d)
		}
		if err := define(tab, strings.TrimSpace(nm), vl); err != nil {
			return err
		}
	}

	srcs, err := sources(cmd, inname, args, nl)
	if err != nil {
		return err
	}
	var p []*matheval.Expr
	for _, src := range srcs {
		a, err := matheval.ParseString(src)
		if err != nil {
			return err
		}
		p = append(p, a)
	}

	out := cmd.OutOrStdout()
	verb += "\n"
	for _, a := range p {
		if fold {
			f, err := a.Fold()
			if err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			a = f
		}
		if echo {
			fmt.Fprintf(out, "%v : ", a)
		}
		r, err := a.Eval(tab)
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		fmt.Fprintf(out, verb, r)
	}
	return nil
}

// define evaluates src and sets name to the result. The expression may use
// variables defined earlier.
func define(tab *matheval.Table, name, src string) error {
	if !isVarName(name) {
		return fmt.Errorf("%q is not a valid variable name", name)
	}
	r, err := matheval.EvalString(src, tab)
	if err != nil {
		return fmt.Errorf("setting %s: %w", name, err)
	}
	tab.Set(name, r)
	return nil
}

// isVarName reports whether name parses as a lone variable, as opposed to
// a constant, a function, or anything else.
func isVarName(name string) bool {
	a, err := matheval.ParseString(name)
	if err != nil {
		return false
	}
	v := a.Vars()
	return len(v) == 1 && v[0] == name && a.String() == name
}

// loadVars reads a YAML mapping of variable names to values. Each value is
// an expression, which may use variables defined earlier in the file.
func loadVars(tab *matheval.Table, file string) error {
	b, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return fmt.Errorf("reading %s: %w", file, err)
	}
	if len(doc.Content) == 0 {
		// Empty file.
		return nil
	}
	m := doc.Content[0]
	if m.Kind != yaml.MappingNode {
		return fmt.Errorf("%s:%d: variables must be a mapping of names to values", file, m.Line)
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		k, v := m.Content[i], m.Content[i+1]
		if v.Kind != yaml.ScalarNode {
			return fmt.Errorf("%s:%d: value of %s must be a number or expression", file, v.Line, k.Value)
		}
		if err := define(tab, k.Value, v.Value); err != nil {
			return fmt.Errorf("%s:%d: %w", file, k.Line, err)
		}
	}
	return nil
}

// sources collects the expressions to evaluate: those from the input file
// or stdin, followed by the arguments.
func sources(cmd *cobra.Command, inname string, args []string, nl bool) ([]string, error) {
	var srcs []string
	in, err := infile(cmd, inname, len(args) == 0)
	if err != nil {
		return nil, err
	}
	if in != nil {
		b, err := io.ReadAll(in)
		if err != nil {
			return nil, err
		}
		if nl {
			sc := bufio.NewScanner(bytes.NewReader(b))
			for sc.Scan() {
				if strings.TrimSpace(sc.Text()) != "" {
					srcs = append(srcs, sc.Text())
				}
			}
			if err := sc.Err(); err != nil {
				return nil, err
			}
		} else if len(bytes.TrimSpace(b)) != 0 {
			srcs = append(srcs, string(b))
		}
	}
	return append(srcs, args...), nil
}

func infile(cmd *cobra.Command, inname string, std bool) (io.Reader, error) {
	switch {
	case inname != "" && inname != "-":
		return os.Open(inname)
	case inname == "-", std:
		return cmd.InOrStdin(), nil
	}
	return nil, nil
}

func listFuncs(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	params := []string{"x", "y", "z"}
	for _, fn := range matheval.Funcs() {
		fmt.Fprintf(out, "%s(%s)\n", fn.Name, strings.Join(params[:fn.Arity], ", "))
	}
	for _, c := range matheval.Constants() {
		fmt.Fprintf(out, "%s = %v\n", c.Name, c.Value)
	}
	return nil
}

func runServer(cmd *cobra.Command, args []string) error {
	port := envOrDefault("MATHEVAL_PORT", "8080")
	if v, _ := cmd.Flags().GetInt("port"); v != 0 {
		port = strconv.Itoa(v)
	}

	host := envOrDefault("MATHEVAL_HOST", "0.0.0.0")
	if v, _ := cmd.Flags().GetString("host"); v != "" {
		host = v
	}

	cache, err := strconv.Atoi(envOrDefault("MATHEVAL_CACHE", "1024"))
	if err != nil {
		return fmt.Errorf("MATHEVAL_CACHE: %w", err)
	}
	if v, _ := cmd.Flags().GetInt("cache"); v != 0 {
		cache = v
	}

	addr := host + ":" + port
	srv := server.New(cache)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down...")
		if err := srv.Shutdown(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	}()

	log.Printf("matheval listening on %s (cache=%d)", addr, cache)
	return srv.Listen(addr)
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
