package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// execute runs the command line with the given stdin and returns its output.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRun(t *testing.T) {
	cases := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{"arg", "", []string{"1+2"}, "3\n"},
		{"args", "", []string{"1+2", "2**10"}, "3\n1024\n"},
		{"stdin", "1 +\n 2\n", nil, "3\n"},
		{"lines", "1\n2+2\n\n  \nsqrt(9)\n", []string{"-n"}, "1\n4\n3\n"},
		{"stdinignored", "5", []string{"6"}, "6\n"},
		{"dash", "5", []string{"--in", "-", "6"}, "5\n6\n"},
		{"given", "", []string{"--given", "x=2", "x**2"}, "4\n"},
		{"givenexpr", "", []string{"--given", "x=2", "--given", "y = x*3", "y"}, "6\n"},
		{"echo", "", []string{"--echo", "1+2"}, "(1 + 2) : 3\n"},
		{"fold", "", []string{"--fold", "--echo", "--given", "x=1", "x+2*3"}, "(x + 6) : 7\n"},
		{"fmt", "", []string{"--fmt", "%.2f", "pi"}, "3.14\n"},
		{"evalerr", "", []string{"1/0", "2"}, "divide by zero\n2\n"},
		{"folderr", "", []string{"--fold", "log(-1)", "2"}, "-1 outside domain of log (argument 1)\n2\n"},
		{"undefined", "", []string{"x"}, "undefined variable: \"x\"\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := execute(t, c.stdin, c.args...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != c.want {
				t.Errorf("expected %q, got %q", c.want, got)
			}
		})
	}
}

func TestRunErrors(t *testing.T) {
	cases := []struct {
		name string
		args []string
	}{
		{"parse", []string{"1 +"}},
		{"parselater", []string{"1", "2 +"}},
		{"given", []string{"--given", "x", "1"}},
		{"givenconst", []string{"--given", "pi=3", "1"}},
		{"givenfunc", []string{"--given", "sin=3", "1"}},
		{"givenbad", []string{"--given", "x=1/0", "1"}},
		{"nofile", []string{"--in", filepath.Join(t.TempDir(), "missing"), "1"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			out, err := execute(t, "", c.args...)
			if err == nil {
				t.Errorf("expected error, got output %q", out)
			}
			if out != "" {
				t.Errorf("expected no output before failing, got %q", out)
			}
		})
	}
}

func TestInFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "in.txt")
	if err := os.WriteFile(file, []byte("1+1\n2*3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := execute(t, "99", "-n", "--in", file)
	if err != nil {
		t.Fatal(err)
	}
	if got != "2\n6\n" {
		t.Errorf("expected results from file, got %q", got)
	}
}

func TestVarsFile(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		t.Helper()
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		return p
	}

	good := write("good.yaml", "a: 2\nb: a * 3\nc: \"sqrt(16)\"\n")
	got, err := execute(t, "", "--vars", good, "--given", "d=c+1", "a + b + d")
	if err != nil {
		t.Fatal(err)
	}
	if got != "13\n" {
		t.Errorf("expected 13, got %q", got)
	}

	empty := write("empty.yaml", "")
	got, err = execute(t, "", "--vars", empty, "1")
	if err != nil {
		t.Fatal(err)
	}
	if got != "1\n" {
		t.Errorf("expected 1, got %q", got)
	}

	bad := map[string]string{
		"list.yaml":    "- 1\n- 2\n",
		"nested.yaml":  "a:\n  b: 1\n",
		"name.yaml":    "e: 1\n",
		"value.yaml":   "a: log(0)\n",
		"forward.yaml": "a: b\nb: 1\n",
		"syntax.yaml":  "a: [1\n",
	}
	for name, content := range bad {
		p := write(name, content)
		if _, err := execute(t, "", "--vars", p, "1"); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestFuncsCommand(t *testing.T) {
	got, err := execute(t, "", "funcs")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"sin(x)\n", "atan2(x, y)\n", "ifelse(x, y, z)\n", "pi = 3.141592653589793\n"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in output:\n%s", want, got)
		}
	}
}

func TestIsVarName(t *testing.T) {
	cases := map[string]bool{
		"x":     true,
		"foo_2": true,
		"":      false,
		"2x":    false,
		"pi":    false,
		"inf":   false,
		"sin":   false,
		"x y":   false,
		"(x)":   false,
		"x+1":   false,
		" x":    false,
	}
	for name, want := range cases {
		if got := isVarName(name); got != want {
			t.Errorf("isVarName(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestEnvOrDefault(t *testing.T) {
	t.Setenv("MATHEVAL_TEST_ENV", "")
	if got := envOrDefault("MATHEVAL_TEST_ENV", "fallback"); got != "fallback" {
		t.Errorf("expected fallback, got %q", got)
	}
	t.Setenv("MATHEVAL_TEST_ENV", "set")
	if got := envOrDefault("MATHEVAL_TEST_ENV", "fallback"); got != "set" {
		t.Errorf("expected set, got %q", got)
	}
}
