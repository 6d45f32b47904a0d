package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const fixtureUA = `<algebra>
<name>B2</name>
<cardinality>2</cardinality>
<basicAlgebra>
<op>
<name>f</name>
<arity>2</arity>
<opTable>
0
0
0
1
</opTable>
</op>
</basicAlgebra>
</algebra>
`

func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "b2.ua")
	if err := os.WriteFile(path, []byte(fixtureUA), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// captureStdout redirects os.Stdout for the duration of fn and returns
// everything written to it.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stdout = w
	fn()
	w.Close()
	os.Stdout = orig
	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

func TestRunReadCommand(t *testing.T) {
	path := writeFixture(t)
	var code int
	out := captureStdout(t, func() {
		code = run([]string{"read", "--in", path})
	})
	if code != 0 {
		t.Fatalf("exit code = %d, want 0; output: %s", code, out)
	}
	if !strings.Contains(out, `"name":"B2"`) {
		t.Fatalf("output missing algebra name: %s", out)
	}
}

func TestRunUnknownCommandExits2(t *testing.T) {
	var code int
	captureStdout(t, func() {
		code = run([]string{"bogus"})
	})
	if code != 2 {
		t.Fatalf("exit code = %d, want 2", code)
	}
}

func TestRunMissingRequiredFlagExits2(t *testing.T) {
	path := writeFixture(t)
	var code int
	captureStdout(t, func() {
		code = run([]string{"cg", "--in", path})
	})
	if code != 2 {
		t.Fatalf("exit code = %d, want 2 (a missing required flag is an argument parse error)", code)
	}
}

func TestRunMalformedFlagsExits2(t *testing.T) {
	var code int
	captureStdout(t, func() {
		code = run([]string{"read", "--in"})
	})
	if code != 2 {
		t.Fatalf("exit code = %d, want 2", code)
	}
}

func TestRunCgCommand(t *testing.T) {
	path := writeFixture(t)
	var code int
	out := captureStdout(t, func() {
		code = run([]string{"cg", "--in", path, "--x", "0", "--y", "1"})
	})
	if code != 0 {
		t.Fatalf("exit code = %d, want 0; output: %s", code, out)
	}
	if !strings.Contains(out, `"command":"cg"`) {
		t.Fatalf("output missing command field: %s", out)
	}
}

func TestRunEvalCommand(t *testing.T) {
	path := writeFixture(t)
	var code int
	out := captureStdout(t, func() {
		code = run([]string{"eval", "--in", path, "--term", "f(x,y)", "--args", "1,1"})
	})
	if code != 0 {
		t.Fatalf("exit code = %d, want 0; output: %s", code, out)
	}
	if !strings.Contains(out, `"value":1`) {
		t.Fatalf("expected f(1,1)=1 (AND), got: %s", out)
	}
}

func TestParseFlagsRejectsOddArgs(t *testing.T) {
	if _, err := parseFlags([]string{"--in"}); err == nil {
		t.Fatal("expected an error for a flag with no value")
	}
}

func TestParseFlagsRejectsNonFlagToken(t *testing.T) {
	if _, err := parseFlags([]string{"notaflag", "value"}); err == nil {
		t.Fatal("expected an error for a token not starting with --")
	}
}

func TestParseIntCSV(t *testing.T) {
	got, err := parseIntCSV("1, 2,3")
	if err != nil {
		t.Fatal(err)
	}
	want := []int{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
