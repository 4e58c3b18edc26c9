package rotation

import (
	"os"
	"path/filepath"
	"testing"
)

func readFile(t *testing.T, name string) string {
	t.Helper()
	b, err := os.ReadFile(name)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestRotate(t *testing.T) {
	base := filepath.Join(t.TempDir(), "askd.log")
	f := Create(base, 10, 2)

	for _, s := range []string{"one\n", "two\n", "six\n"} {
		if _, err := f.Write([]byte(s)); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	if got := readFile(t, base+".1"); got != "one\ntwo\n" {
		t.Errorf("%s.1 = %q want %q", base, got, "one\ntwo\n")
	}
	if got := readFile(t, base); got != "six\n" {
		t.Errorf("%s = %q want %q", base, got, "six\n")
	}
}

func TestPartialLine(t *testing.T) {
	base := filepath.Join(t.TempDir(), "askd.log")
	f := Create(base, 1<<20, 1)

	f.Write([]byte("hel"))
	if _, err := os.Stat(base); !os.IsNotExist(err) {
		t.Errorf("partial line written early, stat err = %v", err)
	}
	f.Write([]byte("lo\nwor"))
	if got := readFile(t, base); got != "hello\n" {
		t.Errorf("got %q want %q", got, "hello\n")
	}
	f.Close()
	if got := readFile(t, base); got != "hello\nwor\n" {
		t.Errorf("after Close got %q want %q", got, "hello\nwor\n")
	}
}
