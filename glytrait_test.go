package glytrait

import (
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"testing"
)

func TestDetectDataType(t *testing.T) {
	for _, v := range []struct {
		Name     string
		Data     []byte
		Expected DataType
	}{
		{"gzip", []byte{0x1f, 0x8b, 0x08, 0x00, 0x00, 0x00}, DataTypeGzip},
		{"zip", []byte{0x50, 0x4b, 0x03, 0x04, 0x14, 0x00}, DataTypeZip},
		{"xz", []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}, DataTypeXZ},
		{"bzip2", []byte("BZh91AY"), DataTypeBZip2},
		{"plain", []byte("Structure,nN,nF\n"), DataTypeNoCompression},
		{"short", []byte("ab"), DataTypeNoCompression},
		{"empty", nil, DataTypeNoCompression},
	} {
		dt, err := DetectDataType(bytes.NewReader(v.Data))
		if err != nil {
			t.Fatal(err)
		}
		if dt != v.Expected {
			t.Errorf("%s: got %v, expected %v", v.Name, dt, v.Expected)
		}
	}
}

func TestOpenMaybeCompressed(t *testing.T) {
	const contents = "Structure\tnN\nA\t2\n"
	dir := t.TempDir()

	plain := filepath.Join(dir, "plain.tsv")
	if err := os.WriteFile(plain, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	zw.Write([]byte(contents))
	zw.Close()
	compressed := filepath.Join(dir, "compressed.tsv.gz")
	if err := os.WriteFile(compressed, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{plain, compressed} {
		rdr, err := OpenMaybeCompressed(path)
		if err != nil {
			t.Fatal(err)
		}
		got, err := io.ReadAll(rdr)
		if err != nil {
			t.Fatal(err)
		}
		if err := rdr.Close(); err != nil {
			t.Error(err)
		}
		if string(got) != contents {
			t.Errorf("%s: got %q", path, got)
		}
	}

	if _, err := OpenMaybeCompressed(filepath.Join(dir, "absent")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestDetermineDelimiter(t *testing.T) {
	for _, v := range []struct {
		Name     string
		Sample   string
		Fallback rune
		Expected rune
	}{
		{"comma", "Structure,nN,nF,s1\nA,2,0,0.5\nB,4,1,0.5", '\t', ','},
		{"tab", "Structure\tnN\tnF\ts1\nA\t2\t0\t0.5\nB\t4\t1\t0.5", ',', '\t'},
		{"semicolon", "Structure;nN;nF;s1\nA;2;0;0.5\nB;4;1;0.5", ',', ';'},
		{"single column", "Structure\nA\nB", '\t', '\t'},
	} {
		if got := DetermineDelimiter([]byte(v.Sample), v.Fallback); got != v.Expected {
			t.Errorf("%s: got %q, expected %q", v.Name, got, v.Expected)
		}
	}
}

func TestExpandHome(t *testing.T) {
	usr, err := user.Current()
	if err != nil {
		t.Skip("no current user:", err)
	}

	for _, v := range []struct {
		In, Expected string
	}{
		{"~", usr.HomeDir},
		{"~/traits.tsv", filepath.Join(usr.HomeDir, "traits.tsv")},
		{"/data/~/traits.tsv", "/data/~/traits.tsv"},
		{"~other/traits.tsv", "~other/traits.tsv"},
		{"", ""},
	} {
		if got := ExpandHome(v.In); got != v.Expected {
			t.Errorf("%q: got %q, expected %q", v.In, got, v.Expected)
		}
	}
}
