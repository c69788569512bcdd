// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"archive/tar"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"pongpack/internal/testutil"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"golang.org/x/exp/slices"
)

// stagingFixture mirrors the layout of an assembled package.
var stagingFixture = map[string]string{
	"pong-debug.x86":             "debug build",
	"pong-release.x86":           "release build",
	"README.txt":                 "read me",
	"doc/manual.html":            "<html></html>",
	"data/fonts/orbitron.ttf":    "font bytes",
	"user_data/main.yaml":        "video: {width: 800}",
	"user_data/nested/deep/a.sh": "#!/bin/sh\n",
}

func makeTree(t *testing.T, files map[string]string) string {
	t.Helper()

	root := filepath.Join(t.TempDir(), "dpong-pkg")
	testutil.WriteTree(t, root, files)
	return root
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func TestZip_RoundTrip(t *testing.T) {
	t.Parallel()

	dir := makeTree(t, stagingFixture)

	archivePath, err := Zip(dir)
	if err != nil {
		t.Fatalf("Zip() error = %v", err)
	}
	if archivePath != dir+".zip" {
		t.Errorf("Zip() path = %q, want %q", archivePath, dir+".zip")
	}

	r, err := zip.OpenReader(archivePath)
	if err != nil {
		t.Fatalf("failed to open zip: %v", err)
	}
	defer r.Close()

	got := make(map[string]string)
	for _, f := range r.File {
		if f.Method != zip.Deflate {
			t.Errorf("%s: method = %d, want Deflate", f.Name, f.Method)
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open member %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read member %s: %v", f.Name, err)
		}
		got[f.Name] = string(data)
	}

	if !slices.Equal(sortedKeys(got), sortedKeys(stagingFixture)) {
		t.Fatalf("zip members = %v, want %v", sortedKeys(got), sortedKeys(stagingFixture))
	}
	for name, want := range stagingFixture {
		if got[name] != want {
			t.Errorf("member %s = %q, want %q", name, got[name], want)
		}
	}
}

func TestTgz_RoundTrip(t *testing.T) {
	t.Parallel()

	dir := makeTree(t, stagingFixture)
	if err := os.Chmod(filepath.Join(dir, "user_data", "nested", "deep", "a.sh"), 0o755); err != nil {
		t.Fatal(err)
	}

	archivePath, err := Tgz(dir)
	if err != nil {
		t.Fatalf("Tgz() error = %v", err)
	}
	if archivePath != dir+".tgz" {
		t.Errorf("Tgz() path = %q, want %q", archivePath, dir+".tgz")
	}

	f, err := os.Open(archivePath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("gzip.NewReader() error = %v", err)
	}
	tr := tar.NewReader(gz)

	files := make(map[string]string)
	dirs := make(map[string]bool)
	var first string
	modes := make(map[string]fs.FileMode)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("tar.Next() error = %v", err)
		}
		if first == "" {
			first = hdr.Name
		}
		switch hdr.Typeflag {
		case tar.TypeDir:
			dirs[hdr.Name] = true
		case tar.TypeReg:
			data, err := io.ReadAll(tr)
			if err != nil {
				t.Fatal(err)
			}
			files[hdr.Name] = string(data)
			modes[hdr.Name] = hdr.FileInfo().Mode().Perm()
		}
	}

	if first != "dpong-pkg/" {
		t.Errorf("first entry = %q, want the package directory", first)
	}
	for _, d := range []string{"dpong-pkg/", "dpong-pkg/doc/", "dpong-pkg/data/fonts/", "dpong-pkg/user_data/nested/deep/"} {
		if !dirs[d] {
			t.Errorf("missing directory entry %q", d)
		}
	}
	for rel, want := range stagingFixture {
		name := "dpong-pkg/" + rel
		if files[name] != want {
			t.Errorf("member %s = %q, want %q", name, files[name], want)
		}
	}
	if len(files) != len(stagingFixture) {
		t.Errorf("tgz holds %d files, want %d", len(files), len(stagingFixture))
	}
	if modes["dpong-pkg/user_data/nested/deep/a.sh"] != 0o755 {
		t.Errorf("executable mode not preserved: %v", modes["dpong-pkg/user_data/nested/deep/a.sh"])
	}
}

func TestArchive_TrailingSeparator(t *testing.T) {
	t.Parallel()

	dir := makeTree(t, map[string]string{"README.txt": "x"})

	for name, fn := range map[string]Func{"zip": Zip, "tgz": Tgz} {
		got, err := fn(dir + string(filepath.Separator))
		if err != nil {
			t.Fatalf("%s: error = %v", name, err)
		}
		if got != dir+"."+name {
			t.Errorf("%s: path = %q, want %q", name, got, dir+"."+name)
		}
	}
}

func TestArchive_MissingDirectory(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "nope")
	for name, fn := range map[string]Func{"zip": Zip, "tgz": Tgz} {
		if _, err := fn(missing); !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("%s: error = %v, want fs.ErrNotExist", name, err)
		}
		if _, err := os.Stat(missing + "." + name); !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("%s: archive should not be created for a missing directory", name)
		}
	}
}

func TestArchive_UnreadableFileRemovesPartialOutput(t *testing.T) {
	t.Parallel()

	if os.Geteuid() == 0 {
		t.Skip("root can read files regardless of permissions")
	}

	dir := makeTree(t, map[string]string{"secret.bin": "x"})
	if err := os.Chmod(filepath.Join(dir, "secret.bin"), 0o000); err != nil {
		t.Fatal(err)
	}

	for name, fn := range map[string]Func{"zip": Zip, "tgz": Tgz} {
		got, err := fn(dir)
		if err == nil {
			t.Fatalf("%s: expected an error for an unreadable file", name)
		}
		if got != "" {
			t.Errorf("%s: path = %q on failure, want empty", name, got)
		}
		if _, statErr := os.Stat(dir + "." + name); !errors.Is(statErr, fs.ErrNotExist) {
			t.Errorf("%s: partial archive left behind", name)
		}
	}
}
