package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func tempData(t *testing.T) *FS {
	t.Helper()
	dir := t.TempDir()
	fs, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRead(t *testing.T) {
	s := tempData(t)
	writeFile(t, s.Root(), "objectives.yaml", "members: []\n")
	got, err := s.Read("objectives.yaml")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "members: []\n" {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestReadNested(t *testing.T) {
	s := tempData(t)
	writeFile(t, s.Root(), "avatars/a.png", "png")
	got, err := s.Read("avatars/a.png")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "png" {
		t.Errorf("content = %q", got)
	}
}

func TestStat(t *testing.T) {
	s := tempData(t)
	writeFile(t, s.Root(), "objectives.yaml", "a")
	meta, err := s.Stat("objectives.yaml")
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if meta.Size != 1 {
		t.Errorf("size = %d, want 1", meta.Size)
	}
	if len(meta.Checksum) != 64 {
		t.Errorf("checksum = %q", meta.Checksum)
	}

	writeFile(t, s.Root(), "objectives.yaml", "b")
	meta2, _ := s.Stat("objectives.yaml")
	if meta2.Checksum == meta.Checksum {
		t.Error("checksum did not change with content")
	}
}

func TestStatDirectory(t *testing.T) {
	s := tempData(t)
	if err := os.Mkdir(filepath.Join(s.Root(), "avatars"), 0o755); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Stat("avatars"); err == nil {
		t.Error("expected error for directory")
	}
}

func TestTraversalBlocked(t *testing.T) {
	s := tempData(t)

	cases := []string{
		"../../etc/passwd",
		"../outside.yaml",
		"/etc/shadow",
		"",
	}
	for _, p := range cases {
		if _, err := s.Read(p); err == nil {
			t.Errorf("expected error for path %q", p)
		}
		if _, err := s.Stat(p); err == nil {
			t.Errorf("expected stat error for path %q", p)
		}
	}
}

func TestNewFS_NonExistentDir(t *testing.T) {
	_, err := NewFS("/tmp/tiwaz-does-not-exist-" + t.Name())
	if err == nil {
		t.Error("expected error for non-existent dir")
	}
}

func TestNewFS_FileNotDir(t *testing.T) {
	f, _ := os.CreateTemp("", "tiwaz-test-*")
	_ = f.Close()
	defer os.Remove(f.Name())
	_, err := NewFS(f.Name())
	if err == nil {
		t.Error("expected error when root is a file")
	}
}

func TestSampleProvider(t *testing.T) {
	p := Sample()
	if p.Root() != "" {
		t.Errorf("Root = %q, want empty", p.Root())
	}
	data, err := p.Read(SampleFile)
	if err != nil {
		t.Fatalf("Read sample: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("sample dataset is empty")
	}
	meta, err := p.Stat(SampleFile)
	if err != nil {
		t.Fatalf("Stat sample: %v", err)
	}
	if meta.Size != int64(len(data)) {
		t.Errorf("size = %d, want %d", meta.Size, len(data))
	}
	if _, err := p.Read("../go.mod"); err == nil {
		t.Error("expected error for invalid embedded path")
	}
}
