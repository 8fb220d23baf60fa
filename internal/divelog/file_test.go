package divelog_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/p-n-ai/deepblue/internal/divelog"
)

func TestFileKV_RoundTrip(t *testing.T) {
	kv, err := divelog.NewFileKV(filepath.Join(t.TempDir(), "data"))
	if err != nil {
		t.Fatalf("NewFileKV() error = %v", err)
	}
	exerciseRoundTrip(t, kv)
}

func TestFileKV_MissingKey(t *testing.T) {
	kv, _ := divelog.NewFileKV(t.TempDir())

	_, found, err := kv.Get(context.Background(), "nothing")
	if err != nil || found {
		t.Errorf("Get() = found %v err %v, want not found", found, err)
	}
}

func TestFileKV_ReplaceLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	kv, _ := divelog.NewFileKV(dir)
	ctx := context.Background()

	kv.Set(ctx, divelog.StorageKey, []byte(`[]`))
	kv.Set(ctx, divelog.StorageKey, []byte(`[{"id":"1"}]`))

	got, _, _ := kv.Get(ctx, divelog.StorageKey)
	if string(got) != `[{"id":"1"}]` {
		t.Errorf("Get() = %s, want latest value", got)
	}

	files, _ := os.ReadDir(dir)
	if len(files) != 1 || files[0].Name() != divelog.StorageKey+".json" {
		names := make([]string, len(files))
		for i, f := range files {
			names[i] = f.Name()
		}
		t.Errorf("dir contents = %v, want only %s.json", names, divelog.StorageKey)
	}
}

func TestNewFileKV_EmptyDir(t *testing.T) {
	if _, err := divelog.NewFileKV(""); err == nil {
		t.Error("NewFileKV(\"\") should fail")
	}
}
