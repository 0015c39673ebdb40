package archive

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"SpaceColony/internal/colony/entity"
	"SpaceColony/internal/colony/entity/domain"
)

func sampleSnapshot(t *testing.T, nowMs int64, version uint64) *entity.SimulationPersistSnapshot {
	t.Helper()
	sim := entity.NewSimulation("sim/arch", entity.DefaultRules(), nowMs)
	id := sim.AddShip(domain.CargoShip, domain.Home)
	if err := sim.LoadCargo(id, domain.Cargo{Food: 3, Metal: 2}); err != nil {
		t.Fatalf("load cargo: %v", err)
	}
	return sim.Export(version)
}

func TestWriter_两种编码都能读回且摘要一致(t *testing.T) {
	for _, codec := range []Codec{CodecZstd, CodecLZ4} {
		w := NewWriter(t.TempDir(), codec, 5)
		snap := sampleSnapshot(t, 1000, 3)
		info, err := w.Write(context.Background(), snap)
		if err != nil {
			t.Fatalf("%s write: %v", codec, err)
		}
		if filepath.Base(filepath.Dir(info.Path)) != "sim_arch" {
			t.Fatalf("sim_id 应被清洗成目录名，got=%s", info.Path)
		}
		h, back, err := Read(info.Path)
		if err != nil {
			t.Fatalf("%s read: %v", codec, err)
		}
		if h.Digest != info.Digest || h.Codec != codec {
			t.Fatalf("header 不对: %+v", h)
		}
		if !reflect.DeepEqual(snap.Ships, back.Ships) || back.Version != 3 {
			t.Fatalf("%s 读回内容不同", codec)
		}
	}
}

func TestRead_内容被篡改时报摘要错误(t *testing.T) {
	w := NewWriter(t.TempDir(), CodecLZ4, 5)
	info, err := w.Write(context.Background(), sampleSnapshot(t, 1000, 1))
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	raw, _ := os.ReadFile(info.Path)
	tampered := append([]byte(`{"sim_id":"sim/arch","version":1,"now_ms":1000,"codec":"lz4","blake3":"00"}`+"\n"), raw[indexNewline(raw)+1:]...)
	if err := os.WriteFile(info.Path, tampered, 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if _, _, err := Read(info.Path); !errors.Is(err, ErrDigestMismatch) {
		t.Fatalf("期望 ErrDigestMismatch，got=%v", err)
	}
}

func indexNewline(b []byte) int {
	for i, c := range b {
		if c == '\n' {
			return i
		}
	}
	return -1
}

func TestWriter_只保留最近keep份(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, CodecZstd, 2)
	for i := int64(1); i <= 4; i++ {
		if _, err := w.Write(context.Background(), sampleSnapshot(t, i*1000, uint64(i))); err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
	}
	entries, err := os.ReadDir(filepath.Join(dir, "sim_arch"))
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 2 || entries[0].Name() != "3000-v3.json.zst" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("保留文件不对: %v", names)
	}
}
