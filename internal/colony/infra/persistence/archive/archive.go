package archive

import (
	"bufio"
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"SpaceColony/internal/colony/app/port"
	"SpaceColony/internal/colony/entity"
	"SpaceColony/internal/colony/infra/persistence/mapper"
	"SpaceColony/internal/colony/infra/persistence/model"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"lukechampine.com/blake3"
)

type Codec string

const (
	CodecZstd Codec = "zstd"
	CodecLZ4  Codec = "lz4"
)

func (c Codec) ext() string {
	if c == CodecLZ4 {
		return ".json.lz4"
	}
	return ".json.zst"
}

// ErrDigestMismatch 归档内容和头里的摘要对不上。
var ErrDigestMismatch = errors.New("archive digest mismatch")

// Header 文件第一行（未压缩的 JSON），后面是压缩后的平铺记录。
type Header struct {
	SimID   string `json:"sim_id"`
	Version uint64 `json:"version"`
	NowMs   int64  `json:"now_ms"`
	Codec   Codec  `json:"codec"`
	Digest  string `json:"blake3"`
}

// Writer 把快照写成 <dir>/<sim_id>/<now_ms>-v<version><ext>，每个模拟保留最近 keep 份。
type Writer struct {
	dir   string
	codec Codec
	keep  int
}

var _ port.ArchiveWriter = (*Writer)(nil)

func NewWriter(dir string, codec Codec, keep int) *Writer {
	if codec != CodecLZ4 {
		codec = CodecZstd
	}
	if keep <= 0 {
		keep = 24
	}
	return &Writer{dir: dir, codec: codec, keep: keep}
}

func (w *Writer) Write(ctx context.Context, s *entity.SimulationPersistSnapshot) (port.ArchiveInfo, error) {
	if s == nil {
		return port.ArchiveInfo{}, errors.New("archive: nil snapshot")
	}
	if err := ctx.Err(); err != nil {
		return port.ArchiveInfo{}, err
	}

	raw, err := json.Marshal(mapper.SnapshotToRecords(s))
	if err != nil {
		return port.ArchiveInfo{}, err
	}
	sum := blake3.Sum256(raw)
	h := Header{SimID: string(s.SimID), Version: s.Version, NowMs: s.NowMs, Codec: w.codec, Digest: hex.EncodeToString(sum[:])}

	body, err := compress(w.codec, raw)
	if err != nil {
		return port.ArchiveInfo{}, err
	}
	hb, _ := json.Marshal(h)

	simDir := filepath.Join(w.dir, sanitize(h.SimID))
	if err := os.MkdirAll(simDir, 0o755); err != nil {
		return port.ArchiveInfo{}, err
	}
	path := filepath.Join(simDir, fmt.Sprintf("%d-v%d%s", s.NowMs, s.Version, w.codec.ext()))
	tmp := path + ".tmp"

	var buf bytes.Buffer
	buf.Grow(len(hb) + 1 + len(body))
	buf.Write(hb)
	buf.WriteByte('\n')
	buf.Write(body)
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return port.ArchiveInfo{}, err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return port.ArchiveInfo{}, err
	}
	w.prune(simDir)
	return port.ArchiveInfo{Path: path, Digest: h.Digest, Bytes: buf.Len()}, nil
}

// Read 解压并校验摘要，返回可直接 Hydrate 的快照。
func Read(path string) (Header, *entity.SimulationPersistSnapshot, error) {
	var h Header
	f, err := os.Open(path)
	if err != nil {
		return h, nil, err
	}
	defer f.Close()

	br := bufio.NewReader(f)
	line, err := br.ReadBytes('\n')
	if err != nil {
		return h, nil, fmt.Errorf("archive header: %w", err)
	}
	if err := json.Unmarshal(line, &h); err != nil {
		return h, nil, fmt.Errorf("archive header: %w", err)
	}
	raw, err := decompress(h.Codec, br)
	if err != nil {
		return h, nil, err
	}
	sum := blake3.Sum256(raw)
	if hex.EncodeToString(sum[:]) != h.Digest {
		return h, nil, ErrDigestMismatch
	}
	var recs model.Records
	if err := json.Unmarshal(raw, &recs); err != nil {
		return h, nil, err
	}
	recs.Sim.SimID = h.SimID
	snap, err := mapper.RecordsToSnapshot(&recs)
	return h, snap, err
}

func compress(c Codec, raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	switch c {
	case CodecLZ4:
		zw := lz4.NewWriter(&buf)
		if _, err := zw.Write(raw); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
	default:
		enc, err := zstd.NewWriter(&buf, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, err
		}
		if _, err := enc.Write(raw); err != nil {
			_ = enc.Close()
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func decompress(c Codec, r io.Reader) ([]byte, error) {
	switch c {
	case CodecLZ4:
		return io.ReadAll(lz4.NewReader(r))
	case CodecZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		return io.ReadAll(dec)
	default:
		return nil, fmt.Errorf("archive: unknown codec %q", c)
	}
}

func (w *Writer) prune(simDir string) {
	entries, err := os.ReadDir(simDir)
	if err != nil {
		return
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || strings.HasSuffix(e.Name(), ".tmp") {
			continue
		}
		files = append(files, e.Name())
	}
	if len(files) <= w.keep {
		return
	}
	// 文件名以毫秒时间戳开头，按数值排序
	sort.Slice(files, func(i, j int) bool { return leadingInt(files[i]) < leadingInt(files[j]) })
	for _, name := range files[:len(files)-w.keep] {
		_ = os.Remove(filepath.Join(simDir, name))
	}
}

func leadingInt(name string) int64 {
	var n int64
	for _, r := range name {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int64(r-'0')
	}
	return n
}

func sanitize(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, id)
}
