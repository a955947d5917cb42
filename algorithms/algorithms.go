// Package algorithms 按名称注册可用作打分器的压缩后端
package algorithms

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"cromulator/algorithms/brotli"
	"cromulator/algorithms/flate"
	"cromulator/algorithms/gzip"
	"cromulator/algorithms/lz4"
	"cromulator/algorithms/lz4hc"
	"cromulator/algorithms/lz77"
	"cromulator/algorithms/rangeCoding"
	"cromulator/algorithms/snappy"
	"cromulator/algorithms/xz"
	"cromulator/algorithms/zlib"
	"cromulator/algorithms/zstd"
	"cromulator/cromulator"
)

// DefaultAlgorithm 与默认级别 9 搭配
const DefaultAlgorithm = "zlib"

var (
	ErrUnknownAlgorithm = errors.New("unknown compression algorithm")
	ErrLevel            = errors.New("compression level out of range")
)

// SizeFunc 返回 src 在 level 下压缩后的字节数
type SizeFunc func(src []byte, level int) (int, error)

// Backend 一个已注册的压缩后端
type Backend struct {
	Name string
	Size SizeFunc
	// Leveled 为 false 时忽略级别
	Leveled  bool
	MinLevel int
	MaxLevel int
}

var (
	registry   = map[string]Backend{}
	registryMu sync.RWMutex
)

// Register 注册或覆盖后端
func Register(b Backend) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[b.Name] = b
}

func Get(name string) (Backend, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	b, ok := registry[name]
	return b, ok
}

// Names 已注册后端名，按字母排序
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Codec 绑定了级别的后端，实现 cromulator.Oracle
type Codec struct {
	Backend
	Level int
}

var _ cromulator.Oracle = (*Codec)(nil)

// New 查找后端并校验级别
func New(name string, level int) (*Codec, error) {
	b, ok := Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownAlgorithm, name, Names())
	}
	if b.Leveled && (level < b.MinLevel || level > b.MaxLevel) {
		return nil, fmt.Errorf("%w: %s accepts %d..%d, got %d", ErrLevel, name, b.MinLevel, b.MaxLevel, level)
	}
	return &Codec{Backend: b, Level: level}, nil
}

func (c *Codec) CompressedSize(data []byte) (int, error) {
	return c.Size(data, c.Level)
}

func (c *Codec) String() string {
	if !c.Leveled {
		return c.Name
	}
	return fmt.Sprintf("%s-%d", c.Name, c.Level)
}

func init() {
	Register(Backend{Name: "zlib", Size: zlib.CompressedSize, Leveled: true, MinLevel: zlib.MinLevel, MaxLevel: zlib.MaxLevel})
	Register(Backend{Name: "gzip", Size: gzip.CompressedSize, Leveled: true, MinLevel: gzip.MinLevel, MaxLevel: gzip.MaxLevel})
	Register(Backend{Name: "flate", Size: flate.CompressedSize, Leveled: true, MinLevel: flate.MinLevel, MaxLevel: flate.MaxLevel})
	Register(Backend{Name: "zstd", Size: zstd.CompressedSize, Leveled: true, MinLevel: zstd.MinLevel, MaxLevel: zstd.MaxLevel})
	Register(Backend{Name: "brotli", Size: brotli.CompressedSize, Leveled: true, MinLevel: brotli.MinLevel, MaxLevel: brotli.MaxLevel})
	Register(Backend{Name: "xz", Size: xz.CompressedSize, Leveled: true, MinLevel: xz.MinLevel, MaxLevel: xz.MaxLevel})
	Register(Backend{Name: "lz4", Size: lz4.CompressedSize})
	Register(Backend{Name: "lz4hc", Size: lz4hc.CompressedSize, Leveled: true, MinLevel: lz4hc.MinLevel, MaxLevel: lz4hc.MaxLevel})
	Register(Backend{Name: "snappy", Size: snappy.CompressedSize})
	Register(Backend{Name: "s2", Size: snappy.S2CompressedSize, Leveled: true, MinLevel: snappy.S2MinLevel, MaxLevel: snappy.S2MaxLevel})
	Register(Backend{Name: "lz77", Size: lz77.CompressedSize, Leveled: true, MinLevel: lz77.MinLevel, MaxLevel: lz77.MaxLevel})
	Register(Backend{Name: "range", Size: rangeCoding.CompressedSize})
}
