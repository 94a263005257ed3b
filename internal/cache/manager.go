package cache

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
)

// Manager looks up the memory tier first, then disk, promoting disk hits
// into memory. The disk tier is optional.
type Manager struct {
	memory *MemoryCache
	disk   *DiskCache
}

// Options configures a Manager.
type Options struct {
	MemoryCapacity   int64  // Bytes
	DiskCapacity     int64  // Bytes; zero disables the disk tier
	DiskPath         string // Directory for the disk tier
	CompressionLevel int    // Zstd level, zero disables compression
}

// NewManager creates a two-level cache.
func NewManager(opts Options) (*Manager, error) {
	m := &Manager{memory: NewMemoryCache(opts.MemoryCapacity)}

	if opts.DiskCapacity > 0 && opts.DiskPath != "" {
		disk, err := NewDiskCache(opts.DiskPath, opts.DiskCapacity, opts.CompressionLevel)
		if err != nil {
			return nil, fmt.Errorf("disk cache: %w", err)
		}
		m.disk = disk
	}

	log.Debug("Audio cache ready",
		"memory", humanize.IBytes(uint64(opts.MemoryCapacity)),
		"disk", humanize.IBytes(uint64(opts.DiskCapacity)),
		"path", opts.DiskPath)
	return m, nil
}

// Get returns a cached value and the tier it came from.
func (m *Manager) Get(key string) ([]byte, Level, bool) {
	if v, ok := m.memory.Get(key); ok {
		return v, LevelMemory, true
	}
	if m.disk == nil {
		return nil, LevelMemory, false
	}

	v, ok := m.disk.Get(key)
	if !ok {
		return nil, LevelDisk, false
	}
	if err := m.memory.Put(key, v); err != nil {
		log.Debug("Cache promotion skipped", "key", key, "error", err)
	}
	return v, LevelDisk, true
}

// Put stores value in every tier. A value too large for memory still goes
// to disk.
func (m *Manager) Put(key string, value []byte) error {
	memErr := m.memory.Put(key, value)
	if m.disk == nil {
		return memErr
	}
	if err := m.disk.Put(key, value); err != nil {
		return err
	}
	return nil
}

// Summary returns a human-readable line describing cache usage.
func (m *Manager) Summary() string {
	mem := m.memory.Stats()
	s := fmt.Sprintf("memory %s/%s (%d items, %.0f%% hits)",
		humanize.IBytes(uint64(mem.Size)), humanize.IBytes(uint64(mem.Capacity)),
		mem.ItemCount, mem.HitRate()*100)
	if m.disk != nil {
		disk := m.disk.Stats()
		s += fmt.Sprintf(", disk %s/%s (%d items)",
			humanize.IBytes(uint64(disk.Size)), humanize.IBytes(uint64(disk.Capacity)), disk.ItemCount)
	}
	return s
}

// Close flushes the disk index.
func (m *Manager) Close() error {
	log.Debug("Closing audio cache", "usage", m.Summary())
	if m.disk != nil {
		return m.disk.Close()
	}
	return nil
}
