// Package persistence saves and restores whole sessions. A slot directory
// holds the primary save, a rotating set of timestamped backups and a
// human-readable summary. Writes are staged in a temporary file and renamed
// into place, so a failed save never damages the previous one.
package persistence

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tatianab/gacha-rooms/internal/engine"
	"github.com/tatianab/gacha-rooms/internal/gameerr"
	"github.com/tatianab/gacha-rooms/internal/models"
	"github.com/tatianab/gacha-rooms/internal/validate"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDir         = ".saves"
	DefaultSlot        = "current"
	DefaultBackupLimit = 5

	SaveFileName    = "save.yaml"
	SummaryFileName = "summary.txt"
	BackupDirName   = "backups"
	corruptFileName = "save.corrupt.yaml"

	backupPrefix     = "save-"
	backupSuffix     = ".yaml"
	backupTimeFormat = "20060102T150405.000000000Z"

	formatVersion = 1
)

// Recovery outcomes reported in save_corrupted errors.
const (
	RecoveryRestored  = "restored"
	RecoveryFailed    = "failed"
	RecoveryNotNeeded = "not_needed"
)

// ErrNoBackup is returned when a restore is requested but no backup exists.
var ErrNoBackup = errors.New("no backup available")

// ErrNoSave is returned when a backup is requested but nothing is saved.
var ErrNoSave = errors.New("no save to back up")

var _ engine.Store = (*Manager)(nil)

type saveFile struct {
	Version int                 `yaml:"version"`
	SavedAt time.Time           `yaml:"saved_at"`
	Session models.GameSnapshot `yaml:"session"`
}

// Backup describes one backup file.
type Backup struct {
	Name    string
	Path    string
	ModTime time.Time
}

// Manager owns one save slot directory.
type Manager struct {
	dir         string
	backupLimit int
	logger      *log.Logger
	now         func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithBackupLimit sets how many backups are kept.
func WithBackupLimit(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.backupLimit = n
		}
	}
}

func WithLogger(l *log.Logger) Option { return func(m *Manager) { m.logger = l } }

func WithClock(now func() time.Time) Option { return func(m *Manager) { m.now = now } }

// NewManager creates a manager for the slot directory dir.
func NewManager(dir string, opts ...Option) *Manager {
	m := &Manager{
		dir:         dir,
		backupLimit: DefaultBackupLimit,
		logger:      log.Default(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Dir returns the slot directory.
func (m *Manager) Dir() string { return m.dir }

func (m *Manager) savePath() string    { return filepath.Join(m.dir, SaveFileName) }
func (m *Manager) summaryPath() string { return filepath.Join(m.dir, SummaryFileName) }
func (m *Manager) backupDir() string   { return filepath.Join(m.dir, BackupDirName) }

// Exists reports whether a primary save is present.
func (m *Manager) Exists() bool {
	info, err := os.Stat(m.savePath())
	return err == nil && info.Mode().IsRegular()
}

// Save encodes the session, backs up the current save, then writes the new
// one in its place. A session that cannot be encoded leaves the slot
// untouched. A failed write re-establishes the previous save from the
// backup just taken, and the returned save_corrupted error says whether
// that worked.
func (m *Manager) Save(state *models.GameState) error {
	if state == nil {
		return fmt.Errorf("save: nil session")
	}
	if err := os.MkdirAll(m.dir, 0755); err != nil {
		return fmt.Errorf("create save dir: %w", err)
	}

	data, err := encode(state, m.now())
	if err != nil {
		return gameerr.SaveCorrupted("encode", RecoveryNotNeeded, err)
	}

	var backup string
	if m.Exists() {
		b, err := m.CreateBackup()
		if err != nil {
			return gameerr.SaveCorrupted("backup", RecoveryNotNeeded, err)
		}
		backup = b
	}
	if err := writeAtomic(m.savePath(), data); err != nil {
		return m.rollback("write", backup, err)
	}

	if err := writeAtomic(m.summaryPath(), []byte(Summary(state))); err != nil {
		m.logger.Printf("write save summary: %v", err)
	}
	return nil
}

func (m *Manager) rollback(step, backup string, cause error) error {
	if backup == "" {
		return gameerr.SaveCorrupted(step, RecoveryNotNeeded, cause)
	}
	if err := copyFile(backup, m.savePath()); err != nil {
		m.logger.Printf("restore %s after failed save: %v", filepath.Base(backup), err)
		return gameerr.SaveCorrupted(step, RecoveryFailed, errors.Join(cause, err))
	}
	m.logger.Printf("save failed at %s; previous save restored from %s", step, filepath.Base(backup))
	return gameerr.SaveCorrupted(step, RecoveryRestored, cause)
}

// Load reads the primary save into a new session graph. It returns
// (nil, nil) when nothing is saved. A save that cannot be decoded is set
// aside and the most recent backup is tried once.
func (m *Manager) Load() (*models.GameState, error) {
	data, err := os.ReadFile(m.savePath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, gameerr.SaveCorrupted("read", "", err)
	}
	state, decodeErr := decode(data)
	if decodeErr == nil {
		return state, nil
	}
	m.logger.Printf("save is corrupted: %v", decodeErr)

	backups, err := m.Backups()
	if err != nil || len(backups) == 0 {
		return nil, gameerr.SaveCorrupted("no_backup", RecoveryFailed, errors.Join(decodeErr, err))
	}
	if err := copyFile(m.savePath(), filepath.Join(m.dir, corruptFileName)); err != nil {
		m.logger.Printf("keep corrupted save: %v", err)
	}
	if err := copyFile(backups[0].Path, m.savePath()); err != nil {
		return nil, gameerr.SaveCorrupted("restore_backup", RecoveryFailed, errors.Join(decodeErr, err))
	}
	data, err = os.ReadFile(m.savePath())
	if err != nil {
		return nil, gameerr.SaveCorrupted("restore_backup", RecoveryFailed, errors.Join(decodeErr, err))
	}
	state, err = decode(data)
	if err != nil {
		return nil, gameerr.SaveCorrupted("decode_backup", RecoveryFailed, errors.Join(decodeErr, err))
	}
	m.logger.Printf("loaded from backup %s", backups[0].Name)
	return state, nil
}

// CreateBackup copies the primary save into the backup directory under a
// timestamped name and evicts the oldest backups beyond the limit.
func (m *Manager) CreateBackup() (string, error) {
	if !m.Exists() {
		return "", ErrNoSave
	}
	if err := os.MkdirAll(m.backupDir(), 0755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	ts := m.now().UTC()
	stamp := ts.Format(backupTimeFormat)
	name := backupPrefix + stamp + backupSuffix
	if seq := m.nextBackupSeq(stamp); seq > 0 {
		name = fmt.Sprintf("%s%s-%d%s", backupPrefix, stamp, seq, backupSuffix)
	}
	path := filepath.Join(m.backupDir(), name)
	if err := copyFile(m.savePath(), path); err != nil {
		return "", fmt.Errorf("copy save to backup: %w", err)
	}
	if err := os.Chtimes(path, ts, ts); err != nil {
		m.logger.Printf("stamp backup %s: %v", filepath.Base(path), err)
	}
	m.logger.Printf("backup created: %s", filepath.Base(path))

	if err := m.rotate(); err != nil {
		m.logger.Printf("rotate backups: %v", err)
	}
	return path, nil
}

// nextBackupSeq returns the counter for a new backup with the given
// timestamp: one past the highest already present, or 0 when none is.
func (m *Manager) nextBackupSeq(stamp string) int {
	backups, err := m.Backups()
	if err != nil {
		return 0
	}
	seq := 0
	for _, b := range backups {
		if s, n := backupOrder(b.Name); s == stamp && n+1 > seq {
			seq = n + 1
		}
	}
	return seq
}

func (m *Manager) rotate() error {
	backups, err := m.Backups()
	if err != nil {
		return err
	}
	if len(backups) <= m.backupLimit {
		return nil
	}
	var errs []error
	for _, b := range backups[m.backupLimit:] {
		if err := os.Remove(b.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
			continue
		}
		m.logger.Printf("backup evicted: %s", b.Name)
	}
	return errors.Join(errs...)
}

// Backups lists the backups, newest first.
func (m *Manager) Backups() ([]Backup, error) {
	entries, err := os.ReadDir(m.backupDir())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var out []Backup
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, backupPrefix) || !strings.HasSuffix(name, backupSuffix) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, Backup{
			Name:    name,
			Path:    filepath.Join(m.backupDir(), name),
			ModTime: info.ModTime(),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ModTime.Equal(out[j].ModTime) {
			return out[i].ModTime.After(out[j].ModTime)
		}
		si, ni := backupOrder(out[i].Name)
		sj, nj := backupOrder(out[j].Name)
		if si != sj {
			return si > sj
		}
		return ni > nj
	})
	return out, nil
}

// backupOrder splits a backup name into its timestamp and the counter added
// when several backups share a timestamp. The first one has counter 0.
func backupOrder(name string) (string, int) {
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, backupPrefix), backupSuffix)
	if i := strings.LastIndexByte(stamp, '-'); i >= 0 {
		if n, err := strconv.Atoi(stamp[i+1:]); err == nil {
			return stamp[:i], n
		}
	}
	return stamp, 0
}

// RestoreMostRecentBackup copies the newest backup over the primary save.
func (m *Manager) RestoreMostRecentBackup() (string, error) {
	backups, err := m.Backups()
	if err != nil {
		return "", err
	}
	if len(backups) == 0 {
		return "", ErrNoBackup
	}
	if err := os.MkdirAll(m.dir, 0755); err != nil {
		return "", fmt.Errorf("create save dir: %w", err)
	}
	if err := copyFile(backups[0].Path, m.savePath()); err != nil {
		return "", fmt.Errorf("restore %s: %w", backups[0].Name, err)
	}
	m.logger.Printf("restored save from %s", backups[0].Name)
	return backups[0].Path, nil
}

// DeleteSave removes the primary save and its summary. Backups are kept.
func (m *Manager) DeleteSave() error {
	for _, p := range []string{m.savePath(), m.summaryPath()} {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// ListSlots returns the slot directories under root that hold a save.
func ListSlots(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	var slots []string
	for _, entry := range entries {
		if entry.IsDir() && fileExists(filepath.Join(root, entry.Name(), SaveFileName)) {
			slots = append(slots, entry.Name())
		}
	}
	return slots, nil
}

func encode(state *models.GameState, now time.Time) ([]byte, error) {
	return yaml.Marshal(saveFile{
		Version: formatVersion,
		SavedAt: now.UTC(),
		Session: state.Snapshot(),
	})
}

func decode(data []byte) (*models.GameState, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var f saveFile
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode save: %w", err)
	}
	if f.Version != formatVersion {
		return nil, fmt.Errorf("unsupported save version %d", f.Version)
	}
	state, err := models.RestoreGameState(f.Session)
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	if issues := validate.Check(state); len(issues) > 0 {
		return nil, fmt.Errorf("invalid session: %s", strings.Join(issues, "; "))
	}
	return state, nil
}

// writeAtomic writes data next to path and renames it into place.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return err
	}
	return nil
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return writeAtomic(dst, data)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
