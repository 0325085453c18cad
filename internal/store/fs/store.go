// Package fs keeps room metadata on disk, one directory per room:
//
//	<root>/<safeName>/room.json
//	<root>/<safeName>/background.png   (optional)
package fs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dkeye/Hearth/internal/core"
	"github.com/dkeye/Hearth/internal/domain"
	"github.com/rs/zerolog/log"
)

const (
	RecordFile            = "room.json"
	DefaultBackgroundFile = "background.png"

	dirMode         = 0o755
	fileMode        = 0o644
	tempFilePattern = ".room-*.json.tmp"
)

type Store struct {
	root           string
	backgroundFile string
}

var _ core.RoomStore = (*Store)(nil)

// New makes sure root exists. An empty backgroundFile means DefaultBackgroundFile.
func New(root, backgroundFile string) (*Store, error) {
	if root == "" {
		return nil, errors.New("rooms directory is empty")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve rooms directory: %w", err)
	}
	if backgroundFile == "" {
		backgroundFile = DefaultBackgroundFile
	}
	if _, err := os.Stat(abs); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(abs, dirMode); err != nil {
			return nil, fmt.Errorf("create rooms directory: %w", err)
		}
		log.Info().Str("module", "store.fs").Str("root", abs).Msg("created rooms directory")
	} else if err != nil {
		return nil, fmt.Errorf("stat rooms directory: %w", err)
	}
	return &Store{root: abs, backgroundFile: backgroundFile}, nil
}

func (s *Store) Root() string { return s.root }

func (s *Store) BackgroundFile() string { return s.backgroundFile }

// LoadAll reads every room directory. A room whose record cannot be read
// or parsed is logged and skipped; only an unreadable root is an error.
func (s *Store) LoadAll() ([]domain.RoomRecord, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("read rooms directory: %w", err)
	}

	out := make([]domain.RoomRecord, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		name := domain.SafeName(e.Name())
		rec, err := s.load(name)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			log.Error().Err(err).Str("module", "store.fs").Str("room", string(name)).Msg("skipping room")
			continue
		}
		out = append(out, rec)
		log.Debug().Str("module", "store.fs").Str("room", string(name)).Msg("loaded room")
	}
	log.Info().Str("module", "store.fs").Int("rooms", len(out)).Msg("rooms loaded from disk")
	return out, nil
}

func (s *Store) load(name domain.SafeName) (domain.RoomRecord, error) {
	data, err := os.ReadFile(filepath.Join(s.root, string(name), RecordFile))
	if err != nil {
		return domain.RoomRecord{}, err
	}
	var rec domain.RoomRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return domain.RoomRecord{}, fmt.Errorf("decode %s: %w", RecordFile, err)
	}
	rec.SafeName = name
	if rec.DisplayName == "" {
		rec.DisplayName = string(name)
	}
	return rec, nil
}

// Save writes the record through a temp file and rename, so a reader never
// sees a half-written room.json.
func (s *Store) Save(rec domain.RoomRecord) error {
	if !rec.SafeName.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidSafeName, rec.SafeName)
	}
	dir := filepath.Join(s.root, string(rec.SafeName))
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return fmt.Errorf("create room directory: %w", err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encode room record: %w", err)
	}

	tmp, err := os.CreateTemp(dir, tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp room record: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp room record: %w", err)
	}
	if err := tmp.Chmod(fileMode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod temp room record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp room record: %w", err)
	}
	if err := os.Rename(tmpName, filepath.Join(dir, RecordFile)); err != nil {
		return fmt.Errorf("replace room record: %w", err)
	}
	cleanup = false

	log.Info().Str("module", "store.fs").Str("room", string(rec.SafeName)).Msg("room saved")
	return nil
}

func (s *Store) BackgroundAssetPath(name domain.SafeName) (string, bool) {
	if !name.Valid() {
		return "", false
	}
	p := filepath.Join(s.root, string(name), s.backgroundFile)
	info, err := os.Stat(p)
	if err != nil || info.IsDir() {
		return "", false
	}
	return p, true
}
