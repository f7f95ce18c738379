package persistence

import (
	"errors"
	"io/fs"
	"os"

	"github.com/hupe1980/descgo/model"
)

// LoadOrBuild is the cache gateway: if useCache is set and a cache file
// exists at path, the snapshot is restored from it; otherwise build runs
// and, if useCache is set, its result is written to path.
//
// A corrupt cache is surfaced as an error, never silently rebuilt:
// corruption means either a stale schema or an integrity bug, and both
// deserve a human decision (delete the file or disable caching).
func LoadOrBuild[T model.Float](path string, useCache bool, comp Compression, build func() (*Snapshot[T], error)) (*Snapshot[T], bool, error) {
	if useCache {
		if _, err := os.Stat(path); err == nil {
			snap, err := Load[T](path)
			if err != nil {
				return nil, false, err
			}
			return snap, true, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, false, err
		}
	}

	snap, err := build()
	if err != nil {
		return nil, false, err
	}
	if useCache {
		if err := Save(path, snap, comp); err != nil {
			return nil, false, err
		}
	}
	return snap, false, nil
}
