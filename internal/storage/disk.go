package storage

import (
	"os"
)

// DatabaseFiles returns the SQLite database file with its WAL and shared-memory files.
func DatabaseFiles(dbPath string) []string {
	if dbPath == "" || dbPath == ":memory:" {
		return nil
	}
	return []string{dbPath, dbPath + "-wal", dbPath + "-shm"}
}

// DatabaseSize returns the bytes a SQLite database occupies on disk, WAL and shared-memory
// files included. Files that do not exist count as 0; an in-memory database is 0.
func DatabaseSize(dbPath string) (int64, error) {
	var total int64
	for _, p := range DatabaseFiles(dbPath) {
		info, err := os.Stat(p)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return 0, err
		}
		total += info.Size()
	}
	return total, nil
}
