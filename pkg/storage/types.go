package storage

import (
	"fmt"
	"os"
	"path"
	"time"
)

type DiskStorage struct {
	Country    string
	RootFolder string
}

func NewDiskStorage(country, rootFolder string) *DiskStorage {
	return &DiskStorage{
		Country:    country,
		RootFolder: rootFolder,
	}
}

// GetFileName returns the final path and a unique temporary path next to it,
// creating the country folder when missing.
func (ds *DiskStorage) GetFileName(name string) (string, string, error) {
	folder := path.Join(ds.RootFolder, ds.Country)
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return "", "", err
	}
	fileName := path.Join(folder, name)
	tmpFileName := fileName + ".tmp-" + fmt.Sprintf("%d", time.Now().UnixNano())
	return fileName, tmpFileName, nil
}
