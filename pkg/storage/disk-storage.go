package storage

import (
	"compress/gzip"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/matst80/slask-boutique/pkg/common/jsoncompat"
	"github.com/matst80/slask-boutique/pkg/types"
)

const productsFile = "products.json.gz"

type productFile struct {
	SavedAt  time.Time       `json:"savedAt"`
	Products []types.Product `json:"products"`
}

// SaveProducts writes the catalog snapshot so a restarted node can serve
// before the upstream api answers.
func (d *DiskStorage) SaveProducts(products []types.Product) error {
	err := d.SaveGzippedJson(productFile{SavedAt: time.Now(), Products: products}, productsFile)
	if err == nil {
		log.Printf("Saved %d products to disk", len(products))
	}
	return err
}

func (d *DiskStorage) LoadProducts() ([]types.Product, time.Time, error) {
	var f productFile
	if err := d.LoadGzippedJson(&f, productsFile); err != nil {
		return nil, time.Time{}, err
	}
	if f.Products == nil {
		f.Products = []types.Product{}
	}
	return f.Products, f.SavedAt, nil
}

func (d *DiskStorage) SaveGzippedJson(data any, name string) error {
	fileName, tmpFileName, err := d.GetFileName(name)
	if err != nil {
		return err
	}
	file, err := os.Create(tmpFileName)
	if err != nil {
		return err
	}
	zipWriter := gzip.NewWriter(file)
	err = jsoncompat.NewEncoder(zipWriter).Encode(data)
	if cerr := zipWriter.Close(); err == nil {
		err = cerr
	}
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmpFileName)
		return fmt.Errorf("write %s: %w", name, err)
	}
	return os.Rename(tmpFileName, fileName)
}

func (d *DiskStorage) LoadGzippedJson(data any, name string) error {
	fileName, _, err := d.GetFileName(name)
	if err != nil {
		return err
	}
	file, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	zipReader, err := gzip.NewReader(file)
	if err != nil {
		return err
	}
	defer zipReader.Close()

	if err = jsoncompat.NewDecoder(zipReader).Decode(data); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}
