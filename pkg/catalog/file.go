package catalog

import (
	"context"
	"os"

	"github.com/matst80/slask-boutique/pkg/types"
)

// FileSource reads the product listing from a local json file.
type FileSource struct {
	Path string
}

func (f *FileSource) FetchProducts(ctx context.Context) ([]types.Product, error) {
	body, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, err
	}
	return DecodeProducts(body)
}
