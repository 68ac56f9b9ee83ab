package catalog

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/matst80/slask-boutique/pkg/common/jsoncompat"
	"github.com/matst80/slask-boutique/pkg/types"
)

// Client reads the product listing from the upstream storefront api.
type Client struct {
	BaseUrl    string
	HttpClient *http.Client
}

func NewClient(baseUrl string, timeout time.Duration) *Client {
	return &Client{
		BaseUrl:    strings.TrimSuffix(baseUrl, "/"),
		HttpClient: &http.Client{Timeout: timeout},
	}
}

type productEnvelope struct {
	Products []types.Product `json:"products"`
}

// FetchProducts calls GET /products. The api answers either with a bare array or
// with the array wrapped in a "products" property.
func (c *Client) FetchProducts(ctx context.Context) ([]types.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseUrl+"/products", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	res, err := c.HttpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("fetch products: unexpected status %d", res.StatusCode)
	}
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read products: %w", err)
	}
	return DecodeProducts(body)
}

// DecodeProducts accepts a bare json array or an object with a products property.
func DecodeProducts(body []byte) ([]types.Product, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("decode products: empty body")
	}
	if trimmed[0] == '[' {
		products := make([]types.Product, 0)
		if err := jsoncompat.Unmarshal(trimmed, &products); err != nil {
			return nil, fmt.Errorf("decode products: %w", err)
		}
		return products, nil
	}
	env := productEnvelope{}
	if err := jsoncompat.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	if env.Products == nil {
		return nil, fmt.Errorf("decode products: no products property")
	}
	return env.Products, nil
}
