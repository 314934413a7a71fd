package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/ui-backend-go/internal/logging"
	"github.com/andreasstove999/ecommerce-system/ui-backend-go/internal/shop"
)

// CatalogClient reads products from the inventory service.
type CatalogClient struct{ c *Client }

func NewCatalogClient(c *Client) *CatalogClient { return &CatalogClient{c: c} }

// productJSON is the product representation used by the inventory service.
// Fields it sends beyond these are ignored.
type productJSON struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Units       int             `json:"units"`
	Price       decimal.Decimal `json:"price"`
}

func (p productJSON) product(id string) shop.Product {
	if id == "" {
		id = p.ID
	}
	return shop.Product{
		ID:          id,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
	}
}

type link struct {
	Href string `json:"href"`
}

type catalogPage struct {
	items []json.RawMessage
	next  string
}

var errMissingID = errors.New("product has no self link")

// ListAllProducts follows the inventory's next links from the first page to
// the last and returns every product in page order. A page that cannot be
// fetched or read ends the walk; whatever was collected so far is returned.
func (cc *CatalogClient) ListAllProducts(ctx context.Context) []shop.Product {
	log := logging.FromContext(ctx, cc.c.log)

	var (
		products []shop.Product
		seen     = map[string]bool{}
		cur      = cc.c.URL()
	)
	for cur != nil {
		pageURL := cur.String()
		if seen[pageURL] {
			log.Warn("catalog next link points to a page already read", zap.String("url", pageURL))
			break
		}
		seen[pageURL] = true

		body, err := cc.c.Do(ctx, http.MethodGet, cur, nil)
		if err != nil {
			log.Error("cannot retrieve all products", zap.String("url", pageURL), zap.Error(err))
			break
		}

		page, err := decodeCatalogPage(body)
		if err != nil {
			log.Error("cannot decode catalog page", zap.String("url", pageURL), zap.Error(err))
			break
		}

		for i, raw := range page.items {
			p, err := decodeCatalogItem(raw)
			if err != nil {
				log.Error("skipping malformed product",
					zap.String("url", pageURL), zap.Int("index", i), zap.Error(err))
				continue
			}
			products = append(products, p)
		}

		cur = nil
		if page.next != "" {
			next, err := url.Parse(pageURL)
			if err == nil {
				next, err = next.Parse(page.next)
			}
			if err != nil {
				log.Error("invalid catalog next link", zap.String("href", page.next), zap.Error(err))
				break
			}
			cur = next
		}
	}
	return products
}

// GetProduct fetches one product. The returned error wraps
// shop.ErrProductNotFound when the inventory answers 404.
func (cc *CatalogClient) GetProduct(ctx context.Context, productID string) (shop.Product, error) {
	var p productJSON
	err := cc.c.getJSON(ctx, cc.c.URL(productID), &p)
	if IsNotFound(err) {
		return shop.Product{}, fmt.Errorf("%w: %s", shop.ErrProductNotFound, productID)
	}
	if err != nil {
		return shop.Product{}, fmt.Errorf("get product %s: %w", productID, err)
	}

	out := p.product(productID)
	out.Available = p.Units
	return out, nil
}

// decodeCatalogPage accepts both the flat listing ({"inventory": [...],
// "next": {...}}) and the HAL listing with _embedded and _links.
func decodeCatalogPage(body []byte) (catalogPage, error) {
	var root struct {
		Inventory json.RawMessage `json:"inventory"`
		Next      *link           `json:"next"`
		Embedded  struct {
			Inventory json.RawMessage `json:"inventory"`
		} `json:"_embedded"`
		Links struct {
			Next *link `json:"next"`
		} `json:"_links"`
	}
	if err := json.Unmarshal(body, &root); err != nil {
		return catalogPage{}, err
	}

	var page catalogPage

	items := root.Inventory
	if items == nil {
		items = root.Embedded.Inventory
	}
	if items != nil && string(items) != "null" {
		if err := json.Unmarshal(items, &page.items); err != nil {
			return catalogPage{}, fmt.Errorf("inventory is not a list: %w", err)
		}
	}

	switch {
	case root.Next != nil:
		page.next = root.Next.Href
	case root.Links.Next != nil:
		page.next = root.Links.Next.Href
	}
	return page, nil
}

func decodeCatalogItem(raw json.RawMessage) (shop.Product, error) {
	var p productJSON
	if err := json.Unmarshal(raw, &p); err != nil {
		return shop.Product{}, err
	}

	id := lastPathSegment(selfHref(raw))
	if id == "" {
		return shop.Product{}, errMissingID
	}

	out := p.product(id)
	out.Available = p.Units
	return out, nil
}

// selfHref finds the link that names the item: _links.self, else a top level
// href, else any other link of the item.
func selfHref(raw json.RawMessage) string {
	var item struct {
		Href  string          `json:"href"`
		Links map[string]link `json:"_links"`
	}
	if err := json.Unmarshal(raw, &item); err != nil {
		return ""
	}
	if self, ok := item.Links["self"]; ok && self.Href != "" {
		return self.Href
	}
	if item.Href != "" {
		return item.Href
	}

	names := make([]string, 0, len(item.Links))
	for name := range item.Links {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if h := item.Links[name].Href; h != "" {
			return h
		}
	}
	return ""
}

func lastPathSegment(href string) string {
	// drop URI template suffixes such as {?projection}
	if i := strings.Index(href, "{"); i >= 0 {
		href = href[:i]
	}
	if u, err := url.Parse(href); err == nil {
		href = u.Path
	}
	href = strings.TrimRight(href, "/")
	if i := strings.LastIndex(href, "/"); i >= 0 {
		href = href[i+1:]
	}
	return href
}
