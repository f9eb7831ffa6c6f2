package costbasis

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

// PriceMap supplies current unit prices for holdings valuation, keyed by
// asset symbol. It is the shape the pricing collaborator hands the engine;
// the engine itself never fetches prices. Calculate normalizes the keys
// once, so callers may key the map however their price source does.
type PriceMap map[string]decimal.Decimal

// Lookup finds the price for a symbol on a normalized map.
func (p PriceMap) Lookup(symbol string) (decimal.Decimal, bool) {
	v, ok := p[strings.ToUpper(strings.TrimSpace(symbol))]
	return v, ok
}

// normalized returns a copy of the map with every key upper-cased and
// trimmed, so lookups are direct map hits instead of scans.
func (p PriceMap) normalized() PriceMap {
	if p == nil {
		return nil
	}
	n := make(PriceMap, len(p))
	for k, v := range p {
		n[strings.ToUpper(strings.TrimSpace(k))] = v
	}
	return n
}

// PriceQuery locates one asset's current unit price inside a provider's JSON
// payload.
type PriceQuery struct {
	Asset string `json:"asset" yaml:"asset"`
	URL   string `json:"url" yaml:"url"`
	Path  string `json:"path" yaml:"path"` // jsonpath, e.g. "$.data.last"
}

// ExtractPrice pulls a price out of a decoded JSON document with a jsonpath
// expression. jsonpath is never clear about whether it returns a list of one
// answer or a single answer, so both shapes are accepted.
func ExtractPrice(doc any, path string) (decimal.Decimal, error) {
	jval, err := jsonpath.Get(path, doc)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("error evaluating %q: %w", path, err)
	}
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	switch v := jval.(type) {
	case float64:
		return decimal.NewFromFloat(v), nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("price at %q is not numeric: %q", path, v)
		}
		return d, nil
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("price at %q is not numeric: %q", path, v)
		}
		return d, nil
	default:
		return decimal.Decimal{}, fmt.Errorf("price at %q is not numeric: %v", path, jval)
	}
}

// FetchPrices builds a PriceMap by fetching each query's payload and applying
// its jsonpath. This is a pricing-collaborator implementation living next to
// the engine; Calculate only ever sees the resulting map.
func FetchPrices(client *http.Client, queries []PriceQuery) (PriceMap, error) {
	if client == nil {
		client = http.DefaultClient
	}
	prices := make(PriceMap, len(queries))
	for _, q := range queries {
		var doc any
		if err := jwget(client, q.URL, &doc); err != nil {
			return nil, fmt.Errorf("fetching price for %s: %w", q.Asset, err)
		}
		price, err := ExtractPrice(doc, q.Path)
		if err != nil {
			return nil, fmt.Errorf("fetching price for %s: %w", q.Asset, err)
		}
		prices[strings.ToUpper(strings.TrimSpace(q.Asset))] = price
	}
	return prices, nil
}

// jwget fetches a JSON document into v.
func jwget(client *http.Client, addr string, v any) error {
	resp, err := client.Get(addr)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("GET %s: %s", addr, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
