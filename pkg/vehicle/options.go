package vehicle

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/matst80/part-finder/pkg/common/jsoncompat"
	"github.com/matst80/part-finder/pkg/facet"
)

// OptionProvider fetches the valid next-level vehicle options from the
// external fitment service. Responses are either a bare list of strings or
// a list of {value,label} records; both decode to facet options.
type OptionProvider struct {
	baseUrl string
	client  *http.Client
}

func NewOptionProvider(baseUrl string) *OptionProvider {
	return &OptionProvider{
		baseUrl: baseUrl,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *OptionProvider) Years(ctx context.Context) ([]facet.Option, error) {
	return p.fetch(ctx, "years", nil)
}

func (p *OptionProvider) Makes(ctx context.Context, year string) ([]facet.Option, error) {
	return p.fetch(ctx, "makes", url.Values{"year": {year}})
}

func (p *OptionProvider) Models(ctx context.Context, year, make string) ([]facet.Option, error) {
	return p.fetch(ctx, "models", url.Values{"year": {year}, "make": {make}})
}

func (p *OptionProvider) Trims(ctx context.Context, year, make, model string) ([]facet.Option, error) {
	return p.fetch(ctx, "trims", url.Values{"year": {year}, "make": {make}, "model": {model}})
}

func (p *OptionProvider) fetch(ctx context.Context, path string, query url.Values) ([]facet.Option, error) {
	target := p.baseUrl + "/" + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fitment provider %s: status %d", path, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return decodeOptions(body)
}

// decodeOptions accepts both response shapes the provider is known to use.
func decodeOptions(body []byte) ([]facet.Option, error) {
	var raw []any
	if err := jsoncompat.Unmarshal(body, &raw); err != nil {
		return nil, err
	}
	options := make([]facet.Option, 0, len(raw))
	for _, item := range raw {
		switch v := item.(type) {
		case string:
			options = append(options, facet.Option{Value: v, Label: v})
		case map[string]any:
			value, _ := v["value"].(string)
			label, _ := v["label"].(string)
			if label == "" {
				label = value
			}
			if value != "" {
				options = append(options, facet.Option{Value: value, Label: label})
			}
		}
	}
	return options, nil
}
