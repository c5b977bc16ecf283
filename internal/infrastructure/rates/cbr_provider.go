package rates

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/ratewatch/rates-service/internal/config"
	"github.com/ratewatch/rates-service/internal/domain"
)

// CBRProvider fetches the central bank daily XML feed. Any failure on the
// way degrades to a map holding only the base currency at rate 1.0, the
// poll cycle never waits on this source recovering.
type CBRProvider struct {
	client       *http.Client
	url          string
	platform     string
	baseCurrency string
	userAgent    string
}

func NewCBRProvider(cfg config.RatesSource) *CBRProvider {
	return &CBRProvider{
		client: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		url:          cfg.CBRURL,
		platform:     cfg.CBRPlatform,
		baseCurrency: cfg.BaseCurrency,
		userAgent:    cfg.UserAgent,
	}
}

func (p *CBRProvider) GetName() string {
	return p.platform
}

func (p *CBRProvider) FetchRates(ctx context.Context, wanted []string) map[string]domain.RateRecord {
	// the base currency is the 1.0 reference point in both outcomes
	result := map[string]domain.RateRecord{
		p.baseCurrency: {Rate: 1.0, Amount: 1, Platform: p.platform},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		slog.Error("failed to build cbr request", "error", err)
		return result
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		slog.Error("cbr request failed", "url", p.url, "error", err)
		return result
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Error("cbr returned non-ok status", "status", resp.StatusCode)
		return result
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Error("failed to read cbr response", "error", err)
		return result
	}

	for currency, record := range ParseCBRXML(body, wanted, p.platform) {
		result[currency] = record
	}
	return result
}
