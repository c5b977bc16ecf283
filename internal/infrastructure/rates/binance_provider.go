package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ratewatch/rates-service/internal/config"
	"github.com/ratewatch/rates-service/internal/domain"
)

type tickerResponse struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

// BinanceProvider fetches spot prices one symbol at a time against the USDT
// pair. A failed symbol is dropped from the result, the rest go through.
type BinanceProvider struct {
	client    *http.Client
	url       string
	platform  string
	userAgent string
}

func NewBinanceProvider(cfg config.RatesSource) *BinanceProvider {
	return &BinanceProvider{
		client: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		url:       cfg.BinanceURL,
		platform:  cfg.CryptoPlatform,
		userAgent: cfg.UserAgent,
	}
}

func (p *BinanceProvider) GetName() string {
	return p.platform
}

func (p *BinanceProvider) FetchRates(ctx context.Context, symbols []string, quoteRate float64) map[string]domain.RateRecord {
	result := make(map[string]domain.RateRecord, len(symbols))

	for _, symbol := range symbols {
		price, err := p.fetchPrice(ctx, symbol)
		if err != nil {
			slog.Error("binance fetch failed", "symbol", symbol, "error", err)
			continue
		}

		result[symbol] = domain.RateRecord{
			Rate:     price * quoteRate,
			Amount:   1,
			Platform: p.platform,
		}
	}

	return result
}

func (p *BinanceProvider) fetchPrice(ctx context.Context, symbol string) (float64, error) {
	url := fmt.Sprintf("%s?symbol=%sUSDT", p.url, symbol)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to get price from Binance: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("binance API returned status: %d", resp.StatusCode)
	}

	var ticker tickerResponse
	if err := json.NewDecoder(resp.Body).Decode(&ticker); err != nil {
		return 0, fmt.Errorf("failed to parse Binance response: %w", err)
	}

	price, err := strconv.ParseFloat(ticker.Price, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse price %q: %w", ticker.Price, err)
	}

	return price, nil
}
