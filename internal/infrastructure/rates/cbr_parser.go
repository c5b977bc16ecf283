package rates

import (
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/ratewatch/rates-service/internal/domain"
)

// valueTags lists the accepted value node names in lookup order. The feed
// publishes either tag depending on the entry, the first present wins.
var valueTags = []string{"Value", "VunitRate"}

type cbrDocument struct {
	XMLName xml.Name    `xml:"ValCurs"`
	Valutes []cbrValute `xml:"Valute"`
}

type cbrValute struct {
	CharCode  string `xml:"CharCode"`
	Amount    string `xml:"amount"`
	Value     string `xml:"Value"`
	VunitRate string `xml:"VunitRate"`
}

func (v cbrValute) valueByTag(tag string) string {
	switch tag {
	case "Value":
		return v.Value
	case "VunitRate":
		return v.VunitRate
	}
	return ""
}

func (v cbrValute) firstValue() (string, bool) {
	for _, tag := range valueTags {
		if s := strings.TrimSpace(v.valueByTag(tag)); s != "" {
			return s, true
		}
	}
	return "", false
}

// ParseCBRXML extracts per-unit rates for the allowed codes from the CBR
// daily feed. Malformed documents yield an empty map and malformed entries
// are skipped, the caller falls back to its degraded map on empty results.
func ParseCBRXML(raw []byte, allowed []string, platform string) map[string]domain.RateRecord {
	result := make(map[string]domain.RateRecord)

	var doc cbrDocument
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return result
	}

	allowedSet := make(map[string]struct{}, len(allowed))
	for _, code := range allowed {
		allowedSet[code] = struct{}{}
	}

	for _, valute := range doc.Valutes {
		currency := strings.TrimSpace(valute.CharCode)
		if currency == "" {
			continue
		}
		if _, ok := allowedSet[currency]; !ok {
			continue
		}

		rawValue, ok := valute.firstValue()
		if !ok {
			continue
		}
		value, err := strconv.ParseFloat(strings.ReplaceAll(rawValue, ",", "."), 64)
		if err != nil {
			continue
		}

		amount := 1
		if raw := strings.TrimSpace(valute.Amount); raw != "" {
			amount, err = strconv.Atoi(raw)
			if err != nil || amount < 1 {
				continue
			}
		}

		result[currency] = domain.RateRecord{
			Rate:     value / float64(amount),
			Amount:   amount,
			Platform: platform,
		}
	}

	return result
}
