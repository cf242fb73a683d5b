package engine

import (
	"math"
	"strings"

	"billiard/internal/billing"
	"billiard/internal/domain"
)

// Settings patch keys.
const (
	KeyShopName        = "shop_name"
	KeyShopAddress     = "shop_address"
	KeyShopPhone       = "shop_phone"
	KeyTableCount      = "table_count"
	KeyHourlyRate      = "hourly_rate"
	KeyTaxRatePct      = "tax_rate_pct"
	KeyRoundingMinutes = "rounding_minutes"
)

// ApplySettingsPatch merges a decoded JSON object into settings.
// Each known key is applied on its own and only when it carries the
// expected JSON type; everything else is ignored.
func ApplySettingsPatch(current domain.Settings, patch map[string]any) domain.Settings {
	next := current

	if v, ok := patch[KeyShopName].(string); ok {
		next.ShopName = strings.TrimSpace(v)
	}
	if v, ok := patch[KeyShopAddress].(string); ok {
		next.ShopAddress = strings.TrimSpace(v)
	}
	if v, ok := patch[KeyShopPhone].(string); ok {
		next.ShopPhone = strings.TrimSpace(v)
	}
	if v, ok := finiteNumber(patch[KeyTableCount]); ok {
		next.TableCount = int(billing.ClampInt(billing.RoundHalfUp(v), domain.MinTableCount, domain.MaxTableCount))
	}
	if v, ok := finiteNumber(patch[KeyHourlyRate]); ok {
		next.HourlyRate = max(0, billing.RoundHalfUp(v))
	}
	if v, ok := finiteNumber(patch[KeyTaxRatePct]); ok {
		next.TaxRatePct = billing.ClampFloat(v, 0, domain.MaxTaxRatePct)
	}
	if v, ok := finiteNumber(patch[KeyRoundingMinutes]); ok {
		if rm := int(billing.RoundHalfUp(v)); domain.IsRoundingStep(rm) {
			next.RoundingMinutes = rm
		}
	}

	next.Normalize()
	return next
}

func finiteNumber(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
