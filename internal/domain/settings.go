package domain

import (
	"math"
	"strings"
)

// Currency is the only currency the shop bills in.
const Currency = "VND"

// Settings bounds.
const (
	MinTableCount = 1
	MaxTableCount = 60
	MaxTaxRatePct = 100.0
)

// RoundingSteps are the accepted billing steps in minutes.
var RoundingSteps = []int{1, 5, 10, 15, 30, 60}

// Settings is the shop-wide billing configuration.
type Settings struct {
	ShopName        string  `json:"shopName"`
	ShopAddress     string  `json:"shopAddress"`
	ShopPhone       string  `json:"shopPhone"`
	Currency        string  `json:"currency"`
	TableCount      int     `json:"tableCount"`
	HourlyRate      int64   `json:"hourlyRate"`
	TaxRatePct      float64 `json:"taxRatePct"`
	RoundingMinutes int     `json:"roundingMinutes"`
}

// DefaultSettings returns the settings of a freshly installed shop.
func DefaultSettings() Settings {
	return Settings{
		ShopName:        "Crown Billiard",
		ShopAddress:     "",
		ShopPhone:       "",
		Currency:        Currency,
		TableCount:      10,
		HourlyRate:      50000,
		TaxRatePct:      0,
		RoundingMinutes: 15,
	}
}

// IsRoundingStep reports whether m is one of RoundingSteps.
func IsRoundingStep(m int) bool {
	for _, step := range RoundingSteps {
		if step == m {
			return true
		}
	}
	return false
}

// Normalize clamps every field into its valid range.
// An unknown rounding step falls back to the default step.
func (s *Settings) Normalize() {
	s.ShopName = strings.TrimSpace(s.ShopName)
	s.ShopAddress = strings.TrimSpace(s.ShopAddress)
	s.ShopPhone = strings.TrimSpace(s.ShopPhone)
	s.Currency = Currency

	if s.TableCount < MinTableCount {
		s.TableCount = MinTableCount
	}
	if s.TableCount > MaxTableCount {
		s.TableCount = MaxTableCount
	}
	if s.HourlyRate < 0 {
		s.HourlyRate = 0
	}
	if math.IsNaN(s.TaxRatePct) || s.TaxRatePct < 0 {
		s.TaxRatePct = 0
	}
	if s.TaxRatePct > MaxTaxRatePct {
		s.TaxRatePct = MaxTaxRatePct
	}
	if !IsRoundingStep(s.RoundingMinutes) {
		s.RoundingMinutes = DefaultSettings().RoundingMinutes
	}
}
