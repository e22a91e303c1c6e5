package view

import (
	"html/template"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"papertrade/internal/shared/markethours"
)

const notAvailable = "N/A"

var (
	rupee = *money.New(0, money.INR).Currency()
	// shares is a grouping-only formatter for share volumes.
	shares = money.NewFormatter(0, ".", ",", "", "1")

	trillion = decimal.New(1, 12)
	billion  = decimal.New(1, 9)
	million  = decimal.New(1, 6)
)

func funcMap() template.FuncMap {
	return template.FuncMap{
		"inr":       INR,
		"inrOpt":    inrOpt,
		"marketCap": MarketCap,
		"ratio":     ratio,
		"count":     count,
		"ist":       ist,
	}
}

// INR formats an amount of rupees as "₹1,234.56".
func INR(amount decimal.Decimal) string {
	paise := amount.Shift(int32(rupee.Fraction)).Round(0).IntPart()
	return rupee.Formatter().Format(paise)
}

func inrOpt(amount decimal.NullDecimal) string {
	if !amount.Valid {
		return notAvailable
	}
	return INR(amount.Decimal)
}

// MarketCap abbreviates a market capitalisation, e.g. "₹19.96 Trillion".
func MarketCap(value decimal.NullDecimal) string {
	if !value.Valid {
		return notAvailable
	}
	v := value.Decimal
	switch {
	case v.GreaterThanOrEqual(trillion):
		return "₹" + v.Div(trillion).StringFixed(2) + " Trillion"
	case v.GreaterThanOrEqual(billion):
		return "₹" + v.Div(billion).StringFixed(2) + " Billion"
	case v.GreaterThanOrEqual(million):
		return "₹" + v.Div(million).StringFixed(2) + " Million"
	default:
		return "₹" + v.StringFixed(2)
	}
}

func ratio(value decimal.NullDecimal) string {
	if !value.Valid {
		return notAvailable
	}
	return value.Decimal.StringFixed(2)
}

func count(n *int64) string {
	if n == nil {
		return notAvailable
	}
	return shares.Format(*n)
}

func ist(t time.Time) string {
	return t.In(markethours.Location()).Format("2006-01-02 15:04")
}
