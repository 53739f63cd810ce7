package booking

import "github.com/Coco120903/batinos-garden-resort/internal/model"

// DefaultIncludedPax is assumed when a package option does not state
// how many guests its base price covers.
const DefaultIncludedPax = 25

// ExtraSelection names one requested add-on: the extra by code, the
// pricing tier by key and how many units.  Quantity zero is treated
// as one.
type ExtraSelection struct {
	ExtraCode  string `json:"extraCode"`
	PricingKey string `json:"pricingKey"`
	Quantity   int64  `json:"quantity"`
}

// ComputePricing produces the immutable price snapshot for a booking.
//
// The base price comes from the selected option, or from the service's
// flat price when no option is chosen.  The excess-pax fee applies only
// with an option: every guest beyond the option's included headcount is
// charged the per-head fee.  Requested extras are resolved against the
// service's catalog by (code, pricing key); combinations that do not
// resolve are skipped rather than rejected, so a stale client never
// blocks a booking over a renamed fee tier.  Given identical inputs the
// result is always identical.
func ComputePricing(svc *model.Service, opt *model.ServiceOption, paxCount int, extras []ExtraSelection) (model.Pricing, []model.BookingExtra) {
	var p model.Pricing

	if opt != nil {
		p.BasePrice = opt.BasePrice
		included := opt.IncludedPax
		if included == 0 {
			included = DefaultIncludedPax
		}
		if paxCount > included {
			p.ExcessPaxFee = int64(paxCount-included) * opt.ExcessPaxFee
		}
	} else {
		p.BasePrice = svc.Price
	}

	lines := make([]model.BookingExtra, 0, len(extras))
	for _, sel := range extras {
		extra := svc.Extra(sel.ExtraCode)
		if extra == nil {
			continue
		}
		unit, ok := extra.PriceFor(sel.PricingKey)
		if !ok {
			continue
		}
		qty := sel.Quantity
		if qty <= 0 {
			qty = 1
		}
		line := model.BookingExtra{
			ExtraCode:  sel.ExtraCode,
			PricingKey: sel.PricingKey,
			Quantity:   qty,
			UnitPrice:  unit,
			LineTotal:  unit * qty,
		}
		p.ExtrasTotal += line.LineTotal
		lines = append(lines, line)
	}

	p.Total = p.BasePrice + p.ExcessPaxFee + p.ExtrasTotal
	return p, lines
}
