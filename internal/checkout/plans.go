package checkout

import "errors"

// ErrUnknownPlan is returned when a plan id has no catalog entry.
var ErrUnknownPlan = errors.New("checkout: unknown plan")

// Plan describes a subscription offering. Prices are in whole US dollars per
// month.
type Plan struct {
	ID              string
	Name            string
	PriceUSD        int
	CreditsPerMonth int
	Features        []string
	RequiresPayment bool
}

var plans = []Plan{
	{
		ID:              "free",
		Name:            "Free",
		PriceUSD:        0,
		CreditsPerMonth: 3,
		Features: []string{
			"3 video credits per month",
			"Standard avatars",
			"Watermarked exports",
		},
	},
	{
		ID:              "starter_monthly",
		Name:            "Starter",
		PriceUSD:        19,
		CreditsPerMonth: 20,
		Features: []string{
			"20 video credits per month",
			"All avatars",
			"No watermark",
		},
		RequiresPayment: true,
	},
	{
		ID:              "pro_monthly",
		Name:            "Pro",
		PriceUSD:        49,
		CreditsPerMonth: 60,
		Features: []string{
			"60 video credits per month",
			"All avatars",
			"Priority rendering",
			"No watermark",
		},
		RequiresPayment: true,
	},
	{
		ID:              "business_monthly",
		Name:            "Business",
		PriceUSD:        99,
		CreditsPerMonth: 150,
		Features: []string{
			"150 video credits per month",
			"All avatars",
			"Priority rendering",
			"Team seats",
			"No watermark",
		},
		RequiresPayment: true,
	},
}

// Plans returns the catalog in display order.
func Plans() []Plan {
	out := make([]Plan, len(plans))
	copy(out, plans)
	return out
}

// FindPlan looks up a plan by id.
func FindPlan(id string) (Plan, error) {
	for _, p := range plans {
		if p.ID == id {
			return p, nil
		}
	}
	return Plan{}, ErrUnknownPlan
}
