package game

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"airline_sim/internal/catalog"
	"airline_sim/internal/models"
	"airline_sim/internal/rand"
)

// Listing conditions.
const (
	ConditionNew         = "new"
	ConditionLightlyUsed = "lightly_used"
	ConditionUsed        = "used"
	ConditionHeavilyUsed = "heavily_used"
	ConditionVintage     = "vintage"
)

const vintageChance = 0.3

// overdue thresholds used when describing listings
const (
	aCheckInterval = 150.0
	bCheckInterval = 750.0
	cCheckInterval = 4000.0
)

func listingID(r *dayRand, prefix, typeCode string) string {
	return fmt.Sprintf("%s_%s_%08x", prefix, typeCode, r.id())
}

// dayRand adds deterministic id generation on top of a day-seeded source.
type dayRand struct {
	rand.Source
}

func (d *dayRand) id() uint32 {
	if u, ok := d.Source.(interface{ Uint32() uint32 }); ok {
		return u.Uint32()
	}
	return uint32(d.Intn(1 << 31))
}

func overdueWarnings(a, b, c float64) []string {
	var w []string
	if a > aCheckInterval {
		w = append(w, "A Check overdue")
	}
	if b > bCheckInterval {
		w = append(w, "B Check overdue")
	}
	if c > cCheckInterval {
		w = append(w, "C Check overdue")
	}
	return w
}

func withWarnings(desc string, warnings []string) string {
	if len(warnings) == 0 {
		return desc
	}
	return desc + " - WARNING: " + strings.Join(warnings, ", ")
}

// generateListings builds a day's marketplace from a day-seeded source:
// per type one new listing, two or three used ones and sometimes a vintage
// airframe.
func generateListings(src rand.Source) []models.Listing {
	r := &dayRand{Source: src}
	var out []models.Listing
	for _, t := range catalog.All() {
		base := float64(t.Price)
		out = append(out, models.Listing{
			ListingID:   listingID(r, "new", t.TypeCode),
			TypeCode:    t.TypeCode,
			Name:        t.Name,
			Price:       t.Price,
			Condition:   ConditionNew,
			Reliability: 1.0,
			Description: "Brand new aircraft, factory fresh",
		})

		for range rand.IntRange(r, 2, 3) {
			hours := r.Uniform(500, 15000)
			age := hours / 15000
			rel := max(0.5, 1-age*0.3)
			a, b, c := r.Uniform(0, 200), r.Uniform(0, 1000), r.Uniform(0, 5000)
			if a > aCheckInterval {
				rel -= 0.1
			}
			if b > bCheckInterval {
				rel -= 0.15
			}
			if c > cCheckInterval {
				rel -= 0.2
			}
			rel = max(0.3, rel)

			cond, label := ConditionHeavilyUsed, "Heavily used"
			switch {
			case hours < 3000:
				cond, label = ConditionLightlyUsed, "Lightly used"
			case hours < 8000:
				cond, label = ConditionUsed, "Used"
			}
			out = append(out, models.Listing{
				ListingID:        listingID(r, "used", t.TypeCode),
				TypeCode:         t.TypeCode,
				Name:             t.Name,
				Price:            int(base * rel * (1 - age*0.4)),
				Condition:        cond,
				TotalHours:       hours,
				Reliability:      rel,
				HoursSinceACheck: a,
				HoursSinceBCheck: b,
				HoursSinceCCheck: c,
				Description:      withWarnings(fmt.Sprintf("%s aircraft with %.0f flight hours", label, hours), overdueWarnings(a, b, c)),
			})
		}

		if r.Float64() < vintageChance {
			hours := r.Uniform(15000, 30000)
			age := min(1.0, hours/20000)
			rel := max(0.2, 1-age*0.5)
			a, b, c := r.Uniform(100, 300), r.Uniform(500, 1500), r.Uniform(3000, 6000)
			if a > aCheckInterval {
				rel -= 0.15
			}
			if b > bCheckInterval {
				rel -= 0.2
			}
			if c > cCheckInterval {
				rel -= 0.25
			}
			rel = max(0.2, rel)
			out = append(out, models.Listing{
				ListingID:        listingID(r, "vintage", t.TypeCode),
				TypeCode:         t.TypeCode,
				Name:             t.Name,
				Price:            int(base * rel * (1 - age*0.6) * 0.3),
				Condition:        ConditionVintage,
				TotalHours:       hours,
				Reliability:      rel,
				HoursSinceACheck: a,
				HoursSinceBCheck: b,
				HoursSinceCCheck: c,
				Description:      withWarnings(fmt.Sprintf("Vintage aircraft with %.0f flight hours - HIGH RISK", hours), overdueWarnings(a, b, c)),
			})
		}
	}
	return out
}

// Lease types.
const (
	LeaseShortTerm = "short_term"
	LeaseStandard  = "standard"
	LeaseLongTerm  = "long_term"
)

var leaseTitles = map[string]string{
	LeaseShortTerm: "Short Term",
	LeaseStandard:  "Standard",
	LeaseLongTerm:  "Long Term",
}

// LeaseOption is an offer to lease a new aircraft of one type.
type LeaseOption struct {
	LeaseOptionID  string `json:"lease_option_id"`
	TypeCode       string `json:"type_code"`
	Name           string `json:"name"`
	MonthlyPayment int    `json:"monthly_payment"`
	TermMonths     int    `json:"term_months"`
	LeaseType      string `json:"lease_type"`
	Description    string `json:"description"`
}

func generateLeaseOptions(src rand.Source) []LeaseOption {
	r := &dayRand{Source: src}
	kinds := []string{LeaseShortTerm, LeaseStandard, LeaseLongTerm}
	var out []LeaseOption
	for _, t := range catalog.All() {
		for range rand.IntRange(r, 2, 3) {
			kind := rand.SampleSlice(r, kinds)
			var rate float64
			var term int
			switch kind {
			case LeaseShortTerm:
				rate = r.Uniform(0.025, 0.035)
				term = rand.SampleSlice(r, []int{6, 12})
			case LeaseStandard:
				rate = r.Uniform(0.020, 0.030)
				term = rand.SampleSlice(r, []int{24, 36})
			default:
				rate = r.Uniform(0.015, 0.025)
				term = rand.SampleSlice(r, []int{36, 48, 60})
			}
			monthly := int(float64(t.Price) * rate / (float64(term) / 12))
			out = append(out, LeaseOption{
				LeaseOptionID:  listingID(r, "lease", t.TypeCode),
				TypeCode:       t.TypeCode,
				Name:           t.Name,
				MonthlyPayment: monthly,
				TermMonths:     term,
				LeaseType:      kind,
				Description: fmt.Sprintf("%s lease - $%s/month for %d months",
					leaseTitles[kind], humanize.Comma(int64(monthly)), term),
			})
		}
	}
	return out
}

// dayListings returns the generated listings for day, before purchases.
func (e *Engine) dayListings(day int) []models.Listing {
	if l, ok := e.market.Get(day); ok {
		return l
	}
	l := generateListings(e.daily(day))
	e.market.Add(day, l)
	return l
}

func (e *Engine) dayLeaseOptions(day int) []LeaseOption {
	if l, ok := e.leases.Get(day); ok {
		return l
	}
	l := generateLeaseOptions(e.daily(day))
	e.leases.Add(day, l)
	return l
}

// refreshMarketplace regenerates the persisted listings when the day has
// changed. It reports whether the document was modified.
func (e *Engine) refreshMarketplace(st *models.CompanyState) bool {
	today := e.Today()
	if st.Marketplace != nil && st.Marketplace.Day == today {
		return false
	}
	generated := e.dayListings(today)
	st.Marketplace = &models.Marketplace{
		Day:      today,
		Listings: append([]models.Listing(nil), generated...),
	}
	return true
}

func removeListing(st *models.CompanyState, id string) {
	if st.Marketplace == nil {
		return
	}
	kept := st.Marketplace.Listings[:0]
	for _, l := range st.Marketplace.Listings {
		if l.ListingID != id {
			kept = append(kept, l)
		}
	}
	st.Marketplace.Listings = kept
}
