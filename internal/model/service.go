package model

import "time"

// Service categories.  A service is anything bookable at the resort:
// a villa room, the pool facility, an event package and so on.
const (
	CategoryService  = "service"
	CategoryRoom     = "room"
	CategoryFacility = "facility"
	CategoryAmenity  = "amenity"
)

// Service represents a bookable offering as stored in the `services`
// table.  The (name, category) pair is unique.  A service may carry
// zero or more priced Options (package variants such as day tour or
// overnight) and zero or more Extras (add-ons such as corkage or
// appliance fees).  The booking engine treats services as read-only;
// only admin catalog operations mutate them.
//
// Fields:
//  ID              – primary key identifier.
//  Name            – display name, unique within its category.
//  Description     – free text shown to guests.
//  Category        – one of the Category* constants.
//  DurationMinutes – default duration when no option is chosen.
//  Price           – flat price used when the booking selects no option.
//  IsActive        – whether the service is offered publicly.
//  Images          – ordered list of image URLs (stored as JSON).
//  Options         – priced package variants owned by this service.
//  Extras          – priced add-ons owned by this service.
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Service struct {
	ID              uint64          // services.id
	Name            string          // services.name
	Description     string          // services.description
	Category        string          // services.category
	DurationMinutes int             // services.duration_minutes
	Price           int64           // services.price
	IsActive        bool            // services.is_active
	Images          []string        // services.images (JSON)
	Options         []ServiceOption // service_options rows
	Extras          []ServiceExtra  // service_extras rows
	CreatedAt       time.Time       // services.created_at
	UpdatedAt       time.Time       // services.updated_at
}

// ServiceOption is a priced variant of a service, e.g. a day tour
// (8am-5pm) versus a 22-hour overnight package.  IncludedPax is the
// headcount covered by BasePrice; every guest beyond it is charged
// ExcessPaxFee.
//
// Fields:
//  ID             – identifier unique within the owning service.
//  ServiceID      – owning service.
//  Code           – short stable code, e.g. DAY, NIGHT, FULL_22H.
//  Name           – display name, e.g. "Day (8am-5pm)".
//  DurationHours  – length of the stay covered by the option.
//  StartTimeLabel – display-only suggested start time.
//  BasePrice      – price covering IncludedPax guests.
//  IncludedPax    – headcount included in the base price.
//  ExcessPaxFee   – fee per guest over IncludedPax.
//  Notes          – admin remarks.
//  IsActive       – whether the option is currently offered.
type ServiceOption struct {
	ID             uint64 // service_options.id
	ServiceID      uint64 // service_options.service_id
	Code           string // service_options.code
	Name           string // service_options.name
	DurationHours  int    // service_options.duration_hours
	StartTimeLabel string // service_options.start_time_label
	BasePrice      int64  // service_options.base_price
	IncludedPax    int    // service_options.included_pax
	ExcessPaxFee   int64  // service_options.excess_pax_fee
	Notes          string // service_options.notes
	IsActive       bool   // service_options.is_active
}

// ServiceExtra is an optional add-on with tiered pricing.  Each tier
// is keyed by a free-form pricing key such as "12h", "22h" or "flat";
// a booking names the extra by code and the tier by key.
//
// Fields:
//  ID        – identifier unique within the owning service.
//  ServiceID – owning service.
//  Code      – short stable code, e.g. APPLIANCE_FEE, CORKAGE.
//  Name      – display name.
//  Pricing   – tiered price list.
//  Notes     – admin remarks.
//  IsActive  – whether the extra is currently offered.
type ServiceExtra struct {
	ID        uint64       // service_extras.id
	ServiceID uint64       // service_extras.service_id
	Code      string       // service_extras.code
	Name      string       // service_extras.name
	Pricing   []ExtraPrice // service_extra_prices rows
	Notes     string       // service_extras.notes
	IsActive  bool         // service_extras.is_active
}

// ExtraPrice is one pricing tier of a ServiceExtra.
type ExtraPrice struct {
	Key   string // service_extra_prices.pricing_key, e.g. "12h", "22h", "flat"
	Price int64  // service_extra_prices.price
}

// Option returns the option with the given id, or nil when the
// service owns no such option.
func (s *Service) Option(id uint64) *ServiceOption {
	for i := range s.Options {
		if s.Options[i].ID == id {
			return &s.Options[i]
		}
	}
	return nil
}

// Extra returns the extra with the given code, or nil when the
// service owns no such extra.
func (s *Service) Extra(code string) *ServiceExtra {
	for i := range s.Extras {
		if s.Extras[i].Code == code {
			return &s.Extras[i]
		}
	}
	return nil
}

// PriceFor returns the price of the tier named by key and whether the
// tier exists.
func (e *ServiceExtra) PriceFor(key string) (int64, bool) {
	for _, p := range e.Pricing {
		if p.Key == key {
			return p.Price, true
		}
	}
	return 0, false
}
