package model

import "time"

// SettingsKey is the key of the singleton site settings row.
const SettingsKey = "default"

// DefaultMaintenanceMessage is shown when booking is closed and no
// custom message has been configured.
const DefaultMaintenanceMessage = "We are currently updating our system. Please try again later."

// ImageItem is one image entry of a home page section, stored as JSON
// inside the site settings row.
type ImageItem struct {
	URL   string `json:"url"`
	Alt   string `json:"alt"`
	Title string `json:"title"`
}

// SystemSettings is the system section of the site settings.  The
// booking engine consults IsBookingOpen before admitting new bookings.
type SystemSettings struct {
	IsBookingOpen      bool   `json:"isBookingOpen"`
	MaintenanceMessage string `json:"maintenanceMessage"`
}

// BrandSettings holds the branding texts shown across the frontend.
type BrandSettings struct {
	LogoText string `json:"logoText"`
	Tagline  string `json:"tagline"`
}

// HomeSettings groups the image collections of the public home page.
type HomeSettings struct {
	HeroImages       []ImageItem `json:"heroImages"`
	HighlightsImages []ImageItem `json:"highlightsImages"`
	SpacesMoments    []ImageItem `json:"spacesMoments"`
	RecentEvents     []ImageItem `json:"recentEvents"`
}

// SiteSettings is the singleton configuration record stored in the
// `site_settings` table under key "default".  It is created lazily
// with booking open the first time it is read.
type SiteSettings struct {
	ID        uint64         // site_settings.id
	Key       string         // site_settings.key
	System    SystemSettings // site_settings.is_booking_open / maintenance_message
	Brand     BrandSettings  // site_settings.logo_text / tagline
	Home      HomeSettings   // site_settings.home (JSON)
	CreatedAt time.Time      // site_settings.created_at
	UpdatedAt time.Time      // site_settings.updated_at
}

// MediaAsset is an uploaded image reference managed by admins, as
// stored in the `media_assets` table.  Only the URL is tracked; the
// binary lives on external storage.
//
// Fields:
//  ID        – primary key identifier.
//  URL       – unique asset URL.
//  Title     – optional display title.
//  Tags      – free-form tags (JSON) for gallery filtering.
//  CreatedBy – admin who registered the asset.
//  CreatedAt – registration timestamp.
type MediaAsset struct {
	ID        uint64    // media_assets.id
	URL       string    // media_assets.url
	Title     string    // media_assets.title
	Tags      []string  // media_assets.tags (JSON)
	CreatedBy uint64    // media_assets.created_by
	CreatedAt time.Time // media_assets.created_at
}
