package api

import (
	"strings"
	"time"
)

// SubscriptionTier enumerates the product plans a user can hold.
type SubscriptionTier string

const (
	TierFree       SubscriptionTier = "free"
	TierStarter    SubscriptionTier = "starter"
	TierPro        SubscriptionTier = "pro"
	TierBusiness   SubscriptionTier = "business"
	TierEnterprise SubscriptionTier = "enterprise"
)

// SubscriptionStatus enumerates billing states. Tier and status are
// independent axes; a canceled subscription can still carry its tier.
type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionInactive SubscriptionStatus = "inactive"
	SubscriptionCanceled SubscriptionStatus = "canceled"
	SubscriptionPastDue  SubscriptionStatus = "past_due"
	SubscriptionTrialing SubscriptionStatus = "trialing"
)

// User is the backend's view of the current account.
type User struct {
	ID                 string             `json:"id"`
	Email              string             `json:"email"`
	FullName           string             `json:"full_name"`
	AvatarURL          string             `json:"avatar_url"`
	CompanyName        string             `json:"company_name"`
	CreditsRemaining   int                `json:"credits_remaining"`
	CreditsUsedTotal   int                `json:"credits_used_total"`
	SubscriptionTier   SubscriptionTier   `json:"subscription_tier"`
	SubscriptionStatus SubscriptionStatus `json:"subscription_status"`
	PreferredLanguage  string             `json:"preferred_language"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// DisplayName prefers the full name and falls back to the email address.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if name := strings.TrimSpace(u.FullName); name != "" {
		return name
	}
	return u.Email
}

// ProjectStatus represents the lifecycle of a video project. Transitions are
// monotonic forward except external cancellation and failure.
type ProjectStatus string

const (
	StatusDraft      ProjectStatus = "draft"
	StatusQueued     ProjectStatus = "queued"
	StatusProcessing ProjectStatus = "processing"
	StatusCompleted  ProjectStatus = "completed"
	StatusFailed     ProjectStatus = "failed"
	StatusCanceled   ProjectStatus = "canceled"
)

// Pending reports whether the status is non-terminal and worth polling.
func (s ProjectStatus) Pending() bool {
	return s == StatusQueued || s == StatusProcessing
}

// VideoFormat is the aspect ratio of a generated video.
type VideoFormat string

const (
	FormatVertical VideoFormat = "9:16"
	FormatSquare   VideoFormat = "1:1"
	FormatWide     VideoFormat = "16:9"
)

// Project is the backend's view of a video project. The client treats it as a
// cache of the latest server response; the only local mutation is delete.
type Project struct {
	ID                 string        `json:"id"`
	UserID             string        `json:"user_id"`
	AvatarID           string        `json:"avatar_id"`
	Title              string        `json:"title"`
	ProductName        string        `json:"product_name"`
	ProductDescription string        `json:"product_description"`
	ProductURL         string        `json:"product_url"`
	ProductImageURL    string        `json:"product_image_url"`
	Script             string        `json:"script"`
	Language           string        `json:"language"`
	Format             VideoFormat   `json:"format"`
	Status             ProjectStatus `json:"status"`
	ProgressPercent    int           `json:"progress_percent"`
	ErrorMessage       string        `json:"error_message"`
	VideoURL           string        `json:"video_url"`
	ThumbnailURL       string        `json:"thumbnail_url"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
	CompletedAt        *time.Time    `json:"completed_at"`
}

// AnyPending reports whether any project in the list is queued or processing.
func AnyPending(projects []Project) bool {
	for _, p := range projects {
		if p.Status.Pending() {
			return true
		}
	}
	return false
}

// Avatar describes a presenter persona. Immutable from the client's side.
type Avatar struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	DisplayName     string   `json:"display_name"`
	Gender          string   `json:"gender"`
	AgeRange        string   `json:"age_range"`
	Ethnicity       string   `json:"ethnicity"`
	Style           string   `json:"style"`
	Languages       []string `json:"languages"`
	PreviewVideoURL string   `json:"preview_video_url"`
	ThumbnailURL    string   `json:"thumbnail_url"`
	IsPremium       bool     `json:"is_premium"`
	UsageCount      int      `json:"usage_count"`
}

// Label prefers the display name and falls back to the internal name.
func (a Avatar) Label() string {
	if a.DisplayName != "" {
		return a.DisplayName
	}
	return a.Name
}

// AvatarFilter narrows an avatar list by gender and style. Empty or "all"
// fields match everything; filtering happens client-side.
type AvatarFilter struct {
	Gender string
	Style  string
}

// Apply returns the avatars matching the filter.
func (f AvatarFilter) Apply(avatars []Avatar) []Avatar {
	matched := make([]Avatar, 0, len(avatars))
	for _, avatar := range avatars {
		if !matchField(f.Gender, avatar.Gender) {
			continue
		}
		if !matchField(f.Style, avatar.Style) {
			continue
		}
		matched = append(matched, avatar)
	}
	return matched
}

func matchField(want, got string) bool {
	want = strings.ToLower(strings.TrimSpace(want))
	return want == "" || want == "all" || want == strings.ToLower(got)
}

// AuthSession is the token bundle returned by register, login, and refresh.
type AuthSession struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	User         *User  `json:"user"`
}

// Meta carries pagination information from list endpoints.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}
