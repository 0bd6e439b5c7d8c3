package models

import (
	"net/mail"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxFundingWindow bounds how far in the future a campaign may end.
const MaxFundingWindow = 365 * 24 * time.Hour

// MinPasswordLength is the shortest password accepted on sign up.
const MinPasswordLength = 6

// Validate returns the user-facing messages for every rule p violates.
// An empty result means the project may be saved.
func (p Project) Validate(now time.Time) []string {
	var errs []string

	if n := utf8.RuneCountInString(p.Title); n < 5 || n > 60 {
		errs = append(errs, "Title must be between 5 and 60 characters")
	}
	if n := utf8.RuneCountInString(p.ShortBlurb); n < 20 || n > 135 {
		errs = append(errs, "Short blurb must be between 20 and 135 characters")
	}
	if utf8.RuneCountInString(p.Description) < 200 {
		errs = append(errs, "Description must be at least 200 characters")
	}
	if !IsCategory(p.Category) {
		errs = append(errs, "Category is not included in the list")
	}
	if p.FundingAmount < 1 {
		errs = append(errs, "Funding amount must be greater than or equal to 1")
	}
	switch {
	case p.FundingEndDate.Before(now):
		errs = append(errs, "The funding end date must be in the future")
	case p.FundingEndDate.After(now.Add(MaxFundingWindow)):
		errs = append(errs, "The funding end date must be less than one year away")
	}
	if !isHTTPURL(p.ImageURL) {
		errs = append(errs, "Image url must be a valid URL")
	}

	return errs
}

// Apply copies the non-nil fields of params onto p.
func (params ProjectParams) Apply(p *Project) {
	if params.Title != nil {
		p.Title = strings.TrimSpace(*params.Title)
	}
	if params.ShortBlurb != nil {
		p.ShortBlurb = strings.TrimSpace(*params.ShortBlurb)
	}
	if params.Description != nil {
		p.Description = strings.TrimSpace(*params.Description)
	}
	if params.Category != nil {
		p.Category = *params.Category
	}
	if params.FundingAmount != nil {
		p.FundingAmount = *params.FundingAmount
	}
	if params.FundingEndDate != nil {
		p.FundingEndDate = params.FundingEndDate.Time
	}
	if params.ImageURL != nil {
		p.ImageURL = strings.TrimSpace(*params.ImageURL)
	}
}

// Validate returns the user-facing messages for every rule r violates.
func (r Reward) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.Title) == "" {
		errs = append(errs, "Title can't be blank")
	}
	if r.Amount < 1 {
		errs = append(errs, "Amount must be greater than or equal to 1")
	}
	return errs
}

// Apply copies the non-nil fields of params onto r.
func (params RewardParams) Apply(r *Reward) {
	if params.Title != nil {
		r.Title = strings.TrimSpace(*params.Title)
	}
	if params.Amount != nil {
		r.Amount = *params.Amount
	}
	if params.Description != nil {
		r.Description = *params.Description
	}
}

// Validate returns the user-facing messages for every rule s violates.
func (s SignUpParams) Validate() []string {
	var errs []string
	if strings.TrimSpace(s.Name) == "" {
		errs = append(errs, "Name can't be blank")
	}
	if addr, err := mail.ParseAddress(s.Email); err != nil || addr.Address != strings.TrimSpace(s.Email) {
		errs = append(errs, "Email is invalid")
	}
	if utf8.RuneCountInString(s.Password) < MinPasswordLength {
		errs = append(errs, "Password is too short (minimum is 6 characters)")
	}
	return errs
}

// NormalizeEmail lower-cases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
