package templates

import (
	"time"
)

// Option pattern
type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}

func WithCompany(company, app string) Option {
	return func(d *EmailData) {
		d.CompanyName = company
		d.AppName = app
	}
}

// NewAccountEmailData fills the fields shared by the account templates, then applies opts.
func NewAccountEmailData(typ string, userID int64, name, email string, opts ...Option) EmailData {
	d := EmailData{
		Name:   name,
		Email:  email,
		UserID: userID,
		Type:   typ,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}
