package catalogs

import "time"

// Sale records a device sold to a user at a final price.
type Sale struct {
	ID         int64     `json:"id" yaml:"id"`
	Date       time.Time `json:"date" yaml:"date"`
	FinalPrice float64   `json:"final_price" yaml:"final_price"`
	DeviceID   int64     `json:"device_id,omitempty" yaml:"device_id,omitempty"`
	User       *User     `json:"user,omitempty" yaml:"-"`
}

// RefID returns the sale id.
func (s *Sale) RefID() int64 { return s.ID }

// Kind returns KindSale.
func (s *Sale) Kind() Kind { return KindSale }

// Validate checks the final price.
func (s *Sale) Validate() error {
	return nonNegative("final_price", s.FinalPrice)
}

// Clone returns a copy of the sale.
func (s *Sale) Clone() *Sale {
	if s == nil {
		return nil
	}
	cp := *s
	cp.User = s.User.Clone()
	return &cp
}

// User is an account that can be credited with sales.
type User struct {
	ID    int64  `json:"id" yaml:"id"`
	Login string `json:"login" yaml:"login"`
}

// RefID returns the user id.
func (u *User) RefID() int64 { return u.ID }

// Kind returns KindUser.
func (u *User) Kind() Kind { return KindUser }

// Validate checks required fields.
func (u *User) Validate() error {
	return required("login", u.Login)
}

// Clone returns a copy of the user.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	cp := *u
	return &cp
}
