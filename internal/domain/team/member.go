// Package team provides the team Member domain entity.
package team

import "time"

// Member represents a presenter or staff member shown on the team page.
type Member struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Role      string    `json:"role"`
	Bio       string    `gorm:"type:text" json:"bio"`
	ImageURL  string    `json:"image_url"`
	Email     string    `json:"email"`
	SortOrder int       `gorm:"index" json:"sort_order"`
	IsActive  bool      `gorm:"index" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Less orders members by SortOrder, then by Name.
func (m *Member) Less(other *Member) bool {
	if m.SortOrder != other.SortOrder {
		return m.SortOrder < other.SortOrder
	}
	return m.Name < other.Name
}
