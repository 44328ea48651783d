package model

import "time"

type Profile struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Name      string    `db:"name" json:"name"`
	AvatarURL string    `db:"avatar_url" json:"avatar_url"`
	PartnerID *string   `db:"partner_id" json:"partner_id"` // At most one reciprocal link
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

func (p *Profile) HasPartner() bool {
	return p.PartnerID != nil && *p.PartnerID != ""
}

// Partner returns the partner's user ID, or "" when unpaired.
func (p *Profile) Partner() string {
	if p == nil || p.PartnerID == nil {
		return ""
	}
	return *p.PartnerID
}
