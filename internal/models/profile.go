// Token profile model definitions

package models

import "time"

// Profile describes how tokens are minted for one class of callers:
// which key signs them, how long they live, which audiences they name
// and which static claims ride along.
type Profile struct {
	Name       string         `json:"name"`
	KeyName    string         `json:"key_name"`
	TTLSeconds int            `json:"ttl_seconds"`
	Audiences  []string       `json:"audiences"`
	Claims     map[string]any `json:"claims,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// TTL returns the profile's token lifetime as a duration.
func (p *Profile) TTL() time.Duration {
	return time.Duration(p.TTLSeconds) * time.Second
}
