package domain

// Place represents an exchange house (one per gatherer source).
// Corresponds to places table in PostgreSQL.
type Place struct {
	ID       int64     `json:"id"`
	Code     string    `json:"code"` // stable source code, unique
	Name     string    `json:"name"`
	Branches []*Branch `json:"branches"`
}

// Branch represents one physical or logical location of a Place.
// Corresponds to branches table in PostgreSQL.
type Branch struct {
	ID          int64    `json:"id"`
	PlaceID     int64    `json:"place_id"`
	Name        string   `json:"name"`
	RemoteCode  string   `json:"remote_code"` // unique within the place
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	PhoneNumber string   `json:"phone_number,omitempty"`
	Email       string   `json:"email,omitempty"`
	Schedule    string   `json:"schedule,omitempty"`
	Image       string   `json:"image,omitempty"`
}

// BranchByRemoteCode returns the branch with the given remote code, or nil.
func (p *Place) BranchByRemoteCode(code string) *Branch {
	for _, b := range p.Branches {
		if b.RemoteCode == code {
			return b
		}
	}
	return nil
}

// AddBranch appends b to the place unless a branch with the same remote code
// already exists. Returns false when b was not added.
func (p *Place) AddBranch(b *Branch) bool {
	if p.BranchByRemoteCode(b.RemoteCode) != nil {
		return false
	}
	b.PlaceID = p.ID
	p.Branches = append(p.Branches, b)
	return true
}

// Clone returns a deep copy of the place and its branches.
func (p *Place) Clone() *Place {
	c := *p
	c.Branches = make([]*Branch, len(p.Branches))
	for i, b := range p.Branches {
		bc := *b
		if b.Latitude != nil {
			lat := *b.Latitude
			bc.Latitude = &lat
		}
		if b.Longitude != nil {
			lng := *b.Longitude
			bc.Longitude = &lng
		}
		c.Branches[i] = &bc
	}
	return &c
}
