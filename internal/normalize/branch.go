package normalize

import "cotizaciones/internal/domain"

// BranchInfo is the static metadata known for one remote branch code.
type BranchInfo struct {
	Name        string
	Latitude    float64
	Longitude   float64
	HasLocation bool
	PhoneNumber string
	Email       string
	Schedule    string
	Image       string
}

// BranchTable maps remote branch codes to metadata for one source.
type BranchTable map[string]BranchInfo

// Branch builds the canonical branch for code. Unknown codes yield a minimal
// branch named after the code, and false.
func (t BranchTable) Branch(code string) (*domain.Branch, bool) {
	info, ok := t[code]
	if !ok {
		return &domain.Branch{Name: code, RemoteCode: code}, false
	}

	b := &domain.Branch{
		Name:        info.Name,
		RemoteCode:  code,
		PhoneNumber: info.PhoneNumber,
		Email:       info.Email,
		Schedule:    info.Schedule,
		Image:       info.Image,
	}
	if b.Name == "" {
		b.Name = code
	}
	if info.HasLocation {
		lat, lng := info.Latitude, info.Longitude
		b.Latitude = &lat
		b.Longitude = &lng
	}
	return b, true
}
