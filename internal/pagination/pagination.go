package pagination

import "gorm.io/gorm"

// ListRequest holds offset pagination parameters parsed from query strings.
// List endpoints return plain arrays, so only skip/limit are carried.
type ListRequest struct {
	Skip  int `form:"skip" binding:"omitempty,min=0"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=1000"`
}

// Defaults fills in the default window when limit is not provided.
func (p *ListRequest) Defaults() {
	if p.Limit == 0 {
		p.Limit = 100
	}
}

// Paginate returns a GORM scope that applies OFFSET and LIMIT for the given request.
func Paginate(req ListRequest) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(req.Skip).Limit(req.Limit)
	}
}
