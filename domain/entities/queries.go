package entities

// SlipUpdate describes a partial edit to a draft slip. Nil fields are left
// untouched.
type SlipUpdate struct {
	AddPicks      []PickInput
	RemovePickIDs []int64
	Stake         *int64
	Name          *string
}

// Slip list sort orders
const (
	SlipSortCreatedAt = "created_at"
	SlipSortLockedAt  = "locked_at"
)

// SlipListQuery controls pagination, filtering and sorting of a user's slips
type SlipListQuery struct {
	Status   *SlipStatus
	Page     int
	PageSize int
	SortBy   string
}

const (
	defaultPageSize = 20
	maxPageSize     = 50
)

// Normalize fills defaults and clamps the page size
func (q *SlipListQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = defaultPageSize
	}
	if q.PageSize > maxPageSize {
		q.PageSize = maxPageSize
	}
	if q.SortBy != SlipSortLockedAt {
		q.SortBy = SlipSortCreatedAt
	}
}

// Offset returns the row offset for the normalized query
func (q *SlipListQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// PickValidation is the per-pick result of a stateless draft revalidation
type PickValidation struct {
	Index        int
	EventID      int64
	Valid        bool
	EventExists  bool
	Biddable     bool
	OddsChanged  bool
	CurrentOdds  *int
	Problem      string
}
