package club

import (
	"strconv"

	"clubgrid/internal/domain"
)

// Column sets per entity type. Filter columns index into these.
var (
	RoleColumns        = []string{"ID", "Name", "Description", "Level"}
	CourseColumns      = []string{"ID", "Name", "Coach", "Schedule", "Price", "Capacity"}
	MemberColumns      = []string{"ID", "Name", "Phone", "Type", "Main Member", "Joined"}
	ConsumptionColumns = []string{"ID", "Member", "Course", "Amount", "Date"}

	// MemberPickerColumns is the select-mode member list. The last column
	// carries the checkbox.
	MemberPickerColumns = []string{"ID", "Name", "Phone", "Type", "Select"}
)

// MemberPickerSelectColumn is the checkbox column of MemberPickerColumns.
const MemberPickerSelectColumn = 4

var filterColumns = map[domain.EntityType][]int{
	domain.EntityRole:        {1, 2},
	domain.EntityCourse:      {1, 2, 3},
	domain.EntityMember:      {1, 2},
	domain.EntityConsumption: {1, 2, 4},
}

// Columns returns the column names for et, or nil for an unknown type.
func Columns(et domain.EntityType) []string {
	switch et {
	case domain.EntityRole:
		return RoleColumns
	case domain.EntityCourse:
		return CourseColumns
	case domain.EntityMember:
		return MemberColumns
	case domain.EntityConsumption:
		return ConsumptionColumns
	}
	return nil
}

// FilterColumns returns the columns the search term is matched against.
func FilterColumns(et domain.EntityType) []int {
	return filterColumns[et]
}

// Counts summarises the store for the home dashboard
type Counts struct {
	Members      int
	MainMembers  int
	SubMembers   int
	Courses      int
	Roles        int
	Consumptions int
	Revenue      float64
}

// Service renders store contents as grid rows
type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

// Store returns the underlying data source
func (s *Service) Store() *Store {
	return s.store
}

// Rows fetches the current rows for et. Each row has len(Columns(et)) cells.
func (s *Service) Rows(et domain.EntityType) [][]string {
	switch et {
	case domain.EntityRole:
		return s.roleRows()
	case domain.EntityCourse:
		return s.courseRows()
	case domain.EntityMember:
		return s.memberRows()
	case domain.EntityConsumption:
		return s.consumptionRows()
	}
	return nil
}

func (s *Service) roleRows() [][]string {
	roles := s.store.Roles()
	rows := make([][]string, 0, len(roles))
	for _, r := range roles {
		rows = append(rows, []string{r.ID, r.Name, r.Description, strconv.Itoa(r.Level)})
	}
	return rows
}

func (s *Service) courseRows() [][]string {
	courses := s.store.Courses()
	rows := make([][]string, 0, len(courses))
	for _, c := range courses {
		rows = append(rows, []string{c.ID, c.Name, c.Coach, c.Schedule, formatMoney(c.Price), strconv.Itoa(c.Capacity)})
	}
	return rows
}

func (s *Service) memberRows() [][]string {
	members := s.store.Members()
	names := make(map[string]string, len(members))
	for _, m := range members {
		names[m.ID] = m.Name
	}

	rows := make([][]string, 0, len(members))
	for _, m := range members {
		rows = append(rows, []string{m.ID, m.Name, m.Phone, string(m.Type), names[m.MainMemberID], m.JoinedAt})
	}
	return rows
}

// MemberPickerRows renders members for the select-mode picker. The Select
// cell is "true" for main members.
func (s *Service) MemberPickerRows() [][]string {
	members := s.store.Members()
	rows := make([][]string, 0, len(members))
	for _, m := range members {
		rows = append(rows, []string{m.ID, m.Name, m.Phone, string(m.Type), strconv.FormatBool(m.Type == domain.MemberMain)})
	}
	return rows
}

func (s *Service) consumptionRows() [][]string {
	consumptions := s.store.Consumptions()
	rows := make([][]string, 0, len(consumptions))
	for _, c := range consumptions {
		member := c.MemberID
		if m, ok := s.store.Member(c.MemberID); ok {
			member = m.Name
		}
		course := c.CourseID
		if cr, ok := s.store.Course(c.CourseID); ok {
			course = cr.Name
		}
		rows = append(rows, []string{c.ID, member, course, formatMoney(c.Amount), c.Date})
	}
	return rows
}

// Counts tallies the store for the dashboard header
func (s *Service) Counts() Counts {
	var c Counts
	for _, m := range s.store.Members() {
		c.Members++
		if m.Type == domain.MemberMain {
			c.MainMembers++
		} else {
			c.SubMembers++
		}
	}
	c.Courses = len(s.store.Courses())
	c.Roles = len(s.store.Roles())
	for _, con := range s.store.Consumptions() {
		c.Consumptions++
		c.Revenue += con.Amount
	}
	return c
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
