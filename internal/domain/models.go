package domain

// EntityType names a kind of record held by the shared data source. Grids
// subscribe to changes by entity type.
type EntityType string

const (
	EntityRole        EntityType = "role"
	EntityCourse      EntityType = "course"
	EntityMember      EntityType = "member"
	EntityConsumption EntityType = "consumption"
)

// EntityTypes lists every entity type in display order.
var EntityTypes = []EntityType{EntityMember, EntityCourse, EntityRole, EntityConsumption}

// MemberType distinguishes account holders from the people they sponsor
type MemberType string

const (
	MemberMain MemberType = "main"
	MemberSub  MemberType = "sub"
)

// Role is a staff or access role within the club
type Role struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Level       int    `yaml:"level"`
}

// Course is a bookable class
type Course struct {
	ID       string  `yaml:"id"`
	Name     string  `yaml:"name"`
	Coach    string  `yaml:"coach"`
	Schedule string  `yaml:"schedule"`
	Price    float64 `yaml:"price"`
	Capacity int     `yaml:"capacity"`
}

// Member is a club member. Sub members point at the main member who pays for them.
type Member struct {
	ID           string     `yaml:"id"`
	Name         string     `yaml:"name"`
	Phone        string     `yaml:"phone"`
	Type         MemberType `yaml:"type"`
	MainMemberID string     `yaml:"main_member_id"`
	JoinedAt     string     `yaml:"joined_at"`
}

// Consumption records a member paying for a course
type Consumption struct {
	ID       string  `yaml:"id"`
	MemberID string  `yaml:"member_id"`
	CourseID string  `yaml:"course_id"`
	Amount   float64 `yaml:"amount"`
	Date     string  `yaml:"date"`
}
