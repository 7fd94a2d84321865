package ports

import (
	"context"
	"errors"
)

var (
	ErrOrderNotFound         = errors.New("order not found")
	ErrUserNotFound          = errors.New("user not found")
	ErrChecklistItemNotFound = errors.New("checklist item not found")
)

// Order is the transport-agnostic order record. Timestamps are RFC3339Nano
// UTC strings; nullable ones are pointers.
type Order struct {
	OrderID            uint64
	ExternalOrderID    *string
	OrderNumber        string
	Status             string
	Priority           string
	Source             string
	Address            string
	Instruction        string
	DueAt              *string
	OrderPlacedAt      *string
	AssignedAt         *string
	DrawerStartedAt    *string
	DrawerCompletedAt  *string
	CheckerStartedAt   *string
	CheckerCompletedAt *string
	QaStartedAt        *string
	QaCompletedAt      *string
	CreatedAt          string
}

// PortalOrderUpsert carries the content fields refreshed on re-ingestion.
// Status and workflow timestamps are deliberately absent: an upsert never
// rewinds workflow progress.
type PortalOrderUpsert struct {
	ExternalOrderID string
	OrderNumber     string
	Address         string
	Priority        string
	Instruction     string
	DueAt           *string
	OrderPlacedAt   *string
	Source          string
	IngestedAt      string
}

type User struct {
	UserID uint64
	Name   string
	Role   string
}

type Assignment struct {
	AssignmentID uint64
	OrderID      uint64
	UserID       uint64
	Role         string
	AssignedAt   string
	StartedAt    *string
	CompletedAt  *string
	IsCurrent    bool
}

type StatusLog struct {
	StatusLogID uint64
	OrderID     uint64
	FromStatus  *string
	ToStatus    string
	ActorID     *uint64
	Note        string
	CreatedAt   string
}

type Review struct {
	ReviewID   uint64
	OrderID    uint64
	ReviewerID uint64
	Role       string
	Approved   bool
	Comment    string
	ReviewedAt string
}

type Issue struct {
	IssueID     uint64
	OrderID     uint64
	ReviewID    *uint64
	Severity    string
	Description string
}

type ChecklistTemplate struct {
	TemplateID uint64
	Role       string
	Title      string
	Position   int
}

type ChecklistItem struct {
	ItemID     uint64
	OrderID    uint64
	TemplateID uint64
	Title      string
	Checked    bool
	CheckedAt  *string
	CheckedBy  *uint64
}

// OrderFilter narrows ListOrders. Stage filters map to the per-stage
// started/completed columns (role dashboards: pending vs in-review buckets).
type OrderFilter struct {
	Statuses        []string
	Priority        string
	Search          string
	CreatedFrom     string
	CreatedTo       string
	DueBefore       string
	StageNotStarted string
	StageInProgress string
	Limit           int
}

type StatusCount struct {
	Status string
	Count  int64
}

type PriorityCount struct {
	Priority string
	Count    int64
}

type OrderReadRepository interface {
	GetOrder(ctx context.Context, orderID uint64) (Order, error)
	GetOrderByExternalID(ctx context.Context, externalID string) (Order, error)
	ListOrders(ctx context.Context, filter OrderFilter) ([]Order, error)
	CountByStatus(ctx context.Context) ([]StatusCount, error)
	CountByPriority(ctx context.Context, statuses []string) ([]PriorityCount, error)

	GetUser(ctx context.Context, userID uint64) (User, error)
	GetUserByName(ctx context.Context, name string) (User, error)
	ListUsers(ctx context.Context, role string) ([]User, error)

	ListAssignments(ctx context.Context, orderID uint64) ([]Assignment, error)
	ListStatusLogs(ctx context.Context, orderID uint64) ([]StatusLog, error)
	ListReviews(ctx context.Context, orderID uint64) ([]Review, error)
	ListIssues(ctx context.Context, orderID uint64) ([]Issue, error)
	ListIssuesByReview(ctx context.Context, reviewID uint64) ([]Issue, error)

	ListChecklistTemplates(ctx context.Context, role string) ([]ChecklistTemplate, error)
	ListChecklistItems(ctx context.Context, orderID uint64) ([]ChecklistItem, error)
	GetChecklistItem(ctx context.Context, itemID uint64) (ChecklistItem, error)
	CountUncheckedItems(ctx context.Context, orderID uint64) (int64, error)
}

type OrderRepository interface {
	OrderReadRepository

	CreateOrder(ctx context.Context, order Order) (Order, error)
	// UpsertPortalOrder inserts a pending order keyed by external id, or
	// refreshes only content fields when the key exists. Returns whether a
	// new row was created.
	UpsertPortalOrder(ctx context.Context, input PortalOrderUpsert) (bool, error)
	UpdateOrder(ctx context.Context, orderID uint64, updates map[string]any) error
	// UpdateOrderIfStatus applies updates only while the order still has the
	// expected status (compare-and-swap). Returns false when another actor
	// moved the order first.
	UpdateOrderIfStatus(ctx context.Context, orderID uint64, expected string, updates map[string]any) (bool, error)

	CreateUser(ctx context.Context, user User) (User, error)

	// RetireCurrentAssignments flips is_current off for (order, role) and
	// returns how many rows changed.
	RetireCurrentAssignments(ctx context.Context, orderID uint64, role string) (int64, error)
	// UpdateCurrentAssignment patches the single current assignment for
	// (order, role), e.g. stage started/completed timestamps.
	UpdateCurrentAssignment(ctx context.Context, orderID uint64, role string, updates map[string]any) (int64, error)
	CreateAssignment(ctx context.Context, assignment Assignment) (Assignment, error)

	AppendStatusLog(ctx context.Context, log StatusLog) error
	CreateReview(ctx context.Context, review Review) (Review, error)
	CreateIssue(ctx context.Context, issue Issue) (Issue, error)

	CreateChecklistTemplate(ctx context.Context, template ChecklistTemplate) (ChecklistTemplate, error)
	CreateChecklistItems(ctx context.Context, orderID uint64, templates []ChecklistTemplate) error
	SetChecklistItem(ctx context.Context, itemID uint64, checked bool, checkedAt *string, checkedBy *uint64) error
}
