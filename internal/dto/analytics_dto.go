package dto

import (
	"time"

	"github.com/google/uuid"
)

// VelocityResponse summarizes completed work over a trailing window
type VelocityResponse struct {
	BoardID           uuid.UUID `json:"boardId"`
	WindowDays        int       `json:"windowDays"`
	CompletedBugs     int       `json:"completedBugs"`
	CompletedFeatures int       `json:"completedFeatures"`
	CompletedItems    int       `json:"completedItems"`
	BugPoints         int       `json:"bugPoints"`
	FeaturePoints     int       `json:"featurePoints"`
	CompletedPoints   int       `json:"completedPoints"`
	PointsPerDay      float64   `json:"pointsPerDay"`
}

// BurndownPoint is one day of the burndown series. IdealPoints is the
// linear reference line from the window's total down to zero.
type BurndownPoint struct {
	Date            string  `json:"date"`
	CompletedPoints int     `json:"completedPoints"`
	RemainingPoints int     `json:"remainingPoints"`
	IdealPoints     float64 `json:"idealPoints"`
}

// BurndownResponse is the remaining-points series for a board
type BurndownResponse struct {
	BoardID         uuid.UUID       `json:"boardId"`
	WindowDays      int             `json:"windowDays"`
	TotalPoints     int             `json:"totalPoints"`
	CompletedPoints int             `json:"completedPoints"`
	RemainingPoints int             `json:"remainingPoints"`
	Days            []BurndownPoint `json:"days"`
}

// WorkloadEntry is one member's share of the board's open work
type WorkloadEntry struct {
	UserID   uuid.UUID `json:"userId"`
	UserName string    `json:"userName"`
	Color    string    `json:"color"`
	Bugs     int       `json:"bugs"`
	Features int       `json:"features"`
	Total    int       `json:"total"`
	Points   int       `json:"points"`
}

// WorkloadResponse lists members by the points assigned to them, heaviest
// first. Done-column and archived items are excluded.
type WorkloadResponse struct {
	BoardID uuid.UUID       `json:"boardId"`
	Members []WorkloadEntry `json:"members"`
}

// Bottleneck statuses
const (
	BottleneckWarning  = "warning"
	BottleneckCritical = "critical"
)

// ColumnLoadResponse is the WIP occupancy of one limited column.
// Utilization is a percentage of the limit.
type ColumnLoadResponse struct {
	ColumnID    uuid.UUID `json:"columnId"`
	Title       string    `json:"title"`
	ActiveCount int64     `json:"activeCount"`
	WipLimit    int       `json:"wipLimit"`
	Utilization float64   `json:"utilization"`
	Status      string    `json:"status"`
}

// BottlenecksResponse lists limited columns at 80% or more of their WIP
// limit. Columns without a limit never appear.
type BottlenecksResponse struct {
	BoardID uuid.UUID            `json:"boardId"`
	Columns []ColumnLoadResponse `json:"columns"`
}

// DailySummaryResponse aggregates one day of board activity
type DailySummaryResponse struct {
	BoardID         uuid.UUID `json:"boardId"`
	Date            string    `json:"date"`
	CreatedItems    int       `json:"createdItems"`
	CompletedItems  int       `json:"completedItems"`
	CompletedPoints int       `json:"completedPoints"`
	Comments        int       `json:"comments"`
	OpenTimeEntries int64     `json:"openTimeEntries"`
	TrackedHours    float64   `json:"trackedHours"`
	TrackedHuman    string    `json:"trackedHuman"`
	GeneratedAt     time.Time `json:"generatedAt"`
}

// BoardMetricsBundle is one board's headline numbers inside the project
// rollup. Completed figures cover the trailing velocity window; open and
// overdue figures are current.
type BoardMetricsBundle struct {
	BoardID         uuid.UUID `json:"boardId"`
	BoardName       string    `json:"boardName"`
	CompletedPoints int       `json:"completedPoints"`
	PointsPerDay    float64   `json:"pointsPerDay"`
	OpenItems       int       `json:"openItems"`
	OpenPoints      int       `json:"openPoints"`
	OverdueItems    int       `json:"overdueItems"`
	Bottlenecks     int       `json:"bottlenecks"`
}

// ProjectMetricsResponse rolls the per-board bundles up across a project
type ProjectMetricsResponse struct {
	ProjectID       uuid.UUID            `json:"projectId"`
	ProjectName     string               `json:"projectName"`
	WindowDays      int                  `json:"windowDays"`
	Boards          []BoardMetricsBundle `json:"boards"`
	CompletedPoints int                  `json:"completedPoints"`
	OpenItems       int                  `json:"openItems"`
	OverdueItems    int                  `json:"overdueItems"`
	GeneratedAt     time.Time            `json:"generatedAt"`
}
