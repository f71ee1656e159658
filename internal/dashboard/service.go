// Package dashboard assembles the analytics snapshot shown on the main
// dashboard. The revenue, product, and device series are static sample
// data, matching the product's mock analytics; only the task counts are
// live, derived from the caller's task list.
package dashboard

import (
	"context"
	"fmt"

	"pulseboard/internal/tasks"
)

// Point is one labeled value in a chart series.
type Point struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Stat is one headline metric card.
type Stat struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Change string `json:"change"`
}

// Snapshot is everything the dashboard page renders in one response.
type Snapshot struct {
	Stats       []Stat         `json:"stats"`
	Revenue     []Point        `json:"revenue"`
	TopProducts []Point        `json:"topProducts"`
	Devices     []Point        `json:"devices"`
	TaskCounts  map[string]int `json:"taskCounts"`
}

var (
	revenueSeries = []Point{
		{Name: "Jan", Value: 400},
		{Name: "Feb", Value: 300},
		{Name: "Mar", Value: 600},
		{Name: "Apr", Value: 800},
		{Name: "May", Value: 500},
		{Name: "Jun", Value: 900},
	}

	productSeries = []Point{
		{Name: "Product A", Value: 400},
		{Name: "Product B", Value: 300},
		{Name: "Product C", Value: 500},
		{Name: "Product D", Value: 200},
		{Name: "Product E", Value: 600},
	}

	deviceSeries = []Point{
		{Name: "Desktop", Value: 400},
		{Name: "Mobile", Value: 300},
		{Name: "Tablet", Value: 200},
	}

	headlineStats = []Stat{
		{Name: "Total Users", Value: "12,234", Change: "+12%"},
		{Name: "Revenue", Value: "$45,231", Change: "+8%"},
		{Name: "Active Sessions", Value: "1,429", Change: "+4%"},
		{Name: "Conversion Rate", Value: "3.2%", Change: "-1%"},
	}
)

// Service builds dashboard snapshots.
type Service struct {
	tasks *tasks.Service
}

// NewService creates a dashboard Service backed by the task list.
func NewService(taskSvc *tasks.Service) *Service {
	return &Service{tasks: taskSvc}
}

// Snapshot returns the dashboard payload for the given user.
func (s *Service) Snapshot(ctx context.Context, userEmail string) (Snapshot, error) {
	counts, err := s.tasks.StatusCounts(ctx, userEmail)
	if err != nil {
		return Snapshot{}, fmt.Errorf("task counts: %w", err)
	}

	taskCounts := make(map[string]int, len(counts))
	for status, count := range counts {
		taskCounts[string(status)] = count
	}

	return Snapshot{
		Stats:       headlineStats,
		Revenue:     revenueSeries,
		TopProducts: productSeries,
		Devices:     deviceSeries,
		TaskCounts:  taskCounts,
	}, nil
}
