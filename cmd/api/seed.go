package main

import (
	"time"

	"github.com/google/uuid"

	"pulseboard/internal/auth"
	"pulseboard/internal/tasks"
)

// Demo credentials for the in-memory store. Both accounts use the password
// "password" (bcrypt, cost 10).
const demoPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// seedDemoData builds the accounts and tasks served when DATA_STORE=memory.
func seedDemoData() ([]auth.User, []tasks.Task) {
	now := time.Now()

	admin := auth.User{
		ID:           uuid.New(),
		Email:        "admin@pulseboard.local",
		FirstName:    "Avery",
		LastName:     "Admin",
		Role:         auth.RoleAdmin,
		PasswordHash: demoPasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
		LastLoginAt:  now,
	}
	member := auth.User{
		ID:           uuid.New(),
		Email:        "demo@pulseboard.local",
		FirstName:    "Dana",
		LastName:     "Demo",
		Role:         auth.RoleUser,
		PasswordHash: demoPasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
		LastLoginAt:  now,
	}

	due := now.Add(72 * time.Hour)
	demoTasks := []tasks.Task{
		{
			ID:         uuid.New(),
			Title:      "Review Q3 revenue numbers",
			Status:     tasks.StatusInProgress,
			Priority:   tasks.PriorityHigh,
			DueDate:    &due,
			AssignedTo: member.Email,
			CreatedBy:  admin.Email,
			Labels:     []string{"finance", "quarterly"},
			Project:    "reporting",
			History:    []tasks.HistoryEntry{},
			CreatedAt:  now.Add(-48 * time.Hour),
			UpdatedAt:  now.Add(-2 * time.Hour),
		},
		{
			ID:         uuid.New(),
			Title:      "Update onboarding checklist",
			Status:     tasks.StatusTodo,
			Priority:   tasks.PriorityMedium,
			AssignedTo: member.Email,
			CreatedBy:  member.Email,
			Labels:     []string{"ops"},
			History:    []tasks.HistoryEntry{},
			CreatedAt:  now.Add(-24 * time.Hour),
			UpdatedAt:  now.Add(-24 * time.Hour),
		},
		{
			ID:         uuid.New(),
			Title:      "Ship dashboard redesign",
			Status:     tasks.StatusDone,
			Priority:   tasks.PriorityLow,
			AssignedTo: admin.Email,
			CreatedBy:  admin.Email,
			Project:    "frontend",
			History:    []tasks.HistoryEntry{},
			CreatedAt:  now.Add(-96 * time.Hour),
			UpdatedAt:  now.Add(-12 * time.Hour),
		},
	}

	return []auth.User{admin, member}, demoTasks
}
