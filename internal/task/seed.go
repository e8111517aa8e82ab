package task

// Seed returns the dataset a fresh session starts with.
func Seed() []Task {
	return []Task{
		{
			ID:          1,
			Title:       "Design homepage mockups",
			Description: "Create wireframes and high-fidelity designs for the new homepage",
			Priority:    PriorityHigh,
			Status:      StatusInProgress,
			DueDate:     MustDate("2025-07-06"),
			AssignedTo:  "john.doe@example.com",
			SharedWith:  []string{"jane.smith@example.com"},
			CreatedAt:   MustDate("2025-07-01"),
		},
		{
			ID:          2,
			Title:       "Review pull requests",
			Description: "Review and approve pending pull requests from the team",
			Priority:    PriorityMedium,
			Status:      StatusTodo,
			DueDate:     MustDate("2025-07-05"),
			AssignedTo:  "john.doe@example.com",
			SharedWith:  []string{},
			CreatedAt:   MustDate("2025-07-02"),
		},
		{
			ID:          3,
			Title:       "Prepare presentation slides",
			Description: "Create slides for tomorrow's client presentation",
			Priority:    PriorityHigh,
			Status:      StatusCompleted,
			DueDate:     MustDate("2025-07-04"),
			AssignedTo:  "john.doe@example.com",
			SharedWith:  []string{"jane.smith@example.com", "mike.wilson@example.com"},
			CreatedAt:   MustDate("2025-06-30"),
		},
	}
}
