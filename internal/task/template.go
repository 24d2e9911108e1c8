package task

type slot struct {
	start, end, emoji, activity string
	category                    Category
}

var dailyTemplate = []slot{
	{"08:00", "08:15", "⏰", "Wake up, water, make bed", Personal},
	{"08:15", "08:30", "🤸", "Exercise", Personal},
	{"08:30", "08:45", "🥣", "Breakfast", Personal},
	{"08:45", "09:00", "📚", "Reading", Study},
	{"09:00", "10:30", "💻", "Work", Work},
	{"10:30", "11:00", "👨‍🎓", "Study", Study},
	{"11:00", "12:30", "💻", "Work", Work},
	{"12:30", "13:00", "👨‍🎓", "Study", Study},
	{"13:00", "13:15", "🍳", "Cook", Personal},
	{"13:15", "13:30", "🍽", "Lunch", Personal},
	{"13:30", "14:00", "👨‍👩‍👧", "Family time", Family},
	{"14:00", "15:00", "💻", "Work", Work},
	{"15:00", "15:30", "👨‍🎓", "Study", Study},
	{"15:30", "16:30", "💻", "Work", Work},
	{"16:30", "17:00", "👨‍🎓", "Study", Study},
	{"17:00", "17:15", "☕", "Snack", Personal},
	{"17:15", "19:30", "💻", "Work", Work},
	{"19:30", "19:45", "🏋", "Exercise", Personal},
	{"19:45", "20:15", "📖", "Reading", Study},
	{"20:15", "20:30", "🧑‍🍳", "Cook", Personal},
	{"20:30", "20:45", "🍲", "Dinner", Personal},
	{"20:45", "21:30", "💻", "Work", Work},
	{"21:30", "21:45", "👨‍👩‍👧", "Family time", Family},
	{"21:45", "22:00", "😌", "Relaxation/breathing", Rest},
	{"22:00", "22:15", "🛀", "Bath/shower", Personal},
	{"22:15", "22:30", "📱", "Free time (social, leisure)", Personal},
	{"22:30", "22:45", "📖", "Light reading", Study},
	{"22:45", "23:00", "🧘", "Meditation/reflection", Rest},
	{"23:00", "23:30", "📱", "Leisure", Personal},
	{"23:30", "23:45", "👨‍👩‍👧", "Family time", Family},
	{"23:45", "00:00", "📋", "Prepare next day and rest", Rest},
}

// DefaultTemplate returns the first-run schedule with ids 0..n-1.
func DefaultTemplate() []Task {
	tasks := make([]Task, 0, len(dailyTemplate))
	for i, s := range dailyTemplate {
		tasks = append(tasks, Task{
			ID:                   i,
			StartTime:            s.start,
			EndTime:              s.end,
			Emoji:                s.emoji,
			Activity:             s.activity,
			Category:             s.category,
			Completed:            false,
			NotificationsEnabled: true,
		})
	}
	return tasks
}
