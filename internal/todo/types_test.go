package todo

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestParsePriority(t *testing.T) {
	tests := []struct {
		in      string
		want    Priority
		wantErr bool
	}{
		{in: "low", want: PriorityLow},
		{in: " Medium ", want: PriorityMedium},
		{in: "HIGH", want: PriorityHigh},
		{in: "", want: PriorityNone},
		{in: "urgent", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePriority(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPriority) {
					t.Fatalf("ParsePriority(%q): got %v, want ErrInvalidPriority", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePriority(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParsePriority(%q): got %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTaskJSON(t *testing.T) {
	task := Task{ID: 1, Description: "Buy milk", DueDate: NewDate(2024, 5, 1), Priority: PriorityLow}
	data, err := json.Marshal(task)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	want := `{"id":1,"description":"Buy milk","due_date":"2024-05-01T00:00:00","priority":"low","completed":false}`
	if string(data) != want {
		t.Errorf("Marshal: got %s, want %s", data, want)
	}

	data, err = json.Marshal(Task{ID: 2, Description: "Write report"})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	want = `{"id":2,"description":"Write report","due_date":null,"priority":null,"completed":false}`
	if string(data) != want {
		t.Errorf("Marshal unset fields: got %s, want %s", data, want)
	}

	var decoded Task
	if err := json.Unmarshal([]byte(want), &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded.HasDueDate() || decoded.Priority.IsSet() {
		t.Errorf("Unmarshal null fields: got %+v", decoded)
	}
}

func TestDateUnmarshalRejectsInputLayout(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`"2024-05-01"`), &d); err == nil {
		t.Error("expected error for date without time part")
	}
}

func TestOverdue(t *testing.T) {
	now := time.Date(2024, 5, 2, 15, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		task Task
		want bool
	}{
		{name: "past", task: Task{DueDate: NewDate(2024, 5, 1)}, want: true},
		{name: "today", task: Task{DueDate: NewDate(2024, 5, 2)}, want: false},
		{name: "future", task: Task{DueDate: NewDate(2024, 5, 3)}, want: false},
		{name: "no date", task: Task{}, want: false},
		{name: "completed", task: Task{DueDate: NewDate(2024, 5, 1), Completed: true}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.task.Overdue(now); got != tt.want {
				t.Errorf("Overdue: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStatus(t *testing.T) {
	if got := (Task{}).Status(); got != "Pending" {
		t.Errorf("Status: got %q, want Pending", got)
	}
	if got := (Task{Completed: true}).Status(); got != "Completed" {
		t.Errorf("Status: got %q, want Completed", got)
	}
}
