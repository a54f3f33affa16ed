package commands

import (
	"errors"
	"fmt"
	"strconv"
	"unicode"

	"taskdash/internal/output"
	"taskdash/internal/service"
)

// TaskRef represents a parsed task reference.
type TaskRef struct {
	Completed bool // true for the completed tab ("c3")
	TaskNum   int  // 1-based position within the tab
}

func (r TaskRef) String() string {
	return output.TaskRef(r.TaskNum, r.Completed)
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// completedMarker is the leading character of a completed-tab reference.
const completedMarker = 'c'

// ParseTaskRef parses a task reference from args.
//
// Parsing rules:
// 1. All digits (e.g., 3) → current tab
// 2. c<digits> (e.g., c3) → completed tab
// 3. "c" followed by a separate all-digit arg (c 3) → completed tab
// 4. "c" alone → error: task reference required
// 5. Otherwise → error: invalid task reference: <ref>
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 {
		return TaskRef{}, ErrTaskRefRequired
	}

	first := args[0]

	if isAllDigits(first) {
		num, err := strconv.Atoi(first)
		if err != nil {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", first)
		}
		return TaskRef{TaskNum: num}, nil
	}

	if len(first) > 0 && rune(first[0]) == completedMarker {
		if len(first) > 1 && isAllDigits(first[1:]) {
			num, err := strconv.Atoi(first[1:])
			if err != nil {
				return TaskRef{}, fmt.Errorf("invalid task reference: %s", first)
			}
			return TaskRef{Completed: true, TaskNum: num}, nil
		}

		if len(first) == 1 {
			if len(args) < 2 {
				return TaskRef{}, ErrTaskRefRequired
			}
			if isAllDigits(args[1]) {
				num, err := strconv.Atoi(args[1])
				if err != nil {
					return TaskRef{}, fmt.Errorf("invalid task reference: %s", args[1])
				}
				return TaskRef{Completed: true, TaskNum: num}, nil
			}
		}
	}

	return TaskRef{}, fmt.Errorf("invalid task reference: %s", first)
}

// refArgCount returns how many args ParseTaskRef consumed for ref.
func refArgCount(args []string) int {
	if len(args) >= 2 && args[0] == string(completedMarker) {
		return 2
	}
	return 1
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// errOutOfRange reports a reference past the end of its tab.
type errOutOfRange struct {
	ref TaskRef
}

func (e errOutOfRange) Error() string {
	return fmt.Sprintf("task number out of range: %s", e.ref)
}

// lookupTask returns the task ref points at within tasks, numbered in API
// order inside its tab.
func lookupTask(tasks []service.Task, ref TaskRef) (service.Task, error) {
	tab := service.FilterTasks(tasks, ref.Completed)
	if ref.TaskNum < 1 || ref.TaskNum > len(tab) {
		return service.Task{}, errOutOfRange{ref: ref}
	}
	return tab[ref.TaskNum-1], nil
}
