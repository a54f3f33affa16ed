package commands

import (
	"errors"
	"testing"
	"time"

	"taskdash/internal/service"
)

func TestParseTaskRef_NumericOnly(t *testing.T) {
	ref, err := ParseTaskRef([]string{"5"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.Completed {
		t.Error("expected Completed to be false")
	}
	if ref.TaskNum != 5 {
		t.Errorf("expected TaskNum 5, got %d", ref.TaskNum)
	}
}

func TestParseTaskRef_CompletedRef(t *testing.T) {
	ref, err := ParseTaskRef([]string{"c12"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ref.Completed {
		t.Error("expected Completed to be true")
	}
	if ref.TaskNum != 12 {
		t.Errorf("expected TaskNum 12, got %d", ref.TaskNum)
	}
	if ref.String() != "c12" {
		t.Errorf("expected String() c12, got %q", ref.String())
	}
}

func TestParseTaskRef_SeparatedCompletedRef(t *testing.T) {
	ref, err := ParseTaskRef([]string{"c", "3"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ref.Completed || ref.TaskNum != 3 {
		t.Errorf("unexpected ref: %#v", ref)
	}
	if n := refArgCount([]string{"c", "3"}); n != 2 {
		t.Errorf("expected 2 args consumed, got %d", n)
	}
}

func TestParseTaskRef_MarkerOnly_Error(t *testing.T) {
	_, err := ParseTaskRef([]string{"c"})
	if !errors.Is(err, ErrTaskRefRequired) {
		t.Errorf("expected ErrTaskRefRequired, got %v", err)
	}
}

func TestParseTaskRef_NoArgs_Error(t *testing.T) {
	_, err := ParseTaskRef([]string{})
	if err != ErrTaskRefRequired {
		t.Errorf("expected ErrTaskRefRequired, got %v", err)
	}
}

func TestParseTaskRef_InvalidRef_Error(t *testing.T) {
	for _, arg := range []string{"abc", "a1", "C3", "3c", "-1", "c-1"} {
		_, err := ParseTaskRef([]string{arg})
		if err == nil {
			t.Errorf("expected error for %q", arg)
			continue
		}
		expectedMsg := "invalid task reference: " + arg
		if err.Error() != expectedMsg {
			t.Errorf("expected %q, got %q", expectedMsg, err.Error())
		}
	}
}

func TestParseTaskRef_SeparatedWithNonDigitSecond_Error(t *testing.T) {
	_, err := ParseTaskRef([]string{"c", "xyz"})
	if err == nil {
		t.Fatal("expected error for non-digit second arg")
	}
	if err.Error() != "invalid task reference: c" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestParseTaskRef_NonASCIIDigits_Error(t *testing.T) {
	if _, err := ParseTaskRef([]string{"٣"}); err == nil {
		t.Fatal("expected error for non-ASCII digit")
	}
}

func TestLookupTask_NumbersWithinTab(t *testing.T) {
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.Local)
	tasks := []service.Task{
		{ID: "1", Name: "a", CreatedDate: day},
		{ID: "2", Name: "b", CreatedDate: day, Completed: true},
		{ID: "3", Name: "c", CreatedDate: day},
		{ID: "4", Name: "d", CreatedDate: day, Completed: true},
	}

	got, err := lookupTask(tasks, TaskRef{TaskNum: 2})
	if err != nil || got.ID != "3" {
		t.Errorf("current #2: expected id 3, got %q (%v)", got.ID, err)
	}
	got, err = lookupTask(tasks, TaskRef{Completed: true, TaskNum: 2})
	if err != nil || got.ID != "4" {
		t.Errorf("completed #2: expected id 4, got %q (%v)", got.ID, err)
	}
}

func TestLookupTask_OutOfRange(t *testing.T) {
	tasks := []service.Task{{ID: "1", Name: "a"}}
	for _, ref := range []TaskRef{{TaskNum: 0}, {TaskNum: 2}, {Completed: true, TaskNum: 1}} {
		_, err := lookupTask(tasks, ref)
		if err == nil {
			t.Errorf("expected error for %s", ref)
			continue
		}
		expected := "task number out of range: " + ref.String()
		if err.Error() != expected {
			t.Errorf("expected %q, got %q", expected, err.Error())
		}
	}
}

func TestParseDate_LocalMidnight(t *testing.T) {
	got, err := parseDate("due", "2024-05-03")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2024, 5, 3, 0, 0, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestParseDate_Invalid(t *testing.T) {
	_, err := parseDate("due", "05/03/2024")
	if err == nil {
		t.Fatal("expected error")
	}
	expected := "invalid date for --due: 05/03/2024 (want YYYY-MM-DD)"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
}

func TestLocalDay(t *testing.T) {
	got := localDay(time.Date(2024, 5, 1, 23, 59, 0, 0, time.Local))
	if !got.Equal(time.Date(2024, 5, 1, 0, 0, 0, 0, time.Local)) {
		t.Errorf("expected local midnight, got %v", got)
	}
	if !localDay(time.Time{}).IsZero() {
		t.Error("expected zero time to stay zero")
	}
}

func TestTaskInputFrom_CutsDatesToLocalDays(t *testing.T) {
	created := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	in := taskInputFrom(service.Task{Name: "Plan", CreatedDate: created})

	y, m, d := created.Local().Date()
	if !in.CreatedDate.Equal(time.Date(y, m, d, 0, 0, 0, 0, time.Local)) {
		t.Errorf("unexpected created date %v", in.CreatedDate)
	}
	if !in.CompletionDate.IsZero() {
		t.Errorf("expected zero completion date, got %v", in.CompletionDate)
	}
}
