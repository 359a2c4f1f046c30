package project

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// ValidStatus reports whether s is one of the known statuses.
func ValidStatus(s Status) bool {
	return slices.Contains(Statuses, s)
}

// ValidPriority reports whether p is one of the known priorities.
func ValidPriority(p Priority) bool {
	return slices.Contains(Priorities, p)
}

// ValidateCreate validates fields required to create a project.
func ValidateCreate(req CreateRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if !ValidStatus(req.Status) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, req.Status)
	}
	if !ValidPriority(req.Priority) {
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, req.Priority)
	}
	return validateDueDate(req.DueDate)
}

// ValidatePatch validates only the fields present in a patch.
func ValidatePatch(patch Patch) error {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return fmt.Errorf("%w: name cannot be blank", ErrInvalidInput)
	}
	if patch.Status != nil && !ValidStatus(*patch.Status) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *patch.Status)
	}
	if patch.Priority != nil && !ValidPriority(*patch.Priority) {
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, *patch.Priority)
	}
	if patch.Progress != nil && (*patch.Progress < 0 || *patch.Progress > 100) {
		return fmt.Errorf("%w: progress must be between 0 and 100", ErrInvalidInput)
	}
	if patch.DueDate != nil {
		return validateDueDate(*patch.DueDate)
	}
	return nil
}

func validateDueDate(date string) error {
	if date == "" {
		return nil
	}
	if _, err := time.Parse(DueDateLayout, date); err != nil {
		return fmt.Errorf("%w: due date must be YYYY-MM-DD", ErrInvalidInput)
	}
	return nil
}
