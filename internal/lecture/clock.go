// internal/lecture/clock.go
package lecture

import (
	"fmt"
	"strings"
	"time"

	"attendance-service/internal/model"
)

// TimeOfDay is a wall-clock instant within a day, in seconds since
// midnight. Grace arithmetic stays in this domain so adding minutes
// carries into the hour naturally.
type TimeOfDay int

// NewTimeOfDay builds a TimeOfDay from hours and minutes
func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*3600 + minute*60)
}

// Add returns the time-of-day shifted by d
func (t TimeOfDay) Add(d time.Duration) TimeOfDay {
	return t + TimeOfDay(d/time.Second)
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/3600, int(t)%3600/60)
}

// timeOfDayFrom extracts the time-of-day of a wall-clock instant
func timeOfDayFrom(now time.Time) TimeOfDay {
	return TimeOfDay(now.Hour()*3600 + now.Minute()*60 + now.Second())
}

// Slot is one fixed daily lecture window. Both bounds are inclusive.
type Slot struct {
	ID    int       `json:"id"`
	Start TimeOfDay `json:"start"`
	End   TimeOfDay `json:"end"`
}

// Contains reports whether the time-of-day falls inside the slot
func (s Slot) Contains(t TimeOfDay) bool {
	return t >= s.Start && t <= s.End
}

// Schedule is the static table of daily lecture slots plus the on-time
// grace window. Immutable after construction.
type Schedule struct {
	slots []Slot
	grace time.Duration
}

// NewSchedule parses slot specs of the form "HH:MM-HH:MM". Slot ids are
// assigned by position, starting at 1.
func NewSchedule(slotSpecs []string, graceMinutes int) (*Schedule, error) {
	if len(slotSpecs) == 0 {
		return nil, fmt.Errorf("lecture schedule requires at least one slot")
	}

	slots := make([]Slot, 0, len(slotSpecs))
	for i, spec := range slotSpecs {
		start, end, err := parseSlotSpec(spec)
		if err != nil {
			return nil, fmt.Errorf("slot %d: %w", i+1, err)
		}
		if end <= start {
			return nil, fmt.Errorf("slot %d: end %s not after start %s", i+1, end, start)
		}
		slots = append(slots, Slot{ID: i + 1, Start: start, End: end})
	}

	return &Schedule{
		slots: slots,
		grace: time.Duration(graceMinutes) * time.Minute,
	}, nil
}

// parseSlotSpec parses "HH:MM-HH:MM"
func parseSlotSpec(spec string) (TimeOfDay, TimeOfDay, error) {
	parts := strings.SplitN(spec, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed slot %q, want HH:MM-HH:MM", spec)
	}

	start, err := parseClock(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, err
	}
	end, err := parseClock(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// parseClock parses "HH:MM"
func parseClock(s string) (TimeOfDay, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(s, "%d:%d", &hour, &minute); err != nil {
		return 0, fmt.Errorf("malformed clock time %q: %w", s, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("clock time %q out of range", s)
	}
	return NewTimeOfDay(hour, minute), nil
}

// Slots returns the slot table
func (sc *Schedule) Slots() []Slot {
	return sc.slots
}

// CurrentSlot returns the slot containing now's time-of-day. The first
// match by ascending slot id wins.
func (sc *Schedule) CurrentSlot(now time.Time) (Slot, bool) {
	t := timeOfDayFrom(now)
	for _, slot := range sc.slots {
		if slot.Contains(t) {
			return slot, true
		}
	}
	return Slot{}, false
}

// Classify maps now to an attendance status against the active slot:
// on-time within the grace window from slot start (inclusive), late for
// the rest of the slot, invalid outside every slot. The matched slot id
// accompanies the status (zero when invalid).
func (sc *Schedule) Classify(now time.Time) (model.AttendanceStatus, int) {
	slot, ok := sc.CurrentSlot(now)
	if !ok {
		return model.StatusInvalidTime, 0
	}

	t := timeOfDayFrom(now)
	if t <= slot.Start.Add(sc.grace) {
		return model.StatusOnTime, slot.ID
	}
	return model.StatusLate, slot.ID
}
