package scheduler

import (
	"strings"
	"testing"
	"time"

	"github.com/shaiso/fedflow/internal/domain"
)

func TestCalculateNextDue_Interval(t *testing.T) {
	sched := &domain.Schedule{
		IntervalSec: 3600,
		Timezone:    "UTC",
	}
	from := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	next, err := CalculateNextDue(sched, from)
	if err != nil {
		t.Fatalf("CalculateNextDue() error: %v", err)
	}

	want := time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Errorf("next = %v, want %v", next, want)
	}
}

func TestCalculateNextDue_Cron(t *testing.T) {
	sched := &domain.Schedule{
		CronExpr: "0 12 * * *", // каждый день в 12:00
		Timezone: "UTC",
	}
	from := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	next, err := CalculateNextDue(sched, from)
	if err != nil {
		t.Fatalf("CalculateNextDue() error: %v", err)
	}

	want := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Errorf("next = %v, want %v", next, want)
	}
}

func TestCalculateNextDue_CronRespectsTimezone(t *testing.T) {
	// 12:00 по Москве = 09:00 UTC
	sched := &domain.Schedule{
		CronExpr: "0 12 * * *",
		Timezone: "Europe/Moscow",
	}
	from := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)

	next, err := CalculateNextDue(sched, from)
	if err != nil {
		t.Fatalf("CalculateNextDue() error: %v", err)
	}

	want := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Errorf("next = %v, want %v", next, want)
	}
}

func TestCalculateNextDue_CronTakesPriorityOverInterval(t *testing.T) {
	sched := &domain.Schedule{
		CronExpr:    "30 15 * * *",
		IntervalSec: 60,
		Timezone:    "UTC",
	}
	from := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	next, err := CalculateNextDue(sched, from)
	if err != nil {
		t.Fatalf("CalculateNextDue() error: %v", err)
	}

	want := time.Date(2026, 3, 1, 15, 30, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Errorf("next = %v, want %v", next, want)
	}
}

func TestCalculateNextDue_InvalidTimezoneFallsBackToUTC(t *testing.T) {
	sched := &domain.Schedule{
		IntervalSec: 60,
		Timezone:    "Mars/Olympus",
	}
	from := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	next, err := CalculateNextDue(sched, from)
	if err != nil {
		t.Fatalf("CalculateNextDue() error: %v", err)
	}

	want := from.Add(time.Minute)
	if !next.Equal(want) {
		t.Errorf("next = %v, want %v", next, want)
	}
}

func TestCalculateNextDue_NeitherCronNorInterval(t *testing.T) {
	sched := &domain.Schedule{Timezone: "UTC"}

	_, err := CalculateNextDue(sched, time.Now())
	if err == nil {
		t.Fatal("expected error for schedule without cron_expr and interval_sec")
	}
}

func TestValidateCronExpr(t *testing.T) {
	if err := ValidateCronExpr("*/5 * * * *"); err != nil {
		t.Errorf("ValidateCronExpr(valid) error: %v", err)
	}

	err := ValidateCronExpr("not a cron")
	if err == nil {
		t.Fatal("expected error for invalid expression")
	}
	if !strings.Contains(err.Error(), "invalid cron expression") {
		t.Errorf("unexpected error message: %v", err)
	}
}
