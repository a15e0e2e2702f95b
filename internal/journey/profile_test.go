package journey

import (
	"context"
	"testing"
)

func TestOnboardingRequiresAllFields(t *testing.T) {
	ctx := context.Background()
	e := NewEngine(newMemStore())

	if err := e.SaveName(ctx, "  Nemi  "); err != nil {
		t.Fatal(err)
	}
	profile, err := e.Profile(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if profile.Name != "Nemi" {
		t.Fatalf("expected trimmed name, got %q", profile.Name)
	}
	if profile.HasOnboarded {
		t.Fatal("name alone must not complete onboarding")
	}

	if err := e.SaveIntent(ctx, "meditate daily"); err != nil {
		t.Fatal(err)
	}
	if err := e.SaveCompanion(ctx, CompanionDrillSergeant); err != nil {
		t.Fatal(err)
	}

	profile, err = e.Profile(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !profile.HasOnboarded {
		t.Fatal("expected onboarding complete")
	}
	if profile.Companion != CompanionDrillSergeant {
		t.Fatalf("expected drill sergeant, got %q", profile.Companion)
	}
}

func TestSaveRejectsEmptyValues(t *testing.T) {
	ctx := context.Background()
	e := NewEngine(newMemStore())

	if err := e.SaveName(ctx, "   "); err == nil {
		t.Fatal("expected empty name to be rejected")
	}
	if err := e.SaveIntent(ctx, ""); err == nil {
		t.Fatal("expected empty intent to be rejected")
	}
	if err := e.SaveCompanion(ctx, Companion("robot")); err == nil {
		t.Fatal("expected unknown companion to be rejected")
	}
}

func TestCompanionFallbackDescription(t *testing.T) {
	unknown := Companion("robot")
	if unknown.Description() != CompanionFriend.Description() {
		t.Fatal("unknown companions must fall back to the friend tone")
	}
	if CompanionDrillSergeant.DisplayName() != "Drill Sergeant" {
		t.Fatalf("unexpected display name: %s", CompanionDrillSergeant.DisplayName())
	}
}
