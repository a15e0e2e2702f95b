// internal/journey/profile.go
//
// Onboarding profile: the user's name, stated intent, and chosen companion.
// Immutable once onboarding completes, except through a full reset.

package journey

import (
	"context"
	"fmt"
	"strings"

	"github.com/NemiSanghvi/Better-You/internal/store"
)

// Profile is the user identity consumed by the generator and notifier.
type Profile struct {
	Name      string
	Intent    string
	Companion Companion

	// HasOnboarded is true only when the onboarded flag is set and all three
	// profile fields are present.
	HasOnboarded bool
}

// Profile loads the onboarding state. Absent fields come back empty.
func (e *Engine) Profile(ctx context.Context) (Profile, error) {
	name, _, err := e.store.Get(ctx, store.KeyUserName)
	if err != nil {
		return Profile{}, fmt.Errorf("journey: read profile: %w", err)
	}
	intent, _, err := e.store.Get(ctx, store.KeyUserIntent)
	if err != nil {
		return Profile{}, fmt.Errorf("journey: read profile: %w", err)
	}
	companion, _, err := e.store.Get(ctx, store.KeyCompanionType)
	if err != nil {
		return Profile{}, fmt.Errorf("journey: read profile: %w", err)
	}
	onboarded, _, err := e.store.Get(ctx, store.KeyHasOnboarded)
	if err != nil {
		return Profile{}, fmt.Errorf("journey: read profile: %w", err)
	}

	p := Profile{
		Name:      name,
		Intent:    intent,
		Companion: Companion(companion),
	}
	p.HasOnboarded = onboarded == "true" && name != "" && intent != "" && companion != ""
	return p, nil
}

// SaveName stores the user's name, trimmed. Empty names are rejected.
func (e *Engine) SaveName(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("journey: name is required")
	}
	if err := e.store.Set(ctx, store.KeyUserName, name); err != nil {
		return fmt.Errorf("journey: save name: %w", err)
	}
	return nil
}

// SaveIntent stores the user's goal, trimmed. Empty intents are rejected.
func (e *Engine) SaveIntent(ctx context.Context, intent string) error {
	intent = strings.TrimSpace(intent)
	if intent == "" {
		return fmt.Errorf("journey: intent is required")
	}
	if err := e.store.Set(ctx, store.KeyUserIntent, intent); err != nil {
		return fmt.Errorf("journey: save intent: %w", err)
	}
	return nil
}

// SaveCompanion stores the chosen persona and marks onboarding complete.
func (e *Engine) SaveCompanion(ctx context.Context, c Companion) error {
	if !c.Valid() {
		return fmt.Errorf("journey: unknown companion %q", c)
	}
	if err := e.store.Set(ctx, store.KeyCompanionType, string(c)); err != nil {
		return fmt.Errorf("journey: save companion: %w", err)
	}
	if err := e.store.Set(ctx, store.KeyHasOnboarded, "true"); err != nil {
		return fmt.Errorf("journey: save onboarded flag: %w", err)
	}
	return nil
}
