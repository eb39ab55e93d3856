// Package impact projects what a gift accomplishes in each program.
package impact

import (
	"fmt"
	"math"
	"strings"
)

// Amount bounds for the calculator.
const (
	MinAmount     = 25
	MaxAmount     = 2500
	AmountStep    = 25
	DefaultAmount = 250
)

// Cadence is whether a pledge repeats.
type Cadence string

// Cadences.
const (
	CadenceMonthly Cadence = "monthly"
	CadenceOneTime Cadence = "one-time"
)

// ParseCadence accepts "monthly" or "one-time" in any case.
func ParseCadence(s string) (Cadence, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "monthly":
		return CadenceMonthly, nil
	case "one-time", "onetime", "once":
		return CadenceOneTime, nil
	}
	return "", fmt.Errorf("unknown cadence %q", s)
}

// Ratio converts dollars into one outcome.
type Ratio struct {
	Unit      string  // plural noun, e.g. "meals"
	PerDollar float64 // outcomes per dollar, used when Every is 0
	Every     float64 // dollars per outcome
}

func (r Ratio) apply(amount float64) int {
	if r.Every > 0 {
		return roundHalfUp(amount / r.Every)
	}
	return roundHalfUp(amount * r.PerDollar)
}

// Program is a focus area with its impact ratios.
type Program struct {
	Key         string
	Name        string
	Description string
	Headline    Ratio
	Secondary   Ratio
	Tertiary    Ratio
}

// Programs returns the calculator programs in display order.
func Programs() []Program {
	return []Program{
		{
			Key:         "nourishment",
			Name:        "Community Nourishment",
			Description: "Fresh produce boxes, culturally rooted cooking classes, and neighborhood food hubs.",
			Headline:    Ratio{Unit: "meals", PerDollar: 2.8},
			Secondary:   Ratio{Unit: "families supported", Every: 25},
			Tertiary:    Ratio{Unit: "youth workshops funded", Every: 250},
		},
		{
			Key:         "healing",
			Name:        "Healing Arts & Wellness",
			Description: "Trauma-informed counseling, mindfulness labs, and healing arts residencies.",
			Headline:    Ratio{Unit: "therapy minutes", PerDollar: 2.2},
			Secondary:   Ratio{Unit: "wellness kits delivered", Every: 120},
			Tertiary:    Ratio{Unit: "cohort scholarships", Every: 500},
		},
		{
			Key:         "shelter",
			Name:        "Safe Harbor Housing",
			Description: "Transitional housing, survivor navigation, and rapid rehousing stipends.",
			Headline:    Ratio{Unit: "safe nights", PerDollar: 0.35},
			Secondary:   Ratio{Unit: "households stabilized", Every: 400},
			Tertiary:    Ratio{Unit: "safety audits completed", Every: 150},
		},
	}
}

// ProgramByKey finds a program by key or name, case-insensitive.
func ProgramByKey(key string) (Program, error) {
	key = strings.TrimSpace(key)
	for _, p := range Programs() {
		if strings.EqualFold(key, p.Key) || strings.EqualFold(key, p.Name) {
			return p, nil
		}
	}
	return Program{}, fmt.Errorf("unknown program %q", key)
}

// Outcome is one projected result line.
type Outcome struct {
	Count int
	Unit  string
}

func (o Outcome) String() string {
	return fmt.Sprintf("%d %s", o.Count, o.Unit)
}

// Projection is what a pledge accomplishes over a year.
type Projection struct {
	Program      Program
	Amount       int
	Cadence      Cadence
	AnnualAmount int
	Headline     Outcome
	Secondary    Outcome
	Tertiary     Outcome
}

// Project computes the yearly impact of giving amount at cadence to p.
// Monthly pledges are annualized.
func Project(p Program, amount int, cadence Cadence) Projection {
	annual := amount
	if cadence == CadenceMonthly {
		annual = amount * 12
	}
	a := float64(annual)
	return Projection{
		Program:      p,
		Amount:       amount,
		Cadence:      cadence,
		AnnualAmount: annual,
		Headline:     Outcome{Count: p.Headline.apply(a), Unit: p.Headline.Unit},
		Secondary:    Outcome{Count: p.Secondary.apply(a), Unit: p.Secondary.Unit},
		Tertiary:     Outcome{Count: p.Tertiary.apply(a), Unit: p.Tertiary.Unit},
	}
}

// Clamp limits amount to the calculator range and snaps it to the step.
func Clamp(amount int) int {
	if amount < MinAmount {
		return MinAmount
	}
	if amount > MaxAmount {
		return MaxAmount
	}
	return roundHalfUp(float64(amount)/AmountStep) * AmountStep
}

func roundHalfUp(f float64) int {
	return int(math.Floor(f + 0.5))
}
