package progress

import (
	"time"

	"github.com/yoman-app/yoman-api/internal/domain"
	"github.com/yoman-app/yoman-api/internal/hebcal"
)

// Source describes how the effective set was chosen.
type Source string

// Resolution sources, in precedence order.
const (
	SourceExplicit Source = "explicit"
	SourceMonthly  Source = "monthly"
	SourceNone     Source = "none"
)

// Resolution is the effective question set for a user at a given moment.
type Resolution struct {
	Set     *domain.QuestionSet
	Pointer *domain.ActiveSetPointer
	// Implicit is true when the pointer was synthesised from the monthly
	// default and has not been stored on the user yet.
	Implicit bool
}

// Found reports whether there is an effective set.
func (r Resolution) Found() bool {
	return r.Set != nil && r.Pointer != nil
}

// Source reports which rule produced the resolution.
func (r Resolution) Source() Source {
	switch {
	case !r.Found():
		return SourceNone
	case r.Implicit:
		return SourceMonthly
	default:
		return SourceExplicit
	}
}

// Resolve picks the set the user should see now:
//
//  1. the set the pointer references, if it is still in the catalog, even
//     when the user opted out of it;
//  2. otherwise the monthly set of now's Hebrew month, unless opted out, with
//     a fresh pointer at question 0 started now;
//  3. otherwise nothing.
//
// A pointer to a deleted set falls through to rule 2. The catalog is assumed
// to hold at most one monthly set per month key.
func Resolve(
	pointer *domain.ActiveSetPointer,
	catalog []*domain.QuestionSet,
	optOuts domain.OptOutSet,
	now time.Time,
) Resolution {
	if pointer != nil {
		for _, set := range catalog {
			if set != nil && set.ID == pointer.SetID {
				p := *pointer
				return Resolution{Set: set, Pointer: &p}
			}
		}
	}

	key := hebcal.MonthKeyFor(now)
	for _, set := range catalog {
		if set == nil || !set.IsMonthlyFor(key) {
			continue
		}
		if optOuts.Contains(set.ID) {
			break
		}
		return Resolution{
			Set:      set,
			Pointer:  domain.StartSet(set.ID, now),
			Implicit: true,
		}
	}

	return Resolution{}
}

// MonthlySetFor returns the monthly set of the Hebrew month containing now,
// ignoring opt-outs, or nil.
func MonthlySetFor(catalog []*domain.QuestionSet, now time.Time) *domain.QuestionSet {
	key := hebcal.MonthKeyFor(now)
	for _, set := range catalog {
		if set != nil && set.IsMonthlyFor(key) {
			return set
		}
	}
	return nil
}
