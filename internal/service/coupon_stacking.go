package service

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/Innovatio-dev/tof-checkout/internal/commerce"
	"github.com/Innovatio-dev/tof-checkout/internal/constants"
)

// Stacking rejection reasons surfaced to the checkout form.
const (
	ReasonStackIndividualUse = "This coupon cannot be combined with other offers."
	ReasonStackDuplicate     = "This promo code is already applied."
	ReasonStackConflict      = "This promo code can't be stacked with one already applied."
)

// StackDecision is the stacking guard verdict. ConflictCode names the
// already-applied coupon that triggered a denial.
type StackDecision struct {
	Allowed      bool   `json:"allowed"`
	Reason       string `json:"reason,omitempty"`
	ConflictCode string `json:"conflictCode,omitempty"`
}

// CanStack decides whether a candidate coupon may join the already
// accepted set. The 2-coupon cap is the caller's job; the guard only
// judges pairwise compatibility. First conflict wins.
func CanStack(existing []*commerce.Coupon, candidate *commerce.Coupon) StackDecision {
	if len(existing) == 0 {
		return StackDecision{Allowed: true}
	}

	if candidate.IndividualUse {
		return StackDecision{Allowed: false, Reason: ReasonStackIndividualUse}
	}

	candidateExclusions := parseExclusions(candidate)
	candidateCategories := normalizeSlugs(candidate.CouponCategories)

	for _, member := range existing {
		if member.IndividualUse {
			return StackDecision{Allowed: false, Reason: ReasonStackIndividualUse, ConflictCode: member.Code}
		}

		if normalizeCode(member.Code) == normalizeCode(candidate.Code) {
			return StackDecision{Allowed: false, Reason: ReasonStackDuplicate, ConflictCode: member.Code}
		}

		memberCategories := normalizeSlugs(member.CouponCategories)
		if categoriesMutuallyExclusive(candidateCategories, memberCategories) {
			return StackDecision{Allowed: false, Reason: ReasonStackConflict, ConflictCode: member.Code}
		}

		memberExclusions := parseExclusions(member)
		if memberExclusions.excludes(candidate.ID, candidateCategories) ||
			candidateExclusions.excludes(member.ID, memberCategories) {
			return StackDecision{Allowed: false, Reason: ReasonStackConflict, ConflictCode: member.Code}
		}
	}

	return StackDecision{Allowed: true}
}

// categoriesMutuallyExclusive reports whether the two category sets hit
// the affiliate/active pair, the one combination the business forbids.
func categoriesMutuallyExclusive(a, b map[string]bool) bool {
	return (a[constants.CouponCategoryAffiliate] && b[constants.CouponCategoryActive]) ||
		(a[constants.CouponCategoryActive] && b[constants.CouponCategoryAffiliate])
}

// exclusionSet is the parsed form of a coupon's explicit stacking
// exclusion metadata.
type exclusionSet struct {
	ids        map[int64]bool
	categories map[string]bool
}

func (e exclusionSet) excludes(otherID int64, otherCategories map[string]bool) bool {
	if e.ids[otherID] {
		return true
	}
	for slug := range otherCategories {
		if e.categories[slug] {
			return true
		}
	}
	return false
}

func parseExclusions(coupon *commerce.Coupon) exclusionSet {
	return exclusionSet{
		ids:        parseIDList(commerceMetaValue(coupon, constants.CouponMetaExcludedIDs)),
		categories: parseSlugList(commerceMetaValue(coupon, constants.CouponMetaExcludedCategories)),
	}
}

func commerceMetaValue(coupon *commerce.Coupon, key string) interface{} {
	for _, entry := range coupon.MetaData {
		if entry.Key == key {
			return entry.Value
		}
	}
	return nil
}

// parseIDList accepts the metadata value as a JSON array, a Go slice, or
// a comma-separated string; admin plugins store it inconsistently.
func parseIDList(value interface{}) map[int64]bool {
	ids := map[int64]bool{}
	for _, token := range metaTokens(value) {
		if id, err := strconv.ParseInt(token, 10, 64); err == nil && id > 0 {
			ids[id] = true
		}
	}
	return ids
}

func parseSlugList(value interface{}) map[string]bool {
	slugs := map[string]bool{}
	for _, token := range metaTokens(value) {
		if normalized := strings.ToLower(strings.TrimSpace(token)); normalized != "" {
			slugs[normalized] = true
		}
	}
	return slugs
}

func metaTokens(value interface{}) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return nil
		}
		if strings.HasPrefix(trimmed, "[") {
			var entries []interface{}
			if json.Unmarshal([]byte(trimmed), &entries) == nil {
				return metaTokens(entries)
			}
		}
		return strings.Split(trimmed, ",")
	case []interface{}:
		tokens := make([]string, 0, len(v))
		for _, entry := range v {
			switch e := entry.(type) {
			case string:
				tokens = append(tokens, e)
			case float64:
				tokens = append(tokens, strconv.FormatInt(int64(e), 10))
			}
		}
		return tokens
	case []string:
		return v
	case float64:
		return []string{strconv.FormatInt(int64(v), 10)}
	default:
		return nil
	}
}

func normalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

func normalizeSlugs(slugs []string) map[string]bool {
	set := map[string]bool{}
	for _, slug := range slugs {
		if normalized := strings.ToLower(strings.TrimSpace(slug)); normalized != "" {
			set[normalized] = true
		}
	}
	return set
}
