package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/orderledger/backend/internal/domain"
)

func TestItemMatcher_Match(t *testing.T) {
	items := []domain.LineItem{
		{Title: "Logitech M185 Draadloze Muis, Grijs", ProductID: "B004YAVF8I"},
		{Title: "Anker USB-C naar USB-C kabel 1,8 m", ProductID: " B07XYZ1234 "},
		{Title: "Bureaulamp LED dimbaar"},
	}
	matcher := NewItemMatcher(false)

	tests := []struct {
		name      string
		fragment  domain.ShipmentFragment
		wantMatch bool
		wantIndex int
		wantRule  string
	}{
		{
			name:      "product id equality",
			fragment:  domain.ShipmentFragment{ProductID: "B004YAVF8I", Title: "Iets anders"},
			wantMatch: true,
			wantIndex: 0,
			wantRule:  domain.MatchRuleProductID,
		},
		{
			name:      "product ids are trimmed",
			fragment:  domain.ShipmentFragment{ProductID: "B07XYZ1234 "},
			wantMatch: true,
			wantIndex: 1,
			wantRule:  domain.MatchRuleProductID,
		},
		{
			name:      "truncated title is contained in item title",
			fragment:  domain.ShipmentFragment{Title: "Bureaulamp LED"},
			wantMatch: true,
			wantIndex: 2,
			wantRule:  domain.MatchRuleTitle,
		},
		{
			name:      "unknown product id falls back to title",
			fragment:  domain.ShipmentFragment{ProductID: "B0UNKNOWN1", Title: "Anker USB-C"},
			wantMatch: true,
			wantIndex: 1,
			wantRule:  domain.MatchRuleTitle,
		},
		{
			name:      "product id is case sensitive",
			fragment:  domain.ShipmentFragment{ProductID: "b004yavf8i"},
			wantMatch: false,
			wantIndex: -1,
		},
		{
			name:      "fragment title longer than item title",
			fragment:  domain.ShipmentFragment{Title: "Bureaulamp LED dimbaar met USB-poort"},
			wantMatch: false,
			wantIndex: -1,
		},
		{
			name:      "empty fragment never matches",
			fragment:  domain.ShipmentFragment{},
			wantMatch: false,
			wantIndex: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := matcher.Match(tt.fragment, items)

			assert.Equal(t, tt.wantMatch, got.Matched)
			assert.Equal(t, tt.wantIndex, got.Index)
			assert.Equal(t, tt.wantRule, got.Rule)
			assert.Equal(t, tt.fragment, got.Fragment)
			if tt.wantMatch {
				assert.Equal(t, items[tt.wantIndex], got.Item)
				assert.Empty(t, got.Reason)
			} else {
				assert.NotEmpty(t, got.Reason)
			}
		})
	}
}

func TestItemMatcher_NoItems(t *testing.T) {
	got := NewItemMatcher(true).Match(domain.ShipmentFragment{ProductID: "B004YAVF8I", Title: "Muis"}, nil)
	assert.False(t, got.Matched)
	assert.Contains(t, got.Reason, "B004YAVF8I")
	assert.Contains(t, got.Reason, "Muis")
}
