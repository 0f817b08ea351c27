package model

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestContactFilterNormalize verifies that missing or non-positive paging values fall back to the
// defaults while valid ones are kept.
func TestContactFilterNormalize(t *testing.T) {
	tests := []struct {
		name        string
		filter      ContactFilter
		wantPage    int
		wantPerPage int
		wantOffset  int
	}{
		{"zero values", ContactFilter{}, 1, 100, 0},
		{"negative values", ContactFilter{Page: -3, RecordsPerPage: -1}, 1, 100, 0},
		{"second page of one", ContactFilter{Page: 2, RecordsPerPage: 1}, 2, 1, 1},
		{"third page of ten", ContactFilter{Page: 3, RecordsPerPage: 10}, 3, 10, 20},
		{"offset overflow", ContactFilter{Page: 92233720368547760, RecordsPerPage: 100}, 92233720368547760, 100, math.MaxInt},
		{"largest page", ContactFilter{Page: math.MaxInt, RecordsPerPage: math.MaxInt}, math.MaxInt, math.MaxInt, math.MaxInt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := tt.filter.Normalize()
			assert.Equal(t, tt.wantPage, n.Page)
			assert.Equal(t, tt.wantPerPage, n.RecordsPerPage)
			assert.Equal(t, tt.wantOffset, tt.filter.Offset())
			assert.Equal(t, tt.wantPerPage, tt.filter.Limit())
		})
	}
}

// TestAuditFields verifies that creation and modification metadata are tracked independently.
func TestAuditFields(t *testing.T) {
	created := time.Date(2025, time.July, 27, 23, 23, 28, 0, time.UTC)
	modified := created.Add(time.Hour)

	var contact Contact
	var auditable Auditable = &contact
	auditable.MarkCreated("alice", created)
	assert.Equal(t, "alice", *contact.CreatedBy)
	assert.Equal(t, created, *contact.CreatedOn)
	assert.Nil(t, contact.LastModifiedBy)
	assert.Nil(t, contact.LastModifiedOn)

	auditable.MarkModified("bob", modified)
	assert.Equal(t, "alice", *contact.CreatedBy)
	assert.Equal(t, created, *contact.CreatedOn)
	assert.Equal(t, "bob", *contact.LastModifiedBy)
	assert.Equal(t, modified, *contact.LastModifiedOn)
}
