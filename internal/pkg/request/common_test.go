package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListParamsValidate(t *testing.T) {
	p := ListParams{}
	assert.NoError(t, p.Validate())
	assert.Equal(t, "DESC", p.SortOrder)

	p = ListParams{SortOrder: "asc"}
	assert.NoError(t, p.Validate())
	assert.Equal(t, "ASC", p.SortOrder)

	p = ListParams{SortOrder: "sideways"}
	assert.ErrorIs(t, p.Validate(), ErrInvalidSortOrder)
}
