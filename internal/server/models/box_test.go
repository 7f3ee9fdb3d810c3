package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBox_Remaining(t *testing.T) {
	total := int64(10)

	b := &Box{SoldCount: 4}
	assert.Nil(t, b.Remaining())

	b.TotalSupply = &total
	assert.Equal(t, int64(6), *b.Remaining())
}

func TestBox_IsNative(t *testing.T) {
	mint := "mint"
	assert.True(t, (&Box{}).IsNative())
	assert.False(t, (&Box{Currency: &mint}).IsNative())
}

func TestUpdateBoxParams_IsEmpty(t *testing.T) {
	assert.True(t, UpdateBoxParams{}.IsEmpty())
	name := "x"
	assert.False(t, UpdateBoxParams{Name: &name}.IsEmpty())
}
