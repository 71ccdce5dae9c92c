package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateJSON(t *testing.T) {
	d := NewDate(2024, time.June, 1)
	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-06-01"`, string(b))

	var back Date
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, d, back)
	assert.Equal(t, "1 June 2024", back.Display())
}

func TestDateRejectsGarbage(t *testing.T) {
	var d Date
	assert.Error(t, json.Unmarshal([]byte(`"01/06/2024"`), &d))
}

func TestAbsentIsNotEmpty(t *testing.T) {
	absent := Alert{}
	empty := Alert{Details: Ptr("")}

	assert.False(t, EqualPtr(absent.Details, empty.Details))
	assert.True(t, EqualPtr[string](nil, nil))

	b, err := json.Marshal(absent)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"details":null`)
}

func TestEqualSliceTreatsNilAsEmpty(t *testing.T) {
	assert.True(t, EqualSlice[int](nil, []int{}))
	assert.False(t, EqualSlice([]int{1, 2}, []int{2, 1}))
}

func TestFullNameSkipsEmptyParts(t *testing.T) {
	p := PersonDetails{FirstName: "Ada", LastName: "Lovelace"}
	assert.Equal(t, "Ada Lovelace", p.FullName())
}

func TestAbsentMiddleNameIsNull(t *testing.T) {
	p := PersonDetails{FirstName: "Ada", LastName: "Lovelace"}
	b, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"middle_name":null`)

	p.MiddleName = Ptr("Augusta")
	assert.Equal(t, "Ada Augusta Lovelace", p.FullName())
	assert.Equal(t, "Augusta", Value(p.MiddleName))
	assert.Equal(t, "", Value[string](nil))
}
