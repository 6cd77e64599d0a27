package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func statsOf(values ...int) RatingStats {
	var s RatingStats
	for _, v := range values {
		s.Sum += int64(v)
		s.Count++
	}
	return s
}

func TestRatingStats_Average(t *testing.T) {
	tests := []struct {
		name   string
		values []int
		want   float64
	}{
		{"no ratings", nil, 0},
		{"single", []int{3}, 3},
		{"four and five", []int{4, 5}, 4.5},
		{"rounds down", []int{4, 4, 5}, 4.3},
		{"rounds up", []int{2, 3, 3}, 2.7},
		{"half rounds away from zero", []int{4, 5, 5, 5}, 4.8},
		{"another half", []int{1, 2, 2, 2}, 1.8},
		{"all ones", []int{1, 1, 1, 1, 1}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statsOf(tt.values...).Average())
		})
	}
}
