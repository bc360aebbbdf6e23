package dataset

import (
	"reflect"
	"testing"

	"github.com/starford/tiwaz/internal/models"
)

func obj(id int, parent ...int) models.Objective {
	o := models.Objective{ID: id}
	if len(parent) > 0 {
		p := parent[0]
		o.ParentID = &p
	}
	return o
}

func TestFindCycle(t *testing.T) {
	tests := []struct {
		name string
		objs []models.Objective
		want []int
	}{
		{"forest", []models.Objective{obj(1), obj(2, 1), obj(3, 2), obj(4)}, nil},
		{"dangling parent", []models.Objective{obj(1, 42), obj(2, 1)}, nil},
		{"self loop", []models.Objective{obj(1, 1)}, []int{1}},
		{"two node loop", []models.Objective{obj(1), obj(2, 3), obj(3, 2)}, []int{2, 3}},
		{"tail into loop", []models.Objective{obj(5, 6), obj(6, 7), obj(7, 6)}, []int{6, 7}},
		{"empty", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindCycle(tt.objs)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FindCycle = %v, want %v", got, tt.want)
			}
		})
	}
}
