package shader

import (
	"errors"
	"testing"
)

func TestLocateUniforms(t *testing.T) {
	active := map[string]int32{"uProj": 0, "uModel": 1, "uUVMin": 2}
	lookup := func(name string) int32 {
		if loc, ok := active[name]; ok {
			return loc
		}
		return -1
	}

	tests := []struct {
		name    string
		names   []string
		want    []int32
		wantErr bool
	}{
		{"all present", []string{"uModel", "uProj"}, []int32{1, 0}, false},
		{"location zero is valid", []string{"uProj"}, []int32{0}, false},
		{"optimized away", []string{"uProj", "uUVMax"}, nil, true},
		{"none", nil, []int32{}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := locateUniforms(lookup, tc.names)
			if tc.wantErr {
				if !errors.Is(err, ErrUniformNotFound) {
					t.Fatalf("error = %v, want ErrUniformNotFound", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("location %d = %d, want %d", i, got[i], tc.want[i])
				}
			}
		})
	}
}
