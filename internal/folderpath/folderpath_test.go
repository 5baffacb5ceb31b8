package folderpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name       string
		parentPath string
		parentName string
		want       string
	}{
		{"child of root folder", "/", "Trips", "/Trips"},
		{"grandchild", "/Trips", "2024", "/Trips/2024"},
		{"deep", "/Trips/2024", "Summer", "/Trips/2024/Summer"},
		{"name with spaces", "/", "My Photos", "/My Photos"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.parentPath, tt.parentName))
		})
	}
}

func TestRoot(t *testing.T) {
	assert.Equal(t, "/", Root)
}
