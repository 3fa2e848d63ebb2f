package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentx-labs/commitx/internal/changetype"
	"github.com/agentx-labs/commitx/internal/diffmodel"
)

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.0.0", "1.0.0", 0},
		{"v1.2.0", "1.10.0", -1},
		{"^2.0.0", "1.9.9", 1},
		{"~> 6.1", "7.0", -1},
		{"==2.31.0", "2.28.1", 1},
	}
	for _, tt := range tests {
		got, err := CompareVersions(tt.a, tt.b)
		require.NoError(t, err, "%s vs %s", tt.a, tt.b)
		assert.Equal(t, tt.want, got, "%s vs %s", tt.a, tt.b)
	}

	_, err := CompareVersions("latest", "1.0.0")
	assert.Error(t, err)
}

func TestDepChangeKind(t *testing.T) {
	tests := []struct {
		dep  DepChange
		want changetype.Type
	}{
		{DepChange{Name: "a", To: "1.0.0"}, changetype.DependencyAdd},
		{DepChange{Name: "a", From: "1.0.0"}, changetype.DependencyRemove},
		{DepChange{Name: "a", From: "1.0.0", To: "1.1.0"}, changetype.DependencyUpgrade},
		{DepChange{Name: "a", From: "2.0.0", To: "1.1.0"}, changetype.DependencyDowngrade},
		{DepChange{Name: "a", From: "^1.0", To: "1.0.0"}, ""},
		{DepChange{Name: "a", From: "main", To: "1.0.0"}, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.dep.Kind(), "%+v", tt.dep)
	}
}

func TestParseDependencies(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		hunks string
		want  []DepChange
	}{
		{
			name: "go module",
			path: "go.mod",
			hunks: "-\tgithub.com/spf13/cobra v1.9.0\n" +
				"+\tgithub.com/spf13/cobra v1.10.2\n" +
				"+\tgithub.com/fatih/color v1.18.0 // indirect\n" +
				" go 1.25\n",
			want: []DepChange{
				{Name: "github.com/fatih/color", To: "v1.18.0"},
				{Name: "github.com/spf13/cobra", From: "v1.9.0", To: "v1.10.2"},
			},
		},
		{
			name:  "package.json skips metadata",
			path:  "web/package.json",
			hunks: "-  \"version\": \"1.0.0\",\n+  \"version\": \"1.1.0\",\n+    \"react\": \"^18.2.0\",\n",
			want:  []DepChange{{Name: "react", To: "^18.2.0"}},
		},
		{
			name:  "requirements",
			path:  "requirements-dev.txt",
			hunks: "-requests==2.28.1\n+requests==2.31.0\n-flask>=2.0\n",
			want: []DepChange{
				{Name: "flask", From: "2.0"},
				{Name: "requests", From: "2.28.1", To: "2.31.0"},
			},
		},
		{
			name:  "cargo",
			path:  "Cargo.toml",
			hunks: "-serde = \"1.0.150\"\n+serde = { version = \"1.0.190\", features = [\"derive\"] }\n",
			want:  []DepChange{{Name: "serde", From: "1.0.150", To: "1.0.190"}},
		},
		{
			name:  "gemfile",
			path:  "Gemfile",
			hunks: "+gem 'rails', '~> 7.1'\n",
			want:  []DepChange{{Name: "rails", To: "~> 7.1"}},
		},
		{
			name:  "lock files are not manifests",
			path:  "yarn.lock",
			hunks: "+react@^18.2.0:\n",
			want:  nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := stagedFile(t, diffmodel.Record{Path: tt.path, Hunks: tt.hunks})
			got := ParseDependencies(f)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDependencyType(t *testing.T) {
	deps := []DepChange{
		{Name: "a", To: "1.0.0"},
		{Name: "b", From: "1.0.0", To: "2.0.0"},
	}
	assert.Equal(t, changetype.DependencyAdd, dependencyType(deps))

	deps = append(deps, DepChange{Name: "c", From: "1.0.0", To: "1.0.1"})
	assert.Equal(t, changetype.DependencyUpgrade, dependencyType(deps))

	assert.Equal(t, changetype.Type(""), dependencyType(nil))
}

func TestEcosystem(t *testing.T) {
	assert.Equal(t, "npm", Ecosystem("web/package-lock.json"))
	assert.Equal(t, "Go module", Ecosystem("go.sum"))
	assert.Equal(t, "pip", Ecosystem("requirements.txt"))
	assert.Equal(t, "", Ecosystem("main.go"))
}
