package diffmodel

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSnapshot_Empty(t *testing.T) {
	s, err := NewSnapshot(nil)
	require.Error(t, err)
	assert.Nil(t, s)
	assert.True(t, errors.Is(err, ErrEmptyStaging))
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func TestNewSnapshot_PreservesOrderAndCounts(t *testing.T) {
	s, err := NewSnapshot([]Record{
		{Path: "b.go", Status: "M", Hunks: "@@ -1,2 +1,2 @@\n ctx\n-old\n+new\n+more\n"},
		{Path: "./a.go", Status: "added", Added: 10},
	})
	require.NoError(t, err)
	require.Equal(t, 2, s.Len())

	files := s.Files()
	assert.Equal(t, "b.go", files[0].Path())
	assert.Equal(t, StatusModified, files[0].Status())
	assert.Equal(t, 2, files[0].Added())
	assert.Equal(t, 1, files[0].Removed())
	assert.Equal(t, 3, files[0].Delta())
	assert.Equal(t, []string{"old", "new", "more"}, files[0].ChangedText())

	assert.Equal(t, "a.go", files[1].Path())
	assert.Equal(t, StatusAdded, files[1].Status())
	assert.Equal(t, 10, files[1].Added())
	assert.Equal(t, 1, files[1].Index())
}

func TestNewSnapshot_UnprefixedHunkTextIsAdded(t *testing.T) {
	s, err := NewSnapshot([]Record{{Path: "README.md", Status: "modified", Hunks: "add install section"}})
	require.NoError(t, err)
	f := s.Files()[0]
	assert.Equal(t, []string{"add install section"}, f.AddedText())
	assert.Equal(t, 1, f.Added())
}

func TestNewSnapshot_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		records []Record
	}{
		{"empty path", []Record{{Path: "  "}}},
		{"unknown status", []Record{{Path: "a", Status: "X"}}},
		{"negative count", []Record{{Path: "a", Added: -1}}},
		{"duplicate path", []Record{{Path: "a"}, {Path: "./a"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSnapshot(tt.records)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidRecord), "got %v", err)
		})
	}
}

func TestNewSnapshot_RenameFromOldPath(t *testing.T) {
	s, err := NewSnapshot([]Record{{Path: "new/x.go", OldPath: "old/x.go"}})
	require.NoError(t, err)
	f := s.Files()[0]
	assert.Equal(t, StatusRenamed, f.Status())
	assert.Equal(t, []string{"old/x.go", "new/x.go"}, f.Paths())
}

func TestChangedFile_LinesIsCopy(t *testing.T) {
	s, err := NewSnapshot([]Record{{Path: "a", Hunks: "+x\n"}})
	require.NoError(t, err)
	f := s.Files()[0]
	lines := f.Lines()
	lines[0].Text = "mutated"
	assert.Equal(t, "x", f.Lines()[0].Text)
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in   string
		want Status
		ok   bool
	}{
		{"", StatusModified, true},
		{"A", StatusAdded, true},
		{"deleted", StatusDeleted, true},
		{"R087", StatusRenamed, true},
		{"renamed", StatusRenamed, true},
		{"U", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseStatus(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
