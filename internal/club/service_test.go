package club

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubgrid/internal/domain"
)

func TestService_RowsMatchColumns(t *testing.T) {
	s, _ := newSeededStore(t)
	svc := NewService(s)

	for _, et := range domain.EntityTypes {
		t.Run(string(et), func(t *testing.T) {
			rows := svc.Rows(et)
			require.NotEmpty(t, rows)
			for _, row := range rows {
				assert.Len(t, row, len(Columns(et)))
			}
			for _, c := range FilterColumns(et) {
				assert.Less(t, c, len(Columns(et)))
			}
		})
	}
}

func TestService_UnknownEntity(t *testing.T) {
	svc := NewService(NewStore(nil))
	assert.Nil(t, svc.Rows("nope"))
	assert.Nil(t, Columns("nope"))
	assert.Nil(t, FilterColumns("nope"))
}

func TestService_RoleRows(t *testing.T) {
	s, _ := newSeededStore(t)
	rows := NewService(s).Rows(domain.EntityRole)
	assert.Equal(t, []string{"R001", "Administrator", "Full access to every screen", "3"}, rows[0])
}

func TestService_ConsumptionRowsResolveNames(t *testing.T) {
	s, _ := newSeededStore(t)
	rows := NewService(s).Rows(domain.EntityConsumption)
	assert.Equal(t, []string{"X001", "Erik Larsen", "Morning Yoga", "120.00", "2025-03-01"}, rows[0])
}

func TestService_MemberRowsShowMainMemberName(t *testing.T) {
	s, _ := newSeededStore(t)
	rows := NewService(s).Rows(domain.EntityMember)

	var greta []string
	for _, r := range rows {
		if r[0] == "M003" {
			greta = r
		}
	}
	require.NotNil(t, greta)
	assert.Equal(t, "Erik Larsen", greta[4])
}

func TestService_MemberPickerRows(t *testing.T) {
	s, _ := newSeededStore(t)
	rows := NewService(s).MemberPickerRows()

	require.NotEmpty(t, rows)
	for _, r := range rows {
		require.Len(t, r, len(MemberPickerColumns))
		want := "false"
		if r[3] == string(domain.MemberMain) {
			want = "true"
		}
		assert.Equal(t, want, r[MemberPickerSelectColumn])
	}
}

func TestService_Counts(t *testing.T) {
	s, _ := newSeededStore(t)
	c := NewService(s).Counts()

	assert.Equal(t, 5, c.Members)
	assert.Equal(t, 3, c.MainMembers)
	assert.Equal(t, 2, c.SubMembers)
	assert.Equal(t, 4, c.Courses)
	assert.Equal(t, 4, c.Roles)
	assert.Equal(t, 5, c.Consumptions)
	assert.InDelta(t, 571.0, c.Revenue, 0.001)
}

func TestLoadSeed(t *testing.T) {
	t.Run("empty path uses built-in data", func(t *testing.T) {
		seed, err := LoadSeed("")
		require.NoError(t, err)
		assert.Len(t, seed.Roles, 4)
	})

	t.Run("reads file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "seed.yaml")
		require.NoError(t, os.WriteFile(path, []byte("roles:\n  - id: x\n    name: Only\n"), 0o644))

		seed, err := LoadSeed(path)
		require.NoError(t, err)
		require.Len(t, seed.Roles, 1)
		assert.Equal(t, "Only", seed.Roles[0].Name)
		assert.Empty(t, seed.Members)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadSeed(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := ParseSeed([]byte("roles: [unterminated"))
		assert.Error(t, err)
	})
}
