package store_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/onair/internal/domain/team"
	"github.com/osa030/onair/internal/infra/store"
	"github.com/osa030/onair/internal/infra/store/storetest"
)

func seedMembers(t *testing.T, repo *store.Repository[team.Member], n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		m := &team.Member{
			ID:        fmt.Sprintf("member-%02d", i),
			Name:      fmt.Sprintf("Member %02d", i),
			SortOrder: i,
			IsActive:  i%2 == 0,
		}
		require.NoError(t, repo.Create(context.Background(), m))
	}
}

func TestRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := store.NewRepository[team.Member](storetest.Open(t))

	m := &team.Member{ID: "member-1", Name: "Ana", Role: "Host"}
	require.NoError(t, repo.Create(ctx, m))

	got, err := repo.Get(ctx, "member-1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Name)
	assert.False(t, got.CreatedAt.IsZero())

	got.Role = "Producer"
	require.NoError(t, repo.Save(ctx, got))

	found, err := repo.FindBy(ctx, "name", "Ana")
	require.NoError(t, err)
	assert.Equal(t, "Producer", found.Role)

	require.NoError(t, repo.Delete(ctx, "member-1"))

	_, err = repo.Get(ctx, "member-1")
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = repo.Delete(ctx, "member-1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRepository_CreateDuplicate(t *testing.T) {
	ctx := context.Background()
	repo := store.NewRepository[team.Member](storetest.Open(t))

	require.NoError(t, repo.Create(ctx, &team.Member{ID: "member-1", Name: "Ana"}))
	err := repo.Create(ctx, &team.Member{ID: "member-1", Name: "Bea"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrDuplicate))
}

func TestRepository_List(t *testing.T) {
	ctx := context.Background()
	repo := store.NewRepository[team.Member](storetest.Open(t))
	seedMembers(t, repo, 25)

	tests := []struct {
		name          string
		query         store.Query
		wantItems     int
		wantTotal     int64
		wantPage      int
		wantPageSize  int
		wantPages     int
		wantFirstName string
	}{
		{
			name:          "defaults",
			query:         store.Query{Order: "sort_order"},
			wantItems:     10,
			wantTotal:     25,
			wantPage:      1,
			wantPageSize:  10,
			wantPages:     3,
			wantFirstName: "Member 01",
		},
		{
			name:          "last page",
			query:         store.Query{Page: 3, Order: "sort_order"},
			wantItems:     5,
			wantTotal:     25,
			wantPage:      3,
			wantPageSize:  10,
			wantPages:     3,
			wantFirstName: "Member 21",
		},
		{
			name:          "page size clamped",
			query:         store.Query{PageSize: 1000, Order: "sort_order desc"},
			wantItems:     25,
			wantTotal:     25,
			wantPage:      1,
			wantPageSize:  100,
			wantPages:     1,
			wantFirstName: "Member 25",
		},
		{
			name:          "filtered",
			query:         store.Query{Order: "sort_order"}.Where("is_active = ?", true),
			wantItems:     10,
			wantTotal:     12,
			wantPage:      1,
			wantPageSize:  10,
			wantPages:     2,
			wantFirstName: "Member 02",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := repo.List(ctx, tt.query)
			require.NoError(t, err)

			assert.Len(t, page.Items, tt.wantItems)
			assert.Equal(t, tt.wantTotal, page.Total)
			assert.Equal(t, tt.wantPage, page.Page)
			assert.Equal(t, tt.wantPageSize, page.PageSize)
			assert.Equal(t, tt.wantPages, page.TotalPages)
			assert.Equal(t, tt.wantFirstName, page.Items[0].Name)
		})
	}
}

func TestRepository_AllAndCount(t *testing.T) {
	ctx := context.Background()
	repo := store.NewRepository[team.Member](storetest.Open(t))
	seedMembers(t, repo, 4)

	all, err := repo.All(ctx, store.Query{Order: "sort_order desc"})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "Member 04", all[0].Name)

	count, err := repo.Count(ctx, store.Query{}.Where("is_active = ?", false))
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestQuery_Where_DoesNotAlias(t *testing.T) {
	base := store.Query{}.Where("a = ?", 1)
	q1 := base.Where("b = ?", 2)
	q2 := base.Where("c = ?", 3)

	assert.Len(t, base.Conditions, 1)
	assert.Equal(t, "b = ?", q1.Conditions[1].Expr)
	assert.Equal(t, "c = ?", q2.Conditions[1].Expr)
}

func TestPage_HasNext(t *testing.T) {
	assert.True(t, store.Page[int]{Page: 1, TotalPages: 2}.HasNext())
	assert.False(t, store.Page[int]{Page: 2, TotalPages: 2}.HasNext())
	assert.False(t, store.Page[int]{Page: 1, TotalPages: 0}.HasNext())
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := store.Open(store.Config{Driver: "oracle"})
	assert.Error(t, err)
}
