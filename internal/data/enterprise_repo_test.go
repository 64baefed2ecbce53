package data

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flashbackfa/entreprise-api/internal/domain/model"
	"github.com/flashbackfa/entreprise-api/internal/testutil"
)

func createTestEnterprise(t *testing.T, db *sql.DB) *model.Enterprise {
	t.Helper()
	repo := NewEnterpriseRepo(db)
	e, err := repo.Create(context.Background(), &model.CreateEnterpriseRequest{
		GuildID:     fmt.Sprintf("guild-%d", time.Now().UnixNano()),
		Name:        fmt.Sprintf("ent-%d", time.Now().UnixNano()),
		Type:        "mechanic",
		SalaryBase:  500,
		RunRate:     40,
		SaleRate:    25,
		InvoiceRate: 10,
	})
	require.NoError(t, err)
	return e
}

func TestEnterpriseRepo_Create_Get_List_Update_Delete(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewEnterpriseRepo(db)

		e := createTestEnterprise(t, db)
		require.NotEmpty(t, e.ID)
		assert.False(t, e.BlanchimentEnabled)
		assert.NotZero(t, e.CreatedAt)

		got, err := repo.GetByID(ctx, e.ID)
		require.NoError(t, err)
		assert.Equal(t, e.Name, got.Name)

		byGuild, err := repo.GetByGuildID(ctx, e.GuildID)
		require.NoError(t, err)
		assert.Equal(t, e.ID, byGuild.ID)

		lst, err := repo.List(ctx, 10, 0)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(lst), 1)

		updated, err := repo.Update(ctx, e.ID, model.UpdateEnterpriseRequest{
			Name:               testutil.StringPtr("Bennys Custom"),
			RunRate:            testutil.Int64Ptr(55),
			BlanchimentEnabled: testutil.BoolPtr(true),
		})
		require.NoError(t, err)
		assert.Equal(t, "Bennys Custom", updated.Name)
		assert.Equal(t, int64(55), updated.RunRate)
		assert.True(t, updated.BlanchimentEnabled)
		// untouched fields keep their values
		assert.Equal(t, int64(500), updated.SalaryBase)

		ok, err := repo.Delete(ctx, e.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		_, err = repo.GetByID(ctx, e.ID)
		assert.ErrorIs(t, err, ErrEnterpriseNotFound)

		ok, err = repo.Delete(ctx, e.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestEnterpriseRepo_DuplicateGuild(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewEnterpriseRepo(db)

		e := createTestEnterprise(t, db)

		_, err := repo.Create(ctx, &model.CreateEnterpriseRequest{
			GuildID: e.GuildID,
			Name:    "another",
		})
		assert.ErrorIs(t, err, ErrEnterpriseExists)
	})
}

func TestEnterpriseRepo_EmptyUpdateReturnsCurrent(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewEnterpriseRepo(db)

		e := createTestEnterprise(t, db)

		got, err := repo.Update(ctx, e.ID, model.UpdateEnterpriseRequest{})
		require.NoError(t, err)
		assert.Equal(t, e.Name, got.Name)
		assert.Equal(t, e.UpdatedAt.Unix(), got.UpdatedAt.Unix())
	})
}
