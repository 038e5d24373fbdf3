package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/vantora-labs/tenant-admin-api/internal/models"
)

var orgTypeTestColumns = []string{
	"id", "code", "name", "category", "icon", "description", "scope", "platform_id",
	"status", "active", "created_by", "approved_by", "approved_at", "rejection_reason",
	"last_reviewed_at", "merge_target_id", "deleted_at", "created_at", "updated_at", "usage_count",
}

func newOrgTypeRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func orgTypeRow(id, code string, platformID *string) []driver.Value {
	now := time.Now()
	scope := models.OrgTypeScopeGlobal
	var platformVal driver.Value
	if platformID != nil {
		scope = models.OrgTypeScopePlatform
		platformVal = *platformID
	}
	return []driver.Value{
		id, code, "Name", "education", "", nil, scope, platformVal,
		models.OrgTypeStatusActive, true, "admin-1", nil, nil, nil,
		nil, nil, nil, now, now, 0,
	}
}

func TestOrganizationTypeRepositoryCreateAndFind(t *testing.T) {
	db, mock, cleanup := newOrgTypeRepoMock(t)
	defer cleanup()

	repo := NewOrganizationTypeRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO organization_types")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	orgType := &models.OrganizationType{
		ID:        "ot-1",
		Code:      "school",
		Name:      "School",
		Category:  "education",
		Scope:     models.OrgTypeScopeGlobal,
		Status:    models.OrgTypeStatusActive,
		Active:    true,
		CreatedBy: "admin-1",
	}
	require.NoError(t, repo.Create(context.Background(), orgType))
	require.False(t, orgType.CreatedAt.IsZero())

	rows := sqlmock.NewRows(orgTypeTestColumns).AddRow(orgTypeRow("ot-1", "school", nil)...)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT t.id, t.code")).
		WithArgs("ot-1").
		WillReturnRows(rows)

	found, err := repo.FindByID(context.Background(), "ot-1")
	require.NoError(t, err)
	require.Equal(t, "school", found.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOrganizationTypeRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newOrgTypeRepoMock(t)
	defer cleanup()

	repo := NewOrganizationTypeRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT t.id, t.code")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(orgTypeTestColumns))

	_, err := repo.FindByID(context.Background(), "missing")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOrganizationTypeRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newOrgTypeRepoMock(t)
	defer cleanup()

	repo := NewOrganizationTypeRepository(db)
	platformID := "plat-1"
	rows := sqlmock.NewRows(orgTypeTestColumns).AddRow(orgTypeRow("ot-2", "clinic", &platformID)...)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT t.id, t.code")).
		WithArgs(models.OrgTypeScopePlatform, platformID, "healthcare").
		WillReturnRows(rows)

	scope := models.OrgTypeScopePlatform
	category := "healthcare"
	types, err := repo.List(context.Background(), models.OrgTypeFilter{
		Scope:      &scope,
		PlatformID: &platformID,
		Category:   &category,
	})
	require.NoError(t, err)
	require.Len(t, types, 1)
	require.Equal(t, "clinic", types[0].Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOrganizationTypeRepositoryUpdateMissingRow(t *testing.T) {
	db, mock, cleanup := newOrgTypeRepoMock(t)
	defer cleanup()

	repo := NewOrganizationTypeRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE organization_types SET")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.OrganizationType{ID: "gone"})
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOrganizationTypeRepositoryCountSiblingCodes(t *testing.T) {
	db, mock, cleanup := newOrgTypeRepoMock(t)
	defer cleanup()

	repo := NewOrganizationTypeRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM organization_types")).
		WithArgs("school", models.OrgTypeScopePlatform, models.OrgTypeStatusActive, "plat-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountSiblingCodes(context.Background(), "school", "plat-1")
	require.NoError(t, err)
	require.Equal(t, 3, count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOrganizationTypeRepositorySearchClampsLimit(t *testing.T) {
	db, mock, cleanup := newOrgTypeRepoMock(t)
	defer cleanup()

	repo := NewOrganizationTypeRepository(db)
	rows := sqlmock.NewRows(orgTypeTestColumns).AddRow(orgTypeRow("ot-1", "clinic", nil)...)
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY usage_count DESC")).
		WithArgs("%clinic%", 100).
		WillReturnRows(rows)

	types, err := repo.Search(context.Background(), models.OrgTypeSearch{Query: "clinic", Limit: 500})
	require.NoError(t, err)
	require.Len(t, types, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOrganizationTypeRepositoryListMergesInProgress(t *testing.T) {
	db, mock, cleanup := newOrgTypeRepoMock(t)
	defer cleanup()

	repo := NewOrganizationTypeRepository(db)
	platformID := "plat-1"
	row := orgTypeRow("ot-3", "school", &platformID)
	row[15] = "ot-global"
	rows := sqlmock.NewRows(orgTypeTestColumns).AddRow(row...)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE t.merge_target_id IS NOT NULL")).
		WillReturnRows(rows)

	types, err := repo.ListMergesInProgress(context.Background())
	require.NoError(t, err)
	require.Len(t, types, 1)
	require.NotNil(t, types[0].MergeTargetID)
	require.Equal(t, "ot-global", *types[0].MergeTargetID)
	require.NoError(t, mock.ExpectationsWereMet())
}
