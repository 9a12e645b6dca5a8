package repositories_test

import (
	"testing"

	"transport_backend/internal/models"
	"transport_backend/internal/repositories"
	"transport_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Параллельные регистрации могут обе пройти ExistsByRCNumber,
// поэтому дубль должен распознаваться и на уровне индекса.
func TestVehicleRepository_DuplicateRCNumber(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := repositories.NewVehicleRepository()
	owner := helpers.CreateUser(t, db, "owner@example.com", "secret123")

	first := &models.Vehicle{OwnerID: owner.ID, RCNumber: "KZ-001", Status: models.VehicleStatusPending}
	require.NoError(t, repo.Create(db, first))

	err := repo.Create(db, &models.Vehicle{OwnerID: owner.ID, RCNumber: "KZ-001", Status: models.VehicleStatusPending})
	assert.ErrorIs(t, err, repositories.ErrVehicleRCExists)

	second := &models.Vehicle{OwnerID: owner.ID, RCNumber: "KZ-002", Status: models.VehicleStatusPending}
	require.NoError(t, repo.Create(db, second))

	second.RCNumber = "KZ-001"
	assert.ErrorIs(t, repo.Save(db, second), repositories.ErrVehicleRCExists)
}
