package patient

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medhq/hospital-api/internal/model"
	"github.com/medhq/hospital-api/internal/store"
	"github.com/medhq/hospital-api/internal/store/storetest"
)

func testInput() Input {
	return Input{
		Name:        "Jane Roe",
		Email:       "jane@example.com",
		Phone:       "555-0100",
		DateOfBirth: "1990-04-15",
		Gender:      "female",
		BloodGroup:  "O+",
		Address:     "12 Elm Street",
	}
}

func TestCreateThenGetRoundTrip(t *testing.T) {
	fake := storetest.New()
	svc := NewService(fake)

	actor := &model.Identity{ID: uuid.New(), Role: model.RoleStaff}
	id, err := svc.Create(context.Background(), actor, testInput())
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Jane Roe", got.Name)
	assert.Equal(t, "1990-04-15", got.DateOfBirth)
	assert.Equal(t, "O+", got.BloodGroup)

	row := fake.Row(store.Patients, id)
	assert.Equal(t, actor.ID, row["registered_by"])
}

func TestUpdateIsIdempotent(t *testing.T) {
	fake := storetest.New()
	svc := NewService(fake)

	actor := &model.Identity{ID: uuid.New()}
	id, err := svc.Create(context.Background(), actor, testInput())
	require.NoError(t, err)

	input := testInput()
	input.Phone = "555-0199"

	require.NoError(t, svc.Update(context.Background(), id, input))
	require.NoError(t, svc.Update(context.Background(), id, input))

	got, err := svc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "555-0199", got.Phone)
	assert.Equal(t, "Jane Roe", got.Name)
}

func TestGetUnknownReturnsNotFound(t *testing.T) {
	svc := NewService(storetest.New())

	_, err := svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestChoicesOrderedByName(t *testing.T) {
	fake := storetest.New()
	svc := NewService(fake)

	fake.Seed(store.Patients, uuid.New(), store.Row{"name": "Charlie"})
	fake.Seed(store.Patients, uuid.New(), store.Row{"name": "Alice"})
	fake.Seed(store.Patients, uuid.New(), store.Row{"name": "Bob"})

	patients, err := svc.Choices(context.Background())
	require.NoError(t, err)
	require.Len(t, patients, 3)
	assert.Equal(t, "Alice", patients[0].Name)
	assert.Equal(t, "Bob", patients[1].Name)
	assert.Equal(t, "Charlie", patients[2].Name)
}
